package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ChecklistHeading is the analytic whose report is turned into to-dos.
const ChecklistHeading = "Procedural Checklist"

// AnalyticTypes maps the analytics table-of-contents headings to the
// backend's analytic_type values, in display order.
var AnalyticTypes = []struct {
	Heading string
	Type    string
}{
	{ChecklistHeading, "checklist"},
	{"Evidence Gap Analysis", "gap_analysis"},
	{"Argument Mapping", "argument_mapping"},
	{"Risk Assessment", "risk_assessment"},
	{"Compliance Tracker", "compliance_tracker"},
}

// AnalyticType returns the backend type for a heading.
func AnalyticType(heading string) (string, bool) {
	for _, a := range AnalyticTypes {
		if strings.EqualFold(a.Heading, heading) {
			return a.Type, true
		}
	}
	return "", false
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func (c *Client) ListClients(ctx context.Context) ([]BackendClient, error) {
	var out []BackendClient
	err := c.doJSON(ctx, http.MethodGet, "/clients", nil, nil, &out)
	return out, err
}

func (c *Client) CreateClient(ctx context.Context, req CreateClientRequest) (BackendClient, error) {
	var out BackendClient
	err := c.doJSON(ctx, http.MethodPost, "/clients", nil, req, &out)
	return out, err
}

func (c *Client) ListAllCases(ctx context.Context) ([]Case, error) {
	var out []Case
	err := c.doJSON(ctx, http.MethodGet, "/all-cases", nil, nil, &out)
	return out, err
}

func (c *Client) ListCases(ctx context.Context, clientID int64) ([]Case, error) {
	var out []Case
	err := c.doJSON(ctx, http.MethodGet, "/clients/"+id(clientID)+"/cases", nil, nil, &out)
	return out, err
}

func (c *Client) CreateCase(ctx context.Context, clientID int64, description string) (Case, error) {
	body := map[string]any{"client_id": clientID}
	if description != "" {
		body["description"] = description
	}
	var out Case
	err := c.doJSON(ctx, http.MethodPost, "/clients/"+id(clientID)+"/cases", nil, body, &out)
	return out, err
}

func (c *Client) ListCaseFiles(ctx context.Context, caseID int64) ([]CaseFile, error) {
	var out []CaseFile
	err := c.doJSON(ctx, http.MethodGet, "/cases-new/"+id(caseID)+"/files", nil, nil, &out)
	return out, err
}

// DownloadURL is where the original bytes of a file can be fetched.
func (c *Client) DownloadURL(fileID int64) string {
	return c.url("/case-files/"+id(fileID)+"/download", nil)
}

// UploadCaseFile reads path from the client's filesystem and uploads it to
// the case for ingestion.
func (c *Client) UploadCaseFile(ctx context.Context, caseID int64, path string) (UploadResult, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.upload(ctx, caseID, filepath.Base(path), f)
}

// UploadNote stores free text as a .txt source, like the web client does.
func (c *Client) UploadNote(ctx context.Context, caseID int64, title, text string) (UploadResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Note"
	}
	return c.upload(ctx, caseID, title+".txt", strings.NewReader(text))
}

func (c *Client) upload(ctx context.Context, caseID int64, filename string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("read %s: %w", filename, err)
	}
	for _, field := range [][2]string{{"file_type", "case_file"}, {"case_id", id(caseID)}} {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return UploadResult{}, fmt.Errorf("write %s: %w", field[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/upload-file", nil), &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := c.send(req)
	if err != nil {
		return UploadResult{}, err
	}
	var out UploadResult
	if err := decode(raw, &out); err != nil {
		return UploadResult{}, fmt.Errorf("decode upload result: %w", err)
	}
	return out, nil
}

// Query runs a retrieval-augmented question against the backend.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	if len(req.Databases) == 0 {
		req.Databases = DefaultDatabases
	}
	var out QueryResponse
	err := c.doJSON(ctx, http.MethodPost, "/query", nil, req, &out)
	return out, err
}

// Analytics fetches (or generates) a report. The response is read leniently:
// the report text may sit at the top level or under "result", and sources
// may be missing.
func (c *Client) Analytics(ctx context.Context, caseID int64, analyticType string) (Analytic, error) {
	body := map[string]string{
		"client_case_id": id(caseID),
		"analytic_type":  analyticType,
	}
	var raw rawJSON
	if err := c.doJSON(ctx, http.MethodPost, "/analytics", nil, body, &raw); err != nil {
		return Analytic{}, err
	}

	res := gjson.ParseBytes(raw)
	report := res.Get("report")
	if !report.Exists() {
		report = res.Get("result.report")
	}
	out := Analytic{
		Type:   firstString(res, "analytic_type", analyticType),
		CaseID: firstString(res, "client_case_id", id(caseID)),
		Report: report.String(),
	}
	res.Get("sources").ForEach(func(_, v gjson.Result) bool {
		out.Sources = append(out.Sources, AISource{
			ID:    v.Get("id").Int(),
			Title: v.Get("title").String(),
			Date:  v.Get("date").String(),
			Type:  v.Get("type").String(),
		})
		return true
	})
	return out, nil
}

func firstString(res gjson.Result, path, fallback string) string {
	if v := res.Get(path); v.Exists() && v.String() != "" {
		return v.String()
	}
	return fallback
}

func (c *Client) ClearAnalyticsCache(ctx context.Context, caseID int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/analytics-cache/"+id(caseID), nil, nil, nil)
}

// ListChatSessions lists sessions, optionally for one case (caseID > 0).
func (c *Client) ListChatSessions(ctx context.Context, caseID int64) ([]ChatSession, error) {
	var q url.Values
	if caseID > 0 {
		q = url.Values{"case_id": {id(caseID)}}
	}
	var out []ChatSession
	err := c.doJSON(ctx, http.MethodGet, "/chat-sessions", q, nil, &out)
	return out, err
}

func (c *Client) GetChatSession(ctx context.Context, sessionID int64) (ChatSessionFull, error) {
	var out ChatSessionFull
	err := c.doJSON(ctx, http.MethodGet, "/chat-sessions/"+id(sessionID), nil, nil, &out)
	return out, err
}

func (c *Client) CreateChatSession(ctx context.Context, req SaveChatSessionRequest) (ChatSessionFull, error) {
	var out ChatSessionFull
	err := c.doJSON(ctx, http.MethodPost, "/chat-sessions", nil, req, &out)
	return out, err
}

func (c *Client) UpdateChatSession(ctx context.Context, sessionID int64, req SaveChatSessionRequest) (ChatSessionFull, error) {
	req.CaseID = nil
	var out ChatSessionFull
	err := c.doJSON(ctx, http.MethodPut, "/chat-sessions/"+id(sessionID), nil, req, &out)
	return out, err
}

func (c *Client) DeleteChatSession(ctx context.Context, sessionID int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat-sessions/"+id(sessionID), nil, nil, nil)
}
