package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", opts...)
}

func TestListCaseFiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/cases-new/7/files" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[{"file_id":3,"filename":"FIR.txt","file_type":"case_file","status":"success",
			"uploaded_at":"2025-01-02T10:00:00.123456","chunk_count":4}]`)
	})

	files, err := c.ListCaseFiles(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListCaseFiles: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "FIR.txt" {
		t.Fatalf("unexpected files %+v", files)
	}
	if files[0].UploadedAt.Year() != 2025 {
		t.Errorf("naive timestamp not parsed: %v", files[0].UploadedAt)
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Case not found"}`, "Case not found"},
		{"validation list", `{"detail":[{"loc":["body"],"msg":"field required"}]}`, "field required"},
		{"plain text", "bad gateway", "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, tt.body)
			})
			_, err := c.ListAllCases(context.Background())
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if se.Code != http.StatusNotFound || se.Detail != tt.want {
				t.Errorf("got %d %q, want 404 %q", se.Code, se.Detail, tt.want)
			}
		})
	}
}

func TestQueryDefaultsDatabases(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if diff := cmp.Diff(DefaultDatabases, req.Databases); diff != "" {
			t.Errorf("databases (-want +got):\n%s", diff)
		}
		if req.CaseID == nil || *req.CaseID != 9 {
			t.Errorf("case id not sent")
		}
		io.WriteString(w, `{"answer":"yes","sources":[],"confidence":"high","evaluation_metrics":{"score":0.9}}`)
	})

	caseID := int64(9)
	resp, err := c.Query(context.Background(), QueryRequest{Query: "q", CaseID: &caseID})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.Answer != "yes" || resp.EvaluationMetrics.Score != 0.9 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAnalyticsLenientDecode(t *testing.T) {
	bodies := []string{
		`{"analytic_type":"checklist","client_case_id":"5","report":"### Step"}`,
		`{"result":{"report":"### Step"}}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["analytic_type"] != "checklist" || req["client_case_id"] != "5" {
				t.Errorf("unexpected request %v", req)
			}
			io.WriteString(w, body)
		})
		got, err := c.Analytics(context.Background(), 5, "checklist")
		if err != nil {
			t.Fatalf("Analytics: %v", err)
		}
		want := Analytic{Type: "checklist", CaseID: "5", Report: "### Step"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("body %s (-want +got):\n%s", body, diff)
		}
	}
}

func TestAnalyticType(t *testing.T) {
	if typ, ok := AnalyticType("evidence gap analysis"); !ok || typ != "gap_analysis" {
		t.Errorf("got %q %v", typ, ok)
	}
	if _, ok := AnalyticType("Timeline"); ok {
		t.Errorf("unknown heading should not map")
	}
}

func TestUploadCaseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/docs/notice.pdf", []byte("%PDF"), 0o644)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload-file" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "notice.pdf" || string(data) != "%PDF" {
			t.Errorf("unexpected upload %s %q", hdr.Filename, data)
		}
		if r.FormValue("file_type") != "case_file" || r.FormValue("case_id") != "11" {
			t.Errorf("unexpected form values")
		}
		io.WriteString(w, `{"file_id":1,"file_type":"case_file","filename":"notice.pdf","message":"ok"}`)
	}, WithFS(fs))

	res, err := c.UploadCaseFile(context.Background(), 11, "/docs/notice.pdf")
	if err != nil {
		t.Fatalf("UploadCaseFile: %v", err)
	}
	if res.FileID != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	if _, err := c.UploadCaseFile(context.Background(), 11, "/missing.pdf"); err == nil {
		t.Errorf("missing file should fail before any request")
	}
}

func TestUploadNoteNamesFile(t *testing.T) {
	var names []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		names = append(names, hdr.Filename)
		io.WriteString(w, `{}`)
	})
	ctx := context.Background()
	c.UploadNote(ctx, 1, "  ", "text")
	c.UploadNote(ctx, 1, "Hearing prep", "text")
	if diff := cmp.Diff([]string{"Untitled Note.txt", "Hearing prep.txt"}, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestChatSessions(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `[{"id":2,"case_id":4,"title":"t","created_at":"2025-01-01T00:00:00Z","updated_at":null,"message_count":3}]`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			var req SaveChatSessionRequest
			json.NewDecoder(r.Body).Decode(&req)
			if r.Method == http.MethodPut && req.CaseID != nil {
				t.Errorf("update must not resend the case id")
			}
			io.WriteString(w, `{"id":2,"title":"t","messages":[]}`)
		}
	})
	ctx := context.Background()
	caseID := int64(4)

	list, err := c.ListChatSessions(ctx, 4)
	if err != nil || len(list) != 1 || list[0].MessageCount != 3 {
		t.Fatalf("ListChatSessions: %v %+v", err, list)
	}
	c.ListChatSessions(ctx, 0)
	c.CreateChatSession(ctx, SaveChatSessionRequest{CaseID: &caseID})
	c.UpdateChatSession(ctx, 2, SaveChatSessionRequest{CaseID: &caseID})
	if err := c.DeleteChatSession(ctx, 2); err != nil {
		t.Fatalf("DeleteChatSession: %v", err)
	}

	want := []string{
		"GET /api/chat-sessions?case_id=4",
		"GET /api/chat-sessions",
		"POST /api/chat-sessions",
		"PUT /api/chat-sessions/2",
		"DELETE /api/chat-sessions/2",
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
}

func TestClientsAndCases(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, r.Method+" "+r.URL.Path+" "+string(bytes.TrimSpace(body)))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/clients":
			io.WriteString(w, `[{"client_id":1,"client_name":"Asha Rao","phone":null,"address":null,"created_at":"2025-01-02T10:00:00","case_count":2}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/clients":
			io.WriteString(w, `{"client_id":2,"client_name":"Ravi Menon","created_at":"2025-03-01T09:00:00Z","case_count":0}`)
		case r.Method == http.MethodGet:
			io.WriteString(w, `[{"case_id":5,"client_id":1,"description":"Bail hearing","created_at":"2025-01-03T00:00:00","updated_at":"2025-01-04T00:00:00","file_count":3}]`)
		default:
			io.WriteString(w, `{"case_id":6,"client_id":1,"description":null,"created_at":"2025-01-05T00:00:00","updated_at":null,"file_count":0}`)
		}
	})
	ctx := context.Background()

	clients, err := c.ListClients(ctx)
	if err != nil || len(clients) != 1 || clients[0].CaseCount != 2 || clients[0].Phone != nil {
		t.Fatalf("ListClients: %v %+v", err, clients)
	}
	created, err := c.CreateClient(ctx, CreateClientRequest{ClientName: "Ravi Menon"})
	if err != nil || created.ClientID != 2 {
		t.Fatalf("CreateClient: %v %+v", err, created)
	}
	cases, err := c.ListCases(ctx, 1)
	if err != nil || len(cases) != 1 || cases[0].Title() != "Bail hearing" || cases[0].FileCount != 3 {
		t.Fatalf("ListCases: %v %+v", err, cases)
	}
	nc, err := c.CreateCase(ctx, 1, "")
	if err != nil || nc.CaseID != 6 || nc.Description != nil {
		t.Fatalf("CreateCase: %v %+v", err, nc)
	}
	c.CreateCase(ctx, 1, "Appeal")

	want := []string{
		"GET /api/clients ",
		`POST /api/clients {"client_name":"Ravi Menon"}`,
		"GET /api/clients/1/cases ",
		`POST /api/clients/1/cases {"client_id":1}`,
		`POST /api/clients/1/cases {"client_id":1,"description":"Appeal"}`,
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
}

func TestDownloadURL(t *testing.T) {
	c := New("http://example.test/api/")
	if got := c.DownloadURL(8); got != "http://example.test/api/case-files/8/download" {
		t.Errorf("got %s", got)
	}
}
