package api

import (
	"bytes"
	"strconv"
	"time"

	"saul/internal/source"
)

// Time accepts the timestamp shapes the backend emits: RFC 3339 and naive
// ISO 8601 without a zone (read as UTC).
type Time struct{ time.Time }

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": unrecognised timestamp"}
}

type BackendClient struct {
	ClientID   int64   `json:"client_id"`
	ClientName string  `json:"client_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	CreatedAt  Time    `json:"created_at"`
	CaseCount  int     `json:"case_count"`
}

type CreateClientRequest struct {
	ClientName string `json:"client_name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

type Case struct {
	CaseID      int64   `json:"case_id"`
	ClientID    int64   `json:"client_id"`
	ClientName  string  `json:"client_name"`
	Description *string `json:"description"`
	CreatedAt   Time    `json:"created_at"`
	UpdatedAt   Time    `json:"updated_at"`
	FileCount   int     `json:"file_count"`
}

// Title is the label shown in case pickers.
func (c Case) Title() string {
	if c.Description != nil && *c.Description != "" {
		return *c.Description
	}
	return "Case #" + strconv.FormatInt(c.CaseID, 10)
}

type CaseFile struct {
	FileID        int64   `json:"file_id"`
	CaseID        int64   `json:"case_id"`
	Filename      string  `json:"filename"`
	Extension     *string `json:"extension"`
	MimeType      *string `json:"mime_type"`
	FileSizeBytes *int64  `json:"file_size_bytes"`
	Status        string  `json:"status"`
	ChunkCount    *int    `json:"chunk_count"`
	ErrorMessage  *string `json:"error_message"`
	UploadedAt    Time    `json:"uploaded_at"`
	IngestedAt    *Time   `json:"ingested_at"`
}

type UploadResult struct {
	Status   string `json:"status"`
	FileType string `json:"file_type"`
	FileID   int64  `json:"file_id,omitempty"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks,omitempty"`
	Message  string `json:"message"`
}

// QueryRequest asks the retrieval pipeline a question.
type QueryRequest struct {
	Query     string   `json:"query"`
	Databases []string `json:"databases,omitempty"`
	CaseID    *int64   `json:"case_id,omitempty"`
}

// DefaultDatabases are searched when a query names none.
var DefaultDatabases = []string{"law_reference_db", "case_history_db", "client_cases_db"}

type AISource struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Type  string `json:"type"`
}

type EvaluationMetrics struct {
	Score                 float64 `json:"score"`
	IsHelpful             bool    `json:"is_helpful"`
	IsGrounded            bool    `json:"is_grounded"`
	HallucinationDetected bool    `json:"hallucination_detected"`
	Reason                string  `json:"reason"`
	Suggestion            string  `json:"suggestion"`
}

type QueryResponse struct {
	Answer            string            `json:"answer"`
	Sources           []AISource        `json:"sources"`
	Confidence        string            `json:"confidence"`
	EvaluationMetrics EvaluationMetrics `json:"evaluation_metrics"`
}

// Analytic is a generated report for one case.
type Analytic struct {
	Type    string     `json:"analytic_type"`
	CaseID  string     `json:"client_case_id"`
	Report  string     `json:"report"`
	Sources []AISource `json:"sources,omitempty"`
}

type ChatSession struct {
	ID           int64  `json:"id"`
	CaseID       *int64 `json:"case_id"`
	Title        string `json:"title"`
	CreatedAt    Time   `json:"created_at"`
	UpdatedAt    Time   `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}

type ChatMessage struct {
	ID             int64   `json:"id,omitempty"`
	Role           string  `json:"role"`
	Content        string  `json:"content"`
	AIResponseJSON *string `json:"ai_response_json"`
	CreatedAt      Time    `json:"created_at,omitzero"`
}

type ChatSessionFull struct {
	ID        int64         `json:"id"`
	CaseID    *int64        `json:"case_id"`
	Title     string        `json:"title"`
	CreatedAt Time          `json:"created_at"`
	UpdatedAt Time          `json:"updated_at"`
	Messages  []ChatMessage `json:"messages"`
}

type SaveChatSessionRequest struct {
	CaseID   *int64        `json:"case_id,omitempty"`
	Title    string        `json:"title,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// Source converts a backend file record into the view-layer variant.
func (f CaseFile) Source(downloadURL string) source.Source {
	info := source.FileInfo{
		ID:         strconv.FormatInt(f.FileID, 10),
		Title:      f.Filename,
		SourceType: "file",
		URL:        downloadURL,
		CreatedAt:  f.UploadedAt.Time,
		Status:     source.Status(f.Status),
	}
	if f.Extension != nil {
		info.FileType = *f.Extension
	}
	if f.FileSizeBytes != nil {
		info.SizeBytes = *f.FileSizeBytes
	}
	if f.ChunkCount != nil {
		info.Chunks = *f.ChunkCount
	}
	if f.ErrorMessage != nil {
		info.Error = *f.ErrorMessage
	}
	return source.File(info)
}
