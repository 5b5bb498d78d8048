package session

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"saul/internal/api"
)

func TestTitle(t *testing.T) {
	if got := Title(nil); got != UntitledChat {
		t.Errorf("empty transcript: got %q", got)
	}
	msgs := []Message{
		{Role: RoleAssistant, Content: "Hello, how can I help?"},
		{Role: RoleUser, Content: "   "},
		{Role: RoleUser, Content: "What is the\nlimitation period?"},
	}
	if got := Title(msgs); got != "What is the limitation period?" {
		t.Errorf("got %q", got)
	}

	long := strings.Repeat("é", 70)
	got := Title([]Message{{Role: RoleUser, Content: long}})
	if got != strings.Repeat("é", 60)+"…" {
		t.Errorf("long title not truncated on runes: %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	resp := api.QueryResponse{
		Answer:     "File within 30 days.",
		Sources:    []api.AISource{{ID: 3, Title: "notice.pdf", Type: "case_file"}},
		Confidence: "high",
	}
	msgs := []Message{NewUserMessage("deadline?"), NewAssistantMessage(resp)}

	req := Save(42, msgs)
	if req.CaseID == nil || *req.CaseID != 42 {
		t.Fatalf("case id not set on save")
	}
	if req.Title != "deadline?" {
		t.Errorf("title %q", req.Title)
	}
	if req.Messages[0].AIResponseJSON != nil {
		t.Errorf("user message should carry no response")
	}

	back := FromAPI(api.ChatSessionFull{ID: 1, Messages: req.Messages})
	opts := cmpopts.IgnoreFields(Message{}, "ID", "At")
	if diff := cmp.Diff(msgs, back, opts); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAPIDropsBadResponse(t *testing.T) {
	bad := "{oops"
	msgs := FromAPI(api.ChatSessionFull{Messages: []api.ChatMessage{
		{Role: RoleAssistant, Content: "kept", AIResponseJSON: &bad},
	}})
	if msgs[0].Response != nil || msgs[0].Content != "kept" {
		t.Errorf("unexpected message %+v", msgs[0])
	}
}

func TestSaveWithoutCase(t *testing.T) {
	if req := Save(0, nil); req.CaseID != nil || req.Title != UntitledChat {
		t.Errorf("unexpected request %+v", req)
	}
}
