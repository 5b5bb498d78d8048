// Package session holds chat transcripts and converts them to and from the
// backend's chat-session records.
package session

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"saul/internal/api"
	"saul/internal/timeutil"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// TitleLength is the rune budget for a derived title, before the ellipsis.
	TitleLength  = 60
	UntitledChat = "Untitled Chat"
)

// Message is one chat turn. Assistant turns carry the full backend response
// so sources and evaluation metrics survive a reload.
type Message struct {
	ID       string
	Role     string
	Content  string
	Response *api.QueryResponse
	At       time.Time
}

func NewUserMessage(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Content: content, At: time.Now()}
}

func NewAssistantMessage(resp api.QueryResponse) Message {
	return Message{
		ID:       uuid.NewString(),
		Role:     RoleAssistant,
		Content:  resp.Answer,
		Response: &resp,
		At:       time.Now(),
	}
}

// Title derives a session title from the first user message.
func Title(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		text := strings.Join(strings.Fields(m.Content), " ")
		if text == "" {
			continue
		}
		if utf8.RuneCountInString(text) > TitleLength {
			return string([]rune(text)[:TitleLength]) + "…"
		}
		return text
	}
	return UntitledChat
}

// RelativeTime is the label shown next to a session in the history list.
func RelativeTime(t, now time.Time) string {
	return timeutil.FormatRelative(t, now)
}

// ToAPI converts a transcript into the backend's save payload.
func ToAPI(messages []Message) []api.ChatMessage {
	out := make([]api.ChatMessage, 0, len(messages))
	for _, m := range messages {
		cm := api.ChatMessage{Role: m.Role, Content: m.Content}
		if m.Response != nil {
			if data, err := json.Marshal(m.Response); err == nil {
				s := string(data)
				cm.AIResponseJSON = &s
			}
		}
		out = append(out, cm)
	}
	return out
}

// FromAPI rebuilds a transcript from a stored session. A response that no
// longer decodes is dropped and the message text is kept.
func FromAPI(s api.ChatSessionFull) []Message {
	out := make([]Message, 0, len(s.Messages))
	for _, cm := range s.Messages {
		m := Message{
			ID:      uuid.NewString(),
			Role:    cm.Role,
			Content: cm.Content,
			At:      cm.CreatedAt.Time,
		}
		if cm.AIResponseJSON != nil && *cm.AIResponseJSON != "" {
			var resp api.QueryResponse
			if err := json.Unmarshal([]byte(*cm.AIResponseJSON), &resp); err != nil {
				slog.Debug("session: dropping undecodable response", "session", s.ID, "error", err)
			} else {
				m.Response = &resp
				if m.Content == "" {
					m.Content = resp.Answer
				}
			}
		}
		out = append(out, m)
	}
	return out
}

// Save builds the request that persists messages; caseID is only sent when
// the session is created.
func Save(caseID int64, messages []Message) api.SaveChatSessionRequest {
	req := api.SaveChatSessionRequest{Title: Title(messages), Messages: ToAPI(messages)}
	if caseID > 0 {
		req.CaseID = &caseID
	}
	return req
}
