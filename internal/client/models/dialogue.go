package models

import "github.com/dmitrijs2005/lingokeeper/internal/timex"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Scenario struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	IsPreset    bool        `json:"isPreset"`
	CreatedBy   *int64      `json:"createdBy,omitempty"`
	CreatedAt   *timex.Time `json:"createdAt,omitempty"`
}

type CreateScenarioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// DialogueMessage is one turn of a conversation. LocalID is set only on a
// user message appended before the server confirmed it; it never leaves
// the client.
type DialogueMessage struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp timex.Time `json:"timestamp"`
	LocalID   string     `json:"-"`
}

// Provisional reports whether the message still awaits server confirmation.
func (m DialogueMessage) Provisional() bool {
	return m.LocalID != ""
}

type DialogueSession struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"userId"`
	ScenarioID   int64             `json:"scenarioId"`
	ScenarioName string            `json:"scenarioName,omitempty"`
	Messages     []DialogueMessage `json:"messages"`
	StartedAt    timex.Time        `json:"startedAt"`
	EndedAt      *timex.Time       `json:"endedAt,omitempty"`
}

// Clone returns a deep copy of s.
func (s *DialogueSession) Clone() *DialogueSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = append([]DialogueMessage(nil), s.Messages...)
	if s.EndedAt != nil {
		ended := *s.EndedAt
		c.EndedAt = &ended
	}
	return &c
}

type SessionStatus int

const (
	SessionIdle SessionStatus = iota
	SessionActive
	SessionEnded
)

func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionEnded:
		return "ended"
	default:
		return "idle"
	}
}
