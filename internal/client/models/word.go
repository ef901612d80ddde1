package models

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "zh"
)

type Word struct {
	ID          int64  `json:"id"`
	Word        string `json:"word"`
	SourceLang  string `json:"sourceLang"`
	TargetLang  string `json:"targetLang"`
	Definition  string `json:"definition"`
	Translation string `json:"translation"`
	// Examples is the JSON-encoded example list as the server stores it.
	Examples      string      `json:"examples"`
	Pronunciation string      `json:"pronunciation,omitempty"`
	CreatedAt     *timex.Time `json:"createdAt,omitempty"`
}

type WordExample struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation,omitempty"`
}

// ExampleList decodes Examples. It accepts a list of objects or of plain
// strings; anything else non-empty becomes a single example.
func (w *Word) ExampleList() []WordExample {
	raw := strings.TrimSpace(w.Examples)
	if raw == "" {
		return nil
	}

	var objects []WordExample
	if err := json.Unmarshal([]byte(raw), &objects); err == nil {
		return objects
	}
	var lines []string
	if err := json.Unmarshal([]byte(raw), &lines); err == nil {
		out := make([]WordExample, 0, len(lines))
		for _, l := range lines {
			out = append(out, WordExample{Sentence: l})
		}
		return out
	}
	return []WordExample{{Sentence: raw}}
}

func (w *Word) Clone() *Word {
	if w == nil {
		return nil
	}
	c := *w
	if w.CreatedAt != nil {
		t := *w.CreatedAt
		c.CreatedAt = &t
	}
	return &c
}

type WordQueryRequest struct {
	Word       string `json:"word"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// WordHistory is one past lookup of the signed-in user.
type WordHistory struct {
	ID          int64      `json:"id"`
	WordID      int64      `json:"wordId"`
	Word        string     `json:"word"`
	SourceLang  string     `json:"sourceLang"`
	TargetLang  string     `json:"targetLang"`
	Translation string     `json:"translation"`
	QueryTime   timex.Time `json:"queryTime"`
}
