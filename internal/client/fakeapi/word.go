package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

type lookup struct {
	owner int64
	entry models.WordHistory
}

// queryWord answers with a canned entry. The same word and language pair
// always maps to the same word ID.
func (s *Server) queryWord(w http.ResponseWriter, r *http.Request) {
	var req models.WordQueryRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Malformed request")
		return
	}
	text := strings.ToLower(strings.TrimSpace(req.Word))
	switch {
	case text == "":
		writeError(w, http.StatusBadRequest, "Word is required")
		return
	case req.SourceLang == "" || req.TargetLang == "":
		writeError(w, http.StatusBadRequest, "Source and target language are required")
		return
	}
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	key := req.SourceLang + "|" + req.TargetLang + "|" + text
	word := s.words[key]
	if word == nil {
		s.nextID++
		examples, _ := json.Marshal([]models.WordExample{{
			Sentence:    fmt.Sprintf("I looked up %q today.", text),
			Translation: fmt.Sprintf("[%s] I looked up %q today.", req.TargetLang, text),
		}})
		word = &models.Word{
			ID:            s.nextID,
			Word:          text,
			SourceLang:    req.SourceLang,
			TargetLang:    req.TargetLang,
			Definition:    fmt.Sprintf("Meaning of %q", text),
			Translation:   fmt.Sprintf("%s (%s)", text, req.TargetLang),
			Examples:      string(examples),
			Pronunciation: "/" + text + "/",
			CreatedAt:     timex.Ptr(s.now()),
		}
		s.words[key] = word
	}

	s.nextID++
	s.lookups = append(s.lookups, lookup{owner: owner, entry: models.WordHistory{
		ID:          s.nextID,
		WordID:      word.ID,
		Word:        word.Word,
		SourceLang:  word.SourceLang,
		TargetLang:  word.TargetLang,
		Translation: word.Translation,
		QueryTime:   timex.NewTime(s.now()),
	}})
	s.addRecordLocked(owner, models.ActivityWordQuery, word.ID)
	writeOK(w, word)
}

// wordHistory lists the caller's lookups, newest first.
func (s *Server) wordHistory(w http.ResponseWriter, r *http.Request) {
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WordHistory{}
	for _, l := range slices.Backward(s.lookups) {
		if l.owner == owner {
			out = append(out, l.entry)
		}
	}
	writeOK(w, out)
}
