package services

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
)

// WordService looks words up and keeps the user's lookup history.
//
// Lookups use the service's source and target languages unless the caller
// passes its own. A successful lookup refreshes the history.
type WordService interface {
	QueryWord(ctx context.Context, word, sourceLang, targetLang string) (*models.Word, error)
	FetchHistory(ctx context.Context) []models.WordHistory
	SetSourceLang(lang string)
	SetTargetLang(lang string)
	ClearCurrentWord()
	ClearAll()

	CurrentWord() *models.Word
	History() []models.WordHistory
	SourceLang() string
	TargetLang() string
	HasCurrentWord() bool
	HistoryCount() int
	Loading() bool
	HistoryLoading() bool
	LastError() string
}

type wordService struct {
	client client.Client
	log    logging.Logger

	mu             sync.Mutex
	current        *models.Word
	history        []models.WordHistory
	sourceLang     string
	targetLang     string
	generation     uint64
	loading        bool
	historyLoading bool
	lastErr        string
}

func NewWordService(c client.Client, log logging.Logger) WordService {
	return &wordService{
		client:     c,
		log:        log.With("service", "word"),
		sourceLang: models.DefaultSourceLang,
		targetLang: models.DefaultTargetLang,
	}
}

// QueryWord trims word and looks it up. Empty languages fall back to the
// service defaults. A result that arrives after ClearAll is returned but
// not stored.
func (s *wordService) QueryWord(ctx context.Context, word, sourceLang, targetLang string) (*models.Word, error) {
	s.mu.Lock()
	req := models.WordQueryRequest{Word: strings.TrimSpace(word), SourceLang: sourceLang, TargetLang: targetLang}
	if req.SourceLang == "" {
		req.SourceLang = s.sourceLang
	}
	if req.TargetLang == "" {
		req.TargetLang = s.targetLang
	}
	gen := s.generation
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	result, err := s.client.QueryWord(ctx, req)

	s.mu.Lock()
	current := s.generation == gen
	s.loading = false
	if err != nil {
		if current {
			s.lastErr = errorText(err, "Failed to query word")
		}
		s.mu.Unlock()
		return nil, err
	}
	if current {
		s.current = result.Clone()
	}
	s.mu.Unlock()

	s.log.Info(ctx, "word queried", "word", req.Word, "source", req.SourceLang, "target", req.TargetLang)

	if current {
		s.FetchHistory(ctx)
	}
	return result.Clone(), nil
}

// FetchHistory refreshes the lookup history. Failures are logged and yield
// an empty list; the stored history is kept.
func (s *wordService) FetchHistory(ctx context.Context) []models.WordHistory {
	s.mu.Lock()
	gen := s.generation
	s.historyLoading = true
	s.mu.Unlock()

	history, err := s.client.WordHistory(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyLoading = false
	if err != nil {
		s.log.Warn(ctx, "failed to fetch word history", "error", err)
		return []models.WordHistory{}
	}
	if history == nil {
		history = []models.WordHistory{}
	}
	if s.generation == gen {
		s.history = history
	}
	return slices.Clone(history)
}

func (s *wordService) SetSourceLang(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceLang = strings.TrimSpace(lang)
}

func (s *wordService) SetTargetLang(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targetLang = strings.TrimSpace(lang)
}

func (s *wordService) ClearCurrentWord() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.lastErr = ""
}

// ClearAll drops the current word and the history. The language choice is
// kept.
func (s *wordService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = nil
	s.history = nil
	s.lastErr = ""
}

func (s *wordService) CurrentWord() *models.Word {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *wordService) History() []models.WordHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

func (s *wordService) SourceLang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceLang
}

func (s *wordService) TargetLang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetLang
}

func (s *wordService) HasCurrentWord() bool {
	return s.CurrentWord() != nil
}

func (s *wordService) HistoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *wordService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *wordService) HistoryLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLoading
}

func (s *wordService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
