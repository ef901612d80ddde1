// Package fakeapi is an in-memory implementation of the remote learning
// service, used to exercise the client end to end in tests. It speaks the
// same {code, message, data} envelope and JWT bearer auth as the real one.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Fault is a canned failure returned by the next matching call.
type Fault struct {
	Status  int
	Code    int
	Message string
}

type account struct {
	user     models.User
	password string
}

type Server struct {
	secret        []byte
	tokenTTL      time.Duration
	now           func() time.Time
	questionCount int
	responder     func(content string) string

	mu        sync.Mutex
	nextID    int64
	accounts  map[string]*account
	revoked   map[string]bool
	scenarios []models.Scenario
	sessions  map[int64]*models.DialogueSession
	quizzes   map[int64]*models.Quiz
	words     map[string]*models.Word
	lookups   []lookup
	records   []models.LearningRecord
	owners    []int64 // owners[i] owns records[i]
	faults    map[string][]Fault
	calls     map[string]int

	router chi.Router
}

type Option func(*Server)

// WithQuestionCount sets how many questions a generated quiz has.
func WithQuestionCount(n int) Option {
	return func(s *Server) { s.questionCount = n }
}

// WithResponder sets the assistant reply produced for a user message.
func WithResponder(fn func(content string) string) Option {
	return func(s *Server) { s.responder = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:        []byte("fakeapi-secret"),
		tokenTTL:      time.Hour,
		now:           time.Now,
		questionCount: 3,
		responder:     func(content string) string { return "You said: " + content },
		nextID:        100,
		accounts:      map[string]*account{},
		revoked:       map[string]bool{},
		sessions:      map[int64]*models.DialogueSession{},
		quizzes:       map[int64]*models.Quiz{},
		words:         map[string]*models.Word{},
		faults:        map[string][]Fault{},
		calls:         map[string]int{},
		scenarios: []models.Scenario{
			{ID: 1, Name: "Coffee shop", Description: "Order a drink", Category: "daily", IsPreset: true},
			{ID: 2, Name: "Airport check-in", Description: "Check in for a flight", Category: "travel", IsPreset: true},
			{ID: 3, Name: "Job interview", Description: "Answer interview questions", Category: "work", IsPreset: true},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		s.handle(r, http.MethodPost, "/auth/register", s.register)
		s.handle(r, http.MethodPost, "/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			s.handle(r, http.MethodPost, "/auth/logout", s.logout)
			s.handle(r, http.MethodGet, "/auth/me", s.me)

			s.handle(r, http.MethodGet, "/dialogue/scenarios", s.listScenarios)
			s.handle(r, http.MethodPost, "/dialogue/scenarios", s.createScenario)
			s.handle(r, http.MethodPost, "/dialogue/sessions", s.startSession)
			s.handle(r, http.MethodGet, "/dialogue/sessions/{id}", s.getSession)
			s.handle(r, http.MethodDelete, "/dialogue/sessions/{id}", s.endSession)
			s.handle(r, http.MethodPost, "/dialogue/sessions/{id}/messages", s.sendMessage)

			s.handle(r, http.MethodPost, "/words/query", s.queryWord)
			s.handle(r, http.MethodGet, "/words/history", s.wordHistory)

			s.handle(r, http.MethodPost, "/quiz/generate", s.generateQuiz)
			s.handle(r, http.MethodPost, "/quiz/{id}/submit", s.submitQuiz)
			s.handle(r, http.MethodGet, "/quiz/history", s.quizHistory)

			s.handle(r, http.MethodGet, "/records", s.listRecords)
			s.handle(r, http.MethodGet, "/records/statistics", s.statistics)
		})
	})
	return r
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}

// handle registers h and wraps it with call counting and fault injection.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := routeKey(method, pattern)
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		var fault *Fault
		if queued := s.faults[key]; len(queued) > 0 {
			f := queued[0]
			fault = &f
			s.faults[key] = queued[1:]
		}
		s.mu.Unlock()

		if fault != nil {
			writeFault(w, *fault)
			return
		}
		h(w, req)
	})
}

// InjectFault makes the next call to method+pattern fail with f. Faults
// queue up and each is used once. pattern is the route without the /api
// prefix, e.g. "/dialogue/sessions/{id}/messages".
func (s *Server) InjectFault(method, pattern string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, pattern)
	s.faults[key] = append(s.faults[key], f)
}

// Calls returns how many requests reached method+pattern, faults included.
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, pattern)]
}

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: 200, Message: "success", Data: data})
}

// writeBusiness reports a failed operation with HTTP 200, as the service does.
func writeBusiness(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, http.StatusOK, envelope{Code: code, Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Code: status, Message: msg})
}

func writeFault(w http.ResponseWriter, f Fault) {
	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	code := f.Code
	if code == 0 && status != http.StatusOK {
		code = status
	}
	writeJSON(w, status, envelope{Code: code, Message: f.Message})
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
