package fakeapi

import (
	"net/http"
	"slices"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeOK(w, slices.Clone(s.scenarios))
}

func (s *Server) createScenario(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScenarioRequest
	if !decode(r, &req) || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Scenario name is required")
		return
	}
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	created := timex.NewTime(s.now())
	sc := models.Scenario{
		ID:          s.nextID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   &owner,
		CreatedAt:   &created,
	}
	s.scenarios = append(s.scenarios, sc)
	writeOK(w, sc)
}

type startSessionRequest struct {
	ScenarioID int64  `json:"scenarioId"`
	TargetLang string `json:"targetLang"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Malformed request")
		return
	}
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.scenarios, func(sc models.Scenario) bool { return sc.ID == req.ScenarioID })
	if idx < 0 {
		writeBusiness(w, 2001, "Scenario not found")
		return
	}

	s.nextID++
	session := &models.DialogueSession{
		ID:           s.nextID,
		UserID:       owner,
		ScenarioID:   req.ScenarioID,
		ScenarioName: s.scenarios[idx].Name,
		Messages:     []models.DialogueMessage{},
		StartedAt:    timex.NewTime(s.now()),
	}
	s.sessions[session.ID] = session
	s.addRecordLocked(owner, models.ActivityDialogue, session.ID)
	writeOK(w, session)
}

// sessionFor returns the caller's session or writes a not-found failure.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *models.DialogueSession {
	id, ok := pathID(r, "id")
	session := s.sessions[id]
	if !ok || session == nil || session.UserID != userFrom(r.Context()).user.ID {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil
	}
	return session
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session := s.sessionFor(w, r); session != nil {
		writeOK(w, session)
	}
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFor(w, r)
	if session == nil {
		return
	}
	if session.EndedAt == nil {
		session.EndedAt = timex.Ptr(s.now())
	}
	writeOK(w, nil)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// aiResponse has no timestamp, like the service's reply payload.
type aiResponse struct {
	Content   string      `json:"content"`
	Role      models.Role `json:"role"`
	SessionID int64       `json:"sessionId"`
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decode(r, &req) || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFor(w, r)
	if session == nil {
		return
	}
	if session.EndedAt != nil {
		writeBusiness(w, 2002, "Session already ended")
		return
	}

	now := timex.NewTime(s.now())
	reply := s.responder(req.Message)
	session.Messages = append(session.Messages,
		models.DialogueMessage{Role: models.RoleUser, Content: req.Message, Timestamp: now},
		models.DialogueMessage{Role: models.RoleAssistant, Content: reply, Timestamp: now},
	)
	writeOK(w, aiResponse{Content: reply, Role: models.RoleAssistant, SessionID: session.ID})
}
