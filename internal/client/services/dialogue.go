package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
	"github.com/google/uuid"
)

// DialogueService owns the scenario catalog and at most one current
// conversation session.
//
// Session lifecycle: Idle -> Active -> Ended. StartSession and
// ResumeSession replace the current session and its messages wholesale;
// EndCurrentSession moves Active to Ended; ClearSession returns to Idle
// without a remote call.
//
// SendMessage appends the user message before the remote call returns. The
// entry carries a provisional marker and is removed again if the call
// fails, so overlapping sends roll back only their own message.
type DialogueService interface {
	FetchScenarios(ctx context.Context) ([]models.Scenario, error)
	CreateScenario(ctx context.Context, req models.CreateScenarioRequest) (*models.Scenario, error)
	ScenarioByID(id int64) (models.Scenario, bool)
	Scenarios() []models.Scenario
	PresetScenarios() []models.Scenario
	CustomScenarios() []models.Scenario

	StartSession(ctx context.Context, scenarioID int64) (*models.DialogueSession, error)
	ResumeSession(ctx context.Context, sessionID int64) (*models.DialogueSession, error)
	SendMessage(ctx context.Context, content string) (*models.DialogueMessage, error)
	EndCurrentSession(ctx context.Context) error
	ClearSession()
	ClearAll()

	Session() *models.DialogueSession
	Messages() []models.DialogueMessage
	MessageCount() int
	Status() models.SessionStatus
	HasActiveSession() bool
	Loading() bool
	Sending() bool
	LastError() string
}

type dialogueService struct {
	client     client.Client
	targetLang string
	log        logging.Logger
	now        func() time.Time

	mu        sync.Mutex
	scenarios []models.Scenario
	session   *models.DialogueSession
	messages  []models.DialogueMessage
	status    models.SessionStatus
	// generation changes whenever the current session is replaced or
	// cleared; in-flight calls compare it before touching state.
	generation uint64
	loading    int
	sending    int
	lastErr    string
}

// NewDialogueService constructs a DialogueService. Sessions are started in
// targetLang.
func NewDialogueService(c client.Client, targetLang string, log logging.Logger) DialogueService {
	return &dialogueService{
		client:     c,
		targetLang: targetLang,
		log:        log.With("service", "dialogue"),
		now:        time.Now,
	}
}

func (s *dialogueService) begin() {
	s.mu.Lock()
	s.loading++
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *dialogueService) end(err error, fallback string) {
	s.mu.Lock()
	s.loading--
	if err != nil {
		s.lastErr = errorText(err, fallback)
	}
	s.mu.Unlock()
}

func (s *dialogueService) FetchScenarios(ctx context.Context) ([]models.Scenario, error) {
	s.begin()
	scenarios, err := s.client.ListScenarios(ctx)
	s.end(err, "Failed to fetch scenarios")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = scenarios
	return slices.Clone(scenarios), nil
}

func (s *dialogueService) CreateScenario(ctx context.Context, req models.CreateScenarioRequest) (*models.Scenario, error) {
	s.begin()
	scenario, err := s.client.CreateScenario(ctx, req)
	s.end(err, "Failed to create scenario")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.scenarios = append(s.scenarios, *scenario)
	s.mu.Unlock()

	s.log.Info(ctx, "scenario created", "scenario_id", scenario.ID)
	return scenario, nil
}

func (s *dialogueService) ScenarioByID(id int64) (models.Scenario, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return models.Scenario{}, false
}

func (s *dialogueService) Scenarios() []models.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.scenarios)
}

func (s *dialogueService) PresetScenarios() []models.Scenario {
	return s.filterScenarios(true)
}

func (s *dialogueService) CustomScenarios() []models.Scenario {
	return s.filterScenarios(false)
}

func (s *dialogueService) filterScenarios(preset bool) []models.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Scenario
	for _, sc := range s.scenarios {
		if sc.IsPreset == preset {
			out = append(out, sc)
		}
	}
	return out
}

func (s *dialogueService) StartSession(ctx context.Context, scenarioID int64) (*models.DialogueSession, error) {
	s.begin()
	session, err := s.client.StartSession(ctx, scenarioID, s.targetLang)
	s.end(err, "Failed to start session")
	if err != nil {
		return nil, err
	}

	s.replaceSession(session)
	s.log.Info(ctx, "session started", "session_id", session.ID, "scenario_id", scenarioID)
	return session.Clone(), nil
}

// ResumeSession loads an existing session from the server and makes it the
// current one, exactly like StartSession.
func (s *dialogueService) ResumeSession(ctx context.Context, sessionID int64) (*models.DialogueSession, error) {
	s.begin()
	session, err := s.client.GetSession(ctx, sessionID)
	s.end(err, "Failed to load session")
	if err != nil {
		return nil, err
	}

	s.replaceSession(session)
	s.log.Info(ctx, "session resumed", "session_id", session.ID)
	return session.Clone(), nil
}

func (s *dialogueService) replaceSession(session *models.DialogueSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.session = session.Clone()
	s.messages = slices.Clone(session.Messages)
	if s.messages == nil {
		s.messages = []models.DialogueMessage{}
	}
	s.session.Messages = nil
	if session.EndedAt != nil {
		s.status = models.SessionEnded
	} else {
		s.status = models.SessionActive
	}
}

func (s *dialogueService) SendMessage(ctx context.Context, content string) (*models.DialogueMessage, error) {
	s.mu.Lock()
	if s.session == nil || s.status != models.SessionActive {
		s.lastErr = "No active session"
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	sessionID := s.session.ID
	gen := s.generation
	marker := uuid.NewString()
	s.messages = append(s.messages, models.DialogueMessage{
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: timex.NewTime(s.now()),
		LocalID:   marker,
	})
	s.sending++
	s.lastErr = ""
	s.mu.Unlock()

	reply, err := s.client.SendMessage(ctx, sessionID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending--

	idx := -1
	if s.generation == gen {
		idx = slices.IndexFunc(s.messages, func(m models.DialogueMessage) bool { return m.LocalID == marker })
	}

	if err != nil {
		if idx >= 0 {
			s.lastErr = errorText(err, "Failed to send message")
			s.messages = slices.Delete(s.messages, idx, idx+1)
		}
		return nil, err
	}

	msg := *reply
	if msg.Role == "" {
		msg.Role = models.RoleAssistant
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = timex.NewTime(s.now())
	}

	if idx < 0 {
		s.log.Debug(ctx, "reply arrived for a replaced session", "session_id", sessionID)
		return &msg, nil
	}

	s.messages[idx].LocalID = ""
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *dialogueService) EndCurrentSession(ctx context.Context) error {
	s.mu.Lock()
	if s.session == nil || s.status != models.SessionActive {
		s.mu.Unlock()
		return nil
	}
	sessionID := s.session.ID
	gen := s.generation
	s.mu.Unlock()

	s.begin()
	err := s.client.EndSession(ctx, sessionID)
	s.end(err, "Failed to end session")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	ended := timex.NewTime(s.now())
	s.session.EndedAt = &ended
	s.status = models.SessionEnded
	s.log.Info(ctx, "session ended", "session_id", sessionID)
	return nil
}

func (s *dialogueService) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSessionLocked()
}

func (s *dialogueService) clearSessionLocked() {
	s.generation++
	s.session = nil
	s.messages = nil
	s.status = models.SessionIdle
	s.lastErr = ""
}

func (s *dialogueService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSessionLocked()
	s.scenarios = nil
}

// Session returns a copy of the current session including its messages, or
// nil when Idle.
func (s *dialogueService) Session() *models.DialogueSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	c := s.session.Clone()
	c.Messages = slices.Clone(s.messages)
	return c
}

func (s *dialogueService) Messages() []models.DialogueMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

func (s *dialogueService) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *dialogueService) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *dialogueService) HasActiveSession() bool {
	return s.Status() == models.SessionActive
}

func (s *dialogueService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

func (s *dialogueService) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending > 0
}

func (s *dialogueService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
