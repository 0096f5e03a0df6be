package timekeeper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"
)

// Expirer is the slice of the session engine the timekeeper drives.
type Expirer interface {
	ExpireTimer(ctx context.Context, sessionID string, questionIndex int) (*domain.InterviewSession, error)
}

// Timekeeper runs one timer per active question and fires the expiry
// transition when the budget runs out. It sits outside the state
// machine: a timer that fires after the cursor has already advanced is
// rejected by the engine and dropped here as a no-op.
type Timekeeper struct {
	engine Expirer

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(engine Expirer) *Timekeeper {
	return &Timekeeper{
		engine: engine,
		timers: make(map[string]*time.Timer),
	}
}

// Arm schedules expiry for the session's current question, replacing
// any previous timer for the session. Completed or abandoned sessions
// just cancel.
func (t *Timekeeper) Arm(session *domain.InterviewSession) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[session.ID]; ok {
		timer.Stop()
		delete(t.timers, session.ID)
	}

	if session.Status != domain.SessionStatusInProgress {
		return
	}
	question := session.CurrentQuestion()
	if question == nil {
		return
	}

	sessionID := session.ID
	index := session.CurrentQuestionIndex
	remaining := session.RemainingTime(time.Now().UTC())

	t.timers[sessionID] = time.AfterFunc(remaining, func() {
		t.fire(sessionID, index)
	})
}

// Cancel drops the session's timer, if any.
func (t *Timekeeper) Cancel(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[sessionID]; ok {
		timer.Stop()
		delete(t.timers, sessionID)
	}
}

// Stop cancels every outstanding timer. Called on shutdown.
func (t *Timekeeper) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

func (t *Timekeeper) fire(sessionID string, index int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := t.engine.ExpireTimer(ctx, sessionID, index)
	if err != nil {
		// Stale timers lose the race against a submitted answer.
		if errors.Is(err, domain.ErrOutOfSequence) || errors.Is(err, domain.ErrInvalidState) {
			logger.Log.Debug("stale timer ignored", "session_id", sessionID, "question_index", index)
			return
		}
		logger.Log.Error("timer expiry failed", "session_id", sessionID, "question_index", index, "error", err)
		return
	}

	logger.Log.Info("question timed out", "session_id", sessionID, "question_index", index)
	t.Arm(session)
}
