package registry

import (
	"context"
	"sync"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"
)

// Registry maps candidate identity to at most one interview session and
// owns every InterviewSession instance in the process. It is
// constructed at startup, loaded from the durable store, and writes
// every state transition back through to that store so a restart loses
// no progress.
type Registry struct {
	mu          sync.Mutex
	store       domain.SessionRepository
	byCandidate map[string]*domain.InterviewSession
	byID        map[string]*domain.InterviewSession
}

func New(store domain.SessionRepository) *Registry {
	return &Registry{
		store:       store,
		byCandidate: make(map[string]*domain.InterviewSession),
		byID:        make(map[string]*domain.InterviewSession),
	}
}

// Load pulls every in-progress session from the durable store. Called
// once at process start, before the registry serves traffic.
func (r *Registry) Load(ctx context.Context) error {
	sessions, err := r.store.ListInProgress(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range sessions {
		s := &sessions[i]
		r.byCandidate[s.CandidateID] = s
		r.byID[s.ID] = s
	}

	logger.Log.Info("session registry loaded", "in_progress", len(sessions))
	return nil
}

// Register admits a new session. The in-progress check and the insert
// are atomic: two concurrent starts for one candidate cannot both win.
func (r *Registry) Register(ctx context.Context, session *domain.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCandidate[session.CandidateID]; ok && existing.Status == domain.SessionStatusInProgress {
		return domain.ErrSessionConflict
	}

	if err := r.store.Save(ctx, session); err != nil {
		return err
	}

	r.byCandidate[session.CandidateID] = session
	r.byID[session.ID] = session
	return nil
}

// Persist writes a session's current state through to the durable store.
func (r *Registry) Persist(ctx context.Context, session *domain.InterviewSession) error {
	return r.store.Save(ctx, session)
}

// ByID returns the session with the given id.
func (r *Registry) ByID(id string) (*domain.InterviewSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	return s, ok
}

// Find returns the session with the given id, falling back to the
// durable store for terminal sessions a restart evicted from memory.
// Returns nil, nil when no such session exists anywhere.
func (r *Registry) Find(ctx context.Context, id string) (*domain.InterviewSession, error) {
	if s, ok := r.ByID(id); ok {
		return s, nil
	}

	s, err := r.store.GetByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.byID[s.ID]; ok {
		return cached, nil
	}
	r.byID[s.ID] = s
	if _, ok := r.byCandidate[s.CandidateID]; !ok {
		r.byCandidate[s.CandidateID] = s
	}
	return s, nil
}

// InProgress returns every session still in progress. Used at startup
// to re-arm question timers for rehydrated sessions.
func (r *Registry) InProgress() []*domain.InterviewSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := make([]*domain.InterviewSession, 0, len(r.byID))
	for _, s := range r.byID {
		if s.Status == domain.SessionStatusInProgress {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// InProgressByCandidate returns the candidate's in-progress session, if
// any. This is the resume lookup: a pure read.
func (r *Registry) InProgressByCandidate(candidateID string) (*domain.InterviewSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byCandidate[candidateID]
	if !ok || s.Status != domain.SessionStatusInProgress {
		return nil, false
	}
	return s, true
}
