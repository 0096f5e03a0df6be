package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/registry"
	"github.com/Dharanish-AM/InterVueAI/internal/scoring"
	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"

	"github.com/google/uuid"
)

// Fallbacks applied when the oracle misbehaves. Session progress is
// never blocked by oracle flakiness.
const (
	neutralScore      = 5
	neutralFeedback   = "Unable to score at this time. Please try again."
	fallbackSummary   = "Summary unavailable at this time."
	timeoutAnswerText = ""
)

type interviewUsecase struct {
	sessions      *registry.Registry
	candidateRepo domain.CandidateRepository
	oracle        domain.Oracle
	role          string
	questionCount int
	now           func() time.Time

	// mu guards session mutations and the pending set. A session with a
	// pending entry is inside the oracle round trip for its current
	// question; competing submits for that index are rejected, not queued.
	mu      sync.Mutex
	pending map[string]bool
}

func NewInterviewUsecase(sessions *registry.Registry, candidateRepo domain.CandidateRepository, oracle domain.Oracle, role string, questionCount int) domain.InterviewUsecase {
	return &interviewUsecase{
		sessions:      sessions,
		candidateRepo: candidateRepo,
		oracle:        oracle,
		role:          role,
		questionCount: questionCount,
		now:           func() time.Time { return time.Now().UTC() },
		pending:       make(map[string]bool),
	}
}

// Start creates an in-progress session with a fresh question batch.
// Restarting while a session is in progress is rejected, not replaced.
func (u *interviewUsecase) Start(ctx context.Context, candidateID string) (*domain.InterviewSession, error) {
	candidate, err := u.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found", domain.ErrNotFound)
	}

	// Cheap pre-check before the oracle round trip; the registry
	// re-checks atomically on Register.
	if _, ok := u.sessions.InProgressByCandidate(candidateID); ok {
		return nil, apperror.Conflict("An interview is already in progress for this candidate", domain.ErrSessionConflict)
	}

	questions, err := u.oracle.GenerateQuestions(ctx, u.role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	questions = u.prepareQuestions(questions)
	if len(questions) == 0 {
		return nil, apperror.Internal(domain.ErrEmptyInput)
	}

	now := u.now()
	session := &domain.InterviewSession{
		ID:                   uuid.NewString(),
		CandidateID:          candidateID,
		Questions:            questions,
		CurrentQuestionIndex: 0,
		Answers:              []domain.Answer{},
		Status:               domain.SessionStatusInProgress,
		StartedAt:            now,
		QuestionStartedAt:    now,
	}

	if err := u.sessions.Register(ctx, session); err != nil {
		if errors.Is(err, domain.ErrSessionConflict) {
			return nil, apperror.Conflict("An interview is already in progress for this candidate", err)
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("interview started",
		"session_id", session.ID, "candidate_id", candidateID, "questions", len(questions))
	return u.snapshot(session), nil
}

// snapshot copies a session under the mutation lock so callers can read
// and serialize it while later transitions mutate the registry's copy.
func (u *interviewUsecase) snapshot(session *domain.InterviewSession) *domain.InterviewSession {
	u.mu.Lock()
	defer u.mu.Unlock()

	view := *session
	view.Questions = append([]domain.Question(nil), session.Questions...)
	view.Answers = append([]domain.Answer(nil), session.Answers...)
	if session.CompletedAt != nil {
		completedAt := *session.CompletedAt
		view.CompletedAt = &completedAt
	}
	return &view
}

// prepareQuestions caps the batch, reassigns 1-based ids and stamps the
// derived time limit on every question.
func (u *interviewUsecase) prepareQuestions(questions []domain.Question) []domain.Question {
	if len(questions) > u.questionCount {
		questions = questions[:u.questionCount]
	}
	for i := range questions {
		questions[i].ID = i + 1
		questions[i].TimeLimitSeconds = int(questions[i].Difficulty.TimeLimit().Seconds())
	}
	return questions
}

// SubmitAnswer scores the answer for the current question and advances
// the cursor. Answers must arrive in order; the cursor never moves on
// failure and never moves by more than one.
func (u *interviewUsecase) SubmitAnswer(ctx context.Context, sessionID string, questionIndex int, answerText string) (*domain.InterviewSession, error) {
	session, question, err := u.beginScoring(ctx, sessionID, questionIndex)
	if err != nil {
		return nil, err
	}
	defer u.endScoring(sessionID)

	// The oracle round trip may suspend for an unbounded network call.
	// The pending mark taken above keeps competing submits out until it
	// resolves.
	result, err := u.oracle.ScoreAnswer(ctx, *question, answerText)
	if err != nil || result == nil {
		if err != nil {
			logger.Log.Warn("oracle scoring failed, using neutral score",
				"session_id", sessionID, "question_id", question.ID, "error", err)
		}
		result = &domain.ScoreResult{Score: neutralScore, Feedback: neutralFeedback}
	}

	answer := domain.Answer{
		QuestionID: question.ID,
		Text:       answerText,
		Score:      result.Score,
		Feedback:   result.Feedback,
		ScoredAt:   u.now(),
	}

	if err := u.commitAnswer(ctx, session, answer); err != nil {
		return nil, err
	}

	view := u.snapshot(session)
	if view.Status == domain.SessionStatusCompleted {
		u.recordFinalScore(ctx, view)
	}
	return view, nil
}

// ExpireTimer handles a question timeout: a timed-out question is a
// zero-effort answer, not an error, so the session always progresses.
// A stale timer firing after the cursor advanced is rejected with a
// sequence error the scheduler treats as a no-op.
func (u *interviewUsecase) ExpireTimer(ctx context.Context, sessionID string, questionIndex int) (*domain.InterviewSession, error) {
	return u.SubmitAnswer(ctx, sessionID, questionIndex, timeoutAnswerText)
}

// beginScoring validates the transition and marks the session pending,
// all under one lock acquisition.
func (u *interviewUsecase) beginScoring(ctx context.Context, sessionID string, questionIndex int) (*domain.InterviewSession, *domain.Question, error) {
	session, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if session == nil {
		return nil, nil, apperror.NotFound("Interview session not found", domain.ErrNotFound)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if session.Status != domain.SessionStatusInProgress {
		return nil, nil, apperror.Conflict("Interview session is not in progress", domain.ErrInvalidState)
	}
	if u.pending[sessionID] {
		return nil, nil, apperror.Conflict("An answer for this question is already being scored", domain.ErrOutOfSequence)
	}
	if questionIndex != session.CurrentQuestionIndex {
		return nil, nil, apperror.Conflict("Answers must be submitted in order", domain.ErrOutOfSequence)
	}

	question := session.Questions[questionIndex]
	u.pending[sessionID] = true
	return session, &question, nil
}

func (u *interviewUsecase) endScoring(sessionID string) {
	u.mu.Lock()
	delete(u.pending, sessionID)
	u.mu.Unlock()
}

// commitAnswer appends the answer, advances the cursor and persists.
// A failed write rolls the in-memory state back so the cursor only ever
// reflects durable progress.
func (u *interviewUsecase) commitAnswer(ctx context.Context, session *domain.InterviewSession, answer domain.Answer) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	prevQuestionStartedAt := session.QuestionStartedAt

	session.Answers = append(session.Answers, answer)
	session.CurrentQuestionIndex++
	session.QuestionStartedAt = u.now()

	completed := session.CurrentQuestionIndex == len(session.Questions)
	if completed {
		now := u.now()
		session.Status = domain.SessionStatusCompleted
		session.CompletedAt = &now
	}

	if err := u.sessions.Persist(ctx, session); err != nil {
		session.Answers = session.Answers[:len(session.Answers)-1]
		session.CurrentQuestionIndex--
		session.QuestionStartedAt = prevQuestionStartedAt
		if completed {
			session.Status = domain.SessionStatusInProgress
			session.CompletedAt = nil
		}
		return apperror.Internal(err)
	}
	return nil
}

// recordFinalScore stamps the aggregate on the candidate record. The
// candidate is immutable apart from this single field.
func (u *interviewUsecase) recordFinalScore(ctx context.Context, session *domain.InterviewSession) {
	average, err := scoring.Average(session.Answers)
	if err != nil {
		logger.Log.Error("completed session has no answers", "session_id", session.ID, "error", err)
		return
	}
	if err := u.candidateRepo.SetFinalScore(ctx, session.CandidateID, average); err != nil {
		logger.Log.Error("failed to record final score",
			"session_id", session.ID, "candidate_id", session.CandidateID, "error", err)
	}
}

// Resume returns the candidate's in-progress session unchanged. It
// never re-issues questions or re-requests scores; the persisted index
// and answers are authoritative.
func (u *interviewUsecase) Resume(ctx context.Context, candidateID string) (*domain.InterviewSession, error) {
	session, ok := u.sessions.InProgressByCandidate(candidateID)
	if !ok {
		return nil, apperror.NotFound("No interview in progress for this candidate", domain.ErrNotFound)
	}
	return u.snapshot(session), nil
}

// Abandon terminates an in-progress session. Terminal sessions accept
// no further transitions.
func (u *interviewUsecase) Abandon(ctx context.Context, sessionID string) error {
	session, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		return apperror.Internal(err)
	}
	if session == nil {
		return apperror.NotFound("Interview session not found", domain.ErrNotFound)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.pending[sessionID] {
		return apperror.Conflict("An answer for this session is still being scored", domain.ErrOutOfSequence)
	}
	if session.Status != domain.SessionStatusInProgress {
		return apperror.Conflict("Interview session is not in progress", domain.ErrInvalidState)
	}

	session.Status = domain.SessionStatusAbandoned
	if err := u.sessions.Persist(ctx, session); err != nil {
		session.Status = domain.SessionStatusInProgress
		return apperror.Internal(err)
	}

	logger.Log.Info("interview abandoned", "session_id", sessionID)
	return nil
}

// Summary aggregates a completed session and asks the oracle for the
// closing prose. The aggregator never fabricates prose itself.
func (u *interviewUsecase) Summary(ctx context.Context, sessionID string) (*domain.SessionSummary, error) {
	found, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if found == nil {
		return nil, apperror.NotFound("Interview session not found", domain.ErrNotFound)
	}
	session := u.snapshot(found)
	if session.Status != domain.SessionStatusCompleted {
		return nil, apperror.Conflict("Interview session is not completed", domain.ErrInvalidState)
	}

	average, err := scoring.Average(session.Answers)
	if err != nil {
		// A completed session always has answers; this is an invariant
		// breach, not a user error.
		return nil, apperror.Internal(err)
	}

	candidate, err := u.candidateRepo.GetByID(ctx, session.CandidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found", domain.ErrNotFound)
	}

	text, err := u.oracle.Summarize(ctx, candidate, session.Answers)
	if err != nil {
		logger.Log.Warn("oracle summary failed, using fallback",
			"session_id", sessionID, "error", err)
		text = fallbackSummary
	}

	return &domain.SessionSummary{
		CandidateID: session.CandidateID,
		Average:     average,
		Tier:        scoring.Tier(average),
		Summary:     text,
		Answers:     session.Answers,
	}, nil
}
