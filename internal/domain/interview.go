package domain

import (
	"context"
	"time"
)

// Session status constants
const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusAbandoned  = "abandoned"
)

// Difficulty labels a question and drives its time allotment.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TimeLimit is the single source of truth for per-question timing.
// Unknown or absent difficulties get the medium allotment.
func (d Difficulty) TimeLimit() time.Duration {
	switch d {
	case DifficultyEasy:
		return 20 * time.Second
	case DifficultyHard:
		return 120 * time.Second
	default:
		return 60 * time.Second
	}
}

// Question is immutable once issued to a session. TimeLimitSeconds is
// derived from the difficulty, never authored or persisted as truth.
type Question struct {
	ID               int        `json:"id"` // 1-based sequence index
	Text             string     `json:"text"`
	Difficulty       Difficulty `json:"difficulty"`
	ReferenceAnswer  string     `json:"reference_answer,omitempty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
}

// Answer is created when scoring completes and never mutated after.
type Answer struct {
	QuestionID int       `json:"question_id"`
	Text       string    `json:"text"`
	Score      int       `json:"score"` // 0..10
	Feedback   string    `json:"feedback"`
	ScoredAt   time.Time `json:"scored_at"`
}

// InterviewSession holds everything needed to resume after a restart:
// the fixed question list, appended answers, the cursor and the status
// are all captured in the durable record.
type InterviewSession struct {
	ID                   string     `json:"id"`
	CandidateID          string     `json:"candidate_id"`
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	Answers              []Answer   `json:"answers"`
	Status               string     `json:"status"`
	StartedAt            time.Time  `json:"started_at"`
	QuestionStartedAt    time.Time  `json:"question_started_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// CurrentQuestion returns the question the cursor points at, or nil
// when the session has run out of questions.
func (s *InterviewSession) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// RemainingTime recomputes the current question's budget after a resume
// instead of resetting the timer. Clamped at zero.
func (s *InterviewSession) RemainingTime(now time.Time) time.Duration {
	q := s.CurrentQuestion()
	if q == nil {
		return 0
	}
	remaining := q.Difficulty.TimeLimit() - now.Sub(s.QuestionStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ScoreResult is the oracle's verdict on one answer.
type ScoreResult struct {
	Score    int    `json:"score"` // 0..10
	Feedback string `json:"feedback"`
}

// Oracle is the external reasoning service that proposes questions,
// scores answers and writes the closing summary. Implementations must
// be treated as flaky: callers substitute neutral defaults on failure.
type Oracle interface {
	GenerateQuestions(ctx context.Context, role string) ([]Question, error)
	ScoreAnswer(ctx context.Context, question Question, answerText string) (*ScoreResult, error)
	Summarize(ctx context.Context, candidate *Candidate, answers []Answer) (string, error)
}

// SessionRepository is the durable session store, keyed by candidate.
// Written on every state transition, read at process start and on resume.
type SessionRepository interface {
	Save(ctx context.Context, session *InterviewSession) error
	GetByID(ctx context.Context, id string) (*InterviewSession, error)
	GetByCandidateID(ctx context.Context, candidateID string) (*InterviewSession, error)
	ListInProgress(ctx context.Context) ([]InterviewSession, error)
}

// SessionSummary is the completed-session report handed back to the caller.
type SessionSummary struct {
	CandidateID string   `json:"candidate_id"`
	Average     float64  `json:"average"`
	Tier        string   `json:"tier"`
	Summary     string   `json:"summary"`
	Answers     []Answer `json:"answers"`
}

// InterviewUsecase drives the session lifecycle.
type InterviewUsecase interface {
	Start(ctx context.Context, candidateID string) (*InterviewSession, error)
	SubmitAnswer(ctx context.Context, sessionID string, questionIndex int, answerText string) (*InterviewSession, error)
	ExpireTimer(ctx context.Context, sessionID string, questionIndex int) (*InterviewSession, error)
	Resume(ctx context.Context, candidateID string) (*InterviewSession, error)
	Abandon(ctx context.Context, sessionID string) error
	Summary(ctx context.Context, sessionID string) (*SessionSummary, error)
}
