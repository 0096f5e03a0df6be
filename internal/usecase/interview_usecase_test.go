package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/registry"
	"github.com/Dharanish-AM/InterVueAI/internal/usecase"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// Mock Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) GenerateQuestions(ctx context.Context, role string) ([]domain.Question, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockOracle) ScoreAnswer(ctx context.Context, question domain.Question, answerText string) (*domain.ScoreResult, error) {
	args := m.Called(ctx, question, answerText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoreResult), args.Error(1)
}

func (m *MockOracle) Summarize(ctx context.Context, candidate *domain.Candidate, answers []domain.Answer) (string, error) {
	args := m.Called(ctx, candidate, answers)
	return args.String(0), args.Error(1)
}

// In-memory candidate repo; a testify mock adds noise for no benefit here.
type fakeCandidateRepo struct {
	mu          sync.Mutex
	candidates  map[string]*domain.Candidate
	finalScores map[string]float64
}

func newFakeCandidateRepo(candidates ...*domain.Candidate) *fakeCandidateRepo {
	repo := &fakeCandidateRepo{
		candidates:  make(map[string]*domain.Candidate),
		finalScores: make(map[string]float64),
	}
	for _, c := range candidates {
		repo.candidates[c.ID] = c
	}
	return repo
}

func (f *fakeCandidateRepo) Create(_ context.Context, c *domain.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[c.ID] = c
	return nil
}

func (f *fakeCandidateRepo) GetByID(_ context.Context, id string) (*domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candidates[id], nil
}

func (f *fakeCandidateRepo) SetFinalScore(_ context.Context, id string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalScores[id] = score
	return nil
}

func (f *fakeCandidateRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.candidates, id)
	return nil
}

// In-memory durable store for the registry.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.InterviewSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]domain.InterviewSession)}
}

func (f *fakeSessionStore) Save(_ context.Context, s *domain.InterviewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.CandidateID] = *s
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (*domain.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) GetByCandidateID(_ context.Context, candidateID string) (*domain.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[candidateID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSessionStore) ListInProgress(_ context.Context) ([]domain.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.InterviewSession
	for _, s := range f.sessions {
		if s.Status == domain.SessionStatusInProgress {
			out = append(out, s)
		}
	}
	return out, nil
}

func twoQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is a goroutine?", Difficulty: domain.DifficultyEasy},
		{Text: "Design a rate limiter.", Difficulty: domain.DifficultyHard},
	}
}

func testCandidate() *domain.Candidate {
	return &domain.Candidate{ID: "cand-1", Name: "John Smith", Email: "john@x.com", Phone: "5551234567"}
}

func newTestUsecase(t *testing.T, oracle domain.Oracle) (domain.InterviewUsecase, *fakeCandidateRepo) {
	t.Helper()
	repo := newFakeCandidateRepo(testCandidate())
	uc := usecase.NewInterviewUsecase(registry.New(newFakeSessionStore()), repo, oracle, "Full-Stack Developer", 6)
	return uc, repo
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create an in-progress session with derived time limits", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, "Full-Stack Developer").Return(twoQuestions(), nil)
		uc, _ := newTestUsecase(t, oracle)

		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)

		assert.Equal(t, domain.SessionStatusInProgress, session.Status)
		assert.Equal(t, 0, session.CurrentQuestionIndex)
		assert.Empty(t, session.Answers)
		require.Len(t, session.Questions, 2)
		assert.Equal(t, 1, session.Questions[0].ID)
		assert.Equal(t, 2, session.Questions[1].ID)
		assert.Equal(t, 20, session.Questions[0].TimeLimitSeconds)
		assert.Equal(t, 120, session.Questions[1].TimeLimitSeconds)
		assert.False(t, session.StartedAt.IsZero())
	})

	t.Run("Should reject a second start for the same candidate", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
		uc, _ := newTestUsecase(t, oracle)

		first, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)

		_, err = uc.Start(ctx, "cand-1")
		assert.ErrorIs(t, err, domain.ErrSessionConflict)

		// First session is untouched by the rejected restart.
		resumed, err := uc.Resume(ctx, "cand-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, resumed.ID)
		assert.Equal(t, domain.SessionStatusInProgress, resumed.Status)
	})

	t.Run("Should fail for an unknown candidate", func(t *testing.T) {
		uc, _ := newTestUsecase(t, new(MockOracle))
		_, err := uc.Start(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Should fail when the oracle returns no questions", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return([]domain.Question{}, nil)
		uc, _ := newTestUsecase(t, oracle)

		_, err := uc.Start(ctx, "cand-1")
		assert.Error(t, err)
	})

	t.Run("Should cap the question batch", func(t *testing.T) {
		many := make([]domain.Question, 10)
		for i := range many {
			many[i] = domain.Question{Text: "q", Difficulty: domain.DifficultyMedium}
		}
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(many, nil)
		uc, _ := newTestUsecase(t, oracle)

		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)
		assert.Len(t, session.Questions, 6)
	})
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()

	start := func(t *testing.T, oracle *MockOracle) (domain.InterviewUsecase, *fakeCandidateRepo, *domain.InterviewSession) {
		t.Helper()
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
		uc, repo := newTestUsecase(t, oracle)
		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)
		return uc, repo, session
	}

	t.Run("Should advance the cursor by exactly one", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, "goroutines are lightweight").
			Return(&domain.ScoreResult{Score: 8, Feedback: "Good."}, nil)
		uc, _, session := start(t, oracle)

		updated, err := uc.SubmitAnswer(ctx, session.ID, 0, "goroutines are lightweight")
		require.NoError(t, err)

		assert.Equal(t, 1, updated.CurrentQuestionIndex)
		require.Len(t, updated.Answers, 1)
		assert.Equal(t, 1, updated.Answers[0].QuestionID)
		assert.Equal(t, 8, updated.Answers[0].Score)
		assert.Equal(t, domain.SessionStatusInProgress, updated.Status)
	})

	t.Run("Should reject out-of-order submissions without advancing", func(t *testing.T) {
		oracle := new(MockOracle)
		uc, _, session := start(t, oracle)

		_, err := uc.SubmitAnswer(ctx, session.ID, 1, "skipping ahead")
		assert.ErrorIs(t, err, domain.ErrOutOfSequence)
		assert.Equal(t, 0, session.CurrentQuestionIndex)
		assert.Empty(t, session.Answers)
	})

	t.Run("Should reject resubmission of an answered question", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ScoreResult{Score: 7, Feedback: "ok"}, nil)
		uc, _, session := start(t, oracle)

		updated, err := uc.SubmitAnswer(ctx, session.ID, 0, "first")
		require.NoError(t, err)

		_, err = uc.SubmitAnswer(ctx, session.ID, 0, "again")
		assert.ErrorIs(t, err, domain.ErrOutOfSequence)
		assert.Equal(t, 1, updated.CurrentQuestionIndex)
	})

	t.Run("Should complete the session after the last answer", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ScoreResult{Score: 6, Feedback: "ok"}, nil)
		uc, repo, session := start(t, oracle)

		_, err := uc.SubmitAnswer(ctx, session.ID, 0, "a1")
		require.NoError(t, err)
		updated, err := uc.SubmitAnswer(ctx, session.ID, 1, "a2")
		require.NoError(t, err)

		assert.Equal(t, domain.SessionStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.Len(t, updated.Answers, len(updated.Questions))
		assert.InDelta(t, 6.0, repo.finalScores["cand-1"], 0.0001)

		// Terminal: no further transitions.
		_, err = uc.SubmitAnswer(ctx, updated.ID, 2, "extra")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Should substitute a neutral score when the oracle fails", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, assert.AnError)
		uc, _, session := start(t, oracle)

		updated, err := uc.SubmitAnswer(ctx, session.ID, 0, "answer")
		require.NoError(t, err)

		require.Len(t, updated.Answers, 1)
		assert.Equal(t, 5, updated.Answers[0].Score)
		assert.NotEmpty(t, updated.Answers[0].Feedback)
		assert.Equal(t, 1, updated.CurrentQuestionIndex)
	})

	t.Run("Should fail for an unknown session", func(t *testing.T) {
		uc, _ := newTestUsecase(t, new(MockOracle))
		_, err := uc.SubmitAnswer(ctx, "missing", 0, "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestExpireTimer(t *testing.T) {
	ctx := context.Background()

	oracle := new(MockOracle)
	oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
	oracle.On("ScoreAnswer", mock.Anything, mock.Anything, "").
		Return(&domain.ScoreResult{Score: 2, Feedback: "No answer given."}, nil)
	uc, _ := newTestUsecase(t, oracle)

	session, err := uc.Start(ctx, "cand-1")
	require.NoError(t, err)

	updated, err := uc.ExpireTimer(ctx, session.ID, 0)
	require.NoError(t, err)

	// A timeout is a zero-effort answer, not an error.
	require.Len(t, updated.Answers, 1)
	assert.Equal(t, "", updated.Answers[0].Text)
	assert.Equal(t, 2, updated.Answers[0].Score)
	assert.Equal(t, 1, updated.CurrentQuestionIndex)
	assert.Equal(t, domain.SessionStatusInProgress, updated.Status)

	// A stale timer for the already-answered index is rejected, not applied.
	_, err = uc.ExpireTimer(ctx, session.ID, 0)
	assert.ErrorIs(t, err, domain.ErrOutOfSequence)
	assert.Equal(t, 1, updated.CurrentQuestionIndex)
}

func TestConcurrentSubmitDuringScoring(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	oracle := new(MockOracle)
	oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
	oracle.On("ScoreAnswer", mock.Anything, mock.Anything, "slow").
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(&domain.ScoreResult{Score: 7, Feedback: "ok"}, nil)
	uc, _ := newTestUsecase(t, oracle)

	session, err := uc.Start(ctx, "cand-1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := uc.SubmitAnswer(ctx, session.ID, 0, "slow")
		done <- err
	}()
	<-started

	// Second submit for the same index while the first awaits the oracle.
	_, err = uc.SubmitAnswer(ctx, session.ID, 0, "racer")
	assert.ErrorIs(t, err, domain.ErrOutOfSequence)

	close(release)
	require.NoError(t, <-done)

	resumed, err := uc.Resume(ctx, "cand-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resumed.CurrentQuestionIndex)
}

// Returned sessions are snapshots: the timekeeper may advance the live
// session while a caller is still serializing the previous view.
func TestReturnedSessionIsDetachedFromLaterTransitions(t *testing.T) {
	ctx := context.Background()

	oracle := new(MockOracle)
	oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
	oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.ScoreResult{Score: 7, Feedback: "ok"}, nil)
	oracle.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
		Return("John Smith is a solid candidate.", nil)
	uc, _ := newTestUsecase(t, oracle)

	session, err := uc.Start(ctx, "cand-1")
	require.NoError(t, err)

	view, err := uc.SubmitAnswer(ctx, session.ID, 0, "a1")
	require.NoError(t, err)
	require.Equal(t, 1, view.CurrentQuestionIndex)

	// Serialize the view while a timer expiry advances the live session.
	done := make(chan error, 1)
	go func() {
		_, err := uc.ExpireTimer(ctx, session.ID, 1)
		done <- err
	}()
	for i := 0; i < 100; i++ {
		_, err := json.Marshal(view)
		require.NoError(t, err)
	}
	require.NoError(t, <-done)

	// The view reflects the state at return time, not the later expiry.
	assert.Equal(t, 1, view.CurrentQuestionIndex)
	assert.Len(t, view.Answers, 1)
	assert.Equal(t, domain.SessionStatusInProgress, view.Status)

	report, err := uc.Summary(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, report.Answers, 2)
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the in-progress session unchanged", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ScoreResult{Score: 9, Feedback: "ok"}, nil)
		uc, _ := newTestUsecase(t, oracle)

		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)
		_, err = uc.SubmitAnswer(ctx, session.ID, 0, "a1")
		require.NoError(t, err)

		resumed, err := uc.Resume(ctx, "cand-1")
		require.NoError(t, err)
		assert.Equal(t, session.ID, resumed.ID)
		assert.Equal(t, 1, resumed.CurrentQuestionIndex)
		assert.Len(t, resumed.Answers, 1)
	})

	t.Run("Should fail when nothing is in progress", func(t *testing.T) {
		uc, _ := newTestUsecase(t, new(MockOracle))
		_, err := uc.Resume(ctx, "cand-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAbandon(t *testing.T) {
	ctx := context.Background()

	oracle := new(MockOracle)
	oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
	uc, _ := newTestUsecase(t, oracle)

	session, err := uc.Start(ctx, "cand-1")
	require.NoError(t, err)

	require.NoError(t, uc.Abandon(ctx, session.ID))
	_, err = uc.Resume(ctx, "cand-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Abandoned is terminal.
	err = uc.Abandon(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.SubmitAnswer(ctx, session.ID, 0, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// The candidate may start over after abandoning.
	_, err = uc.Start(ctx, "cand-1")
	assert.NoError(t, err)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	complete := func(t *testing.T, oracle *MockOracle) (domain.InterviewUsecase, *domain.InterviewSession) {
		t.Helper()
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ScoreResult{Score: 7, Feedback: "ok"}, nil)
		uc, _ := newTestUsecase(t, oracle)
		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)
		_, err = uc.SubmitAnswer(ctx, session.ID, 0, "a1")
		require.NoError(t, err)
		_, err = uc.SubmitAnswer(ctx, session.ID, 1, "a2")
		require.NoError(t, err)
		return uc, session
	}

	t.Run("Should aggregate and hand the tier to the summarizer", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
			Return("John Smith is a solid candidate.", nil)
		uc, session := complete(t, oracle)

		summary, err := uc.Summary(ctx, session.ID)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, summary.Average, 0.0001)
		assert.Equal(t, "solid", summary.Tier)
		assert.Equal(t, "John Smith is a solid candidate.", summary.Summary)
		assert.Len(t, summary.Answers, 2)
	})

	t.Run("Should fall back when the summarizer fails", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
			Return("", assert.AnError)
		uc, session := complete(t, oracle)

		summary, err := uc.Summary(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, "Summary unavailable at this time.", summary.Summary)
	})

	t.Run("Should serve a completed session across a restart", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
		oracle.On("ScoreAnswer", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ScoreResult{Score: 8, Feedback: "ok"}, nil)
		oracle.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
			Return("John Smith is an exceptional candidate.", nil)

		store := newFakeSessionStore()
		repo := newFakeCandidateRepo(testCandidate())
		uc := usecase.NewInterviewUsecase(registry.New(store), repo, oracle, "Full-Stack Developer", 6)

		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)
		_, err = uc.SubmitAnswer(ctx, session.ID, 0, "a1")
		require.NoError(t, err)
		_, err = uc.SubmitAnswer(ctx, session.ID, 1, "a2")
		require.NoError(t, err)

		// A fresh registry over the same store rehydrates only the
		// in-progress rows; the completed row is found on demand.
		restarted := registry.New(store)
		require.NoError(t, restarted.Load(ctx))
		uc2 := usecase.NewInterviewUsecase(restarted, repo, oracle, "Full-Stack Developer", 6)

		summary, err := uc2.Summary(ctx, session.ID)
		require.NoError(t, err)
		assert.InDelta(t, 8.0, summary.Average, 0.0001)
		assert.Len(t, summary.Answers, 2)

		// Terminal state still answers with a state error, not a 404.
		_, err = uc2.SubmitAnswer(ctx, session.ID, 2, "late")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Should reject a summary of an in-progress session", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("GenerateQuestions", mock.Anything, mock.Anything).Return(twoQuestions(), nil)
		uc, _ := newTestUsecase(t, oracle)
		session, err := uc.Start(ctx, "cand-1")
		require.NoError(t, err)

		_, err = uc.Summary(ctx, session.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}
