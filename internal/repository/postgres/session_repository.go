package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionRepository is the durable session store. One row per candidate:
// a new session for the same candidate replaces the previous record,
// mirroring the registry's candidateId keying.
type sessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Save(ctx context.Context, s *domain.InterviewSession) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	query := `
		INSERT INTO interview_sessions
			(id, candidate_id, questions, answers, current_question_index,
			 status, started_at, question_started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (candidate_id) DO UPDATE SET
			id = EXCLUDED.id,
			questions = EXCLUDED.questions,
			answers = EXCLUDED.answers,
			current_question_index = EXCLUDED.current_question_index,
			status = EXCLUDED.status,
			started_at = EXCLUDED.started_at,
			question_started_at = EXCLUDED.question_started_at,
			completed_at = EXCLUDED.completed_at`

	_, err = r.db.Exec(ctx, query,
		s.ID, s.CandidateID, questions, answers, s.CurrentQuestionIndex,
		s.Status, s.StartedAt, s.QuestionStartedAt, s.CompletedAt,
	)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.InterviewSession, error) {
	query := sessionSelect + ` WHERE id = $1`

	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetByCandidateID(ctx context.Context, candidateID string) (*domain.InterviewSession, error) {
	query := sessionSelect + ` WHERE candidate_id = $1`

	s, err := scanSession(r.db.QueryRow(ctx, query, candidateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListInProgress(ctx context.Context) ([]domain.InterviewSession, error) {
	query := sessionSelect + ` WHERE status = $1 ORDER BY started_at`

	rows, err := r.db.Query(ctx, query, domain.SessionStatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.InterviewSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

const sessionSelect = `
	SELECT
		id, candidate_id, questions, answers, current_question_index,
		status, started_at, question_started_at, completed_at
	FROM interview_sessions`

func scanSession(row pgx.Row) (*domain.InterviewSession, error) {
	var s domain.InterviewSession
	var questions, answers []byte

	err := row.Scan(
		&s.ID, &s.CandidateID, &questions, &answers, &s.CurrentQuestionIndex,
		&s.Status, &s.StartedAt, &s.QuestionStartedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questions, &s.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	// Time limits are derived, never trusted from storage.
	for i := range s.Questions {
		s.Questions[i].TimeLimitSeconds = int(s.Questions[i].Difficulty.TimeLimit().Seconds())
	}
	return &s, nil
}
