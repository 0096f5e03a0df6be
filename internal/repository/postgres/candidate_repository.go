package postgres

import (
	"context"
	"errors"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	query := `
		INSERT INTO candidates
			(id, name, email, phone, years_experience, skills, resume_raw_text, parsed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.YearsExperience,
		pq.Array(c.Skills), c.ResumeRawText, c.ParsedAt, c.CreatedAt,
	)
	return err
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := `
		SELECT
			id, name, email, phone,
			COALESCE(years_experience, ''), skills,
			COALESCE(resume_raw_text, ''), parsed_at, final_score, created_at
		FROM candidates WHERE id = $1`

	var c domain.Candidate
	var skills []string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone,
		&c.YearsExperience, pq.Array(&skills),
		&c.ResumeRawText, &c.ParsedAt, &c.FinalScore, &c.CreatedAt,
	)
	c.Skills = skills

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) SetFinalScore(ctx context.Context, id string, score float64) error {
	query := `UPDATE candidates SET final_score = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, score, id)
	return err
}

func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM candidates WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
