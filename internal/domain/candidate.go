package domain

import (
	"context"
	"time"
)

// Candidate is created once per accepted resume upload and is immutable
// afterwards except for FinalScore, which is set when the interview
// session completes.
type Candidate struct {
	ID              string    `json:"id"`
	Name            string    `json:"name" validate:"required,min=2,max=100,name_shaped"`
	Email           string    `json:"email" validate:"required,email"`
	Phone           string    `json:"phone" validate:"required,phone_digits"`
	YearsExperience string    `json:"years_experience,omitempty"`
	Skills          []string  `json:"skills"`
	ResumeRawText   string    `json:"resume_raw_text,omitempty"`
	ParsedAt        time.Time `json:"parsed_at"`
	FinalScore      *float64  `json:"final_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	SetFinalScore(ctx context.Context, id string, score float64) error
	Delete(ctx context.Context, id string) error
}

// IntakeUsecase turns an uploaded resume document into a stored Candidate.
type IntakeUsecase interface {
	ProcessResume(ctx context.Context, data []byte, mimeType string) (*Candidate, *ResumeValidation, error)
	GetCandidate(ctx context.Context, id string) (*Candidate, error)
	DiscardCandidate(ctx context.Context, id string) error
}
