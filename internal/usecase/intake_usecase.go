package usecase

import (
	"context"
	"time"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/resume"
	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type intakeUsecase struct {
	candidateRepo domain.CandidateRepository
	decoder       domain.ResumeDecoder
	validate      *validator.Validate
}

func NewIntakeUsecase(candidateRepo domain.CandidateRepository, decoder domain.ResumeDecoder, validate *validator.Validate) domain.IntakeUsecase {
	return &intakeUsecase{
		candidateRepo: candidateRepo,
		decoder:       decoder,
		validate:      validate,
	}
}

// ProcessResume runs the intake pipeline: decode, extract, validate,
// commit. The extracted fields and per-rule validation result are
// returned even on rejection so the caller can surface corrections.
func (u *intakeUsecase) ProcessResume(ctx context.Context, data []byte, mimeType string) (*domain.Candidate, *domain.ResumeValidation, error) {
	text, err := u.decoder.Decode(data, mimeType)
	if err != nil {
		// Decoder failures are surfaced as-is; the same file would
		// fail identically on retry.
		return nil, nil, err
	}

	fields := resume.Extract(text)
	validation := resume.Validate(fields)
	if !validation.IsValid {
		return nil, &validation, apperror.UnprocessableEntity(
			"Resume is missing required fields", domain.ErrValidation)
	}

	candidate := &domain.Candidate{
		ID:              uuid.NewString(),
		Name:            fields.Name,
		Email:           fields.Email,
		Phone:           fields.Phone,
		YearsExperience: fields.Experience,
		Skills:          fields.Skills,
		ResumeRawText:   fields.RawText,
		ParsedAt:        fields.ParsedAt,
		CreatedAt:       time.Now().UTC(),
	}

	// Belt and braces: the struct tags re-assert the field invariants
	// the rule validator just checked.
	if err := u.validate.Struct(candidate); err != nil {
		return nil, &validation, apperror.UnprocessableEntity(err.Error(), domain.ErrValidation)
	}

	if err := u.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, &validation, apperror.Internal(err)
	}

	logger.Log.Info("candidate created from resume",
		"candidate_id", candidate.ID, "skills", len(candidate.Skills))
	return candidate, &validation, nil
}

func (u *intakeUsecase) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	candidate, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found", domain.ErrNotFound)
	}
	return candidate, nil
}

// DiscardCandidate removes a candidate record. Used by the start-new
// flow, which replaces the previous candidate wholesale.
func (u *intakeUsecase) DiscardCandidate(ctx context.Context, id string) error {
	if err := u.candidateRepo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
