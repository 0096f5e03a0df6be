package usecase_test

import (
	"context"
	"testing"

	"github.com/Dharanish-AM/InterVueAI/internal/document"
	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/usecase"
	"github.com/Dharanish-AM/InterVueAI/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntake(t *testing.T) (domain.IntakeUsecase, *fakeCandidateRepo) {
	t.Helper()
	repo := newFakeCandidateRepo()
	decoder := document.NewRegistry()
	decoder.Register(document.MimeText, document.PlainText{})
	validate := validator.New()
	validation.RegisterValidators(validate)
	return usecase.NewIntakeUsecase(repo, decoder, validate), repo
}

const goodResume = "John Smith\njohn@x.com\n555-123-4567\nSkills: React, Node.js\n3 years experience"

func TestProcessResume(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a candidate from a valid resume", func(t *testing.T) {
		uc, repo := newIntake(t)

		candidate, result, err := uc.ProcessResume(ctx, []byte(goodResume), "text/plain")
		require.NoError(t, err)
		require.NotNil(t, candidate)

		assert.True(t, result.IsValid)
		assert.Equal(t, "John Smith", candidate.Name)
		assert.Equal(t, "john@x.com", candidate.Email)
		assert.Equal(t, "5551234567", candidate.Phone)
		assert.Equal(t, []string{"React", "Node.js"}, candidate.Skills)
		assert.Equal(t, "3 years", candidate.YearsExperience)
		assert.NotEmpty(t, candidate.ID)

		stored, err := repo.GetByID(ctx, candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, candidate, stored)
	})

	t.Run("Should reject a resume missing required fields", func(t *testing.T) {
		uc, _ := newIntake(t)

		candidate, result, err := uc.ProcessResume(ctx, []byte("just some text without contact details"), "text/plain")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, candidate)
		require.NotNil(t, result)
		assert.False(t, result.IsValid)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("Should surface unsupported formats", func(t *testing.T) {
		uc, _ := newIntake(t)

		_, _, err := uc.ProcessResume(ctx, []byte{0xff}, "image/png")
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}

func TestGetCandidate(t *testing.T) {
	ctx := context.Background()
	uc, repo := newIntake(t)

	require.NoError(t, repo.Create(ctx, testCandidate()))

	found, err := uc.GetCandidate(ctx, "cand-1")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", found.Name)

	_, err = uc.GetCandidate(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiscardCandidate(t *testing.T) {
	ctx := context.Background()
	uc, repo := newIntake(t)

	require.NoError(t, repo.Create(ctx, testCandidate()))
	require.NoError(t, uc.DiscardCandidate(ctx, "cand-1"))

	_, err := uc.GetCandidate(ctx, "cand-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
