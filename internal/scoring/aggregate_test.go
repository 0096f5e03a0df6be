package scoring_test

import (
	"testing"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/scoring"

	"github.com/stretchr/testify/assert"
)

func answers(scores ...int) []domain.Answer {
	out := make([]domain.Answer, len(scores))
	for i, s := range scores {
		out[i] = domain.Answer{QuestionID: i + 1, Score: s}
	}
	return out
}

func TestAverage(t *testing.T) {
	avg, err := scoring.Average(answers(10, 6, 5))
	assert.NoError(t, err)
	assert.InDelta(t, 7.0, avg, 0.0001)
}

func TestAverageEmptyInput(t *testing.T) {
	_, err := scoring.Average(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestTierBands(t *testing.T) {
	cases := []struct {
		average float64
		want    string
	}{
		{10, scoring.TierExceptional},
		{8, scoring.TierExceptional},
		{7.99, scoring.TierSolid},
		{6, scoring.TierSolid},
		{5.99, scoring.TierBasic},
		{4, scoring.TierBasic},
		{3.99, scoring.TierNeedsImprovement},
		{0, scoring.TierNeedsImprovement},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, scoring.Tier(tc.average), "average %v", tc.average)
	}
}

// Every value in [0,10] must land in exactly one band.
func TestTierIsTotalPartition(t *testing.T) {
	known := map[string]bool{
		scoring.TierExceptional:      true,
		scoring.TierSolid:            true,
		scoring.TierBasic:            true,
		scoring.TierNeedsImprovement: true,
	}
	for v := 0.0; v <= 10.0; v += 0.1 {
		assert.True(t, known[scoring.Tier(v)], "average %v", v)
	}
}
