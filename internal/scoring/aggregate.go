package scoring

import (
	"github.com/Dharanish-AM/InterVueAI/internal/domain"
)

// Tier labels partition the [0,10] average into four bands.
const (
	TierExceptional      = "exceptional"
	TierSolid            = "solid"
	TierBasic            = "basic"
	TierNeedsImprovement = "needs improvement"
)

// Average computes the mean score of a completed session's answers.
// A completed session always has answers, so an empty input is an
// invariant violation rather than a user-facing condition.
func Average(answers []domain.Answer) (float64, error) {
	if len(answers) == 0 {
		return 0, domain.ErrEmptyInput
	}
	sum := 0
	for _, a := range answers {
		sum += a.Score
	}
	return float64(sum) / float64(len(answers)), nil
}

// Tier maps an average score to its qualitative band.
func Tier(average float64) string {
	switch {
	case average >= 8:
		return TierExceptional
	case average >= 6:
		return TierSolid
	case average >= 4:
		return TierBasic
	default:
		return TierNeedsImprovement
	}
}
