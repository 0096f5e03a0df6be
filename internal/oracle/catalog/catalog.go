package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/scoring"
)

// Entry is one canned question in the catalog.
type Entry struct {
	Role            string
	Question        string
	Difficulty      domain.Difficulty
	ReferenceAnswer string
}

// Oracle serves questions from a fixed catalog and scores answers
// against their reference answers. It backs development and acts as the
// fallback when no LLM oracle is configured.
type Oracle struct {
	entries []Entry
}

func New(entries []Entry) *Oracle {
	if entries == nil {
		entries = DefaultEntries()
	}
	return &Oracle{entries: entries}
}

var difficultyRank = map[domain.Difficulty]int{
	domain.DifficultyEasy:   0,
	domain.DifficultyMedium: 1,
	domain.DifficultyHard:   2,
}

// GenerateQuestions returns the role's questions ordered easy to hard,
// ids assigned 1-based. Time limits are stamped by the caller.
func (o *Oracle) GenerateQuestions(_ context.Context, role string) ([]domain.Question, error) {
	var matched []Entry
	for _, e := range o.entries {
		if strings.EqualFold(e.Role, role) {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return difficultyRank[matched[i].Difficulty] < difficultyRank[matched[j].Difficulty]
	})

	questions := make([]domain.Question, 0, len(matched))
	for i, e := range matched {
		questions = append(questions, domain.Question{
			ID:              i + 1,
			Text:            e.Question,
			Difficulty:      e.Difficulty,
			ReferenceAnswer: e.ReferenceAnswer,
		})
	}
	return questions, nil
}

// ScoreAnswer compares the answer against the question's reference
// answer. No reference means a neutral score; containment is treated as
// a full answer, anything else as partial.
func (o *Oracle) ScoreAnswer(_ context.Context, question domain.Question, answerText string) (*domain.ScoreResult, error) {
	reference := strings.TrimSpace(question.ReferenceAnswer)
	if reference == "" {
		return &domain.ScoreResult{
			Score:    5,
			Feedback: "No reference answer found, score is neutral.",
		}, nil
	}

	if strings.Contains(strings.ToLower(answerText), strings.ToLower(reference)) {
		return &domain.ScoreResult{
			Score:    10,
			Feedback: "Excellent answer!",
		}, nil
	}

	return &domain.ScoreResult{
		Score:    6,
		Feedback: "Partial answer, consider including more details.",
	}, nil
}

// Summarize renders the per-tier closing text for the candidate.
func (o *Oracle) Summarize(_ context.Context, candidate *domain.Candidate, answers []domain.Answer) (string, error) {
	average, err := scoring.Average(answers)
	if err != nil {
		return "", err
	}

	switch scoring.Tier(average) {
	case scoring.TierExceptional:
		return fmt.Sprintf("%s is an exceptional candidate with strong technical knowledge. Highly recommended.", candidate.Name), nil
	case scoring.TierSolid:
		return fmt.Sprintf("%s is a solid candidate with good understanding of concepts. Shows potential.", candidate.Name), nil
	case scoring.TierBasic:
		return fmt.Sprintf("%s has basic knowledge but may need additional support.", candidate.Name), nil
	default:
		return fmt.Sprintf("%s needs significant improvement before being considered.", candidate.Name), nil
	}
}

// DefaultEntries covers the default interview role out of the box.
func DefaultEntries() []Entry {
	const role = "Full-Stack Developer"
	return []Entry{
		{Role: role, Difficulty: domain.DifficultyEasy,
			Question:        "What does HTML stand for?",
			ReferenceAnswer: "hypertext markup language"},
		{Role: role, Difficulty: domain.DifficultyEasy,
			Question:        "Which HTTP method is conventionally used to create a resource in a REST API?",
			ReferenceAnswer: "post"},
		{Role: role, Difficulty: domain.DifficultyMedium,
			Question:        "Explain the difference between SQL and NoSQL databases.",
			ReferenceAnswer: "schema"},
		{Role: role, Difficulty: domain.DifficultyMedium,
			Question:        "What is a closure in JavaScript and when would you use one?",
			ReferenceAnswer: "scope"},
		{Role: role, Difficulty: domain.DifficultyHard,
			Question:        "How would you design a rate limiter for a public API?",
			ReferenceAnswer: "token bucket"},
		{Role: role, Difficulty: domain.DifficultyHard,
			Question:        "Describe how you would diagnose and fix an N+1 query problem in production.",
			ReferenceAnswer: "eager loading"},
	}
}
