package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Oracle asks Gemini for interview questions, answer scores and the
// closing summary. The model's output is loosely shaped text; every
// parse path either yields a typed value or a MalformedOutputError the
// caller can degrade on.
type Oracle struct {
	generator contentGenerator
}

func NewOracle(generator contentGenerator) *Oracle {
	return &Oracle{generator: generator}
}

// MalformedOutputError carries the raw model output for a response that
// could not be parsed into the expected shape.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed oracle output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

const questionsPromptTemplate = `You are a technical interviewer preparing a %s interview.
Produce exactly %d interview questions: 2 easy, 2 medium, 2 hard.
Respond with a JSON array only, no prose, where each element is:
{"question": "...", "difficulty": "easy|medium|hard", "reference_answer": "..."}`

const scorePromptTemplate = `You are scoring one interview answer for a %s question.
Question: %s
Reference answer (may be empty): %s
Candidate answer: %s
Respond with JSON only: {"score": <integer 0-10>, "feedback": "<one short sentence>"}`

const summaryPromptTemplate = `Write a 2-3 sentence hiring summary for candidate %s.
Their answers and scores (0-10) were:
%s
Respond with plain text only.`

const questionBatchSize = 6

func (o *Oracle) GenerateQuestions(ctx context.Context, role string) ([]domain.Question, error) {
	prompt := fmt.Sprintf(questionsPromptTemplate, role, questionBatchSize)

	raw, err := o.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseQuestions(raw)
}

func (o *Oracle) ScoreAnswer(ctx context.Context, question domain.Question, answerText string) (*domain.ScoreResult, error) {
	prompt := fmt.Sprintf(scorePromptTemplate,
		question.Difficulty, question.Text, question.ReferenceAnswer, answerText)

	raw, err := o.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseScore(raw)
}

func (o *Oracle) Summarize(ctx context.Context, candidate *domain.Candidate, answers []domain.Answer) (string, error) {
	var sb strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&sb, "- Q%d (score %d): %s\n", a.QuestionID, a.Score, a.Text)
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, candidate.Name, sb.String())
	return o.generator.GenerateContent(ctx, prompt)
}

func parseQuestions(raw string) ([]domain.Question, error) {
	cleaned := extractJSON(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, &MalformedOutputError{Raw: raw, Err: err}
	}

	var questions []domain.Question
	for _, item := range items {
		text := coerceString(item["question"])
		if text == "" {
			continue
		}
		questions = append(questions, domain.Question{
			ID:              len(questions) + 1,
			Text:            text,
			Difficulty:      coerceDifficulty(item["difficulty"]),
			ReferenceAnswer: coerceString(item["reference_answer"]),
		})
	}

	if len(questions) == 0 {
		return nil, &MalformedOutputError{Raw: raw, Err: fmt.Errorf("no usable questions in response")}
	}
	return questions, nil
}

func parseScore(raw string) (*domain.ScoreResult, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, &MalformedOutputError{Raw: raw, Err: err}
	}

	score, ok := coerceScore(data["score"])
	if !ok {
		return nil, &MalformedOutputError{Raw: raw, Err: fmt.Errorf("score field missing or out of range")}
	}

	return &domain.ScoreResult{
		Score:    score,
		Feedback: coerceString(data["feedback"]),
	}, nil
}

// extractJSON strips markdown code fences the model likes to wrap
// payloads in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func coerceDifficulty(v any) domain.Difficulty {
	switch domain.Difficulty(strings.ToLower(coerceString(v))) {
	case domain.DifficultyEasy:
		return domain.DifficultyEasy
	case domain.DifficultyHard:
		return domain.DifficultyHard
	default:
		return domain.DifficultyMedium
	}
}

func coerceScore(v any) (int, bool) {
	var score float64
	switch val := v.(type) {
	case float64:
		score = val
	case string:
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%f", &score); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	rounded := int(score + 0.5)
	if rounded < 0 || rounded > 10 {
		return 0, false
	}
	return rounded, true
}
