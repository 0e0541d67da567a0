package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ChoiceCount is the number of answer choices every question carries
const ChoiceCount = 4

var validate = validator.New()

// Validate checks struct tags on any model record
func Validate(v any) error {
	return validate.Struct(v)
}

// GeneratedQuestion is one generator output entry.
// Question holds the model's JSON payload as a string; it is decoded again at render time.
type GeneratedQuestion struct {
	Scenario string   `json:"scenario" validate:"required"`
	Domain   string   `json:"domain" validate:"required"`
	Task     string   `json:"task"`
	Focus    string   `json:"focus"`
	Item     string   `json:"item" validate:"required"`
	Prompt   string   `json:"prompt"`   // Prompt the question was generated from
	Question string   `json:"question"` // Raw model output from the first '{'
	Docs     []string `json:"docs"`     // Cited document identifiers, ranked order
}

// QuestionSet is the artifact shared by the generator and the quiz runtime
type QuestionSet struct {
	Questions []GeneratedQuestion `json:"question_list" validate:"dive"`
}

// Flag is a correctness flag. The wire form is the string "true" or "false"
// (any case); a JSON boolean is accepted too.
type Flag bool

// MarshalJSON writes the flag in its string form
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"true"`), nil
	}
	return []byte(`"false"`), nil
}

// UnmarshalJSON accepts "true"/"false" strings in any case and JSON booleans
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("is_correct: expected string or boolean, got %s", string(data))
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		*f = true
	case "false", "":
		*f = false
	default:
		return fmt.Errorf("is_correct: invalid value %q", s)
	}
	return nil
}

// AnswerChoice is one of the four options of a question
type AnswerChoice struct {
	Answer      string `json:"answer" validate:"required"`
	IsCorrect   Flag   `json:"is_correct"`
	Explanation string `json:"explanation"`
}

// QuizQuestion is the decoded payload of GeneratedQuestion.Question
type QuizQuestion struct {
	Question string         `json:"question" validate:"required"`
	Choices  []AnswerChoice `json:"answer_choices" validate:"len=4,dive"`
}

// CorrectCount returns how many choices are flagged correct
func (q *QuizQuestion) CorrectCount() int {
	n := 0
	for _, c := range q.Choices {
		if c.IsCorrect {
			n++
		}
	}
	return n
}

// CorrectIndex returns the index of the single correct choice.
// It fails unless exactly one choice is flagged correct.
func (q *QuizQuestion) CorrectIndex() (int, error) {
	idx := -1
	for i, c := range q.Choices {
		if !c.IsCorrect {
			continue
		}
		if idx >= 0 {
			return -1, fmt.Errorf("%d choices flagged correct, want exactly 1", q.CorrectCount())
		}
		idx = i
	}
	if idx < 0 {
		return -1, fmt.Errorf("no choice flagged correct, want exactly 1")
	}
	return idx, nil
}

// ParseQuizQuestion decodes and validates a question payload
func ParseQuizQuestion(raw string) (*QuizQuestion, error) {
	var q QuizQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("decode question payload: %w", err)
	}
	if err := validate.Struct(&q); err != nil {
		return nil, fmt.Errorf("invalid question payload: %w", err)
	}
	return &q, nil
}

// Encode serializes the payload back to its JSON string form
func (q *QuizQuestion) Encode() (string, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode question payload: %w", err)
	}
	return string(data), nil
}
