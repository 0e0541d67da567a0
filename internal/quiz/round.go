// Package quiz grades answers to generated questions and loads the question list.
package quiz

import (
	"errors"
	"fmt"

	"github.com/ppiankov/saaquiz/internal/model"
)

// State is the grading state of a Round
type State int

const (
	// Unanswered means no choice has been submitted yet
	Unanswered State = iota
	// Graded means a choice was submitted and the outcome is final
	Graded
)

func (s State) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Graded:
		return "graded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrAlreadyGraded is returned when a graded round receives another submission
	ErrAlreadyGraded = errors.New("question already graded")

	// ErrChoiceOutOfRange is returned for a choice index outside [0, 4)
	ErrChoiceOutOfRange = errors.New("choice out of range")
)

// IntegrityError reports a question that cannot be graded, such as a payload
// that fails to decode or does not flag exactly one correct choice.
type IntegrityError struct {
	Index int
	Err   error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("question %d: %v", e.Index, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// Label returns the display letter of a choice index (0 -> "A")
func Label(index int) string {
	return string(rune('A' + index))
}

// ChoiceReveal is one choice as shown after grading
type ChoiceReveal struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
	Correct     bool   `json:"correct"`
}

// Resources is the study material shown with every graded question
type Resources struct {
	Domain string   `json:"domain"`
	Task   string   `json:"task"`
	Focus  string   `json:"focus"`
	Item   string   `json:"item"`
	Docs   []string `json:"docs"`
}

// Outcome is the result of grading one submission
type Outcome struct {
	Correct   bool           `json:"correct"`
	Headline  string         `json:"headline"`
	Selected  ChoiceReveal   `json:"selected"`
	Answer    ChoiceReveal   `json:"answer"`
	Others    []ChoiceReveal `json:"others"`
	Resources Resources      `json:"resources"`
	Prompt    string         `json:"prompt"`
}

// Round is one question being answered. Choices keep their stored order.
type Round struct {
	Index    int
	Entry    model.GeneratedQuestion
	Question *model.QuizQuestion

	correct int
	state   State
	outcome *Outcome
}

// NewRound decodes the question payload of entry and checks that exactly one
// choice is flagged correct. Any failure is returned as *IntegrityError.
func NewRound(index int, entry model.GeneratedQuestion) (*Round, error) {
	q, err := model.ParseQuizQuestion(entry.Question)
	if err != nil {
		return nil, &IntegrityError{Index: index, Err: err}
	}

	correct, err := q.CorrectIndex()
	if err != nil {
		return nil, &IntegrityError{Index: index, Err: err}
	}

	return &Round{
		Index:    index,
		Entry:    entry,
		Question: q,
		correct:  correct,
		state:    Unanswered,
	}, nil
}

// State returns the current grading state
func (r *Round) State() State {
	return r.state
}

// Outcome returns the grading result, or nil while the round is unanswered
func (r *Round) Outcome() *Outcome {
	return r.outcome
}

// Submit grades choice. A round accepts exactly one submission.
func (r *Round) Submit(choice int) (*Outcome, error) {
	if r.state == Graded {
		return nil, ErrAlreadyGraded
	}
	if choice < 0 || choice >= len(r.Question.Choices) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrChoiceOutOfRange, choice, len(r.Question.Choices))
	}

	out := &Outcome{
		Correct:  choice == r.correct,
		Selected: r.reveal(choice),
		Answer:   r.reveal(r.correct),
		Resources: Resources{
			Domain: r.Entry.Domain,
			Task:   r.Entry.Task,
			Focus:  r.Entry.Focus,
			Item:   r.Entry.Item,
			Docs:   r.Entry.Docs,
		},
		Prompt: r.Entry.Prompt,
	}
	for i := range r.Question.Choices {
		if i != choice {
			out.Others = append(out.Others, r.reveal(i))
		}
	}

	verdict := "Wrong!"
	if out.Correct {
		verdict = "Correct!"
	}
	out.Headline = fmt.Sprintf("%s %s: %s", verdict, out.Selected.Label, out.Selected.Text)

	r.state = Graded
	r.outcome = out
	return out, nil
}

func (r *Round) reveal(i int) ChoiceReveal {
	c := r.Question.Choices[i]
	return ChoiceReveal{
		Index:       i,
		Label:       Label(i),
		Text:        c.Answer,
		Explanation: c.Explanation,
		Correct:     bool(c.IsCorrect),
	}
}
