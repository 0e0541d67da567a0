package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const samplePayload = `{"question": "Which design keeps the app available?",
"answer_choices": [
 {"answer": "Run a single EC2 instance", "is_correct": "False", "explanation": "Single point of failure."},
 {"answer": "Use one Availability Zone", "is_correct": "false", "explanation": "An AZ outage takes it down."},
 {"answer": "Deploy across multiple AZs behind an ALB", "is_correct": "TRUE", "explanation": "Survives an AZ outage."},
 {"answer": "Take nightly snapshots", "is_correct": "false", "explanation": "Backups are not availability."}
]}`

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Flag
		wantErr bool
	}{
		{`"true"`, true, false},
		{`"True"`, true, false},
		{`"FALSE"`, false, false},
		{`" true "`, true, false},
		{`""`, false, false},
		{`true`, true, false},
		{`false`, false, false},
		{`"yes"`, false, true},
		{`1`, false, true},
	}

	for _, tt := range tests {
		var f Flag
		err := json.Unmarshal([]byte(tt.in), &f)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && f != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, f, tt.want)
		}
	}
}

func TestParseQuizQuestion(t *testing.T) {
	q, err := ParseQuizQuestion(samplePayload)
	if err != nil {
		t.Fatalf("ParseQuizQuestion failed: %v", err)
	}
	if len(q.Choices) != ChoiceCount {
		t.Fatalf("expected %d choices, got %d", ChoiceCount, len(q.Choices))
	}

	idx, err := q.CorrectIndex()
	if err != nil {
		t.Fatalf("CorrectIndex failed: %v", err)
	}
	if idx != 2 {
		t.Errorf("expected correct index 2, got %d", idx)
	}
}

func TestParseQuizQuestion_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":      `here is your question`,
		"three choices": `{"question":"q","answer_choices":[{"answer":"a"},{"answer":"b"},{"answer":"c"}]}`,
		"no question":   `{"question":"","answer_choices":[{"answer":"a"},{"answer":"b"},{"answer":"c"},{"answer":"d"}]}`,
		"empty answer":  `{"question":"q","answer_choices":[{"answer":"a"},{"answer":""},{"answer":"c"},{"answer":"d"}]}`,
		"bad flag":      `{"question":"q","answer_choices":[{"answer":"a","is_correct":"maybe"},{"answer":"b"},{"answer":"c"},{"answer":"d"}]}`,
	}

	for name, raw := range tests {
		if _, err := ParseQuizQuestion(raw); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestCorrectIndex_Integrity(t *testing.T) {
	none := &QuizQuestion{Question: "q", Choices: make([]AnswerChoice, ChoiceCount)}
	if _, err := none.CorrectIndex(); err == nil {
		t.Error("expected error when no choice is correct")
	}

	two := &QuizQuestion{Question: "q", Choices: []AnswerChoice{
		{Answer: "a", IsCorrect: true},
		{Answer: "b"},
		{Answer: "c", IsCorrect: true},
		{Answer: "d"},
	}}
	_, err := two.CorrectIndex()
	if err == nil {
		t.Fatal("expected error when two choices are correct")
	}
	if !strings.Contains(err.Error(), "2 choices") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestQuizQuestion_RoundTrip(t *testing.T) {
	q, err := ParseQuizQuestion(samplePayload)
	if err != nil {
		t.Fatalf("ParseQuizQuestion failed: %v", err)
	}

	encoded, err := q.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(encoded, `"is_correct":"true"`) {
		t.Errorf("expected string flag in encoded payload: %s", encoded)
	}

	again, err := ParseQuizQuestion(encoded)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if !reflect.DeepEqual(q.Choices, again.Choices) {
		t.Errorf("choices changed across round trip:\n got %+v\nwant %+v", again.Choices, q.Choices)
	}
}

func TestDocumentID_String(t *testing.T) {
	id := DocumentID{Title: "Reliability Pillar", URL: "https://docs.aws.amazon.com/wellarchitected/"}
	if got := id.String(); got != "Reliability Pillar (https://docs.aws.amazon.com/wellarchitected/)" {
		t.Errorf("unexpected String(): %s", got)
	}
}
