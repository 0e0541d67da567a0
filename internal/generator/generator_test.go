package generator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/saaquiz/internal/llm"
	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/prompt"
	"github.com/ppiankov/saaquiz/internal/rank"
)

var (
	docS3  = model.DocumentID{Title: "Amazon S3", URL: "https://docs.aws.amazon.com/s3/"}
	docEBS = model.DocumentID{Title: "Amazon EBS", URL: "https://docs.aws.amazon.com/ebs/"}
)

type docMap map[model.DocumentID]model.Document

func (m docMap) Document(id model.DocumentID) (model.Document, bool) {
	d, ok := m[id]
	return d, ok
}

type fakeRanker struct {
	queries []string
}

func (r *fakeRanker) Rank(ctx context.Context, query string) ([]rank.Scored, error) {
	r.queries = append(r.queries, query)
	return []rank.Scored{{Score: 0.9, ID: docS3}, {Score: 0.8, ID: docEBS}}, nil
}

type fakeProvider struct {
	down    bool
	failOn  map[string]bool
	prompts []string
	systems []string
}

func (p *fakeProvider) Name() string                         { return "fake" }
func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return !p.down }

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.prompts = append(p.prompts, req.Prompt)
	p.systems = append(p.systems, req.System)
	for item := range p.failOn {
		if strings.Contains(req.Prompt, "Knowledge Area: "+item) {
			return nil, errors.New("model unavailable")
		}
	}
	return &llm.CompletionResponse{
		Text:       `Sure! {"question": "q", "answer_choices": []}`,
		TokensUsed: 10,
	}, nil
}

func newTestGenerator(t *testing.T, provider *fakeProvider, opts Options) (*Generator, *fakeRanker) {
	t.Helper()

	docs := docMap{
		docS3:  {ID: docS3, Content: "S3 stores objects\nin buckets.", Tokens: 6},
		docEBS: {ID: docEBS, Content: "EBS provides block volumes.", Tokens: 2000},
	}
	ranker := &fakeRanker{}
	assembler := prompt.NewAssembler(docs, 1500, "\n* ", prompt.FixedCounter(3))

	g, err := New(ranker, assembler, provider, []string{"scenario one", "scenario two", "scenario three"}, opts)
	require.NoError(t, err)
	return g, ranker
}

func testItems() []model.DomainItem {
	return []model.DomainItem{
		{Domain: "Design Resilient Architectures", Task: "Task 1", Focus: "Storage", Item: "Object storage"},
		{Domain: "Design Resilient Architectures", Task: "Task 1", Focus: "Storage", Item: "Block storage"},
		{Domain: "Design Cost-Optimized Architectures", Task: "Task 4", Focus: "Compute", Item: "Spot Instances"},
	}
}

func TestGenerator_Run(t *testing.T) {
	provider := &fakeProvider{}
	g, ranker := newTestGenerator(t, provider, Options{Seed: 7})

	set, stats, err := g.Run(context.Background(), testItems())
	require.NoError(t, err)
	require.Len(t, set.Questions, 3)

	assert.Equal(t, []string{"Object storage", "Block storage", "Spot Instances"}, ranker.queries)
	assert.Equal(t, 3, stats.Generated)
	assert.Equal(t, 30, stats.TokensUsed)

	q := set.Questions[0]
	assert.Equal(t, "Object storage", q.Item)
	assert.Equal(t, "Storage", q.Focus)
	assert.Equal(t, `{"question": "q", "answer_choices": []}`, q.Question)
	assert.Equal(t, []string{"Amazon S3 (https://docs.aws.amazon.com/s3/)"}, q.Docs)
	assert.Contains(t, q.Prompt, "\n* S3 stores objects in buckets.")
	assert.Contains(t, q.Prompt, "Scenario:\n"+q.Scenario)
	assert.Equal(t, prompt.SystemInstruction, provider.systems[0])
	assert.Equal(t, q.Prompt, provider.prompts[0])
}

func TestGenerator_UnavailableProvider(t *testing.T) {
	provider := &fakeProvider{down: true}
	g, ranker := newTestGenerator(t, provider, Options{ContinueOnError: true})

	set, _, err := g.Run(context.Background(), testItems())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Nil(t, set)
	assert.Empty(t, ranker.queries)
	assert.Empty(t, provider.prompts)
}

func TestGenerator_AbortsOnFirstError(t *testing.T) {
	provider := &fakeProvider{failOn: map[string]bool{"Block storage": true}}
	g, _ := newTestGenerator(t, provider, Options{})

	set, stats, err := g.Run(context.Background(), testItems())
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "Block storage")
	assert.Equal(t, 1, stats.Generated)
	assert.Len(t, provider.prompts, 2, "no calls after the failing item")
}

func TestGenerator_ContinueOnError(t *testing.T) {
	provider := &fakeProvider{failOn: map[string]bool{"Block storage": true}}
	g, _ := newTestGenerator(t, provider, Options{ContinueOnError: true})

	set, stats, err := g.Run(context.Background(), testItems())
	require.NoError(t, err)
	require.Len(t, set.Questions, 2)
	assert.Equal(t, "Object storage", set.Questions[0].Item)
	assert.Equal(t, "Spot Instances", set.Questions[1].Item)
	assert.Equal(t, 1, stats.Skipped)
}

func TestGenerator_ContinueOnErrorAllFail(t *testing.T) {
	provider := &fakeProvider{failOn: map[string]bool{"Object storage": true, "Block storage": true, "Spot Instances": true}}
	g, _ := newTestGenerator(t, provider, Options{ContinueOnError: true})

	_, stats, err := g.Run(context.Background(), testItems())
	assert.ErrorIs(t, err, ErrAllFailed)
	assert.Equal(t, 3, stats.Skipped)
}

func TestGenerator_Limit(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGenerator(t, provider, Options{Limit: 2})

	set, stats, err := g.Run(context.Background(), testItems())
	require.NoError(t, err)
	assert.Len(t, set.Questions, 2)
	assert.Equal(t, 2, stats.Total)
}

func TestGenerator_SeededScenariosRepeat(t *testing.T) {
	scenarios := func() []string {
		g, _ := newTestGenerator(t, &fakeProvider{}, Options{Seed: 99})
		set, _, err := g.Run(context.Background(), testItems())
		require.NoError(t, err)

		var out []string
		for _, q := range set.Questions {
			out = append(out, q.Scenario)
		}
		return out
	}

	assert.Equal(t, scenarios(), scenarios())
}

func TestGenerator_Cancelled(t *testing.T) {
	g, _ := newTestGenerator(t, &fakeProvider{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.Run(ctx, testItems())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_NoScenarios(t *testing.T) {
	_, err := New(&fakeRanker{}, nil, &fakeProvider{}, nil, Options{})
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"question": "q"}`, `{"question": "q"}`},
		{"Here is the question:\n{\"question\": \"q\"}", `{"question": "q"}`},
		{"I cannot answer that.", "I cannot answer that."},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractJSON(tt.in))
	}
}

func TestSaveQuestionSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "questions.json")
	set := &model.QuestionSet{Questions: []model.GeneratedQuestion{{
		Scenario: "s", Domain: "d", Task: "t", Focus: "f", Item: "i",
		Prompt: "p", Question: `{"question": "q"}`, Docs: []string{"A (b)"},
	}}}

	require.NoError(t, SaveQuestionSet(path, set))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"question_list\": ["))

	var back model.QuestionSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *set, back)
}
