// Package generator turns exam taxonomy items into multiple-choice questions
// by grounding a chat model in the most relevant reference documents.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/llm"
	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/prompt"
	"github.com/ppiankov/saaquiz/internal/rank"
)

var (
	// ErrAllFailed is returned when every item of a continue-on-error run failed
	ErrAllFailed = errors.New("no question was generated")

	// ErrProviderUnavailable is returned when the model fails its preflight check
	ErrProviderUnavailable = errors.New("model provider is not available")
)

// Ranker orders the corpus by relevance to a query
type Ranker interface {
	Rank(ctx context.Context, query string) ([]rank.Scored, error)
}

// Assembler builds the bounded prompt for one item
type Assembler interface {
	Assemble(ranked []rank.Scored, scenario, item string) (*prompt.Result, error)
}

// Options tunes a generation run
type Options struct {
	// Seed makes scenario selection reproducible when non-zero
	Seed uint64

	// ContinueOnError logs and skips failing items instead of aborting
	ContinueOnError bool

	// Limit processes only the first Limit items when > 0
	Limit int

	// MaxTokens and Temperature are passed to every completion
	MaxTokens   int
	Temperature float32
}

// Stats summarizes a run
type Stats struct {
	Total      int
	Generated  int
	Skipped    int
	TokensUsed int
	Duration   time.Duration
}

// Generator orchestrates ranking, prompt assembly and the model call for each item
type Generator struct {
	ranker    Ranker
	assembler Assembler
	provider  llm.Provider
	scenarios []string
	rng       *rand.Rand
	opts      Options
}

// New creates a generator. scenarios must not be empty.
func New(ranker Ranker, assembler Assembler, provider llm.Provider, scenarios []string, opts Options) (*Generator, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to choose from")
	}

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Generator{
		ranker:    ranker,
		assembler: assembler,
		provider:  provider,
		scenarios: scenarios,
		rng:       rng,
		opts:      opts,
	}, nil
}

// Run generates one question per item, in item order, one model call at a time.
// The provider is checked once before the first item.
// By default the first failing item aborts the run and nothing is returned.
func (g *Generator) Run(ctx context.Context, items []model.DomainItem) (*model.QuestionSet, *Stats, error) {
	start := time.Now()

	if g.opts.Limit > 0 && g.opts.Limit < len(items) {
		items = items[:g.opts.Limit]
	}

	stats := &Stats{Total: len(items)}
	if len(items) > 0 && !g.provider.IsAvailable(ctx) {
		return nil, stats, fmt.Errorf("%w: %s", ErrProviderUnavailable, g.provider.Name())
	}
	set := &model.QuestionSet{Questions: make([]model.GeneratedQuestion, 0, len(items))}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		log.Info().
			Int("index", i).
			Int("last", len(items)-1).
			Str("item", item.Item).
			Msg("Working on item")

		q, tokens, err := g.Generate(ctx, item, g.pickScenario())
		if err != nil {
			if !g.opts.ContinueOnError {
				return nil, stats, fmt.Errorf("item %d (%s): %w", i, item.Item, err)
			}
			stats.Skipped++
			log.Warn().Err(err).Int("index", i).Str("item", item.Item).Msg("skipping item")
			continue
		}

		set.Questions = append(set.Questions, *q)
		stats.Generated++
		stats.TokensUsed += tokens
	}

	stats.Duration = time.Since(start)

	if stats.Total > 0 && stats.Generated == 0 {
		return nil, stats, ErrAllFailed
	}

	return set, stats, nil
}

// Generate produces the question for one item in one scenario and returns it
// together with the tokens the model reported.
func (g *Generator) Generate(ctx context.Context, item model.DomainItem, scenario string) (*model.GeneratedQuestion, int, error) {
	ranked, err := g.ranker.Rank(ctx, item.Item)
	if err != nil {
		return nil, 0, fmt.Errorf("rank documents: %w", err)
	}

	assembled, err := g.assembler.Assemble(ranked, scenario, item.Item)
	if err != nil {
		return nil, 0, fmt.Errorf("assemble prompt: %w", err)
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      prompt.SystemInstruction,
		Prompt:      assembled.Prompt,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s completion: %w", g.provider.Name(), err)
	}

	docs := make([]string, len(assembled.Docs))
	for i, id := range assembled.Docs {
		docs[i] = id.String()
	}

	return &model.GeneratedQuestion{
		Scenario: scenario,
		Domain:   item.Domain,
		Task:     item.Task,
		Focus:    item.Focus,
		Item:     item.Item,
		Prompt:   assembled.Prompt,
		Question: ExtractJSON(resp.Text),
		Docs:     docs,
	}, resp.TokensUsed, nil
}

func (g *Generator) pickScenario() string {
	return g.scenarios[g.rng.IntN(len(g.scenarios))]
}

// ExtractJSON returns text from its first '{' onward. Text without '{' is
// returned unchanged and fails later, when the question is decoded.
func ExtractJSON(text string) string {
	if i := strings.IndexByte(text, '{'); i >= 0 {
		return text[i:]
	}
	return text
}
