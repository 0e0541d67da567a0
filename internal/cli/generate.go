package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/saaquiz/internal/corpus"
	"github.com/ppiankov/saaquiz/internal/generator"
	"github.com/ppiankov/saaquiz/internal/llm"
	"github.com/ppiankov/saaquiz/internal/prompt"
	"github.com/ppiankov/saaquiz/internal/rank"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one question per exam taxonomy item",
	Long: `Generate walks the exam taxonomy in order and, for every item:
- picks a random business scenario
- ranks the reference corpus by embedding similarity to the item
- fits the most relevant documents into a bounded prompt
- asks the chat model for a multiple-choice question in JSON

The result is written as {"question_list": [...]}, the format the quiz reads.

Example:
  saaquiz generate
  saaquiz generate --domains domain_array.json --output questions.json
  saaquiz generate --limit 3 --output - --seed 42
  saaquiz generate --continue-on-error`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.String("corpus", "", "reference documents CSV (title, url, content, tokens)")
	f.String("index", "", "embedding index CSV (title, url, 0..n-1)")
	f.String("domains", "", "exam taxonomy JSON ({\"domain_list\": [...]})")
	f.String("scenarios", "", "scenario list JSON (default: built-in list)")
	f.StringP("output", "o", "", "output path, - for stdout")
	f.Int("max-tokens", 0, "context budget in tokens")
	f.Uint64("seed", 0, "seed for scenario selection (0 = random)")
	f.Bool("continue-on-error", false, "skip items that fail instead of aborting the run")
	f.Int("limit", 0, "process only the first N items")

	flagBindings[generateCmd] = map[string]string{
		"corpus":            "generator.corpus_path",
		"index":             "generator.index_path",
		"domains":           "generator.domains_path",
		"scenarios":         "generator.scenarios_path",
		"output":            "generator.output_path",
		"max-tokens":        "generator.max_section_tokens",
		"seed":              "generator.seed",
		"continue-on-error": "generator.continue_on_error",
		"limit":             "generator.limit",
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := cfg.Generator

	tok, err := prompt.NewTiktokenCounter(g.Encoding)
	if err != nil {
		return err
	}

	docs, err := corpus.LoadDocuments(g.CorpusPath, tok)
	if err != nil {
		return err
	}
	index, err := corpus.LoadIndex(g.IndexPath)
	if err != nil {
		return err
	}
	if err := corpus.CheckCoverage(index, docs); err != nil {
		return err
	}
	items, err := corpus.LoadDomains(g.DomainsPath)
	if err != nil {
		return err
	}
	scenarios, err := corpus.LoadScenarios(g.ScenariosPath)
	if err != nil {
		return err
	}

	embedder, err := llm.NewEmbedder(llm.EmbeddingConfigFromModel(cfg.Embedding, cfg.LLM.RequestsPerSecond, cfg.HTTP))
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen, err := generator.New(
		rank.NewRanker(embedder, index),
		prompt.NewAssembler(docs, g.MaxSectionTokens, g.Separator, tok),
		provider,
		scenarios,
		generator.Options{
			Seed:            g.Seed,
			ContinueOnError: g.ContinueOnError,
			Limit:           g.Limit,
			MaxTokens:       cfg.LLM.MaxTokens,
			Temperature:     cfg.LLM.Temperature,
		},
	)
	if err != nil {
		return err
	}

	log.Info().
		Int("documents", docs.Len()).
		Int("items", len(items)).
		Int("scenarios", len(scenarios)).
		Str("provider", provider.Name()).
		Str("model", cfg.LLM.Model).
		Msg("Generating questions")

	set, stats, err := gen.Run(ctx, items)
	if err != nil {
		if errors.Is(err, generator.ErrAllFailed) {
			return fmt.Errorf("generation failed: all %d items failed", stats.Total)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := generator.SaveQuestionSet(g.OutputPath, set); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Generation Summary\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Items:        %d\n", stats.Total)
	fmt.Fprintf(stderr, "  Generated:    %d\n", stats.Generated)
	fmt.Fprintf(stderr, "  Skipped:      %d\n", stats.Skipped)
	fmt.Fprintf(stderr, "  Tokens used:  %d\n", stats.TokensUsed)
	fmt.Fprintf(stderr, "  Duration:     %v\n", stats.Duration.Round(1e6))
	if g.OutputPath != "-" {
		fmt.Fprintf(stderr, "  Output:       %s\n", g.OutputPath)
	}
	fmt.Fprintf(stderr, "\n")

	return nil
}
