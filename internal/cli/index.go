package cli

import (
	"context"
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
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the embedding index for the reference corpus",
	Long: `Index embeds every document of the reference corpus with the configured
embedding model and writes the unit-normalized vectors as CSV. Queries must be
embedded with the same model, so rebuild the index whenever the model changes.

Example:
  saaquiz index
  saaquiz index --corpus min_aws_wa.csv --output document_embeddings.csv --concurrency 8`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	f := indexCmd.Flags()
	f.String("corpus", "", "reference documents CSV")
	f.StringP("output", "o", "", "index output path")
	f.Int("concurrency", 0, "number of concurrent embedding requests")

	flagBindings[indexCmd] = map[string]string{
		"corpus":      "generator.corpus_path",
		"output":      "generator.index_path",
		"concurrency": "generator.index_workers",
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
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

	embedder, err := llm.NewEmbedder(llm.EmbeddingConfigFromModel(cfg.Embedding, cfg.LLM.RequestsPerSecond, cfg.HTTP))
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}

	log.Info().
		Int("documents", docs.Len()).
		Int("workers", g.IndexWorkers).
		Str("model", cfg.Embedding.Model).
		Msg("Embedding corpus")

	idx, err := generator.BuildIndex(ctx, docs.Documents(), embedder, g.IndexWorkers)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := corpus.SaveIndex(g.IndexPath, idx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote index: %s (%d documents, dimension %d)\n", g.IndexPath, idx.Len(), idx.Dimension)
	return nil
}
