package generator

import (
	"context"
	"fmt"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/rank"
	"github.com/ppiankov/saaquiz/internal/worker"
)

// BuildIndex embeds every document's content on up to workers goroutines and
// unit-normalizes the vectors. Entries keep document order and must all share
// one dimension.
func BuildIndex(ctx context.Context, docs []model.Document, embedder rank.Embedder, workers int) (*model.EmbeddingIndex, error) {
	vectors, err := worker.Map(ctx, workers, docs, func(ctx context.Context, doc model.Document) ([]float32, error) {
		vec, err := embedder.Embed(ctx, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("embed %s: %w", doc.ID, err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("embed %s: empty vector", doc.ID)
		}
		log.Debug().Str("title", doc.ID.Title).Int("dimension", len(vec)).Msg("embedded document")
		return rank.Normalize(vec), nil
	})
	if err != nil {
		return nil, err
	}

	idx := &model.EmbeddingIndex{Entries: make([]model.IndexEntry, 0, len(docs))}
	for i, vec := range vectors {
		if idx.Dimension == 0 {
			idx.Dimension = len(vec)
		} else if len(vec) != idx.Dimension {
			return nil, fmt.Errorf("embed %s: dimension %d, want %d", docs[i].ID, len(vec), idx.Dimension)
		}
		idx.Entries = append(idx.Entries, model.IndexEntry{ID: docs[i].ID, Vector: vec})
	}

	return idx, nil
}
