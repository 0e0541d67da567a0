// Package rank orders reference documents by embedding similarity to a query.
package rank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/model"
)

// Embedder turns text into an embedding vector.
// It must use the same model the index was built with.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Scored is a document identifier with its similarity to the query
type Scored struct {
	Score float64
	ID    model.DocumentID
}

var (
	ErrEmptyQuery = errors.New("query is empty")
	ErrEmptyIndex = errors.New("embedding index is empty")
)

// Ranker ranks an embedding index against queries
type Ranker struct {
	embedder Embedder
	index    *model.EmbeddingIndex
}

// NewRanker creates a ranker over a loaded index
func NewRanker(embedder Embedder, index *model.EmbeddingIndex) *Ranker {
	return &Ranker{
		embedder: embedder,
		index:    index,
	}
}

// Rank returns every indexed document ordered by similarity, most relevant first
func (r *Ranker) Rank(ctx context.Context, query string) ([]Scored, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if r.index.Len() == 0 {
		return nil, ErrEmptyIndex
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ranked, err := RankVector(vec, r.index)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("query", query).
		Int("documents", len(ranked)).
		Float64("top_score", ranked[0].Score).
		Msg("ranked documents")

	return ranked, nil
}

// RankVector scores an already-embedded query against the index.
// Vectors are unit length, so the dot product is the cosine similarity.
// Ties keep index order.
func RankVector(query []float32, index *model.EmbeddingIndex) ([]Scored, error) {
	if index.Len() == 0 {
		return nil, ErrEmptyIndex
	}
	if index.Dimension > 0 && len(query) != index.Dimension {
		return nil, fmt.Errorf("query embedding has %d dimensions, index has %d", len(query), index.Dimension)
	}

	scored := make([]Scored, 0, len(index.Entries))
	for _, e := range index.Entries {
		scored = append(scored, Scored{
			Score: Dot(query, e.Vector),
			ID:    e.ID,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, nil
}

// Dot returns the dot product of two vectors of equal length
func Dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Cosine returns the cosine similarity of two vectors
func Cosine(a, b []float32) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	n := norm(v)
	if n == 0 {
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
	return v
}

func norm(v []float32) float64 {
	return math.Sqrt(Dot(v, v))
}
