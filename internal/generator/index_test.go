package generator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/saaquiz/internal/model"
)

type mapEmbedder map[string][]float32

func (m mapEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := m[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return append([]float32(nil), v...), nil
}

func TestBuildIndex(t *testing.T) {
	docs := []model.Document{
		{ID: docS3, Content: "s3"},
		{ID: docEBS, Content: "ebs"},
	}
	embedder := mapEmbedder{"s3": {3, 4}, "ebs": {0, 2}}

	idx, err := BuildIndex(context.Background(), docs, embedder, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Dimension)
	require.Equal(t, 2, idx.Len())
	assert.Equal(t, docS3, idx.Entries[0].ID)
	assert.InDelta(t, 0.6, idx.Entries[0].Vector[0], 1e-6)
	assert.InDelta(t, 0.8, idx.Entries[0].Vector[1], 1e-6)

	for _, e := range idx.Entries {
		var sum float64
		for _, x := range e.Vector {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	}
}

func TestBuildIndex_DimensionMismatch(t *testing.T) {
	docs := []model.Document{{ID: docS3, Content: "s3"}, {ID: docEBS, Content: "ebs"}}
	embedder := mapEmbedder{"s3": {3, 4}, "ebs": {1, 2, 3}}

	_, err := BuildIndex(context.Background(), docs, embedder, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension 3, want 2")
}

func TestBuildIndex_EmbedError(t *testing.T) {
	docs := []model.Document{{ID: docS3, Content: "missing"}}
	_, err := BuildIndex(context.Background(), docs, mapEmbedder{}, 2)
	assert.Error(t, err)
}
