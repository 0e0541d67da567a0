package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/model"
)

// LoadIndex reads an embedding index file.
// Format: CSV with header title,url,0,1,...,n-1 and one row per document.
func LoadIndex(path string) (*model.EmbeddingIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	idx, err := ReadIndex(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	log.Info().
		Str("path", path).
		Int("documents", idx.Len()).
		Int("dimension", idx.Dimension).
		Msg("loaded embedding index")
	return idx, nil
}

// ReadIndex parses an embedding index
func ReadIndex(r io.Reader) (*model.EmbeddingIndex, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("header has %d columns, want title, url and at least one dimension", len(header))
	}

	idx := &model.EmbeddingIndex{Dimension: len(header) - 2}
	seen := make(map[model.DocumentID]bool)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id := model.DocumentID{Title: rec[0], URL: rec[1]}
		if seen[id] {
			return nil, fmt.Errorf("line %d: duplicate document %s", line, id)
		}
		seen[id] = true

		vec := make([]float32, idx.Dimension)
		for i, field := range rec[2:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: dimension %d: %w", line, i, err)
			}
			vec[i] = float32(v)
		}

		idx.Entries = append(idx.Entries, model.IndexEntry{ID: id, Vector: vec})
	}

	if idx.Len() == 0 {
		return nil, errors.New("no embeddings")
	}
	return idx, nil
}

// WriteIndex writes an index in the format ReadIndex parses
func WriteIndex(w io.Writer, idx *model.EmbeddingIndex) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, idx.Dimension+2)
	header = append(header, "title", "url")
	for i := 0; i < idx.Dimension; i++ {
		header = append(header, strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range idx.Entries {
		if len(e.Vector) != idx.Dimension {
			return fmt.Errorf("%s has %d dimensions, index has %d", e.ID, len(e.Vector), idx.Dimension)
		}
		rec := make([]string, 0, idx.Dimension+2)
		rec = append(rec, e.ID.Title, e.ID.URL)
		for _, v := range e.Vector {
			rec = append(rec, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveIndex writes an index file, creating parent directories
func SaveIndex(path string, idx *model.EmbeddingIndex) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close index file: %w", closeErr)
		}
	}()

	return WriteIndex(f, idx)
}

// CheckCoverage verifies every indexed document exists in the corpus
func CheckCoverage(idx *model.EmbeddingIndex, c *Corpus) error {
	for _, e := range idx.Entries {
		if _, ok := c.Document(e.ID); !ok {
			return fmt.Errorf("indexed document %s is not in the corpus", e.ID)
		}
	}
	return nil
}
