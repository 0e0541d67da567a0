// Package corpus loads the static inputs of question generation: reference
// documents, their embedding index and the exam taxonomy.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/prompt"
)

// LoadError reports a failed load of one input file. Loads are all-or-nothing.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Corpus is the set of reference documents, keyed by identifier
type Corpus struct {
	docs  map[model.DocumentID]model.Document
	order []model.DocumentID
}

// Document returns a document by identifier
func (c *Corpus) Document(id model.DocumentID) (model.Document, bool) {
	d, ok := c.docs[id]
	return d, ok
}

// Documents returns all documents in file order
func (c *Corpus) Documents() []model.Document {
	out := make([]model.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

// Len returns the number of documents
func (c *Corpus) Len() int {
	return len(c.order)
}

// LoadDocuments reads the document table from a CSV file.
// tok fills in token counts that are missing from the file; it may be nil
// when every row carries a count.
func LoadDocuments(path string, tok prompt.Tokenizer) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	c, err := ReadDocuments(f, tok)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	log.Info().Str("path", path).Int("documents", c.Len()).Msg("loaded document corpus")
	return c, nil
}

// ReadDocuments parses a document table. The header must name the columns
// title, url (or heading), content and optionally tokens.
func ReadDocuments(r io.Reader, tok prompt.Tokenizer) (*Corpus, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := columnIndex(header)
	titleCol, ok := cols["title"]
	if !ok {
		return nil, errors.New("missing title column")
	}
	urlCol, ok := cols["url"]
	if !ok {
		if urlCol, ok = cols["heading"]; !ok {
			return nil, errors.New("missing url or heading column")
		}
	}
	contentCol, ok := cols["content"]
	if !ok {
		return nil, errors.New("missing content column")
	}
	tokensCol, hasTokens := cols["tokens"]

	c := &Corpus{docs: make(map[model.DocumentID]model.Document)}
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

		d := model.Document{
			ID:      model.DocumentID{Title: rec[titleCol], URL: rec[urlCol]},
			Content: rec[contentCol],
		}

		raw := ""
		if hasTokens {
			raw = strings.TrimSpace(rec[tokensCol])
		}
		switch {
		case raw != "":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid token count %q", line, raw)
			}
			d.Tokens = n
		case tok != nil:
			d.Tokens = tok.Count(d.Content)
		default:
			return nil, fmt.Errorf("line %d: missing token count and no tokenizer", line)
		}

		if err := model.Validate(&d); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := c.docs[d.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate document %s", line, d.ID)
		}

		c.docs[d.ID] = d
		c.order = append(c.order, d.ID)
	}

	if c.Len() == 0 {
		return nil, errors.New("no documents")
	}
	return c, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}
