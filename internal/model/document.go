package model

import "fmt"

// DocumentID identifies a reference document by its title and source locator
type DocumentID struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"` // Source locator (page URL or heading)
}

// String renders the identifier the way it is cited in generated questions
func (id DocumentID) String() string {
	return fmt.Sprintf("%s (%s)", id.Title, id.URL)
}

// Document is one section of the reference corpus
type Document struct {
	ID      DocumentID `json:"id" validate:"required"`
	Content string     `json:"content"`                 // Body text
	Tokens  int        `json:"tokens" validate:"gte=0"` // Precomputed token count
}

// IndexEntry pairs a document with its embedding vector
type IndexEntry struct {
	ID     DocumentID
	Vector []float32 // Unit-normalized
}

// EmbeddingIndex maps documents to embedding vectors.
// Entries keep file order, which is the tie-break order for ranking.
type EmbeddingIndex struct {
	Entries   []IndexEntry
	Dimension int
}

// Len returns the number of indexed documents
func (x *EmbeddingIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.Entries)
}
