// Package prompt builds generation prompts from ranked reference documents.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/rank"
)

// ErrUnknownDocument is returned when a ranked document is missing from the corpus
var ErrUnknownDocument = errors.New("ranked document not found in corpus")

// DocumentLookup resolves a document identifier to the corpus entry
type DocumentLookup interface {
	Document(id model.DocumentID) (model.Document, bool)
}

// Result is an assembled prompt
type Result struct {
	Prompt  string             // Full prompt sent to the model
	Context string             // Concatenated reference sections
	Docs    []model.DocumentID // Included documents, ranked order
}

// Assembler fits ranked documents into a token budget
type Assembler struct {
	docs          DocumentLookup
	budget        int
	separator     string
	separatorCost int
}

// NewAssembler creates an assembler. The separator's token cost is charged
// once per document against the budget.
func NewAssembler(docs DocumentLookup, budget int, separator string, tok Tokenizer) *Assembler {
	return &Assembler{
		docs:          docs,
		budget:        budget,
		separator:     separator,
		separatorCost: tok.Count(separator),
	}
}

// Assemble builds the prompt for one knowledge-area item in one scenario
func (a *Assembler) Assemble(ranked []rank.Scored, scenario, item string) (*Result, error) {
	context, docs, err := a.BuildContext(ranked)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(headerTemplate, scenario))
	b.WriteString(context)
	b.WriteString(knowledgeAreaPrefix)
	b.WriteString(item)
	b.WriteString(formatSuffix)

	return &Result{
		Prompt:  b.String(),
		Context: context,
		Docs:    docs,
	}, nil
}

// BuildContext takes the longest prefix of ranked that fits the budget.
//
// Each document's cost (its tokens plus the separator) is added to the
// running total before the check, so the first document that overflows is
// charged and dropped, and every lower-ranked document is dropped with it.
func (a *Assembler) BuildContext(ranked []rank.Scored) (string, []model.DocumentID, error) {
	var (
		sections []string
		chosen   []model.DocumentID
		total    int
	)

	for _, s := range ranked {
		doc, ok := a.docs.Document(s.ID)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownDocument, s.ID)
		}

		total += doc.Tokens + a.separatorCost
		if total > a.budget {
			break
		}

		sections = append(sections, a.separator+strings.ReplaceAll(doc.Content, "\n", " "))
		chosen = append(chosen, s.ID)
	}

	if len(chosen) == 0 && len(ranked) > 0 {
		log.Warn().
			Int("budget", a.budget).
			Str("top_document", ranked[0].ID.String()).
			Msg("top document exceeds context budget, prompt has no reference context")
	}

	return strings.Join(sections, ""), chosen, nil
}
