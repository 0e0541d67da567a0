package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/phuslu/log"

	"github.com/ppiankov/saaquiz/internal/quiz"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates(markdown func(string) template.HTML) (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"markdown": markdown,
	}).ParseFS(templateFS, "templates/*.html")
}

// renderMarkdown converts model-written text to HTML. Raw HTML in the input is dropped.
func (s *Server) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		log.Warn().Err(err).Int("input_len", len(text)).Msg("markdown conversion failed")
		return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}
	return template.HTML(buf.String())
}

type choiceView struct {
	Index   int
	Label   string
	Text    string
	Checked bool
}

type questionView struct {
	Index        int
	Number       int // 1-based, for display
	Total        int
	Prev         int
	Next         int
	HasPrev      bool
	HasNext      bool
	ShowScenario bool
	Scenario     string
	Question     string
	Choices      []choiceView
	Outcome      *quiz.Outcome
}

type errorView struct {
	Status  int
	Title   string
	Message string

	// Navigation around the failing question; empty when the list did not load
	Number  int
	Total   int
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
}

func newQuestionView(entry quiz.Entry, round *quiz.Round, showScenario bool) questionView {
	v := questionView{
		Index:        entry.Index,
		Number:       entry.Index + 1,
		Total:        entry.Total,
		Prev:         entry.Index - 1,
		Next:         entry.Index + 1,
		HasPrev:      entry.Index > 0,
		HasNext:      entry.Index < entry.Total-1,
		ShowScenario: showScenario,
		Scenario:     entry.Question.Scenario,
		Question:     round.Question.Question,
		Outcome:      round.Outcome(),
	}

	selected := -1
	if v.Outcome != nil {
		selected = v.Outcome.Selected.Index
	}
	for i, c := range round.Question.Choices {
		v.Choices = append(v.Choices, choiceView{
			Index:   i,
			Label:   quiz.Label(i),
			Text:    c.Answer,
			Checked: i == selected,
		})
	}
	return v
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError renders an error page. entry is the question being shown, or
// the zero Entry when the list could not be loaded.
func (s *Server) renderError(w http.ResponseWriter, status int, title string, entry quiz.Entry, err error) {
	v := errorView{
		Status:  status,
		Title:   title,
		Message: err.Error(),
	}
	if entry.Total > 0 {
		v.Number = entry.Index + 1
		v.Total = entry.Total
		v.Prev = entry.Index - 1
		v.Next = entry.Index + 1
		v.HasPrev = entry.Index > 0
		v.HasNext = entry.Index < entry.Total-1
	}
	s.renderPage(w, status, "error.html", v)
}
