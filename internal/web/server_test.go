package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/quiz"
)

const goodPayload = `{"question": "How should the company store media files durably?",
  "answer_choices": [
    {"answer": "Attach instance store volumes", "is_correct": "false", "explanation": "Instance store is **ephemeral**."},
    {"answer": "Use EBS snapshots only", "is_correct": "false", "explanation": "Snapshots are backups."},
    {"answer": "Store objects in Amazon S3", "is_correct": "true", "explanation": "S3 offers 11 nines of durability."},
    {"answer": "Use an RDS BLOB column", "is_correct": "false", "explanation": "Databases are costly for media."}
  ]}`

type sliceSource struct {
	list []model.GeneratedQuestion
	err  error
}

func (s *sliceSource) Question(ctx context.Context, n int) (quiz.Entry, error) {
	if s.err != nil {
		return quiz.Entry{}, s.err
	}
	n = quiz.Clamp(n, len(s.list))
	return quiz.Entry{Index: n, Total: len(s.list), Question: s.list[n]}, nil
}

func question(item, payload string) model.GeneratedQuestion {
	return model.GeneratedQuestion{
		Scenario: "A media company wants to store large amounts of data",
		Domain:   "Design Resilient Architectures",
		Task:     "Task 1.2",
		Focus:    "Storage",
		Item:     item,
		Prompt:   "Generate a scenario-based question",
		Question: payload,
		Docs:     []string{"Amazon S3 (https://docs.aws.amazon.com/s3/)"},
	}
}

func newTestServer(t *testing.T, src QuestionSource) *httptest.Server {
	t.Helper()
	s, err := NewServer(src, Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func defaultSource() *sliceSource {
	return &sliceSource{list: []model.GeneratedQuestion{
		question("Object storage", goodPayload),
		question("Block storage", goodPayload),
		question("Broken", "I am sorry, I cannot generate that."),
	}}
}

func noRedirect(req *http.Request, via []*http.Request) error {
	return http.ErrUseLastResponse
}

func fetchDoc(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func TestRootRedirects(t *testing.T) {
	ts := newTestServer(t, defaultSource())
	client := &http.Client{CheckRedirect: noRedirect}

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/questions/0", resp.Header.Get("Location"))
}

func TestShowQuestion(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.Get(ts.URL + "/questions/0")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := fetchDoc(t, resp)
	assert.Equal(t, "How should the company store media files durably?", doc.Find("h2.question").Text())
	assert.Equal(t, 4, doc.Find("input[name=choice]").Length())
	assert.Contains(t, doc.Find("label.choice").Eq(2).Text(), "C: Store objects in Amazon S3")
	assert.Equal(t, 0, doc.Find("section.scenario").Length())
	assert.Equal(t, 0, doc.Find("a.prev").Length())
	assert.Equal(t, "/questions/1", doc.Find("a.next").AttrOr("href", ""))
}

func TestShowQuestion_ScenarioToggle(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.Get(ts.URL + "/questions/1?scenario=1")
	require.NoError(t, err)

	doc := fetchDoc(t, resp)
	assert.Contains(t, doc.Find("section.scenario").Text(), "A media company wants to store large amounts of data")
	assert.Equal(t, "/questions/1?scenario=1", doc.Find("form").AttrOr("action", ""))
}

func TestShowQuestion_Clamped(t *testing.T) {
	ts := newTestServer(t, &sliceSource{list: []model.GeneratedQuestion{
		question("Object storage", goodPayload),
		question("Block storage", goodPayload),
		question("File storage", goodPayload),
	}})

	for path, want := range map[string]string{
		"/questions/99":  "Question 3 of 3",
		"/questions/-4":  "Question 1 of 3",
		"/questions/abc": "Question 1 of 3",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		doc := fetchDoc(t, resp)
		assert.Equal(t, want, doc.Find("p.progress").Text(), path)
	}
}

func TestShowQuestion_ClampedOntoMalformed(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.Get(ts.URL + "/questions/99")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc := fetchDoc(t, resp)
	assert.Equal(t, "This question is malformed", doc.Find("section.error h2").Text())
	assert.Equal(t, "Question 3 of 3", doc.Find("p.progress").Text())
}

func TestAnswerForm_Correct(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.PostForm(ts.URL+"/questions/0", url.Values{"choice": {"2"}})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := fetchDoc(t, resp)
	headline := doc.Find("h3.headline")
	assert.Equal(t, "Correct! C: Store objects in Amazon S3", headline.Text())
	assert.True(t, headline.HasClass("correct"))
	assert.Equal(t, 3, doc.Find("ul.others li").Length())
	assert.Contains(t, doc.Find("ul.docs").Text(), "Amazon S3 (https://docs.aws.amazon.com/s3/)")
	assert.Contains(t, doc.Find("ul.resources").Text(), "Focus: Storage")
	assert.Equal(t, 0, doc.Find("form").Length())
}

func TestAnswerForm_WrongRendersMarkdown(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.PostForm(ts.URL+"/questions/0", url.Values{"choice": {"0"}})
	require.NoError(t, err)

	doc := fetchDoc(t, resp)
	headline := doc.Find("h3.headline")
	assert.Equal(t, "Wrong! A: Attach instance store volumes", headline.Text())
	assert.True(t, headline.HasClass("wrong"))
	assert.Equal(t, "ephemeral", doc.Find("section.outcome > div.explanation strong").Text())

	correct := doc.Find("ul.others li.correct")
	require.Equal(t, 1, correct.Length())
	assert.Contains(t, correct.Text(), "C: Store objects in Amazon S3")
}

func TestAnswerForm_MissingChoice(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.PostForm(ts.URL+"/questions/0", url.Values{})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegrityErrorIs422(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.Get(ts.URL + "/questions/2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc := fetchDoc(t, resp)
	assert.Equal(t, "This question is malformed", doc.Find("section.error h2").Text())
	assert.Equal(t, "/questions/1", doc.Find("a.prev").AttrOr("href", ""))
	assert.Equal(t, 0, doc.Find("a.next").Length())
}

func TestIntegrityError_CanStepPast(t *testing.T) {
	ts := newTestServer(t, &sliceSource{list: []model.GeneratedQuestion{
		question("Object storage", goodPayload),
		question("Broken", "I am sorry, I cannot generate that."),
		question("Block storage", goodPayload),
	}})

	resp, err := http.Get(ts.URL + "/questions/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc := fetchDoc(t, resp)
	assert.Equal(t, "Question 2 of 3", doc.Find("p.progress").Text())
	assert.Equal(t, "/questions/0", doc.Find("a.prev").AttrOr("href", ""))
	assert.Equal(t, "/questions/2", doc.Find("a.next").AttrOr("href", ""))

	resp, err = http.Get(ts.URL + doc.Find("a.next").AttrOr("href", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	next := fetchDoc(t, resp)
	assert.Equal(t, "Question 3 of 3", next.Find("p.progress").Text())
}

func TestLoadFailureIs502(t *testing.T) {
	ts := newTestServer(t, &sliceSource{err: errors.New("unexpected status: 503")})

	resp, err := http.Get(ts.URL + "/questions/0")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	doc := fetchDoc(t, resp)
	assert.Contains(t, doc.Find("pre.message").Text(), "unexpected status: 503")
	assert.Equal(t, 0, doc.Find("nav.nav").Length())
	assert.Equal(t, "/questions/0", doc.Find("a.first").AttrOr("href", ""))
}

func TestAnswerAPI(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.Post(ts.URL+"/api/questions/1/answer", "application/json", strings.NewReader(`{"choice": 0}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body answerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Index)
	require.NotNil(t, body.Outcome)
	assert.False(t, body.Outcome.Correct)
	assert.Equal(t, "A", body.Outcome.Selected.Label)
	assert.Equal(t, "C", body.Outcome.Answer.Label)
	assert.Equal(t, "Block storage", body.Outcome.Resources.Item)
}

func TestAnswerAPI_Errors(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"missing choice", "/api/questions/0/answer", `{}`, http.StatusBadRequest},
		{"bad json", "/api/questions/0/answer", `{`, http.StatusBadRequest},
		{"out of range", "/api/questions/0/answer", `{"choice": 4}`, http.StatusBadRequest},
		{"malformed question", "/api/questions/2/answer", `{"choice": 0}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, defaultSource())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
