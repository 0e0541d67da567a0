package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phuslu/log"

	"github.com/ppiankov/saaquiz/internal/quiz"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// questionNumber parses {n}; anything non-numeric is question 0
func questionNumber(r *http.Request) int {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) showScenario(r *http.Request) bool {
	switch r.URL.Query().Get("scenario") {
	case "1", "true", "on":
		return true
	case "0", "false", "off":
		return false
	default:
		return s.opts.ShowScenario
	}
}

// loadRound fetches question n and prepares it for grading.
// It returns the HTTP status that matches a failure.
func (s *Server) loadRound(r *http.Request) (quiz.Entry, *quiz.Round, int, error) {
	entry, err := s.source.Question(r.Context(), questionNumber(r))
	if err != nil {
		log.Error().Err(err).Msg("question list unavailable")
		return entry, nil, http.StatusBadGateway, err
	}

	round, err := quiz.NewRound(entry.Index, entry.Question)
	if err != nil {
		log.Warn().Err(err).Int("index", entry.Index).Msg("question cannot be graded")
		return entry, nil, http.StatusUnprocessableEntity, err
	}

	return entry, round, http.StatusOK, nil
}

func errorTitle(status int) string {
	if status == http.StatusUnprocessableEntity {
		return "This question is malformed"
	}
	return "Questions could not be loaded"
}

func (s *Server) handleShowQuestion(w http.ResponseWriter, r *http.Request) {
	entry, round, status, err := s.loadRound(r)
	if err != nil {
		s.renderError(w, status, errorTitle(status), entry, err)
		return
	}

	s.renderPage(w, http.StatusOK, "question.html", newQuestionView(entry, round, s.showScenario(r)))
}

func (s *Server) handleAnswerForm(w http.ResponseWriter, r *http.Request) {
	entry, round, status, err := s.loadRound(r)
	if err != nil {
		s.renderError(w, status, errorTitle(status), entry, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid answer", entry, err)
		return
	}

	choice, err := strconv.Atoi(r.PostFormValue("choice"))
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid answer", entry, fmt.Errorf("choose one of the answers before submitting"))
		return
	}

	if _, err := round.Submit(choice); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid answer", entry, err)
		return
	}

	s.renderPage(w, http.StatusOK, "question.html", newQuestionView(entry, round, s.showScenario(r)))
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

type answerResponse struct {
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Question string        `json:"question"`
	Outcome  *quiz.Outcome `json:"outcome"`
}

func (s *Server) handleAnswerAPI(w http.ResponseWriter, r *http.Request) {
	entry, round, status, err := s.loadRound(r)
	if err != nil {
		respondError(w, status, err)
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Choice == nil {
		respondError(w, http.StatusBadRequest, errors.New("choice is required"))
		return
	}

	outcome, err := round.Submit(*req.Choice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	respondJSON(w, http.StatusOK, answerResponse{
		Index:    entry.Index,
		Total:    entry.Total,
		Question: round.Question.Question,
		Outcome:  outcome,
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
