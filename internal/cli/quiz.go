package cli

import (
	"github.com/ppiankov/saaquiz/internal/quiz"
)

// quizFlagBindings are the flags shared by serve and play
var quizFlagBindings = map[string]string{
	"source":   "quiz.source",
	"shuffle":  "quiz.shuffle",
	"seed":     "quiz.seed",
	"scenario": "quiz.show_scenario",
}

// newQuestionLoader builds the loader for the configured question source
func newQuestionLoader() *quiz.Loader {
	fetcher := quiz.NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
	)

	return quiz.NewLoader(quiz.LoaderConfig{
		Source:  cfg.Quiz.Source,
		Shuffle: cfg.Quiz.Shuffle,
		Seed:    cfg.Quiz.Seed,
	}, fetcher)
}
