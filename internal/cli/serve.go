package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/saaquiz/internal/model"
	"github.com/ppiankov/saaquiz/internal/web"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz in a browser",
	Long: `Serve starts the quiz web UI. The question list is loaded once, on the
first request (or at startup with --preload), and kept in memory.

Routes:
  GET  /                            redirect to the first question
  GET  /questions/{n}               show question n (?scenario=1 shows the scenario)
  POST /questions/{n}               grade the submitted choice
  POST /api/questions/{n}/answer    grade {"choice": 0-3}, JSON outcome
  GET  /healthz                     liveness

Example:
  saaquiz serve
  saaquiz serve --addr :8080 --source ./full_ai_gen_questions.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.String("addr", "", "listen address")
	f.String("source", "", "question list URL or file")
	f.Bool("shuffle", true, "shuffle the question list once at load")
	f.Uint64("seed", 0, "seed for the shuffle (0 = random)")
	f.Bool("scenario", false, "show scenarios by default")
	f.Bool("preload", false, "load the question list before accepting requests")

	bindings := map[string]string{"addr": "server.addr"}
	for flag, key := range quizFlagBindings {
		bindings[flag] = key
	}
	flagBindings[serveCmd] = bindings
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := newQuestionLoader()

	if preload, _ := cmd.Flags().GetBool("preload"); preload {
		list, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("questions", len(list)).Msg("question list preloaded")
	}

	srv, err := web.NewServer(loader, web.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		ShowScenario:   cfg.Quiz.ShowScenario,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Quiz available at http://%s/\n", displayAddr(cfg.Server))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func displayAddr(s model.ServerConfig) string {
	if len(s.Addr) > 0 && s.Addr[0] == ':' {
		return "localhost" + s.Addr
	}
	return s.Addr
}
