package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/saaquiz/internal/tui"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take the quiz in the terminal",
	Long: `Play runs the quiz in the terminal.

Keys: ↑/↓ move, enter submits, n/p next/previous question, s toggles the
scenario, q quits.

Example:
  saaquiz play
  saaquiz play --source ./full_ai_gen_questions.json --no-color`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	f := playCmd.Flags()
	f.String("source", "", "question list URL or file")
	f.Bool("shuffle", true, "shuffle the question list once at load")
	f.Uint64("seed", 0, "seed for the shuffle (0 = random)")
	f.Bool("scenario", false, "show scenarios by default")
	f.Bool("no-color", false, "disable colors")

	flagBindings[playCmd] = quizFlagBindings
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noColor, _ := cmd.Flags().GetBool("no-color")

	return tui.Run(ctx, newQuestionLoader(), cmd.InOrStdin(), cmd.OutOrStdout(), tui.Options{
		NoColor:      noColor || !cfg.Logging.Color,
		ShowScenario: cfg.Quiz.ShowScenario,
	})
}
