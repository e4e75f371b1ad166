package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/klazic/trigo/internal/app"
	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/play"
	"github.com/klazic/trigo/internal/service"
)

var playCmd = &cobra.Command{
	Use:   "play [category]",
	Short: "Start a practice session",
	Long: `Open the lesson list, or jump straight into a session of the given
category. --seed makes the question order reproducible.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, nil)
		}

		diffFlag, _ := cmd.Flags().GetString("difficulty")
		d, err := quiz.ParseDifficulty(diffFlag)
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetUint64("seed")

		categoryID := args[0]
		start := func(ctx context.Context, svc *service.Services) screen.Screen {
			var rng *rand.Rand
			if seed != 0 {
				rng = quiz.NewRand(seed)
			}
			return play.New(ctx, svc, categoryID, d, rng)
		}
		return runApp(cmd, start)
	},
}

func init() {
	playCmd.Flags().StringP("difficulty", "d", "easy", "Difficulty: easy, medium or hard")
	playCmd.Flags().IntP("size", "n", quiz.DefaultSessionSize, "Questions per session")
	playCmd.Flags().Uint64("seed", 0, "Seed for a reproducible session (0 picks a random one)")
}

// runApp opens the environment and launches the TUI, optionally starting
// directly on a session screen.
func runApp(cmd *cobra.Command, start func(context.Context, *service.Services) screen.Screen) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	if start != nil {
		id := cmd.Flags().Arg(0)
		if _, err := e.bank.LoadCategory(cmd.Context(), id); err != nil {
			return fmt.Errorf("lesson %s: %w", id, err)
		}
	}

	return app.Run(cmd.Context(), e.svc, app.Options{Start: start})
}
