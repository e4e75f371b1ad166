package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and the streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "This erases all progress and the streak. Type 'yes' to continue: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(line)) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		e, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.ResetAll(cmd.Context()); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		e.logger.Info("progress reset", "db", e.cfg.DBPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Progress and streak cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
