package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/klazic/trigo/internal/quiz"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect, validate and build question banks",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the lessons of the configured bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Bank %s (%s)\n", e.bank.Version(), bankName(e.cfg.BankDir))
		for _, c := range e.bank.Catalog() {
			counts, err := e.bank.CountsByDifficulty(cmd.Context(), c.ID)
			var nf *quiz.ErrCategoryNotFound
			switch {
			case errors.As(err, &nf):
				fmt.Fprintf(out, "  %-14s %-34s (no questions)\n", c.ID, c.Title)
				continue
			case err != nil:
				return err
			}
			fmt.Fprintf(out, "  %-14s %-34s easy %2d  medium %2d  hard %2d\n",
				c.ID, c.Title, counts[quiz.Easy], counts[quiz.Medium], counts[quiz.Hard])
		}
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check a bank directory against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := openBank(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		var failed int
		for _, c := range bank.Catalog() {
			qs, err := bank.LoadCategory(cmd.Context(), c.ID)
			var nf *quiz.ErrCategoryNotFound
			switch {
			case errors.As(err, &nf):
				fmt.Fprintf(out, "  %-14s missing\n", c.ID)
			case err != nil:
				failed++
				fmt.Fprintf(out, "  %-14s INVALID: %v\n", c.ID, err)
			default:
				fmt.Fprintf(out, "  %-14s ok, %d questions\n", c.ID, len(qs))
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d invalid categories", failed)
		}
		fmt.Fprintf(out, "Bank %s is valid.\n", bank.Version())
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <workbook.xlsx> <outdir>",
	Short: "Convert a spreadsheet of questions into category files",
	Long: `Each row holds: id, category, difficulty, prompt, correct answer and
one or more wrong answers. The first row is a header.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := quiz.DefaultImportConfig(args[0])
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")

		res, err := quiz.ImportXLSX(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, msg := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", msg)
		}
		for _, id := range res.CategoryIDs() {
			path, err := quiz.WriteCategory(args[1], id, res.Categories[id])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s (%d questions)\n", filepath.Base(path), len(res.Categories[id]))
		}
		created, err := quiz.WriteManifest(args[1], res.CategoryIDs())
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintln(out, "wrote manifest.json; edit the lesson titles as needed")
		}
		fmt.Fprintf(out, "%d rows imported, %d skipped\n", res.Processed, res.Skipped)
		return nil
	},
}

func init() {
	bankImportCmd.Flags().String("sheet", "", "Worksheet name (default: first sheet)")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankImportCmd)
}
