package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <machine>",
	Short: "Check a machine for consistency",
	Long: `Compiles the machine (definition checks and every transition row) and then walks the
transition table from the initial state, reporting unreachable states, states that can get
stuck and final states with rules that never fire.

With --strict, warnings fail the validation too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		eng, doc, err := cli.Resolve(cmd.Context(), args[0], cfg.Dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, issue := range validator.Inspect(eng.Table()) {
			fmt.Fprintln(out, issue)
		}
		if err := validator.ValidateTable(eng.Table(), strict); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(out, "Machine '%s' is valid! ✅\n", doc.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors")
}
