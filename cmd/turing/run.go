package main

import (
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <machine>",
	Short: "Run a machine until it halts",
	Long: `Runs a machine from the repository (or a YAML/JSON file path) on its document tape
or on --tape, printing every transition with the tape and head position.

The run ends successfully only when the machine reaches a final state. A missing rule,
a left move from the first cell, the step limit or the timeout all exit with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd, args[0])
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return cli.RunWatch(ctx, opts, os.Stdout)
		}
		_, err = cli.Run(ctx, opts, os.Stdout)
		return err
	},
}

func runOptions(cmd *cobra.Command, target string) (cli.RunOptions, error) {
	opts := cli.RunOptions{
		Target:   target,
		Dir:      cfg.Dir,
		MaxSteps: cfg.MaxSteps,
		Timeout:  cfg.RunTimeout,
		Logger:   logger,
	}
	if cmd.Flags().Changed("max-steps") {
		opts.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
	}
	if cmd.Flags().Changed("timeout") {
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("tape") {
		tape, _ := cmd.Flags().GetString("tape")
		opts.Tape = cli.ParseTape(tape)
	}

	policyName := cfg.Underflow
	if cmd.Flags().Changed("policy") {
		policyName, _ = cmd.Flags().GetString("policy")
	}
	policy, err := turing.ParseUnderflowPolicy(policyName)
	if err != nil {
		return opts, err
	}
	opts.Policy = policy

	opts.JSON, _ = cmd.Flags().GetBool("json")
	opts.Report, _ = cmd.Flags().GetBool("report")
	opts.Quiet, _ = cmd.Flags().GetBool("quiet")
	opts.TraceOut, _ = cmd.Flags().GetString("trace-out")
	noColor, _ := cmd.Flags().GetBool("no-color")
	opts.Color = !noColor && cli.IsTerminal(os.Stdout)
	return opts, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("tape", "t", "", "Initial tape: one symbol per character, or comma separated")
	runCmd.Flags().Int("max-steps", 10000, "Stop after this many transitions, 0 for no limit (env TURING_MAX_STEPS)")
	runCmd.Flags().Duration("timeout", 0, "Stop after this much wall time (env TURING_RUN_TIMEOUT)")
	runCmd.Flags().String("policy", "atomic", "Left underflow policy: atomic or partial (env TURING_UNDERFLOW)")
	runCmd.Flags().Bool("json", false, "Print transitions as NDJSON")
	runCmd.Flags().Bool("report", false, "Print a Markdown report after the run")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print transitions")
	runCmd.Flags().String("trace-out", "", "Also record the trace as NDJSON to this file")
	runCmd.Flags().Bool("no-color", false, "Disable colours even on a terminal")
	runCmd.Flags().BoolP("watch", "w", false, "Re-run whenever the machine repository changes")
}
