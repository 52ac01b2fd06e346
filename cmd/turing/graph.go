package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export the state diagram of a machine",
	Long: `Outputs a Mermaid diagram (graph LR) of the transition table. Each edge is labelled
read/write,move. With --overlay the machine is run first and the visited states and the
state it stopped in are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, doc, err := cli.Resolve(cmd.Context(), args[0], cfg.Dir)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if withOverlay, _ := cmd.Flags().GetBool("overlay"); withOverlay {
			tape := doc.TapeSymbols()
			if cmd.Flags().Changed("tape") {
				raw, _ := cmd.Flags().GetString("tape")
				tape = cli.ParseTape(raw)
			}
			r := runner.New(eng, runner.WithMaxSteps(cfg.MaxSteps), runner.WithTimeout(cfg.RunTimeout))
			// A run that does not halt still has a path worth drawing.
			res, _ := r.Run(cmd.Context(), eng.Start(tape), nil)
			if res != nil {
				overlay = &graph.GraphOverlay{
					VisitedStates: graph.VisitedStates(res.Trace.Records()),
					CurrentState:  res.Configuration.State,
				}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Table(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("overlay", false, "Run the machine and highlight the states it visited")
	graphCmd.Flags().StringP("tape", "t", "", "Initial tape for --overlay")
}
