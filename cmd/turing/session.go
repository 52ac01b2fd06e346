package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Step machines across invocations",
	Long: `Sessions persist a machine configuration so it can be stepped a few transitions at a time.
The CLI stores sessions on disk (.turing/sessions) unless TURING_STORE selects redis.`,
}

// withManager opens the session manager for the duration of fn.
func withManager(fn func(mgr *session.Manager) error) error {
	// The in-memory store would forget everything between invocations.
	if cfg.Store == config.StoreMemory {
		cfg.Store = config.StoreFile
	}
	mgr, closeFn, err := cli.NewSessionManager(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(mgr)
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <machine>",
	Short: "Create a session for a machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tape []string
		if cmd.Flags().Changed("tape") {
			raw, _ := cmd.Flags().GetString("tape")
			tape = cli.ParseTape(raw)
		}
		return withManager(func(mgr *session.Manager) error {
			s, err := mgr.Start(cmd.Context(), args[0], tape)
			if err != nil {
				return err
			}
			cli.PrintSession(os.Stdout, s)
			return nil
		})
	},
}

// newStepCmd builds the step command; it is mounted both as `turing session step`
// and as the `turing step` shortcut.
func newStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step <session-id>",
		Short: "Execute transitions of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("count")
			return withManager(func(mgr *session.Manager) error {
				s, records, err := mgr.Step(cmd.Context(), args[0], n, nil)
				cli.PrintRecords(os.Stdout, records)
				if s != nil {
					cli.PrintSession(os.Stdout, s)
				}
				return err
			})
		},
	}
	cmd.Flags().IntP("count", "n", 1, "Number of transitions to execute")
	return cmd
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(mgr *session.Manager) error {
			s, err := mgr.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cli.PrintSession(os.Stdout, s)
			return nil
		})
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List session IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(mgr *session.Manager) error {
			ids, err := mgr.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		})
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <session-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(mgr *session.Manager) error {
			if err := mgr.Delete(cmd.Context(), args[0]); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				return err
			}
			return nil
		})
	},
}

func init() {
	sessionStartCmd.Flags().StringP("tape", "t", "", "Initial tape: one symbol per character, or comma separated")
	sessionCmd.AddCommand(sessionStartCmd, newStepCmd(), sessionShowCmd, sessionListCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd, newStepCmd())
}
