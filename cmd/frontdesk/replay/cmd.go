// Package replaycmd implements the `frontdesk replay` command.
package replaycmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/output"
	"github.com/go-ports/frontdesk/internal/script"
)

// Command implements `frontdesk replay`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	listOps bool
}

// New creates the replay command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a YAML script of operations and check its expectations",
		Long: `Replays every step of the script on a fresh session and prints one line
per step. The replay stops at the first step that fails or misses an
expectation, and the command exits non-zero.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if c.listOps {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: c.run,
	}
	c.cmd.Flags().BoolVar(&c.listOps, "ops", false, "List the supported step ops and exit")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if c.listOps {
		fmt.Fprintln(out, strings.Join(script.Ops(), "\n"))
		return nil
	}

	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	sess, err := c.ctx.NewSession(s)
	if err != nil {
		return err
	}
	defer sess.Close()

	results, runErr := script.NewRunner(sess.Service, sess.Clock).Run(cmd.Context(), s)
	if err := sess.Printer.Print(out, results, resultsTable(results, runErr != nil)); err != nil {
		return err
	}
	return runErr
}

// resultsTable lays out one row per replayed step. When failed is set the
// last step is the one that stopped the replay.
func resultsTable(results []script.Result, failed bool) *output.Table {
	t := &output.Table{Headers: []string{"Step", "Op", "Outcome"}}
	for i, r := range results {
		outcome := "ok"
		switch {
		case failed && i == len(results)-1:
			outcome = "FAILED"
		case r.Error != "":
			outcome = "expected error: " + r.Error
		}
		t.Rows = append(t.Rows, []string{fmt.Sprint(r.Index), r.Op, outcome})
	}
	return t
}
