// Package dashboardcmd implements the `frontdesk dashboard` command.
package dashboardcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/output"
)

// Command implements `frontdesk dashboard`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the dashboard command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Room counts, today's revenue and in-house guests",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	sess, err := c.ctx.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	d, err := sess.Dashboard()
	if err != nil {
		return err
	}
	return sess.Printer.Print(cmd.OutOrStdout(), d, output.DashboardTable(d, sess.Printer.Money))
}
