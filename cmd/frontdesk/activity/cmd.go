// Package activitycmd implements the `frontdesk activity` command.
package activitycmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/output"
	"github.com/go-ports/frontdesk/internal/report"
)

// Command implements `frontdesk activity`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	period string
}

// New creates the activity command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "activity",
		Short: "Revenue per check-in window: 7 days, 4 weeks or 6 months",
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.period, "period", string(report.Daily), "Window size: daily, weekly, monthly")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	period, err := report.ParsePeriod(c.period)
	if err != nil {
		return err
	}
	sess, err := c.ctx.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	a, err := sess.Activity(period)
	if err != nil {
		return err
	}
	return sess.Printer.Print(cmd.OutOrStdout(), a, output.ActivityTable(a, sess.Printer.Money))
}
