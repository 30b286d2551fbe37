// Package reportcmd implements the `frontdesk report` command.
package reportcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
	"github.com/go-ports/frontdesk/internal/report"
)

// Command implements `frontdesk report`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	kind   string
	status string
}

// New creates the report command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "report",
		Short: "Guest report; --kind detailed adds prices and totals",
		RunE:  c.run,
	}
	f := c.cmd.Flags()
	f.StringVar(&c.kind, "kind", string(report.Basic), "Report kind: basic, detailed")
	f.StringVar(&c.status, "status", "", "Filter by status: active, checked_out")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	kind, err := report.ParseKind(c.kind)
	if err != nil {
		return err
	}
	sess, err := c.ctx.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	r, err := sess.CustomerReport(kind, models.CustomerStatus(c.status))
	if err != nil {
		return err
	}
	return sess.Printer.Print(cmd.OutOrStdout(), r, output.CustomerReportTable(r, sess.Printer.Money))
}
