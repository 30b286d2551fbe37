// Package mcpcmd implements the `frontdesk mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	internalmcp "github.com/go-ports/frontdesk/internal/mcp"
)

// Command implements `frontdesk mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Serve the session as MCP tools over stdio",
		Long: `Starts a fresh session (seed, --script, --user applied as usual) and
serves it as MCP tools on stdin/stdout until stdin closes.`,
		RunE: c.run,
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
	return internalmcp.Serve(cmd.Context(), sess.Service)
}
