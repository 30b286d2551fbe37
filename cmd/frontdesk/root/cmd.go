// Package rootcmd wires the root cobra.Command for the frontdesk CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	activitycmd "github.com/go-ports/frontdesk/cmd/frontdesk/activity"
	configcmd "github.com/go-ports/frontdesk/cmd/frontdesk/config"
	customerscmd "github.com/go-ports/frontdesk/cmd/frontdesk/customers"
	dashboardcmd "github.com/go-ports/frontdesk/cmd/frontdesk/dashboard"
	mcpcmd "github.com/go-ports/frontdesk/cmd/frontdesk/mcp"
	replaycmd "github.com/go-ports/frontdesk/cmd/frontdesk/replay"
	reportcmd "github.com/go-ports/frontdesk/cmd/frontdesk/report"
	roomscmd "github.com/go-ports/frontdesk/cmd/frontdesk/rooms"
	servicescmd "github.com/go-ports/frontdesk/cmd/frontdesk/services"
	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	userscmd "github.com/go-ports/frontdesk/cmd/frontdesk/users"
	versioncmd "github.com/go-ports/frontdesk/cmd/frontdesk/version"
)

// New creates and returns the root cobra.Command for the frontdesk CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:   "frontdesk",
		Short: "Hotel front desk: rooms, guests, services, staff and revenue",
		Long: `Every invocation starts a fresh in-memory session populated from the seed.
Use --script to replay a day of operations before the command runs, and
--user/--password to act as a staff member.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.Init(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	f := root.PersistentFlags()
	f.StringVar(&ctx.ConfigPath, "config", "",
		"Config file (default: $FRONTDESK_CONFIG env → ~/.config/frontdesk/config.yaml)")
	f.StringVar(&ctx.SeedFile, "seed", "", "YAML seed file replacing the built-in data")
	f.StringVar(&ctx.ScriptFile, "script", "", "YAML script replayed before the command")
	f.StringVarP(&ctx.Username, "user", "u", "", "Sign in as this staff member")
	f.StringVarP(&ctx.Password, "password", "p", "", "Password for --user")
	f.StringVarP(&ctx.Format, "format", "o", "", "Output format: table, json, yaml")
	f.StringVarP(&ctx.Query, "query", "q", "", "JSONPath applied to the result, e.g. '$[0].price'")
	f.StringVar(&ctx.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		roomscmd.New(ctx).Cmd(),
		servicescmd.New(ctx).Cmd(),
		customerscmd.New(ctx).Cmd(),
		userscmd.New(ctx).Cmd(),
		dashboardcmd.New(ctx).Cmd(),
		activitycmd.New(ctx).Cmd(),
		reportcmd.New(ctx).Cmd(),
		replaycmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
