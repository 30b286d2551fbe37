// Package configcmd implements the `frontdesk config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/config"
)

// Command implements `frontdesk config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		&cobra.Command{Use: "show", Short: "Show the effective configuration", RunE: c.runShow},
		newConfigInit(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	cfg := c.ctx.Config
	if cfg == nil {
		cfg = config.Default()
	}
	data := map[string]any{
		"hotel": map[string]any{
			"name":     cfg.Hotel.Name,
			"currency": cfg.Hotel.Currency,
			"timezone": cfg.Hotel.Timezone,
		},
		"session": map[string]any{
			"seed_file": cfg.Session.SeedFile,
			"username":  cfg.Session.Username,
			"password":  redact(cfg.Session.Password),
		},
		"auth":          map[string]any{"bcrypt_cost": cfg.Auth.BcryptCost},
		"log":           map[string]any{"level": cfg.Log.Level},
		"output":        map[string]any{"format": cfg.Output.Format},
		"config_file":   c.ctx.ConfigFile,
		"config_source": c.ctx.ConfigSource,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath := ctx.ConfigFile
			if cfgPath == "" {
				cfgPath, _ = config.ResolvePath(ctx.ConfigPath)
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(config.Template), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

func redact(secret string) string {
	if secret != "" {
		return "<redacted>"
	}
	return ""
}
