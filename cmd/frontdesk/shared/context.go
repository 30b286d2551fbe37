// Package shared holds the context passed to all CLI commands.
package shared

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-ports/frontdesk/internal/clock"
	"github.com/go-ports/frontdesk/internal/config"
	"github.com/go-ports/frontdesk/internal/output"
	"github.com/go-ports/frontdesk/internal/script"
	"github.com/go-ports/frontdesk/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// ConfigPath overrides the config file.
	// When empty, resolution falls through to FRONTDESK_CONFIG env → ~/.config/frontdesk/config.yaml.
	ConfigPath string
	// SeedFile replaces session.seed_file from the config.
	SeedFile string
	// ScriptFile is replayed on the fresh session before the command runs.
	ScriptFile string
	Username   string
	Password   string // #nosec G117 -- local desk credential, never logged
	Format     string
	Query      string
	LogLevel   string

	// Config is loaded by Init.
	Config *config.Config
	// ConfigSource is "flag", "env" or "default".
	ConfigSource string
	ConfigFile   string
}

// Init loads the configuration, applies flag overrides and installs the
// stderr log handler. The root command calls it before any subcommand runs.
func (c *Context) Init(stderr io.Writer) error {
	c.ConfigFile, c.ConfigSource = config.ResolvePath(c.ConfigPath)
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config %s: %w", c.ConfigFile, err)
	}
	if c.SeedFile != "" {
		cfg.Session.SeedFile = c.SeedFile
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.Format != "" {
		cfg.Output.Format = c.Format
	}
	c.Config = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))
	return nil
}

// Printer returns the output printer for the configured format and query.
func (c *Context) Printer() (*output.Printer, error) {
	cfg := c.config()
	f, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return &output.Printer{Format: f, Query: c.Query, Money: output.NewMoney(cfg.Hotel.Currency)}, nil
}

// Session is one populated front-desk session plus its printer.
type Session struct {
	*service.Service
	Printer *output.Printer
	// Clock is the script clock, nil when the session runs on the wall clock.
	Clock *clock.FakeClock
}

// NewSession creates a seeded session. When s carries a start time the
// session runs on a fake clock frozen there; s may be nil.
func (c *Context) NewSession(s *script.Script) (*Session, error) {
	cfg := c.config()
	printer, err := c.Printer()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var (
		clk  *clock.FakeClock
		opts []service.Option
	)
	if s != nil {
		if clk, err = s.Clock(loc); err != nil {
			return nil, err
		}
		if clk != nil {
			opts = append(opts, service.WithClock(clk))
		}
	}
	svc, err := service.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Session{Service: svc, Printer: printer, Clock: clk}, nil
}

// Open starts a fresh session: it seeds the store, replays --script when
// set and signs in with --user. Callers must Close the session.
func (c *Context) Open(ctx context.Context) (*Session, error) {
	var s *script.Script
	if c.ScriptFile != "" {
		var err error
		if s, err = script.Load(c.ScriptFile); err != nil {
			return nil, err
		}
	}
	sess, err := c.NewSession(s)
	if err != nil {
		return nil, err
	}
	if s != nil {
		results, err := script.NewRunner(sess.Service, sess.Clock).Run(ctx, s)
		if err != nil {
			_ = sess.Close()
			return nil, fmt.Errorf("replay %s: %w", c.ScriptFile, err)
		}
		slog.Debug("script replayed", "file", c.ScriptFile, "steps", len(results))
	}
	return c.signIn(sess)
}

func (c *Context) signIn(sess *Session) (*Session, error) {
	if c.Username == "" {
		return sess, nil
	}
	if _, err := sess.Login(c.Username, c.Password); err != nil {
		_ = sess.Close()
		return nil, err
	}
	return sess, nil
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}
