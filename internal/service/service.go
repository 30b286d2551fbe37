// Package service implements the front-desk orchestrator that wires together
// configuration, the session database, seeding and reporting, and enforces
// the cross-store rules binding guests, rooms and services.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-ports/frontdesk/internal/clock"
	"github.com/go-ports/frontdesk/internal/config"
	"github.com/go-ports/frontdesk/internal/db"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/seed"
)

// Service is one front-desk session. All state lives in an in-memory
// database that is discarded on Close.
type Service struct {
	Config    *config.Config
	Location  *time.Location
	SessionID string

	database *db.DB
	clock    clock.Clock
	seedData *seed.Data

	mu      sync.Mutex
	current *models.User
}

// Option customizes New.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithSeed replaces the seed data (overriding Config.Session.SeedFile).
func WithSeed(data *seed.Data) Option {
	return func(s *Service) { s.seedData = data }
}

// New opens a fresh session seeded from opts, the configured seed file, or
// the built-in demo data. When the config names session credentials the
// session starts signed in.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	s := &Service{
		Config:    cfg,
		Location:  loc,
		SessionID: uuid.NewString(),
		clock:     clock.Real(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.seedData == nil {
		if cfg.Session.SeedFile != "" {
			if s.seedData, err = seed.Load(cfg.Session.SeedFile); err != nil {
				return nil, fmt.Errorf("service.New: %w", err)
			}
		} else {
			s.seedData = seed.Default()
		}
	}

	database, err := db.Open("frontdesk-" + s.SessionID)
	if err != nil {
		return nil, fmt.Errorf("service.New: open db: %w", err)
	}
	s.database = database

	if err := seed.Apply(database, s.seedData, loc, s.bcryptCost()); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("service.New: seed: %w", err)
	}
	slog.Debug("session opened", "session", s.SessionID)

	if cfg.Session.Username != "" {
		if _, err := s.Login(cfg.Session.Username, cfg.Session.Password); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("service.New: %w", err)
		}
	}
	return s, nil
}

// Close discards the session.
func (s *Service) Close() error {
	slog.Debug("session closed", "session", s.SessionID)
	return s.database.Close()
}

// Now returns the current time in the hotel's location.
func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.Location)
}

func (s *Service) bcryptCost() int {
	if s.Config.Auth.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.Config.Auth.BcryptCost
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

// Login signs in an active staff member, replacing any previous user.
func (s *Service) Login(username, password string) (*models.User, error) {
	u, found, err := s.database.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}
	if !found || u.Status != models.UserActive {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
	slog.Info("signed in", "session", s.SessionID, "user", u.Username)
	return u, nil
}

// Logout clears the signed-in user.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		slog.Info("signed out", "session", s.SessionID, "user", s.current.Username)
	}
	s.current = nil
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Can reports whether the signed-in user holds permission.
func (s *Service) Can(permission string) bool {
	u, err := s.require("")
	return err == nil && u.Can(permission)
}

// require returns the signed-in user after refreshing it from the store, so
// edits to the account (role, permissions, status) apply immediately. An
// empty permission only checks that someone is signed in.
func (s *Service) require(permission string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, models.ErrUnauthenticated
	}
	u, found, err := s.database.GetUser(s.current.ID)
	if err != nil {
		return nil, err
	}
	if !found || u.Status != models.UserActive {
		s.current = nil
		return nil, models.ErrUnauthenticated
	}
	s.current = u
	if permission != "" && !u.Can(permission) {
		return nil, fmt.Errorf("%w: %s requires %q", models.ErrForbidden, u.Username, permission)
	}
	return u, nil
}

// Roles returns the role catalog.
func (*Service) Roles() []models.Role { return models.Roles }

// Permissions returns the permission catalog.
func (*Service) Permissions() []models.Permission { return models.Permissions }

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func invalid(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, models.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(op, what string, id any) error {
	return fmt.Errorf("%s: %s %v: %w", op, what, id, models.ErrNotFound)
}

func checkedOut(op string, id int64) error {
	return fmt.Errorf("%s: customer %d: %w", op, id, models.ErrCheckedOut)
}

// wrap prefixes err with op unless it already carries a sentinel the caller
// will match on.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		models.ErrNotFound, models.ErrInvalidInput, models.ErrDuplicate,
		models.ErrRoomOccupied, models.ErrRoomUnavailable, models.ErrCheckedOut,
		models.ErrUnauthenticated, models.ErrForbidden, models.ErrSelfRemoval,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
