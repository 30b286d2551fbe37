package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-ports/frontdesk/internal/db"
	"github.com/go-ports/frontdesk/internal/models"
)

// ---------------------------------------------------------------------------
// Staff accounts
// ---------------------------------------------------------------------------

// ListUsers returns all staff accounts.
func (s *Service) ListUsers() ([]models.User, error) {
	if _, err := s.require(models.PermManageUsers); err != nil {
		return nil, err
	}
	list, err := s.database.ListUsers()
	return list, wrap("ListUsers", err)
}

// AddUser creates a staff account. When no permissions are given the role's
// bundle is used; admins always hold "all".
func (s *Service) AddUser(in models.UserInput) (*models.User, error) {
	const op = "AddUser"
	actor, err := s.require(models.PermManageUsers)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	u := &models.User{
		Username:    strings.TrimSpace(in.Username),
		Role:        strings.TrimSpace(in.Role),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		CreatedAt:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Status:      in.Status,
		Permissions: in.Permissions,
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if in.Password == "" {
		return nil, invalid(op, "password is required")
	}
	if err := normalizeUser(op, u, true); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost())
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, err)
	}
	u.PasswordHash = string(hash)

	err = s.database.InTx(func(tx *db.DB) error {
		if err := usernameFree(op, tx, u.Username, 0); err != nil {
			return err
		}
		u.ID, err = tx.InsertUser(u)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("user added", "user", u.ID, "username", u.Username, "role", u.Role, "by", actor.Username)
	return u, nil
}

// UpdateUser edits a staff account. A role change without explicit
// permissions resets them to the new role's bundle. An empty password keeps
// the current hash.
func (s *Service) UpdateUser(id int64, patch models.UserPatch) (*models.User, error) {
	const op = "UpdateUser"
	actor, err := s.require(models.PermManageUsers)
	if err != nil {
		return nil, err
	}

	var hash string
	if patch.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(patch.Password), s.bcryptCost())
		if err != nil {
			return nil, fmt.Errorf("%s: hash password: %w", op, err)
		}
		hash = string(b)
	}

	var u *models.User
	err = s.database.InTx(func(tx *db.DB) error {
		var found bool
		if u, found, err = tx.GetUser(id); err != nil {
			return err
		}
		if !found {
			return notFound(op, "user", id)
		}
		if patch.Username != nil {
			u.Username = strings.TrimSpace(*patch.Username)
		}
		if patch.Role != nil && strings.TrimSpace(*patch.Role) != u.Role {
			u.Role = strings.TrimSpace(*patch.Role)
			u.Permissions = nil
		}
		if patch.Permissions != nil {
			u.Permissions = patch.Permissions
		}
		if patch.Name != nil {
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			u.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Phone != nil {
			u.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.Status != nil {
			u.Status = *patch.Status
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if err := normalizeUser(op, u, false); err != nil {
			return err
		}
		if u.ID == actor.ID && u.Status != models.UserActive {
			return invalid(op, "cannot deactivate the signed-in user")
		}
		if err := usernameFree(op, tx, u.Username, u.ID); err != nil {
			return err
		}
		_, err = tx.UpdateUser(u)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("user updated", "user", id, "password_changed", hash != "", "by", actor.Username)
	return u, nil
}

// RemoveUser deletes a staff account other than the signed-in one.
func (s *Service) RemoveUser(id int64) error {
	const op = "RemoveUser"
	actor, err := s.require(models.PermManageUsers)
	if err != nil {
		return err
	}
	if id == actor.ID {
		return fmt.Errorf("%s: %w", op, models.ErrSelfRemoval)
	}
	found, err := s.database.DeleteUser(id)
	if err != nil {
		return wrap(op, err)
	}
	if !found {
		return notFound(op, "user", id)
	}
	slog.Info("user removed", "user", id, "by", actor.Username)
	return nil
}

// ToggleUserStatus flips a staff account between active and inactive.
// Inactive accounts cannot sign in.
func (s *Service) ToggleUserStatus(id int64) (*models.User, error) {
	const op = "ToggleUserStatus"
	actor, err := s.require(models.PermManageUsers)
	if err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, invalid(op, "cannot deactivate the signed-in user")
	}
	var u *models.User
	err = s.database.InTx(func(tx *db.DB) error {
		var found bool
		if u, found, err = tx.GetUser(id); err != nil {
			return err
		}
		if !found {
			return notFound(op, "user", id)
		}
		if u.Status == models.UserActive {
			u.Status = models.UserInactive
		} else {
			u.Status = models.UserActive
		}
		_, err = tx.UpdateUser(u)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("user status toggled", "user", id, "status", u.Status, "by", actor.Username)
	return u, nil
}

// normalizeUser validates u and settles its permission list.
func normalizeUser(op string, u *models.User, creating bool) error {
	if u.Username == "" {
		return invalid(op, "username is required")
	}
	if u.Name == "" {
		return invalid(op, "name is required")
	}
	role, ok := models.RoleByID(u.Role)
	if !ok {
		return invalid(op, "unknown role %q", u.Role)
	}
	if u.Status != models.UserActive && u.Status != models.UserInactive {
		return invalid(op, "unknown status %q", u.Status)
	}
	switch {
	case role.ID == models.RoleAdmin:
		u.Permissions = []string{models.PermAll}
	case len(u.Permissions) == 0 && (creating || u.Permissions == nil):
		u.Permissions = append([]string(nil), role.Permissions...)
	}
	for _, p := range u.Permissions {
		if !models.IsPermission(p) {
			return invalid(op, "unknown permission %q", p)
		}
	}
	return nil
}

func usernameFree(op string, tx *db.DB, username string, self int64) error {
	other, found, err := tx.GetUserByUsername(username)
	if err != nil {
		return err
	}
	if found && other.ID != self {
		return fmt.Errorf("%s: username %q: %w", op, username, models.ErrDuplicate)
	}
	return nil
}
