package service

import (
	"log/slog"
	"strings"

	"github.com/go-ports/frontdesk/internal/db"
	"github.com/go-ports/frontdesk/internal/models"
)

// ---------------------------------------------------------------------------
// Service catalog
// ---------------------------------------------------------------------------

// ListServices returns the catalog.
func (s *Service) ListServices() ([]models.Service, error) {
	if _, err := s.require(""); err != nil {
		return nil, err
	}
	list, err := s.database.ListServices()
	return list, wrap("ListServices", err)
}

// AddService creates a catalog entry. An empty type means "other".
func (s *Service) AddService(in models.ServiceInput) (*models.Service, error) {
	const op = "AddService"
	u, err := s.require(models.PermManageServices)
	if err != nil {
		return nil, err
	}
	svc := &models.Service{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
	}
	if svc.Type == "" {
		svc.Type = models.ServiceOther
	}
	if err := validateService(op, svc); err != nil {
		return nil, err
	}
	if svc.ID, err = s.database.InsertService(svc); err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("service added", "service", svc.ID, "name", svc.Name, "by", u.Username)
	return svc, nil
}

// UpdateService edits a catalog entry. Charges already on guest records keep
// the price they were attached at.
func (s *Service) UpdateService(id int64, patch models.ServicePatch) (*models.Service, error) {
	const op = "UpdateService"
	u, err := s.require(models.PermManageServices)
	if err != nil {
		return nil, err
	}
	var svc *models.Service
	err = s.database.InTx(func(tx *db.DB) error {
		var found bool
		if svc, found, err = tx.GetService(id); err != nil {
			return err
		}
		if !found {
			return notFound(op, "service", id)
		}
		if patch.Name != nil {
			svc.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			svc.Price = *patch.Price
		}
		if patch.Description != nil {
			svc.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Type != nil {
			svc.Type = *patch.Type
		}
		if err := validateService(op, svc); err != nil {
			return err
		}
		_, err = tx.UpdateService(svc)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("service updated", "service", id, "by", u.Username)
	return svc, nil
}

// RemoveService deletes a catalog entry. Guest charges and room bookings
// that reference it are left intact.
func (s *Service) RemoveService(id int64) error {
	const op = "RemoveService"
	u, err := s.require(models.PermManageServices)
	if err != nil {
		return err
	}
	found, err := s.database.DeleteService(id)
	if err != nil {
		return wrap(op, err)
	}
	if !found {
		return notFound(op, "service", id)
	}
	slog.Info("service removed", "service", id, "by", u.Username)
	return nil
}

func validateService(op string, svc *models.Service) error {
	if svc.Name == "" {
		return invalid(op, "service name is required")
	}
	if svc.Price < 0 {
		return invalid(op, "price must not be negative")
	}
	if !models.IsServiceType(svc.Type) {
		return invalid(op, "unknown service type %q", svc.Type)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Room bookings
// ---------------------------------------------------------------------------

// BookService reserves a catalog service for a room.
func (s *Service) BookService(serviceID, roomID int64) (*models.ServiceBooking, error) {
	const op = "BookService"
	u, err := s.require(models.PermManageServices)
	if err != nil {
		return nil, err
	}
	b := &models.ServiceBooking{ServiceID: serviceID, RoomID: roomID, BookedAt: s.Now()}
	err = s.database.InTx(func(tx *db.DB) error {
		if _, found, err := tx.GetService(serviceID); err != nil {
			return err
		} else if !found {
			return notFound(op, "service", serviceID)
		}
		if _, found, err := tx.GetRoom(roomID); err != nil {
			return err
		} else if !found {
			return notFound(op, "room", roomID)
		}
		return tx.InsertBooking(b)
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("service booked", "service", serviceID, "room", roomID, "by", u.Username)
	return b, nil
}

// RemoveBooking cancels every booking of serviceID for roomID.
func (s *Service) RemoveBooking(serviceID, roomID int64) error {
	const op = "RemoveBooking"
	u, err := s.require(models.PermManageServices)
	if err != nil {
		return err
	}
	n, err := s.database.DeleteBookings(serviceID, roomID)
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return notFound(op, "booking", serviceID)
	}
	slog.Info("booking removed", "service", serviceID, "room", roomID, "count", n, "by", u.Username)
	return nil
}

// ListBookings returns all room bookings.
func (s *Service) ListBookings() ([]models.ServiceBooking, error) {
	if _, err := s.require(""); err != nil {
		return nil, err
	}
	list, err := s.database.ListBookings()
	return list, wrap("ListBookings", err)
}
