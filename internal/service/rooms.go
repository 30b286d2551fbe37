package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-ports/frontdesk/internal/db"
	"github.com/go-ports/frontdesk/internal/models"
)

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

// ListRooms returns rooms, optionally filtered by status.
func (s *Service) ListRooms(status models.RoomStatus) ([]models.Room, error) {
	if _, err := s.require(""); err != nil {
		return nil, err
	}
	rooms, err := s.database.ListRooms(status)
	return rooms, wrap("ListRooms", err)
}

// AvailableRooms lists the rooms a guest can be placed in. When customerID
// names a stay, that stay's own room is included even though it is occupied.
func (s *Service) AvailableRooms(customerID int64) ([]models.Room, error) {
	if _, err := s.require(""); err != nil {
		return nil, err
	}
	rooms, err := s.database.ListRooms("")
	if err != nil {
		return nil, wrap("AvailableRooms", err)
	}
	var own *int64
	if customerID != 0 {
		c, found, err := s.database.GetCustomer(customerID)
		if err != nil {
			return nil, wrap("AvailableRooms", err)
		}
		if !found {
			return nil, notFound("AvailableRooms", "customer", customerID)
		}
		own = c.RoomID
	}
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == models.RoomAvailable || (own != nil && *own == r.ID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AddRoom creates an available room. Zero beds or price take the defaults of
// a known room type.
func (s *Service) AddRoom(in models.RoomInput) (*models.Room, error) {
	const op = "AddRoom"
	u, err := s.require(models.PermManageRooms)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:     in.ID,
		Number: strings.TrimSpace(in.Number),
		Type:   strings.ToLower(strings.TrimSpace(in.Type)),
		Beds:   in.Beds,
		Price:  in.Price,
		Status: models.RoomAvailable,
	}
	if room.Number == "" {
		return nil, invalid(op, "room number is required")
	}
	if room.Type == "" {
		room.Type = "single"
	}
	if def, ok := models.RoomTypeDefaults[room.Type]; ok {
		if room.Beds == 0 {
			room.Beds = def.Beds
		}
		if room.Price == 0 {
			room.Price = def.Price
		}
	}
	if room.Beds < 1 || room.Beds > 4 {
		return nil, invalid(op, "beds must be between 1 and 4, got %d", room.Beds)
	}
	if room.Price < 0 {
		return nil, invalid(op, "price must not be negative")
	}

	err = s.database.InTx(func(tx *db.DB) error {
		exists, err := tx.RoomNumberExists(room.Number)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s: room %s: %w", op, room.Number, models.ErrDuplicate)
		}
		room.ID, err = tx.InsertRoom(room)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("room added", "room", room.ID, "number", room.Number, "by", u.Username)
	return room, nil
}

// RemoveRoom deletes a room. Occupied rooms cannot be removed.
func (s *Service) RemoveRoom(id int64) error {
	const op = "RemoveRoom"
	u, err := s.require(models.PermManageRooms)
	if err != nil {
		return err
	}
	err = s.database.InTx(func(tx *db.DB) error {
		room, found, err := tx.GetRoom(id)
		if err != nil {
			return err
		}
		if !found {
			return notFound(op, "room", id)
		}
		if room.Status == models.RoomOccupied {
			return fmt.Errorf("%s: room %s: %w; check the guest out first", op, room.Number, models.ErrRoomOccupied)
		}
		_, err = tx.DeleteRoom(id)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	slog.Info("room removed", "room", id, "by", u.Username)
	return nil
}

// occupy marks an available room occupied inside tx and returns it.
func occupy(op string, tx *db.DB, roomID int64) (*models.Room, error) {
	room, found, err := tx.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(op, "room", roomID)
	}
	if room.Status != models.RoomAvailable {
		return nil, fmt.Errorf("%s: room %s: %w", op, room.Number, models.ErrRoomUnavailable)
	}
	if _, err := tx.SetRoomStatus(roomID, models.RoomOccupied); err != nil {
		return nil, err
	}
	room.Status = models.RoomOccupied
	return room, nil
}

// release frees a room inside tx. A room that has since been deleted is ignored.
func release(tx *db.DB, roomID int64) error {
	ok, err := tx.SetRoomStatus(roomID, models.RoomAvailable)
	if err == nil && !ok {
		slog.Debug("release: room no longer exists", "room", roomID)
	}
	return err
}
