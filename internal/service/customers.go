package service

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/go-ports/frontdesk/internal/db"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/redaction"
)

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

// ListCustomers returns stays, optionally filtered by status.
func (s *Service) ListCustomers(status models.CustomerStatus) ([]models.Customer, error) {
	if _, err := s.require(models.PermViewCustomers); err != nil {
		return nil, err
	}
	list, err := s.database.ListCustomers(status)
	return list, wrap("ListCustomers", err)
}

// GetCustomer returns one stay.
func (s *Service) GetCustomer(id int64) (*models.Customer, error) {
	if _, err := s.require(models.PermViewCustomers); err != nil {
		return nil, err
	}
	c, found, err := s.database.GetCustomer(id)
	if err != nil {
		return nil, wrap("GetCustomer", err)
	}
	if !found {
		return nil, notFound("GetCustomer", "customer", id)
	}
	return c, nil
}

// CheckIn registers a new stay. The room, when given, must be available and
// becomes occupied; its type and price are copied onto the stay. Unknown
// service IDs are dropped and known ones are charged at the current price.
func (s *Service) CheckIn(in models.CustomerInput) (*models.Customer, error) {
	const op = "CheckIn"
	u, err := s.require(models.PermAddCustomer)
	if err != nil {
		return nil, err
	}

	c := &models.Customer{
		Name:       strings.TrimSpace(in.Name),
		IDNumber:   strings.TrimSpace(in.IDNumber),
		Phone:      strings.TrimSpace(in.Phone),
		CheckIn:    in.CheckIn,
		IDDocument: strings.TrimSpace(in.IDDocument),
		Notes:      redaction.Redact(strings.TrimSpace(in.Notes)),
		Status:     models.CustomerActive,
		Documents:  make([]models.Document, 0, len(in.Documents)),
		CreatedBy:  u.Ref(),
	}
	if c.CheckIn.IsZero() {
		c.CheckIn = s.Now()
	}
	if err := validateGuest(op, c); err != nil {
		return nil, err
	}
	for _, d := range in.Documents {
		doc, err := newDocument(op, d)
		if err != nil {
			return nil, err
		}
		c.Documents = append(c.Documents, doc)
	}

	err = s.database.InTx(func(tx *db.DB) error {
		if in.RoomID != nil {
			room, err := occupy(op, tx, *in.RoomID)
			if err != nil {
				return err
			}
			c.RoomID = &room.ID
			c.RoomType = room.Type
			c.RoomPrice = room.Price
		}
		charges, err := resolveCharges(tx, in.ServiceIDs, nil, c.RoomID)
		if err != nil {
			return err
		}
		c.Services = charges
		c.ID, err = tx.InsertCustomer(c)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("checked in", "customer", c.ID, roomAttr(c.RoomID), "total", c.Total(), "by", u.Username)
	return c, nil
}

// UpdateCustomer edits an active stay. Moving to another room frees the old
// one; supplying ServiceIDs rebuilds the charges, keeping the attached price
// of services that were already on the stay.
func (s *Service) UpdateCustomer(id int64, patch models.CustomerPatch) (*models.Customer, error) {
	const op = "UpdateCustomer"
	u, err := s.require(models.PermEditCustomer)
	if err != nil {
		return nil, err
	}

	var c *models.Customer
	err = s.database.InTx(func(tx *db.DB) error {
		var found bool
		if c, found, err = tx.GetCustomer(id); err != nil {
			return err
		}
		if !found {
			return notFound(op, "customer", id)
		}
		if !c.IsActive() {
			return checkedOut(op, id)
		}

		applyGuestPatch(c, patch)
		if err := validateGuest(op, c); err != nil {
			return err
		}

		target := c.RoomID
		switch {
		case patch.ClearRoom:
			target = nil
		case patch.RoomID != nil:
			target = patch.RoomID
		}
		moved := !sameRoom(c.RoomID, target)
		if moved {
			if c.RoomID != nil {
				if err := release(tx, *c.RoomID); err != nil {
					return err
				}
			}
			c.RoomID, c.RoomType, c.RoomPrice = nil, "", 0
			if target != nil {
				room, err := occupy(op, tx, *target)
				if err != nil {
					return err
				}
				c.RoomID = &room.ID
				c.RoomType = room.Type
				c.RoomPrice = room.Price
			}
		}

		switch {
		case patch.ServiceIDs != nil:
			if c.Services, err = resolveCharges(tx, patch.ServiceIDs, c.Services, c.RoomID); err != nil {
				return err
			}
		case moved:
			for i := range c.Services {
				c.Services[i].RoomID = c.RoomID
			}
		}

		if _, err := tx.UpdateCustomer(c); err != nil {
			return err
		}
		return tx.ReplaceCharges(c.ID, c.Services)
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("customer updated", "customer", id, roomAttr(c.RoomID), "by", u.Username)
	return c, nil
}

// CheckOut closes an active stay and frees its room.
func (s *Service) CheckOut(id int64) (*models.Customer, error) {
	const op = "CheckOut"
	u, err := s.require("")
	if err != nil {
		return nil, err
	}
	var c *models.Customer
	err = s.database.InTx(func(tx *db.DB) error {
		var found bool
		if c, found, err = tx.GetCustomer(id); err != nil {
			return err
		}
		if !found {
			return notFound(op, "customer", id)
		}
		if !c.IsActive() {
			return checkedOut(op, id)
		}
		if c.RoomID != nil {
			if err := release(tx, *c.RoomID); err != nil {
				return err
			}
		}
		now := s.Now()
		c.Status = models.CustomerCheckedOut
		c.CheckOut = &now
		c.CheckedOutBy = u.Ref()
		_, err = tx.UpdateCustomer(c)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("checked out", "customer", id, roomAttr(c.RoomID), "total", c.Total(), "by", u.Username)
	return c, nil
}

// RemoveCustomer deletes a stay. An active stay's room is freed first.
func (s *Service) RemoveCustomer(id int64) error {
	const op = "RemoveCustomer"
	u, err := s.require(models.PermDeleteCustomer)
	if err != nil {
		return err
	}
	err = s.database.InTx(func(tx *db.DB) error {
		c, found, err := tx.GetCustomer(id)
		if err != nil {
			return err
		}
		if !found {
			return notFound(op, "customer", id)
		}
		if c.IsActive() && c.RoomID != nil {
			if err := release(tx, *c.RoomID); err != nil {
				return err
			}
		}
		_, err = tx.DeleteCustomer(id)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	slog.Info("customer removed", "customer", id, "by", u.Username)
	return nil
}

// AttachDocument adds a document to a stay and returns it with its new ID.
func (s *Service) AttachDocument(customerID int64, in models.DocumentInput) (*models.Document, error) {
	const op = "AttachDocument"
	u, err := s.require(models.PermEditCustomer)
	if err != nil {
		return nil, err
	}
	doc, err := newDocument(op, in)
	if err != nil {
		return nil, err
	}
	err = s.database.InTx(func(tx *db.DB) error {
		if _, found, err := tx.GetCustomer(customerID); err != nil {
			return err
		} else if !found {
			return notFound(op, "customer", customerID)
		}
		return tx.InsertDocument(customerID, doc)
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("document attached", "customer", customerID, "document", doc.ID, "by", u.Username)
	return &doc, nil
}

// RemoveDocument detaches a document from a stay.
func (s *Service) RemoveDocument(customerID int64, docID string) error {
	const op = "RemoveDocument"
	u, err := s.require(models.PermEditCustomer)
	if err != nil {
		return err
	}
	found, err := s.database.DeleteDocument(customerID, docID)
	if err != nil {
		return wrap(op, err)
	}
	if !found {
		return notFound(op, "document", docID)
	}
	slog.Info("document removed", "customer", customerID, "document", docID, "by", u.Username)
	return nil
}

// SetIDDocument replaces the scanned identity document of a stay. Unlike
// UpdateCustomer it also applies to checked-out stays.
func (s *Service) SetIDDocument(customerID int64, file string) (*models.Customer, error) {
	const op = "SetIDDocument"
	u, err := s.require(models.PermEditCustomer)
	if err != nil {
		return nil, err
	}
	var c *models.Customer
	err = s.database.InTx(func(tx *db.DB) error {
		var found bool
		if c, found, err = tx.GetCustomer(customerID); err != nil {
			return err
		}
		if !found {
			return notFound(op, "customer", customerID)
		}
		c.IDDocument = strings.TrimSpace(file)
		_, err = tx.UpdateCustomer(c)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	slog.Info("id document set", "customer", customerID, "by", u.Username)
	return c, nil
}

// ---------------------------------------------------------------------------
// Customer helpers
// ---------------------------------------------------------------------------

func validateGuest(op string, c *models.Customer) error {
	switch {
	case c.Name == "":
		return invalid(op, "name is required")
	case c.IDNumber == "":
		return invalid(op, "id number is required")
	case c.Phone == "":
		return invalid(op, "phone is required")
	case c.CheckIn.IsZero():
		return invalid(op, "check-in time is required")
	}
	return nil
}

func applyGuestPatch(c *models.Customer, p models.CustomerPatch) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.IDNumber != nil {
		c.IDNumber = strings.TrimSpace(*p.IDNumber)
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.CheckIn != nil {
		c.CheckIn = *p.CheckIn
	}
	if p.IDDocument != nil {
		c.IDDocument = strings.TrimSpace(*p.IDDocument)
	}
	if p.Notes != nil {
		c.Notes = redaction.Redact(strings.TrimSpace(*p.Notes))
	}
}

func newDocument(op string, in models.DocumentInput) (models.Document, error) {
	doc := models.Document{
		ID:   uuid.NewString(),
		Type: strings.TrimSpace(in.Type),
		File: strings.TrimSpace(in.File),
	}
	if doc.File == "" {
		return models.Document{}, invalid(op, "document file is required")
	}
	if doc.Type == "" {
		doc.Type = "other"
	}
	return doc, nil
}

// resolveCharges turns service IDs into charges. Services present in
// existing keep their attached price; others are priced from the catalog and
// dropped when the catalog no longer has them. Duplicate IDs collapse.
func resolveCharges(tx *db.DB, ids []int64, existing []models.ServiceCharge, roomID *int64) ([]models.ServiceCharge, error) {
	attached := make(map[int64]int64, len(existing))
	for _, ch := range existing {
		if _, ok := attached[ch.ServiceID]; !ok {
			attached[ch.ServiceID] = ch.Price
		}
	}
	charges := make([]models.ServiceCharge, 0, len(ids))
	seen := make([]int64, 0, len(ids))
	for _, id := range ids {
		if slices.Contains(seen, id) {
			continue
		}
		seen = append(seen, id)
		if price, ok := attached[id]; ok {
			charges = append(charges, models.ServiceCharge{ServiceID: id, Price: price, RoomID: roomID})
			continue
		}
		svc, found, err := tx.GetService(id)
		if err != nil {
			return nil, err
		}
		if !found {
			slog.Debug("unknown service dropped", "service", id)
			continue
		}
		charges = append(charges, models.ServiceCharge{ServiceID: id, Price: svc.Price, RoomID: roomID})
	}
	return charges, nil
}

// roomAttr logs a guest's room by value; "-" when the guest has none.
func roomAttr(id *int64) slog.Attr {
	if id == nil {
		return slog.String("room", "-")
	}
	return slog.Int64("room", *id)
}

func sameRoom(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
