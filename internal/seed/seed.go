// Package seed provides the initial data a session starts with, either the
// built-in demo property or a YAML seed file.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/frontdesk/internal/db"
	"github.com/go-ports/frontdesk/internal/models"
)

// User is a staff account as written in a seed file. Password is plain text
// and hashed on Apply.
type User struct {
	ID          int64             `yaml:"id"`
	Username    string            `yaml:"username"`
	Password    string            `yaml:"password"` // #nosec G117 -- seed credential, hashed before storage
	Role        string            `yaml:"role"`
	Name        string            `yaml:"name"`
	Email       string            `yaml:"email"`
	Phone       string            `yaml:"phone"`
	CreatedAt   string            `yaml:"created_at"`
	Status      models.UserStatus `yaml:"status"`
	Permissions []string          `yaml:"permissions"`
}

// Customer is a stay as written in a seed file. Times use the check-in form
// formats understood by models.ParseTime.
type Customer struct {
	ID           int64                  `yaml:"id"`
	Name         string                 `yaml:"name"`
	IDNumber     string                 `yaml:"id_number"`
	Phone        string                 `yaml:"phone"`
	CheckIn      string                 `yaml:"check_in"`
	CheckOut     string                 `yaml:"check_out"`
	RoomID       *int64                 `yaml:"room_id"`
	RoomType     string                 `yaml:"room_type"`
	RoomPrice    int64                  `yaml:"room_price"`
	IDDocument   string                 `yaml:"id_document"`
	Notes        string                 `yaml:"notes"`
	Status       models.CustomerStatus  `yaml:"status"`
	Services     []models.ServiceCharge `yaml:"services"`
	Documents    []models.Document      `yaml:"documents"`
	CreatedBy    *models.StaffRef       `yaml:"created_by"`
	CheckedOutBy *models.StaffRef       `yaml:"checked_out_by"`
}

// Data is the full seed document.
type Data struct {
	Rooms     []models.Room    `yaml:"rooms"`
	Services  []models.Service `yaml:"services"`
	Users     []User           `yaml:"users"`
	Customers []Customer       `yaml:"customers"`
}

// Default returns the built-in demo property: two rooms, two services, an
// admin and a receptionist, and one guest staying in room 102.
func Default() *Data {
	room102 := int64(102)
	admin := &models.StaffRef{ID: 1, Name: "System administrator", Username: "admin"}
	return &Data{
		Rooms: []models.Room{
			{ID: 101, Number: "101", Type: "single", Beds: 1, Price: 300, Status: models.RoomAvailable},
			{ID: 102, Number: "102", Type: "double", Beds: 2, Price: 500, Status: models.RoomOccupied},
		},
		Services: []models.Service{
			{ID: 1, Name: "Extra bed", Price: 100, Description: "Additional single bed in the room", Type: models.ServiceBed},
			{ID: 2, Name: "Internet", Price: 50, Description: "High-speed internet access", Type: models.ServiceInternet},
		},
		Users: []User{
			{
				ID: 1, Username: "admin", Password: "admin", Role: models.RoleAdmin,
				Name: "System administrator", CreatedAt: "2024-03-10", Status: models.UserActive,
				Permissions: []string{models.PermAll},
			},
			{
				ID: 2, Username: "staff", Password: "staff", Role: models.RoleReceptionist,
				Name: "Front desk clerk", CreatedAt: "2024-03-10", Status: models.UserActive,
				Permissions: []string{models.PermViewCustomers, models.PermAddCustomer, models.PermEditCustomer},
			},
		},
		Customers: []Customer{
			{
				ID: 1, Name: "Ahmed Mohammed", IDNumber: "ID123456", Phone: "0501234567",
				CheckIn: "2024-03-10T12:00", RoomID: &room102, RoomType: "double", RoomPrice: 500,
				Status: models.CustomerActive,
				Services: []models.ServiceCharge{
					{ServiceID: 1, Price: 100, RoomID: &room102},
					{ServiceID: 2, Price: 50, RoomID: &room102},
				},
				CreatedBy: admin,
			},
		},
	}
}

// Empty returns a seed with no data at all.
func Empty() *Data { return &Data{} }

// Load reads a YAML seed file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed.Load: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("seed.Load %s: %w", path, err)
	}
	return &data, nil
}

// Apply writes data into d in one transaction. Zone-less times are read in
// loc; passwords are hashed with bcrypt at cost.
func Apply(d *db.DB, data *Data, loc *time.Location, cost int) error {
	return d.InTx(func(tx *db.DB) error {
		for i := range data.Rooms {
			r := data.Rooms[i]
			if r.Status == "" {
				r.Status = models.RoomAvailable
			}
			if _, err := tx.InsertRoom(&r); err != nil {
				return fmt.Errorf("seed room %q: %w", r.Number, err)
			}
		}
		for i := range data.Services {
			s := data.Services[i]
			if s.Type == "" {
				s.Type = models.ServiceOther
			}
			if _, err := tx.InsertService(&s); err != nil {
				return fmt.Errorf("seed service %q: %w", s.Name, err)
			}
		}
		for _, u := range data.Users {
			user, err := u.toModel(loc, cost)
			if err != nil {
				return fmt.Errorf("seed user %q: %w", u.Username, err)
			}
			if _, err := tx.InsertUser(user); err != nil {
				return fmt.Errorf("seed user %q: %w", u.Username, err)
			}
		}
		held := make(map[int64]string)
		for _, c := range data.Customers {
			cust, err := c.toModel(loc)
			if err != nil {
				return fmt.Errorf("seed customer %q: %w", c.Name, err)
			}
			if _, err := tx.InsertCustomer(cust); err != nil {
				return fmt.Errorf("seed customer %q: %w", c.Name, err)
			}
			if err := occupy(tx, cust, held); err != nil {
				return fmt.Errorf("seed customer %q: %w", c.Name, err)
			}
		}
		return nil
	})
}

// occupy marks the room of an active guest occupied whatever status the seed
// gave it. A missing room, or a room already held by another active guest
// in the same seed, is rejected.
func occupy(tx *db.DB, c *models.Customer, held map[int64]string) error {
	if !c.IsActive() || c.RoomID == nil {
		return nil
	}
	id := *c.RoomID
	if other, ok := held[id]; ok {
		return fmt.Errorf("%w: room %d already holds active guest %q", models.ErrRoomOccupied, id, other)
	}
	found, err := tx.SetRoomStatus(id, models.RoomOccupied)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: room %d does not exist", models.ErrInvalidInput, id)
	}
	held[id] = c.Name
	return nil
}

func (u *User) toModel(loc *time.Location, cost int) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return nil, err
	}
	createdAt := time.Now().In(loc)
	if u.CreatedAt != "" {
		if createdAt, err = models.ParseTime(u.CreatedAt, loc); err != nil {
			return nil, err
		}
	}
	status := u.Status
	if status == "" {
		status = models.UserActive
	}
	perms := u.Permissions
	if perms == nil {
		if role, ok := models.RoleByID(u.Role); ok {
			perms = role.Permissions
		}
	}
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: string(hash),
		Role:         u.Role,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		CreatedAt:    createdAt,
		Status:       status,
		Permissions:  perms,
	}, nil
}

func (c *Customer) toModel(loc *time.Location) (*models.Customer, error) {
	checkIn, err := models.ParseTime(c.CheckIn, loc)
	if err != nil {
		return nil, err
	}
	status := c.Status
	if status == "" {
		status = models.CustomerActive
	}
	cust := &models.Customer{
		ID:           c.ID,
		Name:         c.Name,
		IDNumber:     c.IDNumber,
		Phone:        c.Phone,
		CheckIn:      checkIn,
		RoomID:       c.RoomID,
		RoomType:     c.RoomType,
		RoomPrice:    c.RoomPrice,
		IDDocument:   c.IDDocument,
		Notes:        c.Notes,
		Status:       status,
		Services:     c.Services,
		Documents:    make([]models.Document, 0, len(c.Documents)),
		CreatedBy:    c.CreatedBy,
		CheckedOutBy: c.CheckedOutBy,
	}
	for _, doc := range c.Documents {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		cust.Documents = append(cust.Documents, doc)
	}
	if c.CheckOut != "" {
		out, err := models.ParseTime(c.CheckOut, loc)
		if err != nil {
			return nil, err
		}
		cust.CheckOut = &out
	}
	return cust, nil
}
