// Package models defines the core data types for the front desk.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Sentinel errors shared by the store, the service and the MCP layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("already exists")
	ErrRoomOccupied       = errors.New("room is occupied")
	ErrRoomUnavailable    = errors.New("room is not available")
	ErrCheckedOut         = errors.New("customer already checked out")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrForbidden          = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSelfRemoval        = errors.New("cannot remove the signed-in user")
)

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
)

// CustomerStatus is the stay state of a guest.
type CustomerStatus string

const (
	CustomerActive     CustomerStatus = "active"
	CustomerCheckedOut CustomerStatus = "checked_out"
)

// UserStatus controls whether a staff account may sign in.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// ServiceType groups catalog entries.
type ServiceType string

const (
	ServiceBed      ServiceType = "bed"
	ServiceInternet ServiceType = "internet"
	ServiceOther    ServiceType = "other"
)

// ValidServiceTypes lists the accepted service type values.
var ValidServiceTypes = []ServiceType{ServiceBed, ServiceInternet, ServiceOther}

// Permission identifiers.
const (
	PermAll            = "all"
	PermViewCustomers  = "view_customers"
	PermAddCustomer    = "add_customer"
	PermEditCustomer   = "edit_customer"
	PermDeleteCustomer = "delete_customer"
	PermManageRooms    = "manage_rooms"
	PermManageServices = "manage_services"
	PermViewReports    = "view_reports"
	PermManageUsers    = "manage_users"
)

// Role identifiers.
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
)

// Permission describes one grantable capability.
type Permission struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Role is a named permission bundle.
type Role struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// Permissions is the fixed permission catalog.
var Permissions = []Permission{
	{PermAll, "All permissions", "Full access to every feature"},
	{PermViewCustomers, "View customers", "List guests and view their details"},
	{PermAddCustomer, "Add customer", "Check in new guests"},
	{PermEditCustomer, "Edit customers", "Edit guest records"},
	{PermDeleteCustomer, "Delete customers", "Remove guests from the system"},
	{PermManageRooms, "Manage rooms", "Manage rooms and their prices"},
	{PermManageServices, "Manage services", "Manage the additional services catalog"},
	{PermViewReports, "View reports", "Access reports and statistics"},
	{PermManageUsers, "Manage users", "Manage staff accounts"},
}

// Roles is the fixed role catalog.
var Roles = []Role{
	{ID: RoleAdmin, Name: "System administrator", Permissions: []string{PermAll}},
	{ID: RoleManager, Name: "Manager", Permissions: []string{
		PermViewCustomers, PermAddCustomer, PermEditCustomer, PermDeleteCustomer,
		PermManageRooms, PermManageServices, PermViewReports,
	}},
	{ID: RoleReceptionist, Name: "Receptionist", Permissions: []string{
		PermViewCustomers, PermAddCustomer, PermEditCustomer,
	}},
}

// RoleByID looks up a role in the catalog.
func RoleByID(id string) (Role, bool) {
	for _, r := range Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// IsPermission reports whether id names a catalog permission.
func IsPermission(id string) bool {
	for _, p := range Permissions {
		if p.ID == id {
			return true
		}
	}
	return false
}

// IsServiceType reports whether t is an accepted service type.
func IsServiceType(t ServiceType) bool {
	return slices.Contains(ValidServiceTypes, t)
}

// RoomTypeDefault holds the form defaults applied for a known room type.
type RoomTypeDefault struct {
	Beds  int
	Price int64
}

// RoomTypeDefaults maps room types to their default bed count and nightly price.
var RoomTypeDefaults = map[string]RoomTypeDefault{
	"single": {Beds: 1, Price: 300},
	"double": {Beds: 2, Price: 500},
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

// Room is one rentable room.
type Room struct {
	ID     int64      `json:"id" yaml:"id"`
	Number string     `json:"number" yaml:"number"`
	Type   string     `json:"type" yaml:"type"`
	Beds   int        `json:"beds" yaml:"beds"`
	Price  int64      `json:"price" yaml:"price"`
	Status RoomStatus `json:"status" yaml:"status"`
}

// Service is an entry in the ancillary service catalog.
type Service struct {
	ID          int64       `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Price       int64       `json:"price" yaml:"price"`
	Description string      `json:"description" yaml:"description"`
	Type        ServiceType `json:"type" yaml:"type"`
}

// ServiceCharge is a service attached to a stay. Price is the catalog
// price at the moment the service was attached.
type ServiceCharge struct {
	ServiceID int64  `json:"service_id" yaml:"service_id"`
	Price     int64  `json:"price" yaml:"price"`
	RoomID    *int64 `json:"room_id,omitempty" yaml:"room_id,omitempty"`
}

// ServiceBooking reserves a catalog service for a room, independent of any guest.
type ServiceBooking struct {
	ServiceID int64     `json:"service_id" yaml:"service_id"`
	RoomID    int64     `json:"room_id" yaml:"room_id"`
	BookedAt  time.Time `json:"booked_at" yaml:"booked_at"`
}

// Document is a scanned document attached to a guest record.
type Document struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
	File string `json:"file" yaml:"file"`
}

// StaffRef is a denormalized snapshot of the staff member behind an action.
type StaffRef struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
}

// Customer is one guest stay.
type Customer struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	IDNumber     string          `json:"id_number"`
	Phone        string          `json:"phone"`
	CheckIn      time.Time       `json:"check_in"`
	CheckOut     *time.Time      `json:"check_out,omitempty"`
	RoomID       *int64          `json:"room_id,omitempty"`
	RoomType     string          `json:"room_type"`
	RoomPrice    int64           `json:"room_price"`
	IDDocument   string          `json:"id_document,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Status       CustomerStatus  `json:"status"`
	Documents    []Document      `json:"documents"`
	Services     []ServiceCharge `json:"services"`
	CreatedBy    *StaffRef       `json:"created_by,omitempty"`
	CheckedOutBy *StaffRef       `json:"checked_out_by,omitempty"`
}

// ServicesTotal sums the attached service charges.
func (c *Customer) ServicesTotal() int64 {
	var sum int64
	for _, s := range c.Services {
		sum += s.Price
	}
	return sum
}

// Total is the room price plus all service charges.
func (c *Customer) Total() int64 {
	return c.RoomPrice + c.ServicesTotal()
}

// IsActive reports whether the guest is still in house.
func (c *Customer) IsActive() bool { return c.Status == CustomerActive }

// User is a staff account.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Status       UserStatus `json:"status"`
	Permissions  []string   `json:"permissions"`
}

// Ref returns the staff snapshot recorded on customer actions.
func (u *User) Ref() *StaffRef {
	if u == nil {
		return nil
	}
	return &StaffRef{ID: u.ID, Name: u.Name, Username: u.Username}
}

// Can reports whether the user holds permission. Admins and holders of
// "all" pass every check.
func (u *User) Can(permission string) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	return slices.Contains(u.Permissions, PermAll) || slices.Contains(u.Permissions, permission)
}

// ---------------------------------------------------------------------------
// Inputs
// ---------------------------------------------------------------------------

// RoomInput is the caller-supplied data for a new room. ID is only set when
// seeding fixed room identifiers.
type RoomInput struct {
	ID     int64
	Number string
	Type   string
	Beds   int
	Price  int64
}

// ServiceInput is the caller-supplied data for a new catalog entry.
type ServiceInput struct {
	Name        string
	Price       int64
	Description string
	Type        ServiceType
}

// ServicePatch changes a catalog entry. Nil fields are left unchanged.
type ServicePatch struct {
	Name        *string
	Price       *int64
	Description *string
	Type        *ServiceType
}

// DocumentInput is a document to attach to a guest record.
type DocumentInput struct {
	Type string
	File string
}

// CustomerInput is the check-in form.
type CustomerInput struct {
	Name       string
	IDNumber   string
	Phone      string
	CheckIn    time.Time
	RoomID     *int64
	ServiceIDs []int64
	IDDocument string
	Notes      string
	Documents  []DocumentInput
}

// CustomerPatch edits an active stay. Nil fields are left unchanged; a nil
// ServiceIDs keeps the current charges while an empty one clears them.
// ClearRoom detaches the guest from any room and wins over RoomID.
type CustomerPatch struct {
	Name       *string
	IDNumber   *string
	Phone      *string
	CheckIn    *time.Time
	RoomID     *int64
	ClearRoom  bool
	ServiceIDs []int64
	IDDocument *string
	Notes      *string
}

// UserInput is the data for a new staff account.
type UserInput struct {
	Username    string
	Password    string
	Role        string
	Name        string
	Email       string
	Phone       string
	Status      UserStatus
	Permissions []string
}

// UserPatch edits a staff account. An empty Password keeps the current one.
type UserPatch struct {
	Username    *string
	Password    string
	Role        *string
	Name        *string
	Email       *string
	Phone       *string
	Status      *UserStatus
	Permissions []string
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

var checkInLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses the date/time formats accepted by the check-in form,
// interpreting zone-less values in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range checkInLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", ErrInvalidInput, s)
}
