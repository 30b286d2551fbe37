package script

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/report"
)

type opFunc func(r *Runner, args *yaml.Node) (any, error)

var errNoFakeClock = errors.New("clock ops need a script start time")

var ops = map[string]opFunc{
	"login":    opLogin,
	"logout":   func(r *Runner, _ *yaml.Node) (any, error) { r.svc.Logout(); return nil, nil },
	"whoami":   func(r *Runner, _ *yaml.Node) (any, error) { return r.svc.CurrentUser(), nil },
	"advance":  opAdvance,
	"set_time": opSetTime,

	"rooms_list":     opRoomsList,
	"room_add":       opRoomAdd,
	"room_remove":    func(r *Runner, n *yaml.Node) (any, error) { return doByID(n, r.svc.RemoveRoom) },
	"services_list":  func(r *Runner, _ *yaml.Node) (any, error) { return r.svc.ListServices() },
	"service_add":    opServiceAdd,
	"service_update": opServiceUpdate,
	"service_remove": func(r *Runner, n *yaml.Node) (any, error) { return doByID(n, r.svc.RemoveService) },
	"book_service":   opBookService,
	"remove_booking": opRemoveBooking,
	"bookings_list":  func(r *Runner, _ *yaml.Node) (any, error) { return r.svc.ListBookings() },

	"customers_list":  opCustomersList,
	"customer_get":    func(r *Runner, n *yaml.Node) (any, error) { return getByID(n, r.svc.GetCustomer) },
	"checkin":         opCheckIn,
	"customer_update": opCustomerUpdate,
	"checkout":        func(r *Runner, n *yaml.Node) (any, error) { return getByID(n, r.svc.CheckOut) },
	"customer_remove": func(r *Runner, n *yaml.Node) (any, error) { return doByID(n, r.svc.RemoveCustomer) },
	"attach_document": opAttachDocument,
	"remove_document": opRemoveDocument,
	"set_id_document": opSetIDDocument,

	"users_list":  func(r *Runner, _ *yaml.Node) (any, error) { return r.svc.ListUsers() },
	"user_add":    opUserAdd,
	"user_update": opUserUpdate,
	"user_remove": func(r *Runner, n *yaml.Node) (any, error) { return doByID(n, r.svc.RemoveUser) },
	"user_toggle": func(r *Runner, n *yaml.Node) (any, error) { return getByID(n, r.svc.ToggleUserStatus) },

	"dashboard":       func(r *Runner, _ *yaml.Node) (any, error) { return r.svc.Dashboard() },
	"activity":        opActivity,
	"customer_report": opCustomerReport,
}

// decode fills v from n; an absent args block leaves v untouched.
func decode(n *yaml.Node, v any) error {
	if n == nil || n.Kind == 0 {
		return nil
	}
	if err := n.Decode(v); err != nil {
		return fmt.Errorf("%w: args: %v", models.ErrInvalidInput, err)
	}
	return nil
}

type idArgs struct {
	ID int64 `yaml:"id"`
}

// getByID decodes {id: N} and returns get's result.
func getByID[T any](n *yaml.Node, get func(int64) (T, error)) (any, error) {
	var a idArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return get(a.ID)
}

// doByID decodes {id: N} and runs do.
func doByID(n *yaml.Node, do func(int64) error) (any, error) {
	var a idArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return nil, do(a.ID)
}

// ---------------------------------------------------------------------------
// Session and clock
// ---------------------------------------------------------------------------

func opLogin(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.Login(a.Username, a.Password)
}

func opAdvance(r *Runner, n *yaml.Node) (any, error) {
	if r.clock == nil {
		return nil, errNoFakeClock
	}
	var a struct {
		By string `yaml:"by"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(a.By)
	if err != nil {
		return nil, fmt.Errorf("%w: advance: %v", models.ErrInvalidInput, err)
	}
	r.clock.Advance(d)
	return map[string]time.Time{"now": r.svc.Now()}, nil
}

func opSetTime(r *Runner, n *yaml.Node) (any, error) {
	if r.clock == nil {
		return nil, errNoFakeClock
	}
	var a struct {
		At string `yaml:"at"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	t, err := models.ParseTime(a.At, r.svc.Location)
	if err != nil {
		return nil, err
	}
	r.clock.Set(t)
	return map[string]time.Time{"now": r.svc.Now()}, nil
}

// ---------------------------------------------------------------------------
// Rooms and services
// ---------------------------------------------------------------------------

func opRoomsList(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		Status    string `yaml:"status"`
		Available bool   `yaml:"available"`
		For       int64  `yaml:"for"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	if a.Available {
		return r.svc.AvailableRooms(a.For)
	}
	return r.svc.ListRooms(models.RoomStatus(a.Status))
}

func opRoomAdd(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		ID     int64  `yaml:"id"`
		Number string `yaml:"number"`
		Type   string `yaml:"type"`
		Beds   int    `yaml:"beds"`
		Price  int64  `yaml:"price"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.AddRoom(models.RoomInput{ID: a.ID, Number: a.Number, Type: a.Type, Beds: a.Beds, Price: a.Price})
}

type serviceArgs struct {
	ID          int64   `yaml:"id"`
	Name        *string `yaml:"name"`
	Price       *int64  `yaml:"price"`
	Description *string `yaml:"description"`
	Type        *string `yaml:"type"`
}

func opServiceAdd(r *Runner, n *yaml.Node) (any, error) {
	var a serviceArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	in := models.ServiceInput{Name: deref(a.Name), Price: deref(a.Price), Description: deref(a.Description)}
	in.Type = models.ServiceType(deref(a.Type))
	return r.svc.AddService(in)
}

func opServiceUpdate(r *Runner, n *yaml.Node) (any, error) {
	var a serviceArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	patch := models.ServicePatch{Name: a.Name, Price: a.Price, Description: a.Description}
	if a.Type != nil {
		t := models.ServiceType(*a.Type)
		patch.Type = &t
	}
	return r.svc.UpdateService(a.ID, patch)
}

type bookingArgs struct {
	ServiceID int64 `yaml:"service_id"`
	RoomID    int64 `yaml:"room_id"`
}

func opBookService(r *Runner, n *yaml.Node) (any, error) {
	var a bookingArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.BookService(a.ServiceID, a.RoomID)
}

func opRemoveBooking(r *Runner, n *yaml.Node) (any, error) {
	var a bookingArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return nil, r.svc.RemoveBooking(a.ServiceID, a.RoomID)
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

type documentArgs struct {
	Type string `yaml:"type"`
	File string `yaml:"file"`
}

type customerArgs struct {
	ID         int64          `yaml:"id"`
	Name       *string        `yaml:"name"`
	IDNumber   *string        `yaml:"id_number"`
	Phone      *string        `yaml:"phone"`
	CheckIn    *string        `yaml:"check_in"`
	RoomID     *int64         `yaml:"room_id"`
	ClearRoom  bool           `yaml:"clear_room"`
	Services   *[]int64       `yaml:"services"`
	IDDocument *string        `yaml:"id_document"`
	Notes      *string        `yaml:"notes"`
	Documents  []documentArgs `yaml:"documents"`
}

func opCustomersList(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		Status string `yaml:"status"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.ListCustomers(models.CustomerStatus(a.Status))
}

func opCheckIn(r *Runner, n *yaml.Node) (any, error) {
	var a customerArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	in := models.CustomerInput{
		Name:       deref(a.Name),
		IDNumber:   deref(a.IDNumber),
		Phone:      deref(a.Phone),
		RoomID:     a.RoomID,
		IDDocument: deref(a.IDDocument),
		Notes:      deref(a.Notes),
	}
	if a.Services != nil {
		in.ServiceIDs = *a.Services
	}
	if a.CheckIn != nil {
		t, err := models.ParseTime(*a.CheckIn, r.svc.Location)
		if err != nil {
			return nil, err
		}
		in.CheckIn = t
	}
	for _, d := range a.Documents {
		in.Documents = append(in.Documents, models.DocumentInput(d))
	}
	return r.svc.CheckIn(in)
}

func opCustomerUpdate(r *Runner, n *yaml.Node) (any, error) {
	var a customerArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	patch := models.CustomerPatch{
		Name:       a.Name,
		IDNumber:   a.IDNumber,
		Phone:      a.Phone,
		RoomID:     a.RoomID,
		ClearRoom:  a.ClearRoom,
		IDDocument: a.IDDocument,
		Notes:      a.Notes,
	}
	if a.Services != nil {
		patch.ServiceIDs = append(make([]int64, 0, len(*a.Services)), *a.Services...)
	}
	if a.CheckIn != nil {
		t, err := models.ParseTime(*a.CheckIn, r.svc.Location)
		if err != nil {
			return nil, err
		}
		patch.CheckIn = &t
	}
	return r.svc.UpdateCustomer(a.ID, patch)
}

func opAttachDocument(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		ID   int64  `yaml:"id"`
		Type string `yaml:"type"`
		File string `yaml:"file"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.AttachDocument(a.ID, models.DocumentInput{Type: a.Type, File: a.File})
}

func opRemoveDocument(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		ID       int64  `yaml:"id"`
		Document string `yaml:"document"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return nil, r.svc.RemoveDocument(a.ID, a.Document)
}

func opSetIDDocument(r *Runner, n *yaml.Node) (any, error) {
	var a struct {
		ID   int64  `yaml:"id"`
		File string `yaml:"file"`
	}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.SetIDDocument(a.ID, a.File)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type userArgs struct {
	ID          int64    `yaml:"id"`
	Username    *string  `yaml:"username"`
	Password    string   `yaml:"password"` // #nosec G117 -- script credential, hashed by the service
	Role        *string  `yaml:"role"`
	Name        *string  `yaml:"name"`
	Email       *string  `yaml:"email"`
	Phone       *string  `yaml:"phone"`
	Status      *string  `yaml:"status"`
	Permissions []string `yaml:"permissions"`
}

func opUserAdd(r *Runner, n *yaml.Node) (any, error) {
	var a userArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	return r.svc.AddUser(models.UserInput{
		Username:    deref(a.Username),
		Password:    a.Password,
		Role:        deref(a.Role),
		Name:        deref(a.Name),
		Email:       deref(a.Email),
		Phone:       deref(a.Phone),
		Status:      models.UserStatus(deref(a.Status)),
		Permissions: a.Permissions,
	})
}

func opUserUpdate(r *Runner, n *yaml.Node) (any, error) {
	var a userArgs
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	patch := models.UserPatch{
		Username:    a.Username,
		Password:    a.Password,
		Role:        a.Role,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		Permissions: a.Permissions,
	}
	if a.Status != nil {
		st := models.UserStatus(*a.Status)
		patch.Status = &st
	}
	return r.svc.UpdateUser(a.ID, patch)
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

func opActivity(r *Runner, n *yaml.Node) (any, error) {
	a := struct {
		Period string `yaml:"period"`
	}{Period: string(report.Daily)}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	p, err := report.ParsePeriod(a.Period)
	if err != nil {
		return nil, err
	}
	return r.svc.Activity(p)
}

func opCustomerReport(r *Runner, n *yaml.Node) (any, error) {
	a := struct {
		Kind   string `yaml:"kind"`
		Status string `yaml:"status"`
	}{Kind: string(report.Basic)}
	if err := decode(n, &a); err != nil {
		return nil, err
	}
	k, err := report.ParseKind(a.Kind)
	if err != nil {
		return nil, err
	}
	return r.svc.CustomerReport(k, models.CustomerStatus(a.Status))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
