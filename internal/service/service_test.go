package service_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-ports/frontdesk/internal/clock"
	"github.com/go-ports/frontdesk/internal/config"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/report"
	"github.com/go-ports/frontdesk/internal/service"
)

// demoDay is the check-in day of the seeded guest in room 102.
var demoDay = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

// newTestService opens a session on the built-in seed with a frozen clock and
// signs in as username (skipped when empty).
func newTestService(t *testing.T, username string) (*service.Service, *clock.FakeClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Hotel.Timezone = "UTC"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	clk := clock.Fake(demoDay)

	svc, err := service.New(cfg, service.WithClock(clk))
	if err != nil {
		t.Fatalf("newTestService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if username != "" {
		if _, err := svc.Login(username, username); err != nil {
			t.Fatalf("newTestService login %s: %v", username, err)
		}
	}
	return svc, clk
}

func ptr[T any](v T) *T { return &v }

func roomStatus(c *qt.C, svc *service.Service, id int64) models.RoomStatus {
	c.Helper()
	rooms, err := svc.ListRooms("")
	c.Assert(err, qt.IsNil)
	for _, r := range rooms {
		if r.ID == id {
			return r.Status
		}
	}
	c.Fatalf("room %d not found", id)
	return ""
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("session credentials sign in automatically", func(c *qt.C) {
		cfg := config.Default()
		cfg.Auth.BcryptCost = bcrypt.MinCost
		cfg.Session.Username = "staff"
		cfg.Session.Password = "staff"
		svc, err := service.New(cfg)
		c.Assert(err, qt.IsNil)
		defer svc.Close()
		c.Assert(svc.CurrentUser(), qt.IsNotNil)
		c.Assert(svc.CurrentUser().Username, qt.Equals, "staff")
	})

	c.Run("sessions are isolated", func(c *qt.C) {
		a, _ := newTestService(t, "admin")
		b, _ := newTestService(t, "admin")
		c.Assert(a.SessionID, qt.Not(qt.Equals), b.SessionID)
		c.Assert(a.RemoveRoom(101), qt.IsNil)
		rooms, err := b.ListRooms("")
		c.Assert(err, qt.IsNil)
		c.Assert(rooms, qt.HasLen, 2)
	})
}

func TestNew_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("bad session credentials", func(c *qt.C) {
		cfg := config.Default()
		cfg.Auth.BcryptCost = bcrypt.MinCost
		cfg.Session.Username = "admin"
		cfg.Session.Password = "nope"
		_, err := service.New(cfg)
		c.Assert(err, qt.ErrorIs, models.ErrInvalidCredentials)
	})

	c.Run("unknown timezone", func(c *qt.C) {
		cfg := config.Default()
		cfg.Hotel.Timezone = "Mars/Olympus_Mons"
		_, err := service.New(cfg)
		c.Assert(err, qt.IsNotNil)
	})
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestLogin_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "")

	c.Assert(svc.CurrentUser(), qt.IsNil)
	u, err := svc.Login("admin", "admin")
	c.Assert(err, qt.IsNil)
	c.Assert(u.Role, qt.Equals, models.RoleAdmin)
	c.Assert(svc.Can(models.PermManageUsers), qt.IsTrue)

	svc.Logout()
	c.Assert(svc.CurrentUser(), qt.IsNil)
	c.Assert(svc.Can(models.PermViewCustomers), qt.IsFalse)
}

func TestLogin_FailurePath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	_, err := svc.Login("admin", "wrong")
	c.Assert(err, qt.ErrorIs, models.ErrInvalidCredentials)

	_, err = svc.Login("ghost", "ghost")
	c.Assert(err, qt.ErrorIs, models.ErrInvalidCredentials)

	_, err = svc.ToggleUserStatus(2)
	c.Assert(err, qt.IsNil)
	_, err = svc.Login("staff", "staff")
	c.Assert(err, qt.ErrorIs, models.ErrInvalidCredentials)
}

func TestPermissions_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("signed out", func(c *qt.C) {
		svc, _ := newTestService(t, "")
		_, err := svc.ListRooms("")
		c.Assert(err, qt.ErrorIs, models.ErrUnauthenticated)
	})

	c.Run("receptionist cannot manage the property", func(c *qt.C) {
		svc, _ := newTestService(t, "staff")
		_, err := svc.AddRoom(models.RoomInput{Number: "201"})
		c.Assert(err, qt.ErrorIs, models.ErrForbidden)
		_, err = svc.AddService(models.ServiceInput{Name: "Laundry", Price: 30})
		c.Assert(err, qt.ErrorIs, models.ErrForbidden)
		_, err = svc.ListUsers()
		c.Assert(err, qt.ErrorIs, models.ErrForbidden)
		err = svc.RemoveCustomer(1)
		c.Assert(err, qt.ErrorIs, models.ErrForbidden)
		_, err = svc.Activity(report.Daily)
		c.Assert(err, qt.ErrorIs, models.ErrForbidden)
	})

	c.Run("revoked permission applies immediately", func(c *qt.C) {
		svc, _ := newTestService(t, "admin")
		mgr, err := svc.AddUser(models.UserInput{
			Username: "mgr", Password: "mgr", Role: models.RoleManager, Name: "Manager",
		})
		c.Assert(err, qt.IsNil)
		_, err = svc.Login("mgr", "mgr")
		c.Assert(err, qt.IsNil)
		c.Assert(svc.Can(models.PermManageRooms), qt.IsTrue)

		_, err = svc.Login("admin", "admin")
		c.Assert(err, qt.IsNil)
		_, err = svc.UpdateUser(mgr.ID, models.UserPatch{Permissions: []string{models.PermViewCustomers}})
		c.Assert(err, qt.IsNil)

		_, err = svc.Login("mgr", "mgr")
		c.Assert(err, qt.IsNil)
		c.Assert(svc.Can(models.PermManageRooms), qt.IsFalse)
	})
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

func TestAddRoom_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	r, err := svc.AddRoom(models.RoomInput{Number: "103", Type: "double"})
	c.Assert(err, qt.IsNil)
	c.Assert(r.ID, qt.Equals, int64(103))
	c.Assert(r.Beds, qt.Equals, 2)
	c.Assert(r.Price, qt.Equals, int64(500))
	c.Assert(r.Status, qt.Equals, models.RoomAvailable)

	suite, err := svc.AddRoom(models.RoomInput{Number: "301", Type: "suite", Beds: 3, Price: 900})
	c.Assert(err, qt.IsNil)
	c.Assert(suite.Type, qt.Equals, "suite")

	avail, err := svc.ListRooms(models.RoomAvailable)
	c.Assert(err, qt.IsNil)
	c.Assert(avail, qt.HasLen, 3)
}

func TestAddRoom_FailurePath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	cases := []struct {
		name string
		in   models.RoomInput
		want error
	}{
		{"missing number", models.RoomInput{Type: "single"}, models.ErrInvalidInput},
		{"duplicate number", models.RoomInput{Number: "101"}, models.ErrDuplicate},
		{"too many beds", models.RoomInput{Number: "201", Beds: 5}, models.ErrInvalidInput},
		{"negative price", models.RoomInput{Number: "201", Type: "suite", Beds: 2, Price: -1}, models.ErrInvalidInput},
	}
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := svc.AddRoom(tc.in)
			c.Assert(err, qt.ErrorIs, tc.want)
		})
	}
}

func TestRemoveRoom(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	c.Assert(svc.RemoveRoom(102), qt.ErrorIs, models.ErrRoomOccupied)
	c.Assert(svc.RemoveRoom(999), qt.ErrorIs, models.ErrNotFound)
	c.Assert(svc.RemoveRoom(101), qt.IsNil)

	rooms, err := svc.ListRooms("")
	c.Assert(err, qt.IsNil)
	c.Assert(rooms, qt.HasLen, 1)
}

func TestAvailableRooms(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	rooms, err := svc.AvailableRooms(0)
	c.Assert(err, qt.IsNil)
	c.Assert(rooms, qt.HasLen, 1)
	c.Assert(rooms[0].ID, qt.Equals, int64(101))

	rooms, err = svc.AvailableRooms(1)
	c.Assert(err, qt.IsNil)
	c.Assert(rooms, qt.HasLen, 2)

	_, err = svc.AvailableRooms(42)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Service catalog and bookings
// ---------------------------------------------------------------------------

func TestServiceCatalog(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	laundry, err := svc.AddService(models.ServiceInput{Name: "Laundry", Price: 30})
	c.Assert(err, qt.IsNil)
	c.Assert(laundry.ID, qt.Equals, int64(3))
	c.Assert(laundry.Type, qt.Equals, models.ServiceOther)

	updated, err := svc.UpdateService(laundry.ID, models.ServicePatch{Price: ptr(int64(40))})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Price, qt.Equals, int64(40))
	c.Assert(updated.Name, qt.Equals, "Laundry")

	_, err = svc.UpdateService(laundry.ID, models.ServicePatch{Type: ptr(models.ServiceType("spa"))})
	c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)

	c.Assert(svc.RemoveService(1), qt.IsNil)
	c.Assert(svc.RemoveService(1), qt.ErrorIs, models.ErrNotFound)

	// the seeded guest keeps the charge of the removed service
	guest, err := svc.GetCustomer(1)
	c.Assert(err, qt.IsNil)
	c.Assert(guest.ServicesTotal(), qt.Equals, int64(150))

	list, err := svc.ListServices()
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
}

func TestBookService(t *testing.T) {
	c := qt.New(t)
	svc, clk := newTestService(t, "admin")

	b, err := svc.BookService(2, 101)
	c.Assert(err, qt.IsNil)
	c.Assert(b.BookedAt.Equal(clk.Now()), qt.IsTrue)

	_, err = svc.BookService(99, 101)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)
	_, err = svc.BookService(2, 999)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)

	list, err := svc.ListBookings()
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 1)

	c.Assert(svc.RemoveBooking(2, 101), qt.IsNil)
	c.Assert(svc.RemoveBooking(2, 101), qt.ErrorIs, models.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

func TestCheckIn_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc, clk := newTestService(t, "staff")

	guest, err := svc.CheckIn(models.CustomerInput{
		Name: "Sara Ali", IDNumber: "ID777", Phone: "0550000000",
		RoomID:     ptr(int64(101)),
		ServiceIDs: []int64{2, 99, 2},
		Documents:  []models.DocumentInput{{Type: "passport", File: "passport.png"}},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(guest.ID, qt.Equals, int64(2))
	c.Assert(guest.CheckIn.Equal(clk.Now()), qt.IsTrue)
	c.Assert(guest.RoomType, qt.Equals, "single")
	c.Assert(guest.RoomPrice, qt.Equals, int64(300))
	c.Assert(guest.Services, qt.DeepEquals, []models.ServiceCharge{
		{ServiceID: 2, Price: 50, RoomID: ptr(int64(101))},
	})
	c.Assert(guest.Total(), qt.Equals, int64(350))
	c.Assert(guest.CreatedBy.Username, qt.Equals, "staff")
	c.Assert(guest.Documents, qt.HasLen, 1)
	c.Assert(guest.Documents[0].ID, qt.Not(qt.Equals), "")
	c.Assert(roomStatus(c, svc, 101), qt.Equals, models.RoomOccupied)

	stored, err := svc.GetCustomer(guest.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Services, qt.HasLen, 1)
	c.Assert(stored.Status, qt.Equals, models.CustomerActive)
}

func TestCheckIn_FailurePath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "staff")

	valid := func() models.CustomerInput {
		return models.CustomerInput{Name: "Sara", IDNumber: "ID1", Phone: "055"}
	}

	c.Run("occupied room", func(c *qt.C) {
		in := valid()
		in.RoomID = ptr(int64(102))
		_, err := svc.CheckIn(in)
		c.Assert(err, qt.ErrorIs, models.ErrRoomUnavailable)
	})

	c.Run("unknown room", func(c *qt.C) {
		in := valid()
		in.RoomID = ptr(int64(404))
		_, err := svc.CheckIn(in)
		c.Assert(err, qt.ErrorIs, models.ErrNotFound)
	})

	c.Run("missing phone", func(c *qt.C) {
		in := valid()
		in.Phone = "  "
		_, err := svc.CheckIn(in)
		c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
	})

	c.Run("failed check-in leaves the room free", func(c *qt.C) {
		in := valid()
		in.Name = ""
		in.RoomID = ptr(int64(101))
		_, err := svc.CheckIn(in)
		c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
		c.Assert(roomStatus(c, svc, 101), qt.Equals, models.RoomAvailable)
	})
}

func TestUpdateCustomer_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	c.Run("room change swaps occupancy and reprices the room", func(c *qt.C) {
		got, err := svc.UpdateCustomer(1, models.CustomerPatch{RoomID: ptr(int64(101))})
		c.Assert(err, qt.IsNil)
		c.Assert(*got.RoomID, qt.Equals, int64(101))
		c.Assert(got.RoomPrice, qt.Equals, int64(300))
		for _, ch := range got.Services {
			c.Assert(*ch.RoomID, qt.Equals, int64(101))
		}
		c.Assert(roomStatus(c, svc, 101), qt.Equals, models.RoomOccupied)
		c.Assert(roomStatus(c, svc, 102), qt.Equals, models.RoomAvailable)
	})

	c.Run("rebuilt charges keep attached prices", func(c *qt.C) {
		_, err := svc.UpdateService(1, models.ServicePatch{Price: ptr(int64(999))})
		c.Assert(err, qt.IsNil)
		laundry, err := svc.AddService(models.ServiceInput{Name: "Laundry", Price: 30})
		c.Assert(err, qt.IsNil)

		got, err := svc.UpdateCustomer(1, models.CustomerPatch{ServiceIDs: []int64{1, laundry.ID}})
		c.Assert(err, qt.IsNil)
		c.Assert(got.Services, qt.HasLen, 2)
		c.Assert(got.Services[0].Price, qt.Equals, int64(100))
		c.Assert(got.Services[1].Price, qt.Equals, int64(30))
	})

	c.Run("scalar fields", func(c *qt.C) {
		got, err := svc.UpdateCustomer(1, models.CustomerPatch{Phone: ptr("0509999999"), Notes: ptr("late arrival")})
		c.Assert(err, qt.IsNil)
		c.Assert(got.Phone, qt.Equals, "0509999999")
		c.Assert(got.Notes, qt.Equals, "late arrival")
		c.Assert(got.Name, qt.Equals, "Ahmed Mohammed")
	})

	c.Run("card numbers in notes are redacted", func(c *qt.C) {
		got, err := svc.UpdateCustomer(1, models.CustomerPatch{Notes: ptr("deposit on 4111111111111111")})
		c.Assert(err, qt.IsNil)
		c.Assert(got.Notes, qt.Equals, "deposit on [REDACTED]")
	})

	c.Run("clearing the room frees it", func(c *qt.C) {
		got, err := svc.UpdateCustomer(1, models.CustomerPatch{ClearRoom: true})
		c.Assert(err, qt.IsNil)
		c.Assert(got.RoomID, qt.IsNil)
		c.Assert(got.RoomPrice, qt.Equals, int64(0))
		c.Assert(roomStatus(c, svc, 101), qt.Equals, models.RoomAvailable)
	})
}

func TestUpdateCustomer_FailurePath(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	_, err := svc.UpdateCustomer(7, models.CustomerPatch{})
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)

	_, err = svc.UpdateCustomer(1, models.CustomerPatch{Name: ptr("")})
	c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)

	_, err = svc.CheckOut(1)
	c.Assert(err, qt.IsNil)
	_, err = svc.UpdateCustomer(1, models.CustomerPatch{Notes: ptr("x")})
	c.Assert(err, qt.ErrorIs, models.ErrCheckedOut)
}

func TestCheckOut(t *testing.T) {
	c := qt.New(t)
	svc, clk := newTestService(t, "staff")
	clk.Advance(48 * time.Hour)

	got, err := svc.CheckOut(1)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, models.CustomerCheckedOut)
	c.Assert(got.CheckOut, qt.IsNotNil)
	c.Assert(got.CheckOut.Equal(clk.Now()), qt.IsTrue)
	c.Assert(got.CheckedOutBy.Username, qt.Equals, "staff")
	c.Assert(roomStatus(c, svc, 102), qt.Equals, models.RoomAvailable)

	_, err = svc.CheckOut(1)
	c.Assert(err, qt.ErrorIs, models.ErrCheckedOut)

	active, err := svc.ListCustomers(models.CustomerActive)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.HasLen, 0)
}

func TestRemoveCustomer(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	c.Assert(svc.RemoveCustomer(1), qt.IsNil)
	c.Assert(roomStatus(c, svc, 102), qt.Equals, models.RoomAvailable)
	c.Assert(svc.RemoveCustomer(1), qt.ErrorIs, models.ErrNotFound)

	_, err := svc.GetCustomer(1)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)
}

func TestDocuments(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "staff")

	doc, err := svc.AttachDocument(1, models.DocumentInput{Type: "visa", File: "visa.pdf"})
	c.Assert(err, qt.IsNil)

	_, err = svc.AttachDocument(1, models.DocumentInput{Type: "visa"})
	c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
	_, err = svc.AttachDocument(9, models.DocumentInput{File: "x.pdf"})
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)

	got, err := svc.SetIDDocument(1, "id-front.jpg")
	c.Assert(err, qt.IsNil)
	c.Assert(got.IDDocument, qt.Equals, "id-front.jpg")
	c.Assert(got.Documents, qt.HasLen, 1)

	c.Assert(svc.RemoveDocument(1, doc.ID), qt.IsNil)
	c.Assert(svc.RemoveDocument(1, doc.ID), qt.ErrorIs, models.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestAddUser(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	u, err := svc.AddUser(models.UserInput{
		Username: "mona", Password: "secret", Role: models.RoleManager, Name: "Mona",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(u.ID, qt.Equals, int64(3))
	c.Assert(u.Status, qt.Equals, models.UserActive)
	c.Assert(u.Permissions, qt.HasLen, 7)
	c.Assert(u.CreatedAt.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)), qt.IsTrue)

	boss, err := svc.AddUser(models.UserInput{
		Username: "boss", Password: "x", Role: models.RoleAdmin, Name: "Boss",
		Permissions: []string{models.PermViewReports},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(boss.Permissions, qt.DeepEquals, []string{models.PermAll})

	cases := []struct {
		name string
		in   models.UserInput
		want error
	}{
		{"duplicate username", models.UserInput{Username: "mona", Password: "p", Role: models.RoleManager, Name: "M"}, models.ErrDuplicate},
		{"missing password", models.UserInput{Username: "zed", Role: models.RoleManager, Name: "Z"}, models.ErrInvalidInput},
		{"unknown role", models.UserInput{Username: "zed", Password: "p", Role: "owner", Name: "Z"}, models.ErrInvalidInput},
		{"unknown permission", models.UserInput{Username: "zed", Password: "p", Role: models.RoleReceptionist, Name: "Z", Permissions: []string{"fly"}}, models.ErrInvalidInput},
	}
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := svc.AddUser(tc.in)
			c.Assert(err, qt.ErrorIs, tc.want)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	c.Run("empty password keeps the current one", func(c *qt.C) {
		_, err := svc.UpdateUser(2, models.UserPatch{Name: ptr("Desk clerk")})
		c.Assert(err, qt.IsNil)
		u, err := svc.Login("staff", "staff")
		c.Assert(err, qt.IsNil)
		c.Assert(u.Name, qt.Equals, "Desk clerk")
		_, err = svc.Login("admin", "admin")
		c.Assert(err, qt.IsNil)
	})

	c.Run("role change resets permissions", func(c *qt.C) {
		u, err := svc.UpdateUser(2, models.UserPatch{Role: ptr(models.RoleManager), Password: "n3w"})
		c.Assert(err, qt.IsNil)
		c.Assert(u.Permissions, qt.Contains, models.PermManageRooms)
		_, err = svc.Login("staff", "n3w")
		c.Assert(err, qt.IsNil)
		_, err = svc.Login("admin", "admin")
		c.Assert(err, qt.IsNil)
	})

	c.Run("username taken", func(c *qt.C) {
		_, err := svc.UpdateUser(2, models.UserPatch{Username: ptr("admin")})
		c.Assert(err, qt.ErrorIs, models.ErrDuplicate)
	})

	c.Run("cannot deactivate yourself", func(c *qt.C) {
		_, err := svc.UpdateUser(1, models.UserPatch{Status: ptr(models.UserInactive)})
		c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
		_, err = svc.ToggleUserStatus(1)
		c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
	})
}

func TestRemoveUser(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	c.Assert(svc.RemoveUser(1), qt.ErrorIs, models.ErrSelfRemoval)
	c.Assert(svc.RemoveUser(2), qt.IsNil)
	c.Assert(svc.RemoveUser(2), qt.ErrorIs, models.ErrNotFound)

	users, err := svc.ListUsers()
	c.Assert(err, qt.IsNil)
	c.Assert(users, qt.HasLen, 1)
}

func TestCatalogs(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "")
	c.Assert(svc.Roles(), qt.HasLen, 3)
	c.Assert(svc.Permissions(), qt.HasLen, 9)
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

func TestDashboard(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "staff")

	d, err := svc.Dashboard()
	c.Assert(err, qt.IsNil)
	c.Assert(d.TotalRooms, qt.Equals, 2)
	c.Assert(d.OccupiedRooms, qt.Equals, 1)
	c.Assert(d.AvailableRooms, qt.Equals, 1)
	c.Assert(d.TodayRevenue, qt.Equals, int64(650))
	c.Assert(d.Guests, qt.HasLen, 1)
	c.Assert(d.Guests[0].Total, qt.Equals, int64(650))
}

func TestActivity(t *testing.T) {
	c := qt.New(t)
	svc, clk := newTestService(t, "admin")

	a, err := svc.Activity(report.Daily)
	c.Assert(err, qt.IsNil)
	c.Assert(a.Windows, qt.HasLen, 7)
	c.Assert(a.Current().Label, qt.Equals, "2024/03/10")
	c.Assert(a.Current().TotalRevenue, qt.Equals, int64(650))

	clk.Advance(24 * time.Hour)
	a, err = svc.Activity(report.Daily)
	c.Assert(err, qt.IsNil)
	c.Assert(a.Current().TotalRevenue, qt.Equals, int64(0))
	c.Assert(a.Windows[5].TotalRevenue, qt.Equals, int64(650))

	_, err = svc.Activity(report.Period("hourly"))
	c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
}

func TestCustomerReport(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(t, "admin")

	r, err := svc.CustomerReport(report.Detailed, "")
	c.Assert(err, qt.IsNil)
	c.Assert(r.Rows, qt.HasLen, 1)
	c.Assert(r.Rows[0].Room, qt.Equals, "double - 102")
	c.Assert(r.GrandTotal, qt.Equals, int64(650))

	r, err = svc.CustomerReport(report.Basic, models.CustomerCheckedOut)
	c.Assert(err, qt.IsNil)
	c.Assert(r.Rows, qt.HasLen, 0)
}
