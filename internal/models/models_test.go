package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/frontdesk/internal/models"
)

func TestCustomer_Total(t *testing.T) {
	c := qt.New(t)

	cust := &models.Customer{
		RoomPrice: 500,
		Services:  []models.ServiceCharge{{ServiceID: 1, Price: 100}, {ServiceID: 2, Price: 50}},
		Status:    models.CustomerActive,
	}
	c.Assert(cust.ServicesTotal(), qt.Equals, int64(150))
	c.Assert(cust.Total(), qt.Equals, int64(650))
	c.Assert(cust.IsActive(), qt.IsTrue)

	empty := &models.Customer{Status: models.CustomerCheckedOut}
	c.Assert(empty.Total(), qt.Equals, int64(0))
	c.Assert(empty.IsActive(), qt.IsFalse)
}

func TestUser_Can(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		user *models.User
		perm string
		want bool
	}{
		{"nil user", nil, models.PermViewCustomers, false},
		{"admin role passes everything", &models.User{Role: models.RoleAdmin}, models.PermManageUsers, true},
		{"all permission", &models.User{Role: models.RoleManager, Permissions: []string{models.PermAll}}, models.PermManageUsers, true},
		{"granted", &models.User{Role: models.RoleReceptionist, Permissions: []string{models.PermAddCustomer}}, models.PermAddCustomer, true},
		{"not granted", &models.User{Role: models.RoleReceptionist, Permissions: []string{models.PermAddCustomer}}, models.PermViewReports, false},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(tt.user.Can(tt.perm), qt.Equals, tt.want)
		})
	}
}

func TestUser_Ref(t *testing.T) {
	c := qt.New(t)

	var nilUser *models.User
	c.Assert(nilUser.Ref(), qt.IsNil)

	u := &models.User{ID: 3, Username: "maria", Name: "Maria", PasswordHash: "secret"}
	c.Assert(u.Ref(), qt.DeepEquals, &models.StaffRef{ID: 3, Name: "Maria", Username: "maria"})
}

func TestCatalogs(t *testing.T) {
	c := qt.New(t)

	c.Assert(models.Permissions, qt.HasLen, 9)
	for _, p := range models.Permissions {
		c.Assert(models.IsPermission(p.ID), qt.IsTrue)
	}
	c.Assert(models.IsPermission("fly"), qt.IsFalse)

	role, ok := models.RoleByID(models.RoleReceptionist)
	c.Assert(ok, qt.IsTrue)
	c.Assert(role.Permissions, qt.DeepEquals, []string{
		models.PermViewCustomers, models.PermAddCustomer, models.PermEditCustomer,
	})
	_, ok = models.RoleByID("owner")
	c.Assert(ok, qt.IsFalse)

	c.Assert(models.IsServiceType(models.ServiceBed), qt.IsTrue)
	c.Assert(models.IsServiceType("spa"), qt.IsFalse)

	c.Assert(models.RoomTypeDefaults["double"].Beds, qt.Equals, 2)
}

func TestParseTime_HappyPath(t *testing.T) {
	c := qt.New(t)
	loc := time.FixedZone("AST", 3*60*60)
	want := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)

	for _, in := range []string{
		"2024-03-10T12:00",
		"2024-03-10 12:00",
		" 2024-03-10T12:00:00 ",
		"2024-03-10T12:00:00+03:00",
	} {
		c.Run(in, func(c *qt.C) {
			got, err := models.ParseTime(in, loc)
			c.Assert(err, qt.IsNil)
			c.Assert(got.Equal(want), qt.IsTrue, qt.Commentf("got %s", got))
		})
	}

	day, err := models.ParseTime("2024-03-10", loc)
	c.Assert(err, qt.IsNil)
	c.Assert(day.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, loc)), qt.IsTrue)
}

func TestParseTime_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := models.ParseTime("next tuesday", time.UTC)
	c.Assert(err, qt.ErrorIs, models.ErrInvalidInput)
	c.Assert(err, qt.ErrorMatches, `invalid input: unrecognized time "next tuesday"`)
}
