package service

// White-box tests for the unexported helpers that settle permissions, compare
// room assignments and classify errors. They are reached from the public API
// only through full sessions, which makes their edge cases awkward to isolate.

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/frontdesk/internal/models"
)

// ---------------------------------------------------------------------------
// normalizeUser
// ---------------------------------------------------------------------------

func TestNormalizeUser_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name     string
		user     models.User
		creating bool
		want     []string
	}{
		{
			name:     "new receptionist gets the role bundle",
			user:     models.User{Username: "a", Name: "A", Role: models.RoleReceptionist, Status: models.UserActive},
			creating: true,
			want:     []string{models.PermViewCustomers, models.PermAddCustomer, models.PermEditCustomer},
		},
		{
			name: "admin always holds all",
			user: models.User{
				Username: "a", Name: "A", Role: models.RoleAdmin, Status: models.UserActive,
				Permissions: []string{models.PermViewReports},
			},
			want: []string{models.PermAll},
		},
		{
			name: "explicit permissions are kept",
			user: models.User{
				Username: "a", Name: "A", Role: models.RoleManager, Status: models.UserInactive,
				Permissions: []string{models.PermViewReports},
			},
			want: []string{models.PermViewReports},
		},
		{
			name: "explicitly emptied permissions stay empty on edit",
			user: models.User{
				Username: "a", Name: "A", Role: models.RoleManager, Status: models.UserActive,
				Permissions: []string{},
			},
			want: []string{},
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			u := tc.user
			c.Assert(normalizeUser("op", &u, tc.creating), qt.IsNil)
			c.Assert(u.Permissions, qt.DeepEquals, tc.want)
		})
	}
}

func TestNormalizeUser_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		user models.User
	}{
		{"missing username", models.User{Name: "A", Role: models.RoleAdmin, Status: models.UserActive}},
		{"missing name", models.User{Username: "a", Role: models.RoleAdmin, Status: models.UserActive}},
		{"unknown role", models.User{Username: "a", Name: "A", Role: "owner", Status: models.UserActive}},
		{"unknown status", models.User{Username: "a", Name: "A", Role: models.RoleAdmin, Status: "away"}},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			u := tc.user
			c.Assert(normalizeUser("op", &u, true), qt.ErrorIs, models.ErrInvalidInput)
		})
	}
}

// ---------------------------------------------------------------------------
// sameRoom
// ---------------------------------------------------------------------------

func TestRoomAttr(t *testing.T) {
	c := qt.New(t)
	room := int64(101)

	c.Assert(roomAttr(&room).Value.Int64(), qt.Equals, int64(101))
	c.Assert(roomAttr(nil).Value.String(), qt.Equals, "-")

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("checked in", "customer", 2, roomAttr(&room))
	c.Assert(buf.String(), qt.Contains, "customer=2 room=101")
	c.Assert(buf.String(), qt.Not(qt.Contains), "0x")
}

func TestSameRoom(t *testing.T) {
	c := qt.New(t)
	a, b, other := int64(101), int64(101), int64(102)

	c.Assert(sameRoom(nil, nil), qt.IsTrue)
	c.Assert(sameRoom(&a, &b), qt.IsTrue)
	c.Assert(sameRoom(&a, &other), qt.IsFalse)
	c.Assert(sameRoom(&a, nil), qt.IsFalse)
	c.Assert(sameRoom(nil, &a), qt.IsFalse)
}

// ---------------------------------------------------------------------------
// wrap
// ---------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	c := qt.New(t)

	c.Assert(wrap("Op", nil), qt.IsNil)

	sentinel := notFound("GetRoom", "room", 7)
	c.Assert(wrap("Op", sentinel), qt.Equals, sentinel)

	plain := errors.New("disk on fire")
	got := wrap("Op", plain)
	c.Assert(got, qt.ErrorIs, plain)
	c.Assert(got, qt.ErrorMatches, "Op: disk on fire")
}
