package script_test

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-ports/frontdesk/internal/config"
	"github.com/go-ports/frontdesk/internal/script"
	"github.com/go-ports/frontdesk/internal/service"
)

const dayScript = `
start: "2024-03-12T09:00"
steps:
  - op: login
    args: {username: admin, password: admin}
    expect: {"$.username": admin}
  - op: checkin
    args:
      name: Sara Ali
      id_number: ID9
      phone: "0551112222"
      room_id: 101
      services: [2]
    expect:
      "$.id": 2
      "$.status": active
      "$.room_price": 300
      "$.services[0].price": 50
  - op: room_remove
    args: {id: 101}
    error: occupied
  - op: advance
    args: {by: 26h}
  - op: checkout
    args: {id: 2}
    expect:
      "$.status": checked_out
      "$.checked_out_by.username": admin
  - op: dashboard
    expect:
      "$.occupied_rooms": 1
      "$.today_revenue": 350
`

// run parses src and replays it on a fresh session built on the script clock.
func run(c *qt.C, src string) ([]script.Result, error) {
	c.Helper()
	s, err := script.Parse([]byte(src))
	c.Assert(err, qt.IsNil)

	cfg := config.Default()
	cfg.Hotel.Timezone = "UTC"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	clk, err := s.Clock(time.UTC)
	c.Assert(err, qt.IsNil)

	var opts []service.Option
	if clk != nil {
		opts = append(opts, service.WithClock(clk))
	}
	svc, err := service.New(cfg, opts...)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = svc.Close() })

	return script.NewRunner(svc, clk).Run(context.Background(), s)
}

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParse_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := script.Parse([]byte("steps:\n  - op: teleport\n"))
	c.Assert(err, qt.ErrorMatches, `step 1: unknown op "teleport"`)

	_, err = script.Parse([]byte("steps: {"))
	c.Assert(err, qt.IsNotNil)
}

func TestOps(t *testing.T) {
	c := qt.New(t)
	names := script.Ops()
	c.Assert(names, qt.Contains, "checkin")
	c.Assert(names, qt.Contains, "customer_report")
	c.Assert(names[0] < names[len(names)-1], qt.IsTrue)
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRun_HappyPath(t *testing.T) {
	c := qt.New(t)

	results, err := run(c, dayScript)
	c.Assert(err, qt.IsNil)
	c.Assert(results, qt.HasLen, 6)
	c.Assert(results[2].Error, qt.Contains, "occupied")
	c.Assert(results[5].Op, qt.Equals, "dashboard")
}

func TestRun_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("missed expectation names the step", func(c *qt.C) {
		results, err := run(c, `
steps:
  - op: login
    args: {username: staff, password: staff}
  - op: customer_get
    args: {id: 1}
    expect: {"$.room_price": 999}
`)
		c.Assert(err, qt.ErrorMatches, `step 2 \(customer_get\): expect \$\.room_price: got 500, want 999`)
		c.Assert(results, qt.HasLen, 2)
	})

	c.Run("service error stops the replay", func(c *qt.C) {
		results, err := run(c, `
steps:
  - op: login
    args: {username: staff, password: staff}
  - op: room_add
    args: {number: "201"}
  - op: dashboard
`)
		c.Assert(err, qt.ErrorMatches, `step 2 \(room_add\): permission denied.*`)
		c.Assert(results, qt.HasLen, 2)
	})

	c.Run("expected error that does not happen", func(c *qt.C) {
		_, err := run(c, `
steps:
  - op: login
    args: {username: admin, password: admin}
  - op: room_remove
    args: {id: 101}
    error: occupied
`)
		c.Assert(err, qt.ErrorMatches, `step 2 .*got success`)
	})

	c.Run("clock ops need a start time", func(c *qt.C) {
		_, err := run(c, `
steps:
  - op: advance
    args: {by: 1h}
`)
		c.Assert(err, qt.ErrorMatches, `step 1 \(advance\): clock ops need a script start time`)
	})

	c.Run("cancelled context", func(c *qt.C) {
		s, err := script.Parse([]byte(dayScript))
		c.Assert(err, qt.IsNil)
		svc, err := service.New(nil)
		c.Assert(err, qt.IsNil)
		defer svc.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results, err := script.NewRunner(svc, nil).Run(ctx, s)
		c.Assert(err, qt.ErrorIs, context.Canceled)
		c.Assert(results, qt.HasLen, 0)
	})
}
