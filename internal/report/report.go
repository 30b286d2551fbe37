// Package report derives dashboard figures, revenue activity windows and
// customer report rows from session snapshots. All functions are pure: the
// caller passes "now" in the hotel's location.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/go-ports/frontdesk/internal/models"
)

// LabelLayout formats window labels and report dates.
const LabelLayout = "2006/01/02"

// DateTimeLayout formats check-in/check-out instants in report rows.
const DateTimeLayout = "2006/01/02 15:04"

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// GuestRow is one in-house guest on the dashboard.
type GuestRow struct {
	CustomerID    int64  `json:"customer_id" yaml:"customer_id"`
	Name          string `json:"name" yaml:"name"`
	RoomID        *int64 `json:"room_id,omitempty" yaml:"room_id,omitempty"`
	RoomPrice     int64  `json:"room_price" yaml:"room_price"`
	ServicesTotal int64  `json:"services_total" yaml:"services_total"`
	Total         int64  `json:"total" yaml:"total"`
}

// Dashboard summarizes the property right now.
type Dashboard struct {
	TotalRooms     int        `json:"total_rooms" yaml:"total_rooms"`
	OccupiedRooms  int        `json:"occupied_rooms" yaml:"occupied_rooms"`
	AvailableRooms int        `json:"available_rooms" yaml:"available_rooms"`
	TodayRevenue   int64      `json:"today_revenue" yaml:"today_revenue"`
	Guests         []GuestRow `json:"guests" yaml:"guests"`
}

// BuildDashboard counts rooms by status, sums today's revenue and lists
// active guests. A stay counts toward today's revenue when it checked in or
// checked out during the calendar day of now.
func BuildDashboard(rooms []models.Room, customers []models.Customer, now time.Time) *Dashboard {
	d := &Dashboard{TotalRooms: len(rooms), Guests: make([]GuestRow, 0)}
	for _, r := range rooms {
		switch r.Status {
		case models.RoomOccupied:
			d.OccupiedRooms++
		case models.RoomAvailable:
			d.AvailableRooms++
		}
	}

	start := startOfDay(now)
	end := start.AddDate(0, 0, 1)
	for i := range customers {
		c := &customers[i]
		if within(c.CheckIn, start, end) || (c.CheckOut != nil && within(*c.CheckOut, start, end)) {
			d.TodayRevenue += c.Total()
		}
		if c.IsActive() {
			d.Guests = append(d.Guests, GuestRow{
				CustomerID:    c.ID,
				Name:          c.Name,
				RoomID:        c.RoomID,
				RoomPrice:     c.RoomPrice,
				ServicesTotal: c.ServicesTotal(),
				Total:         c.Total(),
			})
		}
	}
	return d
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

// Period selects the activity window size.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Daily, Weekly, Monthly:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown period %q (daily, weekly, monthly)", models.ErrInvalidInput, s)
}

// Window is the revenue of stays that checked in during [Start, End).
type Window struct {
	Label           string    `json:"period" yaml:"period"`
	Start           time.Time `json:"start" yaml:"start"`
	End             time.Time `json:"end" yaml:"end"`
	RoomRevenue     int64     `json:"room_revenue" yaml:"room_revenue"`
	ServicesRevenue int64     `json:"services_revenue" yaml:"services_revenue"`
	TotalRevenue    int64     `json:"total_revenue" yaml:"total_revenue"`
	GuestCount      int       `json:"guest_count" yaml:"guest_count"`
}

// Activity is a series of windows ordered oldest to newest.
type Activity struct {
	Period  Period   `json:"period" yaml:"period"`
	Windows []Window `json:"windows" yaml:"windows"`
}

// Current returns the newest window, which contains now.
func (a *Activity) Current() Window {
	if len(a.Windows) == 0 {
		return Window{}
	}
	return a.Windows[len(a.Windows)-1]
}

// BuildActivity buckets stays by check-in time: the last 7 days, the last 4
// Sunday-based weeks or the last 6 calendar months, each ending with the
// window that contains now.
func BuildActivity(customers []models.Customer, period Period, now time.Time) (*Activity, error) {
	var windows []Window
	switch period {
	case Daily:
		for i := range 7 {
			start := startOfDay(now).AddDate(0, 0, -i)
			windows = append(windows, Window{Start: start, End: start.AddDate(0, 0, 1)})
		}
	case Weekly:
		for i := range 4 {
			start := startOfWeek(now.AddDate(0, 0, -7*i))
			windows = append(windows, Window{Start: start, End: start.AddDate(0, 0, 7)})
		}
	case Monthly:
		for i := range 6 {
			start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
			windows = append(windows, Window{Start: start, End: start.AddDate(0, 1, 0)})
		}
	default:
		return nil, fmt.Errorf("%w: unknown period %q", models.ErrInvalidInput, period)
	}

	for i := range windows {
		w := &windows[i]
		w.Label = w.Start.Format(LabelLayout)
		for j := range customers {
			c := &customers[j]
			if !within(c.CheckIn, w.Start, w.End) {
				continue
			}
			w.RoomRevenue += c.RoomPrice
			w.ServicesRevenue += c.ServicesTotal()
			w.GuestCount++
		}
		w.TotalRevenue = w.RoomRevenue + w.ServicesRevenue
	}
	slices.Reverse(windows)
	return &Activity{Period: period, Windows: windows}, nil
}

// ---------------------------------------------------------------------------
// Customer report
// ---------------------------------------------------------------------------

// Kind selects the customer report columns.
type Kind string

const (
	Basic    Kind = "basic"
	Detailed Kind = "detailed"
)

// ParseKind validates a report kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Basic, Detailed:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown report kind %q (basic, detailed)", models.ErrInvalidInput, s)
}

// CustomerRow is one guest line of the customer report. Money columns are
// only filled for detailed reports.
type CustomerRow struct {
	Name          string `json:"name" yaml:"name"`
	IDNumber      string `json:"id_number" yaml:"id_number"`
	Phone         string `json:"phone" yaml:"phone"`
	CheckIn       string `json:"check_in" yaml:"check_in"`
	Room          string `json:"room" yaml:"room"`
	RoomPrice     int64  `json:"room_price,omitempty" yaml:"room_price,omitempty"`
	ServicesTotal int64  `json:"services_total,omitempty" yaml:"services_total,omitempty"`
	Total         int64  `json:"total,omitempty" yaml:"total,omitempty"`
}

// CustomerReport is the tabular guest report.
type CustomerReport struct {
	Kind        Kind          `json:"kind" yaml:"kind"`
	Date        string        `json:"date" yaml:"date"`
	Rows        []CustomerRow `json:"rows" yaml:"rows"`
	GrandTotal  int64         `json:"grand_total,omitempty" yaml:"grand_total,omitempty"`
	GuestsCount int           `json:"guests" yaml:"guests"`
}

// Columns returns the column headings for the report kind.
func (r *CustomerReport) Columns() []string {
	if r.Kind == Basic {
		return []string{"Name", "ID number", "Phone", "Check-in", "Room"}
	}
	return []string{"Name", "ID number", "Phone", "Check-in", "Room", "Room price", "Services", "Total"}
}

// BuildCustomerReport lays out customers as report rows. Check-in times are
// shown in now's location.
func BuildCustomerReport(customers []models.Customer, kind Kind, now time.Time) (*CustomerReport, error) {
	if kind != Basic && kind != Detailed {
		return nil, fmt.Errorf("%w: unknown report kind %q", models.ErrInvalidInput, kind)
	}
	rep := &CustomerReport{
		Kind:        kind,
		Date:        now.Format(LabelLayout),
		Rows:        make([]CustomerRow, 0, len(customers)),
		GuestsCount: len(customers),
	}
	for i := range customers {
		c := &customers[i]
		row := CustomerRow{
			Name:     c.Name,
			IDNumber: c.IDNumber,
			Phone:    c.Phone,
			CheckIn:  c.CheckIn.In(now.Location()).Format(DateTimeLayout),
			Room:     "-",
		}
		if kind == Basic {
			if c.RoomID != nil {
				row.Room = strconv.FormatInt(*c.RoomID, 10)
			}
		} else {
			if c.RoomID != nil {
				row.Room = fmt.Sprintf("%s - %d", c.RoomType, *c.RoomID)
			}
			row.RoomPrice = c.RoomPrice
			row.ServicesTotal = c.ServicesTotal()
			row.Total = c.Total()
			rep.GrandTotal += row.Total
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the Sunday on or before t.
func startOfWeek(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// within reports whether t lies in [start, end).
func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
