package output

import (
	"strconv"
	"strings"

	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/report"
)

// dateTimeLayout matches the customer report.
const dateTimeLayout = report.DateTimeLayout

// RoomsTable lays out the room inventory.
func RoomsTable(rooms []models.Room, m *Money) *Table {
	t := &Table{Headers: []string{"ID", "Number", "Type", "Beds", "Price", "Status"}, Right: []int{4}}
	for _, r := range rooms {
		t.Rows = append(t.Rows, []string{
			id(r.ID), r.Number, r.Type, strconv.Itoa(r.Beds), m.Format(r.Price), string(r.Status),
		})
	}
	return t
}

// ServicesTable lays out the service catalog.
func ServicesTable(services []models.Service, m *Money) *Table {
	t := &Table{Headers: []string{"ID", "Name", "Type", "Price", "Description"}, Right: []int{3}}
	for _, s := range services {
		t.Rows = append(t.Rows, []string{id(s.ID), s.Name, string(s.Type), m.Format(s.Price), s.Description})
	}
	return t
}

// BookingsTable lays out room bookings.
func BookingsTable(bookings []models.ServiceBooking) *Table {
	t := &Table{Headers: []string{"Service", "Room", "Booked at"}}
	for _, b := range bookings {
		t.Rows = append(t.Rows, []string{id(b.ServiceID), id(b.RoomID), b.BookedAt.Format(dateTimeLayout)})
	}
	return t
}

// CustomersTable lays out stays, one per line.
func CustomersTable(customers []models.Customer, m *Money) *Table {
	t := &Table{
		Headers: []string{"ID", "Name", "Phone", "Room", "Check-in", "Status", "Total"},
		Right:   []int{6},
	}
	for i := range customers {
		c := &customers[i]
		t.Rows = append(t.Rows, []string{
			id(c.ID), c.Name, c.Phone, roomLabel(c.RoomID), c.CheckIn.Format(dateTimeLayout),
			string(c.Status), m.Format(c.Total()),
		})
	}
	return t
}

// CustomerTable shows one stay as property/value pairs.
func CustomerTable(c *models.Customer, m *Money) *Table {
	t := &Table{Headers: []string{"Property", "Value"}}
	add := func(k, v string) { t.Rows = append(t.Rows, []string{k, v}) }

	add("ID", id(c.ID))
	add("Name", c.Name)
	add("ID number", c.IDNumber)
	add("Phone", c.Phone)
	add("Status", string(c.Status))
	add("Check-in", c.CheckIn.Format(dateTimeLayout))
	if c.CheckOut != nil {
		add("Check-out", c.CheckOut.Format(dateTimeLayout))
	}
	add("Room", roomLabel(c.RoomID))
	if c.RoomType != "" {
		add("Room type", c.RoomType)
	}
	add("Room price", m.Format(c.RoomPrice))
	for _, ch := range c.Services {
		add("Service "+id(ch.ServiceID), m.Format(ch.Price))
	}
	add("Services total", m.Format(c.ServicesTotal()))
	add("Total", m.Format(c.Total()))
	if c.IDDocument != "" {
		add("ID document", c.IDDocument)
	}
	for _, d := range c.Documents {
		add("Document "+d.ID, d.Type+": "+d.File)
	}
	if c.Notes != "" {
		add("Notes", c.Notes)
	}
	if c.CreatedBy != nil {
		add("Checked in by", c.CreatedBy.Username)
	}
	if c.CheckedOutBy != nil {
		add("Checked out by", c.CheckedOutBy.Username)
	}
	return t
}

// UsersTable lays out staff accounts.
func UsersTable(users []models.User) *Table {
	t := &Table{Headers: []string{"ID", "Username", "Name", "Role", "Status", "Permissions"}}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			id(u.ID), u.Username, u.Name, u.Role, string(u.Status), strings.Join(u.Permissions, ","),
		})
	}
	return t
}

// DashboardTable lists in-house guests with the room and revenue summary in
// the footer.
func DashboardTable(d *report.Dashboard, m *Money) *Table {
	t := &Table{
		Headers: []string{"Guest", "Name", "Room", "Room price", "Services", "Total"},
		Right:   []int{3, 4, 5},
	}
	for _, g := range d.Guests {
		t.Rows = append(t.Rows, []string{
			id(g.CustomerID), g.Name, roomLabel(g.RoomID),
			m.Format(g.RoomPrice), m.Format(g.ServicesTotal), m.Format(g.Total),
		})
	}
	t.Footer = []string{
		"Rooms " + strconv.Itoa(d.TotalRooms),
		"Occupied " + strconv.Itoa(d.OccupiedRooms),
		"Available " + strconv.Itoa(d.AvailableRooms),
		"", "Today", m.Format(d.TodayRevenue),
	}
	return t
}

// ActivityTable lays out revenue windows, oldest first.
func ActivityTable(a *report.Activity, m *Money) *Table {
	t := &Table{
		Headers: []string{"Period", "Guests", "Rooms", "Services", "Total"},
		Right:   []int{1, 2, 3, 4},
	}
	for _, w := range a.Windows {
		t.Rows = append(t.Rows, []string{
			w.Label, strconv.Itoa(w.GuestCount),
			m.Format(w.RoomRevenue), m.Format(w.ServicesRevenue), m.Format(w.TotalRevenue),
		})
	}
	return t
}

// CustomerReportTable lays out the customer report with the columns of its
// kind. Detailed reports carry a grand total footer.
func CustomerReportTable(r *report.CustomerReport, m *Money) *Table {
	t := &Table{Headers: r.Columns()}
	detailed := r.Kind == report.Detailed
	if detailed {
		t.Right = []int{5, 6, 7}
	}
	for _, row := range r.Rows {
		cells := []string{row.Name, row.IDNumber, row.Phone, row.CheckIn, row.Room}
		if detailed {
			cells = append(cells, m.Format(row.RoomPrice), m.Format(row.ServicesTotal), m.Format(row.Total))
		}
		t.Rows = append(t.Rows, cells)
	}
	if detailed {
		t.Footer = []string{"Guests " + strconv.Itoa(r.GuestsCount), "", "", "", "", "", "Total", m.Format(r.GrandTotal)}
	}
	return t
}

// RolesTable lays out the role catalog.
func RolesTable(roles []models.Role) *Table {
	t := &Table{Headers: []string{"ID", "Name", "Permissions"}}
	for _, r := range roles {
		t.Rows = append(t.Rows, []string{r.ID, r.Name, strings.Join(r.Permissions, ",")})
	}
	return t
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func roomLabel(roomID *int64) string {
	if roomID == nil {
		return "-"
	}
	return id(*roomID)
}
