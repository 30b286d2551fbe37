package output_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
	"github.com/go-ports/frontdesk/internal/report"
)

var rooms = []models.Room{
	{ID: 101, Number: "101", Type: "single", Beds: 1, Price: 300, Status: models.RoomAvailable},
	{ID: 102, Number: "102", Type: "double", Beds: 2, Price: 1500, Status: models.RoomOccupied},
}

// ---------------------------------------------------------------------------
// ParseFormat
// ---------------------------------------------------------------------------

func TestParseFormat_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		in   string
		want output.Format
	}{
		{"", output.FormatTable},
		{"table", output.FormatTable},
		{"JSON", output.FormatJSON},
		{" yaml ", output.FormatYAML},
	}
	for _, tc := range cases {
		c.Run(tc.in, func(c *qt.C) {
			got, err := output.ParseFormat(tc.in)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tc.want)
		})
	}
}

func TestParseFormat_FailurePath(t *testing.T) {
	c := qt.New(t)
	_, err := output.ParseFormat("xml")
	c.Assert(err, qt.ErrorMatches, `invalid format "xml".*`)
}

// ---------------------------------------------------------------------------
// Print
// ---------------------------------------------------------------------------

func TestPrint_HappyPath(t *testing.T) {
	c := qt.New(t)
	money := output.NewMoney("SAR")

	c.Run("table", func(c *qt.C) {
		var buf bytes.Buffer
		p := &output.Printer{Format: output.FormatTable, Money: money}
		c.Assert(p.Print(&buf, rooms, output.RoomsTable(rooms, money)), qt.IsNil)
		out := buf.String()
		c.Assert(strings.ToUpper(out), qt.Contains, "NUMBER")
		c.Assert(out, qt.Contains, "1,500 SAR")
		c.Assert(out, qt.Contains, "occupied")
	})

	c.Run("json", func(c *qt.C) {
		var buf bytes.Buffer
		p := &output.Printer{Format: output.FormatJSON}
		c.Assert(p.Print(&buf, rooms, nil), qt.IsNil)
		c.Assert(buf.String(), qt.Contains, `"number": "102"`)
	})

	c.Run("yaml uses json field names", func(c *qt.C) {
		var buf bytes.Buffer
		p := &output.Printer{Format: output.FormatYAML}
		c.Assert(p.Print(&buf, models.Customer{IDNumber: "X1"}, nil), qt.IsNil)
		c.Assert(buf.String(), qt.Contains, "id_number: X1")
	})

	c.Run("query in table mode prints the bare value", func(c *qt.C) {
		var buf bytes.Buffer
		p := &output.Printer{Format: output.FormatTable, Query: "$[1].price"}
		c.Assert(p.Print(&buf, rooms, output.RoomsTable(rooms, money)), qt.IsNil)
		c.Assert(buf.String(), qt.Equals, "1500\n")
	})

	c.Run("query in json mode", func(c *qt.C) {
		var buf bytes.Buffer
		p := &output.Printer{Format: output.FormatJSON, Query: "$[0].status"}
		c.Assert(p.Print(&buf, rooms, nil), qt.IsNil)
		c.Assert(buf.String(), qt.Equals, "\"available\"\n")
	})

	c.Run("message", func(c *qt.C) {
		var buf bytes.Buffer
		p := &output.Printer{Format: output.FormatTable}
		c.Assert(p.Message(&buf, "room %d removed", 101), qt.IsNil)
		c.Assert(buf.String(), qt.Equals, "room 101 removed\n")

		buf.Reset()
		p.Format = output.FormatJSON
		c.Assert(p.Message(&buf, "ok"), qt.IsNil)
		c.Assert(buf.String(), qt.Contains, `"message": "ok"`)
	})
}

func TestPrint_FailurePath(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	p := &output.Printer{Format: output.FormatJSON, Query: "$[0].nosuch"}
	c.Assert(p.Print(&buf, rooms, nil), qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Money
// ---------------------------------------------------------------------------

func TestMoney_Format(t *testing.T) {
	c := qt.New(t)

	c.Assert(output.NewMoney("SAR").Format(1250000), qt.Equals, "1,250,000 SAR")
	c.Assert(output.NewMoney("").Format(999), qt.Equals, "999")
	var nilMoney *output.Money
	c.Assert(nilMoney.Format(42), qt.Equals, "42")
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

func TestCustomerReportTable(t *testing.T) {
	c := qt.New(t)
	room := int64(102)
	customers := []models.Customer{{
		Name: "Ahmed", IDNumber: "ID1", Phone: "050",
		CheckIn: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		RoomID:  &room, RoomType: "double", RoomPrice: 500,
		Services: []models.ServiceCharge{{ServiceID: 1, Price: 100}},
	}}
	now := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	basic, err := report.BuildCustomerReport(customers, report.Basic, now)
	c.Assert(err, qt.IsNil)
	tbl := output.CustomerReportTable(basic, output.NewMoney("SAR"))
	c.Assert(tbl.Headers, qt.HasLen, 5)
	c.Assert(tbl.Rows[0][4], qt.Equals, "102")
	c.Assert(tbl.Footer, qt.IsNil)

	detailed, err := report.BuildCustomerReport(customers, report.Detailed, now)
	c.Assert(err, qt.IsNil)
	tbl = output.CustomerReportTable(detailed, output.NewMoney("SAR"))
	c.Assert(tbl.Headers, qt.HasLen, 8)
	c.Assert(tbl.Rows[0], qt.DeepEquals, []string{
		"Ahmed", "ID1", "050", "2024/03/10 12:00", "double - 102", "500 SAR", "100 SAR", "600 SAR",
	})
	c.Assert(tbl.Footer[7], qt.Equals, "600 SAR")
}

func TestCustomerTable(t *testing.T) {
	c := qt.New(t)
	cust := &models.Customer{
		ID: 1, Name: "Ahmed", Status: models.CustomerActive,
		CheckIn:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		RoomPrice: 500,
		CreatedBy: &models.StaffRef{Username: "admin"},
	}
	tbl := output.CustomerTable(cust, output.NewMoney(""))
	c.Assert(property(tbl, "Room"), qt.Equals, "-")
	c.Assert(property(tbl, "Total"), qt.Equals, "500")
	c.Assert(property(tbl, "Checked in by"), qt.Equals, "admin")
	c.Assert(property(tbl, "Check-out"), qt.Equals, "")
}

// property returns the value of a property/value table row, or "".
func property(t *output.Table, key string) string {
	for _, row := range t.Rows {
		if row[0] == key {
			return row[1]
		}
	}
	return ""
}
