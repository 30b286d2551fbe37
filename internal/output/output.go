// Package output renders command results as tables, JSON or YAML, with
// optional JSONPath extraction.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/yalp/jsonpath"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts s to a Format. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
}

// Table is data laid out for the table format.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right lists the column indexes holding amounts.
	Right []int
	// Footer is an optional totals line.
	Footer []string
}

// Printer renders results in one format.
type Printer struct {
	Format Format
	Query  string
	Money  *Money
}

// Print writes data to w. tbl is used for the table format; when it is nil
// the table format falls back to indented JSON. With a Query set, only the
// matching part of data is printed.
func (p *Printer) Print(w io.Writer, data any, tbl *Table) error {
	if p.Query != "" {
		v, err := ToJSONValue(data)
		if err != nil {
			return err
		}
		if data, err = Query(v, p.Query); err != nil {
			return err
		}
		if p.Format == FormatTable || p.Format == "" {
			return writeScalar(w, data)
		}
	}

	switch p.Format {
	case FormatJSON:
		return writeJSON(w, data)
	case FormatYAML:
		return writeYAML(w, data)
	default:
		if tbl == nil {
			return writeJSON(w, data)
		}
		return writeTable(w, tbl)
	}
}

// Message prints a one-line confirmation in table mode, or {"message": ...}
// in the structured formats so that output stays machine-readable.
func (p *Printer) Message(w io.Writer, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.Format == FormatTable || p.Format == "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}
	return p.Print(w, map[string]string{"message": msg}, nil)
}

// ---------------------------------------------------------------------------
// JSON values and queries
// ---------------------------------------------------------------------------

// ToJSONValue converts v to the generic shape encoding/json produces
// (maps, slices, float64, string, bool, nil).
func ToJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("output: encode: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("output: decode: %w", err)
	}
	return out, nil
}

// Query evaluates a JSONPath expression against a generic JSON value.
func Query(v any, path string) (any, error) {
	out, err := jsonpath.Read(v, path)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Writers
// ---------------------------------------------------------------------------

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeYAML goes through the JSON shape so that field names follow the json
// tags of the models.
func writeYAML(w io.Writer, data any) error {
	v, err := ToJSONValue(data)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeScalar(w io.Writer, v any) error {
	switch x := v.(type) {
	case string:
		_, err := fmt.Fprintln(w, x)
		return err
	case float64, bool, nil:
		_, err := fmt.Fprintln(w, x)
		return err
	default:
		return writeJSON(w, v)
	}
}

func writeTable(w io.Writer, data *Table) error {
	cfg := tablewriter.Config{}
	if len(data.Right) > 0 && len(data.Headers) > 0 {
		align := make([]tw.Align, len(data.Headers))
		for i := range align {
			align[i] = tw.AlignLeft
		}
		for _, i := range data.Right {
			if i >= 0 && i < len(align) {
				align[i] = tw.AlignRight
			}
		}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
		cfg.Footer.Alignment = tw.CellAlignment{PerColumn: align}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	if len(data.Headers) > 0 {
		table.Header(toAny(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	if len(data.Footer) > 0 {
		table.Footer(toAny(data.Footer)...)
	}
	return table.Render()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ---------------------------------------------------------------------------
// Money
// ---------------------------------------------------------------------------

// Money formats whole-unit amounts with thousands separators followed by
// the currency code.
type Money struct {
	Currency string
	p        *message.Printer
}

// NewMoney returns a Money formatter for currency.
func NewMoney(currency string) *Money {
	return &Money{Currency: currency, p: message.NewPrinter(language.English)}
}

// Format renders amount, e.g. "1,250 SAR".
func (m *Money) Format(amount int64) string {
	if m == nil {
		return fmt.Sprint(amount)
	}
	if m.Currency == "" {
		return m.p.Sprintf("%d", amount)
	}
	return m.p.Sprintf("%d %s", amount, m.Currency)
}
