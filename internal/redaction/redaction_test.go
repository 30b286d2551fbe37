package redaction_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/frontdesk/internal/redaction"
)

func TestRedact_PlainText(t *testing.T) {
	c := qt.New(t)
	got := redaction.Redact("late arrival, needs a quiet room")
	c.Assert(got, qt.Equals, "late arrival, needs a quiet room")
}

func TestRedact_ExplicitTags_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single tag pair replaced",
			input: "before <redacted>sensitive</redacted> after",
			want:  "before [REDACTED] after",
		},
		{
			name:  "multiple tag pairs replaced",
			input: "<redacted>a</redacted> and <redacted>b</redacted>",
			want:  "[REDACTED] and [REDACTED]",
		},
		{
			name:  "multiline content replaced",
			input: "start <redacted>line1\nline2</redacted> end",
			want:  "start [REDACTED] end",
		},
		{
			name:  "orphaned opening tag stripped",
			input: "before <redacted> after",
			want:  "before  after",
		},
		{
			name:  "orphaned closing tag stripped",
			input: "before </redacted> after",
			want:  "before  after",
		},
		{
			name:  "nested pairs redact the outer span",
			input: "x <redacted>a<redacted>b</redacted>c</redacted> y",
			want:  "x [REDACTED] y",
		},
		{
			name:  "unclosed outer tag keeps inner pair",
			input: "<redacted>a<redacted>b</redacted>c",
			want:  "a[REDACTED]c",
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(redaction.Redact(tt.input), qt.Equals, tt.want)
		})
	}
}

func TestRedact_Patterns_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "card number",
			input: "paid with 4111111111111111 at desk",
			want:  "paid with [REDACTED] at desk",
		},
		{
			name:  "grouped card number",
			input: "card 4111 1111 1111 1111",
			want:  "card [REDACTED]",
		},
		{
			name:  "cvv",
			input: "cvv: 123",
			want:  "[REDACTED]",
		},
		{
			name:  "password",
			input: "wifi password=hunter2 given",
			want:  "wifi [REDACTED] given",
		},
		{
			name:  "pin",
			input: "safe PIN: 4821",
			want:  "safe [REDACTED]",
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(redaction.Redact(tt.input), qt.Equals, tt.want)
		})
	}
}

func TestRedact_KeepsNonCardNumbers(t *testing.T) {
	c := qt.New(t)

	// Phone numbers are too short and this 16-digit booking reference fails Luhn.
	in := "call 0551112222, booking 1234567812345678"
	c.Assert(redaction.Redact(in), qt.Equals, in)
}
