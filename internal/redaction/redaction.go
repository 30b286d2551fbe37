// Package redaction scrubs payment and credential data from free-text guest
// notes before they are stored.
package redaction

import (
	"regexp"
	"strings"
)

// cardRe matches 13 to 19 digits, optionally grouped by spaces or dashes.
// Matches are only redacted when they pass the Luhn check, so phone and
// booking numbers survive.
var cardRe = regexp.MustCompile(`\b\d(?:[ -]?\d){12,18}\b`)

// sensitivePatterns are applied after card numbers.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:cvv|cvc|cvv2)\s*[:=]?\s*\d{3,4}\b`),
	regexp.MustCompile(`(?i)\bpin\s*[:=]\s*\d{4,8}\b`),
	regexp.MustCompile(`(?i)\bpassword\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)\biban\s*[:=]?\s*[A-Z]{2}\d{2}[A-Z0-9 ]{10,30}`),
}

const (
	openTag     = "<redacted>"
	closeTag    = "</redacted>"
	replacement = "[REDACTED]"
)

// Redact applies a three-layer pipeline to text:
//
//  1. Explicit <redacted>…</redacted> spans, replaced with [REDACTED] at
//     the outermost pair; orphaned tags are stripped.
//  2. Payment card numbers that pass the Luhn check.
//  3. Built-in patterns for CVV codes, PINs, passwords and IBANs.
func Redact(text string) string {
	text = redactTags(text)

	text = cardRe.ReplaceAllStringFunc(text, func(m string) string {
		if luhn(m) {
			return replacement
		}
		return m
	})

	for _, re := range sensitivePatterns {
		text = re.ReplaceAllString(text, replacement)
	}
	return text
}

// redactTags replaces each outermost tag pair with [REDACTED], tracking depth
// so nested pairs stay inside the span. An opening tag that is never closed
// is dropped and the text after it is scanned again.
func redactTags(text string) string {
	var b strings.Builder
	depth, start := 0, 0
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], openTag):
			if depth == 0 {
				start = i
			}
			depth++
			i += len(openTag)
		case strings.HasPrefix(text[i:], closeTag):
			i += len(closeTag)
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				b.WriteString(replacement)
			}
		default:
			if depth == 0 {
				b.WriteByte(text[i])
			}
			i++
		}
	}
	if depth > 0 {
		b.WriteString(redactTags(text[start+len(openTag):]))
	}
	return b.String()
}

// luhn reports whether the digits in s carry a valid Luhn checksum.
func luhn(s string) bool {
	var sum, n int
	for i := len(s) - 1; i >= 0; i-- {
		ch := s[i]
		if ch < '0' || ch > '9' {
			continue
		}
		d := int(ch - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n > 0 && sum%10 == 0
}
