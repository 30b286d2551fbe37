package shared

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ports/frontdesk/internal/models"
)

// ParseID parses a positive record ID argument.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid ID", models.ErrInvalidInput, s)
	}
	return id, nil
}

// SplitCSV splits a comma-separated flag value, dropping blanks.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitIDs parses a comma-separated list of IDs. An empty string yields an
// empty, non-nil list.
func SplitIDs(s string) ([]int64, error) {
	parts := SplitCSV(s)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := ParseID(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
