package sheet

import (
	"strconv"
	"strings"
	"time"
)

// Codec maps an entity type onto one named sheet. Encode and Decode must
// agree with Header on column order.
type Codec[T any] interface {
	Sheet() string
	Header() []string
	ID(entity T) string
	Encode(entity T) []string
	Decode(cells []string) (T, error)
}

// DateLayout is the cell format for calendar dates.
const DateLayout = "2006-01-02"

// Cell returns the cell at index i, or the empty string when the row is
// shorter. Rows widened by later schema revisions stay readable.
func Cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// CellInt parses the cell as an integer. Blank or malformed cells yield
// zero.
func CellInt(cells []string, i int) int {
	raw := Cell(cells, i)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// CellFloat parses the cell as a float. Blank or malformed cells yield
// zero.
func CellFloat(cells []string, i int) float64 {
	raw := Cell(cells, i)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

// CellDate parses the cell as a calendar date. Blank or malformed cells
// yield nil.
func CellDate(cells []string, i int) *time.Time {
	raw := Cell(cells, i)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// CellTime parses the cell as an RFC 3339 timestamp. Blank or malformed
// cells yield nil.
func CellTime(cells []string, i int) *time.Time {
	raw := Cell(cells, i)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// FormatInt renders an integer cell. Zero renders as "0", not blank.
func FormatInt(n int) string {
	return strconv.Itoa(n)
}

// FormatFloat renders a float cell without trailing zero noise.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatDate renders a calendar date cell. Nil renders as blank.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatTime renders an RFC 3339 timestamp cell. Nil renders as blank.
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
