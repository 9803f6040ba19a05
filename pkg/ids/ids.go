package ids

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Prefixes for the sequential identifier families. Items and master
// records use four digit sequences, processing costs use six.
const (
	ItemPrefix      = "ITA"
	CostPrefix      = "COST"
	WoodTypePrefix  = "WOOD"
	SupplierPrefix  = "SUP"
	ProcessorPrefix = "PROC"
	LocationPrefix  = "LOC"

	SessionPrefix = "INV"
)

const (
	itemDigits    = 4
	costDigits    = 6
	sessionDigits = 3
	detailDigits  = 4
)

var sessionIDPattern = regexp.MustCompile(`^INV-(\d{8})-(\d+)$`)

// FormatSequence renders n with at least width digits. Values that
// overflow the width are never truncated.
func FormatSequence(prefix string, n, width int) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}

// ItemID returns the identifier for the nth stock item, e.g. ITA-0001.
func ItemID(n int) string {
	return FormatSequence(ItemPrefix, n, itemDigits)
}

// CostID returns the identifier for the nth processing cost record,
// e.g. COST-000001.
func CostID(n int) string {
	return FormatSequence(CostPrefix, n, costDigits)
}

// WoodTypeID returns the identifier for the nth wood type, e.g. WOOD-0001.
func WoodTypeID(n int) string {
	return FormatSequence(WoodTypePrefix, n, itemDigits)
}

// SupplierID returns the identifier for the nth supplier, e.g. SUP-0001.
func SupplierID(n int) string {
	return FormatSequence(SupplierPrefix, n, itemDigits)
}

// ProcessorID returns the identifier for the nth processor, e.g. PROC-0001.
func ProcessorID(n int) string {
	return FormatSequence(ProcessorPrefix, n, itemDigits)
}

// LocationID returns the identifier for the nth storage location,
// e.g. LOC-0001.
func LocationID(n int) string {
	return FormatSequence(LocationPrefix, n, itemDigits)
}

// NextSequence scans existing identifiers carrying prefix and returns
// the sequence number after the highest one seen. Gaps left by deleted
// records are never reused. Identifiers that do not parse are skipped.
func NextSequence(existing []string, prefix string) int {
	max := 0
	marker := prefix + "-"
	for _, id := range existing {
		if !strings.HasPrefix(id, marker) {
			continue
		}
		n, err := strconv.Atoi(id[len(marker):])
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// SessionID returns the identifier for the nth stocktake session started
// on day, e.g. INV-20250131-001.
func SessionID(day time.Time, n int) string {
	return fmt.Sprintf("%s-%s-%0*d", SessionPrefix, day.Format("20060102"), sessionDigits, n)
}

// ParseSessionID splits a session identifier into its date stamp and
// sequence number. ok is false when the identifier is malformed.
func ParseSessionID(id string) (day string, n int, ok bool) {
	m := sessionIDPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return m[1], n, true
}

// NextDailySequence returns the per-day sequence following the highest
// one among existing session identifiers stamped with day.
func NextDailySequence(existing []string, day time.Time) int {
	stamp := day.Format("20060102")
	max := 0
	for _, id := range existing {
		d, n, ok := ParseSessionID(id)
		if !ok || d != stamp {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// DetailID returns the identifier for the nth detail row of a session,
// 1-based, e.g. INV-20250131-001-0001.
func DetailID(sessionID string, n int) string {
	return fmt.Sprintf("%s-%0*d", sessionID, detailDigits, n)
}
