package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// referenceWidth is the zero-padded counter width of generated references.
const referenceWidth = 4

// NextReference returns the next sequential reference code for the given
// prefix, e.g. "DEP-202401" + existing 0003 -> "DEP-202401-0004". References
// not sharing the prefix, and references whose suffix is not numeric, are
// ignored. With no prior reference the counter starts at 1.
//
// Callers run this inside the same transaction as the insert and back the
// column with a unique index, so a concurrent creation surfaces as a
// constraint error instead of a silent duplicate.
func NextReference(existing []string, prefix string) string {
	max := 0
	for _, ref := range existing {
		if !strings.HasPrefix(ref, prefix+"-") {
			continue
		}
		suffix := ref[len(prefix)+1:]
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%0*d", prefix, referenceWidth, max+1)
}

// MonthPrefix builds the conventional expense reference prefix for a date,
// e.g. "DEP-202401" for January 2024.
func MonthPrefix(kind string, date time.Time) string {
	return fmt.Sprintf("%s-%s", kind, date.Format("200601"))
}
