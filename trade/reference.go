package trade

import (
	"fmt"
	"time"
)

// ReferencePrefix is the fixed leading token of every trade reference.
const ReferencePrefix = "FX"

// FormatReference builds the canonical trade reference for a booking
// date and an allocated sequence number: FX-YYYYMMDD-NNNN.
//
// The sequence field is zero-padded to four digits and widens naturally
// once a day books more than 9999 trades; references stay unique, only
// the fixed-width alignment is lost.
func FormatReference(date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", ReferencePrefix, date.Format("20060102"), seq)
}
