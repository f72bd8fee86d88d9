package wire

import (
	"fmt"
	"math"
	"time"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// ErrInvalidDOSDateTime is returned for packed dates that name no real
// calendar instant, and for times outside the 1980..2107 DOS range.
var ErrInvalidDOSDateTime = lnkerr.New(lnkerr.ErrInvalidValue, "invalid DOS date-time")

const (
	// UnixEpochTicks is 1970-01-01T00:00:00Z as a FILETIME.
	UnixEpochTicks uint64 = 116444736000000000

	ticksPerSecond = 10_000_000
	dosEpochYear   = 1980
	dosMaxYear     = dosEpochYear + 0x7F
)

var unixEpoch = time.Unix(0, 0).UTC()

// NewDOSDateTime validates the calendar fields of a DOS date-time and
// returns the instant in UTC.
func NewDOSDateTime(year, month, day, hour, minute, second int) (time.Time, error) {
	fields := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hour, minute, second)
	if year < dosEpochYear || year > dosMaxYear || month < 1 || month > 12 {
		return time.Time{}, lnkerr.Invalid(ErrInvalidDOSDateTime, fields)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, lnkerr.Invalid(ErrInvalidDOSDateTime, fields)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, lnkerr.Invalid(ErrInvalidDOSDateTime, fields)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DecodeDOSDateTime unpacks a FAT date and time. A zero month or day is
// read as 1; seconds are stored in two-second units.
func DecodeDOSDateTime(date, clock uint16) (time.Time, error) {
	return NewDOSDateTime(
		int(date>>9&0x7F)+dosEpochYear,
		max(int(date>>5&0x0F), 1),
		max(int(date&0x1F), 1),
		int(clock>>11&0x1F),
		int(clock>>5&0x3F),
		int(clock&0x1F)*2,
	)
}

// EncodeDOSDateTime packs the wall clock fields of t. Odd seconds are
// truncated to the two-second resolution of the format.
func EncodeDOSDateTime(t time.Time) (date, clock uint16, err error) {
	year, month, day := t.Date()
	if year < dosEpochYear || year > dosMaxYear {
		return 0, 0, lnkerr.Invalid(ErrInvalidDOSDateTime, t.Format(time.RFC3339))
	}
	date = uint16(year-dosEpochYear)<<9 | uint16(month)<<5 | uint16(day)
	clock = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, clock, nil
}

// FromFileTime converts a FILETIME into a UTC time. Values before the Unix
// epoch saturate to the epoch.
func FromFileTime(ticks uint64) time.Time {
	if ticks < UnixEpochTicks {
		return unixEpoch
	}
	d := ticks - UnixEpochTicks
	return time.Unix(int64(d/ticksPerSecond), int64(d%ticksPerSecond)*100).UTC()
}

// ToFileTime converts t into a FILETIME, saturating at the Unix epoch and
// at the largest representable tick count.
func ToFileTime(t time.Time) uint64 {
	if t.Before(unixEpoch) {
		return UnixEpochTicks
	}
	const maxSeconds = (math.MaxUint64 - UnixEpochTicks - ticksPerSecond) / ticksPerSecond
	sec := uint64(t.Unix())
	if sec > maxSeconds {
		return math.MaxUint64
	}
	return UnixEpochTicks + sec*ticksPerSecond + uint64(t.Nanosecond()/100)
}

// DOSDateTime reads a u16 date followed by a u16 time.
func (r *Reader) DOSDateTime() (time.Time, error) {
	date, err := r.Uint16()
	if err != nil {
		return time.Time{}, err
	}
	clock, err := r.Uint16()
	if err != nil {
		return time.Time{}, err
	}
	return DecodeDOSDateTime(date, clock)
}

// FileTime reads a u64 FILETIME.
func (r *Reader) FileTime() (time.Time, error) {
	ticks, err := r.Uint64()
	if err != nil {
		return time.Time{}, err
	}
	return FromFileTime(ticks), nil
}

// DOSDateTime writes t as a u16 date followed by a u16 time.
func (w *Writer) DOSDateTime(t time.Time) error {
	date, clock, err := EncodeDOSDateTime(t)
	if err != nil {
		return err
	}
	w.Uint16(date)
	w.Uint16(clock)
	return nil
}

// FileTime writes t as a u64 FILETIME.
func (w *Writer) FileTime(t time.Time) {
	w.Uint64(ToFileTime(t))
}
