package omtsf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SemVer is a MAJOR.MINOR.PATCH version triple.
type SemVer struct {
	Major, Minor, Patch int
}

// ParseSemVer parses a "MAJOR.MINOR.PATCH" string.
func ParseSemVer(s string) (SemVer, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return SemVer{}, &InvalidPrimitiveError{Field: "omtsf_version", Value: s, Reason: "expected MAJOR.MINOR.PATCH"}
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return SemVer{}, &InvalidPrimitiveError{Field: "omtsf_version", Value: s, Reason: "non-negative integer components required"}
		}
		nums[i] = n
	}
	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the version as "MAJOR.MINOR.PATCH".
func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 comparing v to other by component order.
func (v SemVer) Compare(other SemVer) int {
	if v.Major != other.Major {
		return cmpInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpInt(v.Minor, other.Minor)
	}
	return cmpInt(v.Patch, other.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v SemVer) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(v.String())), nil
}

func (v *SemVer) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := ParseSemVer(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// CalendarDate is an ISO 8601 YYYY-MM-DD calendar date, ordered
// lexicographically by year/month/day.
type CalendarDate struct {
	Year, Month, Day int
}

var dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseCalendarDate parses a "YYYY-MM-DD" string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return CalendarDate{}, &InvalidPrimitiveError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return CalendarDate{}, &InvalidPrimitiveError{Field: "date", Value: s, Reason: "month/day out of range"}
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// String renders the date as "YYYY-MM-DD".
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0, or 1 comparing d to other, year then month then day.
func (d CalendarDate) Compare(other CalendarDate) int {
	if d.Year != other.Year {
		return cmpInt(d.Year, other.Year)
	}
	if d.Month != other.Month {
		return cmpInt(d.Month, other.Month)
	}
	return cmpInt(d.Day, other.Day)
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }

// CalendarDateFromTime converts t (interpreted in UTC) to a CalendarDate.
// Callers needing "today" pass time.Now().UTC(); this package never reads
// the wall clock itself.
func CalendarDateFromTime(t time.Time) CalendarDate {
	u := t.UTC()
	return CalendarDate{Year: u.Year(), Month: int(u.Month()), Day: u.Day()}
}

// After reports whether d is strictly later than other.
func (d CalendarDate) After(other CalendarDate) bool { return d.Compare(other) > 0 }

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CountryCode is an ISO 3166-1 alpha-2 country code, stored uppercase.
type CountryCode string

var countryRe = regexp.MustCompile(`^[A-Z]{2}$`)

// ParseCountryCode uppercases and validates a two-letter country code.
func ParseCountryCode(s string) (CountryCode, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if !countryRe.MatchString(up) {
		return "", &InvalidPrimitiveError{Field: "jurisdiction", Value: s, Reason: "expected ISO 3166-1 alpha-2"}
	}
	return CountryCode(up), nil
}

// FileSalt is 64 lowercase hexadecimal characters (32 random bytes).
type FileSalt string

var saltRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ParseFileSalt validates a hex-encoded file salt.
func ParseFileSalt(s string) (FileSalt, error) {
	if !saltRe.MatchString(s) {
		return "", &InvalidPrimitiveError{Field: "file_salt", Value: s, Reason: "expected 64 lowercase hex characters"}
	}
	return FileSalt(s), nil
}

// NodeID is a non-empty identifier, length <= 128, matching
// [A-Za-z0-9_][A-Za-z0-9_.:-]*.
type NodeID string

// EdgeID has the same shape as NodeID but identifies edges.
type EdgeID string

var idRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.:-]*$`)

// ParseNodeID validates a node identifier string.
func ParseNodeID(s string) (NodeID, error) {
	if err := validateID(s); err != nil {
		return "", err
	}
	return NodeID(s), nil
}

// ParseEdgeID validates an edge identifier string.
func ParseEdgeID(s string) (EdgeID, error) {
	if err := validateID(s); err != nil {
		return "", err
	}
	return EdgeID(s), nil
}

func validateID(s string) error {
	if len(s) == 0 || len(s) > 128 {
		return &InvalidPrimitiveError{Field: "id", Value: s, Reason: "length must be in [1, 128]"}
	}
	if !idRe.MatchString(s) {
		return &InvalidPrimitiveError{Field: "id", Value: s, Reason: "must match [A-Za-z0-9_][A-Za-z0-9_.:-]*"}
	}
	return nil
}

// InvalidPrimitiveError reports a malformed validated primitive.
type InvalidPrimitiveError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidPrimitiveError) Error() string {
	return fmt.Sprintf("omtsf: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
