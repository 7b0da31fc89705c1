package database

import (
	"strconv"
	"strings"
	"time"
)

// Rebind rewrites ? placeholders into $1, $2, ... for PostgreSQL.
// Queries are written once with ? and rebound per driver. Placeholders
// inside single-quoted literals are left alone.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// TimeLayout is the storage layout of timestamps. Columns are TEXT in both
// dialects so the same scan code serves SQLite and PostgreSQL. The fraction
// is fixed width so stored values sort chronologically as text.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// NullableTime renders an optional timestamp; nil becomes NULL.
func NullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// ParseNullableTime parses an optional stored timestamp.
func ParseNullableTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := ParseTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BoolToInt stores booleans as 0/1 integers.
func BoolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
