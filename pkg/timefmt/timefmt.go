// Package timefmt provides the two timestamp formats used by the data layer.
//
// The store reports xsd:dateTime values as "2006-01-02T15:04:05", optionally
// with a trailing "Z" which is stripped before parsing. Records and API rows
// carry the display form "2006-01-02 15:04:05". Conversion between the two
// is a pure, round-trippable transformation with a single supported input
// pattern; any other pattern is a coercion failure for that field.
package timefmt

import (
	"strings"
	"time"
)

const (
	// StoreLayout is the single supported xsd:dateTime input pattern.
	StoreLayout = "2006-01-02T15:04:05"

	// DisplayLayout is the format stored on records and returned in rows.
	DisplayLayout = "2006-01-02 15:04:05"
)

// ParseStore parses a store-reported dateTime value. A trailing UTC marker
// is stripped before parsing.
func ParseStore(value string) (time.Time, error) {
	value = strings.TrimSuffix(value, "Z")
	return time.Parse(StoreLayout, value)
}

// Display renders a time in the record display format.
func Display(t time.Time) string {
	return t.Format(DisplayLayout)
}

// StoreToDisplay converts a store-reported dateTime value to the display
// format. It is the coercion applied to every dateTime-typed binding.
func StoreToDisplay(value string) (string, error) {
	t, err := ParseStore(value)
	if err != nil {
		return "", err
	}
	return Display(t), nil
}

// Now returns the current time in the record display format.
func Now() string {
	return Display(time.Now())
}

// NowStore returns the current time as an xsd:dateTime literal value with
// the UTC marker, as written on session records.
func NowStore() string {
	return time.Now().UTC().Format(StoreLayout) + "Z"
}
