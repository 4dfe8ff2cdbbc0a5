package dataset

import "time"

// Kind identifies what a cell value holds.
type Kind int

// Cell value kinds.
const (
	KindNull Kind = iota
	KindString
	KindDate
	KindBool
)

// Value is a single table cell. The zero Value is null, which is how empty
// or absent spreadsheet cells are represented.
type Value struct {
	t    time.Time
	s    string
	kind Kind
	b    bool
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// StringValue returns a string cell.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// DateValue returns a date cell.
func DateValue(t time.Time) Value {
	return Value{kind: KindDate, t: t}
}

// BoolValue returns a boolean cell.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the cell's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true for the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Raw returns the underlying string of a string cell, or "" otherwise.
func (v Value) Raw() string {
	return v.s
}

// Date returns the underlying time of a date cell.
func (v Value) Date() (time.Time, bool) {
	return v.t, v.kind == KindDate
}

// Bool returns the underlying boolean of a bool cell.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the display form used in diagnostics: the raw string, the
// timestamp form for dates, true/false for booleans, empty for null.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format("2006-01-02 15:04:05")
	case KindBool:
		if v.b {
			return "true"
		}

		return "false"
	default:
		return ""
	}
}
