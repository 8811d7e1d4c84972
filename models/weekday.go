package models

import "time"

// Weekday is the canonical weekday token used across reference data,
// e.g. "週一".
type Weekday string

const (
	Monday    Weekday = "週一"
	Tuesday   Weekday = "週二"
	Wednesday Weekday = "週三"
	Thursday  Weekday = "週四"
	Friday    Weekday = "週五"
	Saturday  Weekday = "週六"
	Sunday    Weekday = "週日"
)

// Weekdays is the fixed Monday-first ordering used for range matching.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the Monday-based position of w, or -1 for unknown tokens.
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// WeekdayOf converts a time to its canonical token.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[(int(t.Weekday())+6)%7]
}
