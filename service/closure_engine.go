package services

import (
	"time"

	"zoo-assistant/models"
	"zoo-assistant/models/visitor"
)

// ClosureStatus is the outcome of a closure evaluation.
type ClosureStatus int

const (
	// ClosureUnknown means the venue has no fixed closure rule.
	ClosureUnknown ClosureStatus = iota
	ClosureOpen
	ClosureClosed
)

func (s ClosureStatus) String() string {
	switch s {
	case ClosureOpen:
		return "open"
	case ClosureClosed:
		return "closed"
	}
	return "unknown"
}

// ClosureEngine evaluates weekly and monthly closure rules together with
// holiday overrides.
type ClosureEngine struct {
	holidays visitor.HolidayOverrides
}

func NewClosureEngine(holidays visitor.HolidayOverrides) *ClosureEngine {
	return &ClosureEngine{holidays: holidays}
}

// IsClosed reports whether venueName is closed on date. Holiday overrides
// win over any rule, including a missing one.
func (e *ClosureEngine) IsClosed(venueName string, rules []visitor.ClosureRule, date time.Time) ClosureStatus {
	if e.holidays.Closes(int(date.Month()), date.Day(), venueName) {
		return ClosureClosed
	}
	rule, ok := FindClosureRule(rules, venueName)
	if !ok {
		return ClosureUnknown
	}
	return e.evaluate(rule, date)
}

// RuleStatus evaluates a single rule, holiday overrides included.
func (e *ClosureEngine) RuleStatus(rule visitor.ClosureRule, date time.Time) ClosureStatus {
	if e.holidays.Closes(int(date.Month()), date.Day(), rule.VenueName) {
		return ClosureClosed
	}
	return e.evaluate(rule, date)
}

func (e *ClosureEngine) evaluate(rule visitor.ClosureRule, date time.Time) ClosureStatus {
	if models.WeekdayOf(date) != models.Weekday(rule.DayOfWeek) {
		return ClosureOpen
	}
	switch rule.ClosureType {
	case visitor.ClosureWeekly:
		return ClosureClosed
	case visitor.ClosureMonthly:
		if WeekOfMonth(date) == rule.WeekNumber {
			return ClosureClosed
		}
	}
	return ClosureOpen
}

// WeekOfMonth is the 1-based week index of date: days 1-7 are week 1.
func WeekOfMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// FindClosureRule returns the authoritative (first) rule of venueName.
func FindClosureRule(rules []visitor.ClosureRule, venueName string) (visitor.ClosureRule, bool) {
	for _, r := range rules {
		if r.VenueName == venueName {
			return r, true
		}
	}
	return visitor.ClosureRule{}, false
}
