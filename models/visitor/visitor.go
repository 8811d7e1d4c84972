package visitor

// PriceUnavailable marks a ticket price that could not be parsed.
const PriceUnavailable = -1

// TicketRow matches one row of visitor_tickets.csv.
type TicketRow struct {
	Venue         string   `json:"venue"`
	TicketType    string   `json:"ticket_type"`
	Price         int      `json:"price"`
	EligibleGroup string   `json:"eligible_group"`
	AgeMin        *float64 `json:"age_min,omitempty"`
	AgeMax        *float64 `json:"age_max,omitempty"`
}

// HoursRow matches one row of visitor_hours.csv.
type HoursRow struct {
	Venue     string `json:"venue"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	LastEntry string `json:"last_entry"`
	Notes     string `json:"notes"`
}

type ClosureType string

const (
	ClosureWeekly  ClosureType = "weekly"
	ClosureMonthly ClosureType = "monthly"
)

// ClosureRule matches one row of venue_closures.csv. WeekNumber is only
// meaningful for monthly rules.
type ClosureRule struct {
	VenueName    string      `json:"venue_name"`
	ClosureType  ClosureType `json:"closure_type"`
	DayOfWeek    string      `json:"day_of_week"`
	WeekNumber   int         `json:"week_number,omitempty"`
	SpecialHours string      `json:"special_hours,omitempty"`
}

// MonthDay keys a holiday override by calendar date.
type MonthDay struct {
	Month int
	Day   int
}

// HolidayOverrides lists the venues forced closed on a given date.
type HolidayOverrides map[MonthDay][]string

// Closes reports whether venue is forced closed on (month, day).
func (h HolidayOverrides) Closes(month, day int, venueName string) bool {
	for _, name := range h[MonthDay{Month: month, Day: day}] {
		if name == venueName {
			return true
		}
	}
	return false
}
