package course

// CourseRow matches one row of the monthly course CSV.
type CourseRow struct {
	Category string `json:"category"`
	Topic    string `json:"topic"`
	Weekday  string `json:"weekday"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Cert     string `json:"cert"`
	EnvHours string `json:"env_hours"`
}

// CourseSlot is one distinct (weekday, time, location) occurrence of a topic.
type CourseSlot struct {
	Weekday  string `json:"weekday"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// Key is the dedup key of the slot inside its group.
func (s CourseSlot) Key() string {
	return s.Weekday + "|" + s.Time + "|" + s.Location
}

// CourseGroup aggregates all rows sharing a (category, topic) pair.
type CourseGroup struct {
	Category  string       `json:"category"`
	Topic     string       `json:"topic"`
	Certified bool         `json:"certified"`
	EnvHours  float64      `json:"env_hours"`
	Slots     []CourseSlot `json:"slots"`
}

// CourseMatch is a group together with the slots that fall on the target day.
type CourseMatch struct {
	Group *CourseGroup
	Slots []CourseSlot
}

// DaySchedule is the rendered course listing for one weekday.
type DaySchedule struct {
	Weekday string
	Summary string
	Detail  string
	Matches []CourseMatch
}

// Empty reports whether no course fell on the day.
func (d DaySchedule) Empty() bool {
	return len(d.Matches) == 0
}
