package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"zoo-assistant/config"
	"zoo-assistant/models"
	"zoo-assistant/models/course"
	"zoo-assistant/models/venue"
	"zoo-assistant/models/visitor"
	"zoo-assistant/util"
)

// ReferenceLoader reads every reference source from the configured data
// directory into a fresh snapshot.
type ReferenceLoader struct {
	data  config.DataConfig
	vocab *config.Vocabulary
}

func NewReferenceLoader(data config.DataConfig, vocab *config.Vocabulary) *ReferenceLoader {
	return &ReferenceLoader{data: data, vocab: vocab}
}

// Load reads each source independently. A failing source is recorded on
// the snapshot and never prevents the others from loading.
func (l *ReferenceLoader) Load() *models.ReferenceData {
	ref := &models.ReferenceData{LoadedAt: time.Now()}

	ref.Venues = loadTable(l.data.Path(l.data.VenuesCSV), func(recs []util.CSVRecord) []venue.Venue {
		return ParseVenues(recs, l.vocab)
	})
	ref.Tickets = loadTable(l.data.Path(l.data.TicketsCSV), ParseTickets)
	ref.Hours = loadTable(l.data.Path(l.data.HoursCSV), ParseHours)
	ref.Closures = loadTable(l.data.Path(l.data.ClosuresCSV), ParseClosures)
	ref.Courses = loadTable(l.data.Path(l.data.CoursesCSV), ParseCourses)
	ref.VisitorInfo = loadText(l.data.Path(l.data.VisitorInfoTXT))
	ref.EnvEduNotes = loadText(l.data.Path(l.data.EnvEduNotesTXT))

	return ref
}

func loadTable[T any](path string, parse func([]util.CSVRecord) []T) models.Source[[]T] {
	recs, err := util.ReadCSVRecords(path)
	if err != nil {
		log.Printf("[ReferenceLoader] %v", err)
		return models.Failed[[]T](err)
	}
	rows := parse(recs)
	log.Printf("[ReferenceLoader] Loaded %d rows from %s", len(rows), path)
	return models.Loaded(rows)
}

func loadText(path string) models.Source[string] {
	text, err := util.ReadTextDocument(path)
	if err != nil {
		log.Printf("[ReferenceLoader] %v", err)
		return models.Failed[string](err)
	}
	return models.Loaded(text)
}

// ParseVenues builds venues in file order. The name is always the first
// alias; vocabulary rules append more. Rows with unparseable geometry are
// kept without coordinates so they still feed the generative context.
func ParseVenues(recs []util.CSVRecord, vocab *config.Vocabulary) []venue.Venue {
	venues := make([]venue.Venue, 0, len(recs))
	for _, rec := range recs {
		name := rec.Get("name")
		if name == "" {
			continue
		}
		v := venue.Venue{
			VenueName: name,
			Aliases:   []string{name},
			Category:  rec.Get("category"),
			URL:       rec.Get("url"),
		}
		for _, rule := range vocab.VenueAliasRules {
			if strings.Contains(name, rule.Contains) {
				v.Aliases = append(v.Aliases, rule.Aliases...)
			}
		}
		lat, lon, err := ParseMultiPoint(rec.Get("coordinates"))
		if err != nil {
			log.Printf("[ReferenceLoader] Venue %q has no usable geometry: %v", name, err)
		} else {
			v.VenueLat, v.VenueLon, v.HasCoords = lat, lon, true
		}
		venues = append(venues, v)
	}
	return venues
}

func ParseTickets(recs []util.CSVRecord) []visitor.TicketRow {
	rows := make([]visitor.TicketRow, 0, len(recs))
	for _, rec := range recs {
		row := visitor.TicketRow{
			Venue:         rec.Get("venue"),
			TicketType:    rec.Get("ticket_type"),
			EligibleGroup: rec.Get("eligible_group"),
			Price:         visitor.PriceUnavailable,
		}
		if price, err := strconv.Atoi(rec.Get("price")); err == nil && price >= 0 {
			row.Price = price
		} else {
			log.Printf("[ReferenceLoader] %v: price %q for %s/%s",
				models.ErrParseFailure, rec.Get("price"), row.Venue, row.TicketType)
		}
		row.AgeMin = parseOptionalFloat(rec.Get("age_min"))
		row.AgeMax = parseOptionalFloat(rec.Get("age_max"))
		rows = append(rows, row)
	}
	return rows
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("[ReferenceLoader] %v: number %q", models.ErrParseFailure, s)
		return nil
	}
	return &f
}

func ParseHours(recs []util.CSVRecord) []visitor.HoursRow {
	rows := make([]visitor.HoursRow, 0, len(recs))
	for _, rec := range recs {
		row := visitor.HoursRow{
			Venue:     rec.Get("venue"),
			OpenTime:  rec.Get("open_time"),
			CloseTime: rec.Get("close_time"),
			LastEntry: rec.Get("last_entry"),
			Notes:     rec.Get("notes"),
		}
		if row.Venue == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseClosures keeps the first valid rule of each venue.
func ParseClosures(recs []util.CSVRecord) []visitor.ClosureRule {
	seen := make(map[string]struct{})
	rules := make([]visitor.ClosureRule, 0, len(recs))
	for _, rec := range recs {
		rule, err := parseClosureRule(rec)
		if err != nil {
			log.Printf("[ReferenceLoader] Skipping closure row: %v", err)
			continue
		}
		if _, dup := seen[rule.VenueName]; dup {
			log.Printf("[ReferenceLoader] Skipping duplicate closure rule for %q", rule.VenueName)
			continue
		}
		seen[rule.VenueName] = struct{}{}
		rules = append(rules, rule)
	}
	return rules
}

func parseClosureRule(rec util.CSVRecord) (visitor.ClosureRule, error) {
	rule := visitor.ClosureRule{
		VenueName:    rec.Get("venue_name"),
		ClosureType:  visitor.ClosureType(strings.ToLower(rec.Get("closure_type"))),
		DayOfWeek:    rec.Get("day_of_week"),
		SpecialHours: rec.Get("special_hours"),
	}
	if rule.VenueName == "" {
		return rule, fmt.Errorf("%w: empty venue_name", models.ErrParseFailure)
	}
	if models.Weekday(rule.DayOfWeek).Index() < 0 {
		return rule, fmt.Errorf("%w: %q day_of_week %q", models.ErrParseFailure, rule.VenueName, rule.DayOfWeek)
	}
	switch rule.ClosureType {
	case visitor.ClosureWeekly:
	case visitor.ClosureMonthly:
		n, err := strconv.Atoi(rec.Get("week_number"))
		if err != nil || n < 1 || n > 5 {
			return rule, fmt.Errorf("%w: %q week_number %q", models.ErrParseFailure, rule.VenueName, rec.Get("week_number"))
		}
		rule.WeekNumber = n
	default:
		return rule, fmt.Errorf("%w: %q closure_type %q", models.ErrParseFailure, rule.VenueName, rule.ClosureType)
	}
	return rule, nil
}

func ParseCourses(recs []util.CSVRecord) []course.CourseRow {
	rows := make([]course.CourseRow, 0, len(recs))
	for _, rec := range recs {
		row := course.CourseRow{
			Category: rec.Get("category"),
			Topic:    rec.Get("topic"),
			Weekday:  rec.Get("weekday"),
			Time:     rec.Get("time"),
			Location: rec.Get("location"),
			Cert:     rec.Get("cert"),
			EnvHours: rec.Get("env_hours"),
		}
		if row.Category == "" && row.Topic == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
