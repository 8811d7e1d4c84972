package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"zoo-assistant/config"
	"zoo-assistant/models"
)

var (
	weekdayMentionPattern = regexp.MustCompile(`(?:週|周|星期|禮拜)([一二三四五六日天])`)

	// the leading non-digit keeps "2026/3/8" from reading as 26/3
	calendarDatePattern = regexp.MustCompile(`(?:^|\D)(\d{1,2})[月/](\d{1,2})[日號]?`)
)

var weekdayByChar = map[string]models.Weekday{
	"一": models.Monday,
	"二": models.Tuesday,
	"三": models.Wednesday,
	"四": models.Thursday,
	"五": models.Friday,
	"六": models.Saturday,
	"日": models.Sunday,
	"天": models.Sunday,
}

// OutOfRangeError reports a course query for a month without course data.
type OutOfRangeError struct {
	Month int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%v: month %d", models.ErrOutOfRange, e.Month)
}

func (e *OutOfRangeError) Unwrap() error {
	return models.ErrOutOfRange
}

// DateNormalizer turns a message into the weekday it asks about.
type DateNormalizer struct {
	vocab   *config.Vocabulary
	courses config.CoursesConfig
}

func NewDateNormalizer(vocab *config.Vocabulary, courses config.CoursesConfig) *DateNormalizer {
	return &DateNormalizer{vocab: vocab, courses: courses}
}

// Normalize resolves, first match wins: a relative phrase, an explicit
// weekday, then a calendar date in now's year. Impossible dates are
// treated as no match.
func (n *DateNormalizer) Normalize(message string, now time.Time) (models.Weekday, bool) {
	if date, ok := n.relativeDate(message, now); ok {
		return models.WeekdayOf(date), true
	}
	if m := weekdayMentionPattern.FindStringSubmatch(message); m != nil {
		return weekdayByChar[m[1]], true
	}
	if date, ok := n.calendarDate(message, now); ok {
		return models.WeekdayOf(date), true
	}
	return "", false
}

// CheckCourseWindow returns an *OutOfRangeError when the message names a
// concrete day outside the course data month, or when the weekday window
// policy refuses queries because now itself is outside it.
func (n *DateNormalizer) CheckCourseWindow(message string, now time.Time) error {
	if date, ok := n.relativeDate(message, now); ok {
		if !n.inWindow(date) {
			return &OutOfRangeError{Month: int(date.Month())}
		}
		return nil
	}
	if date, ok := n.calendarDate(message, now); ok {
		if !n.inWindow(date) {
			return &OutOfRangeError{Month: int(date.Month())}
		}
		return nil
	}
	if n.courses.WeekdayWindowPolicy == config.WeekdayWindowNow && !n.inWindow(now) {
		return &OutOfRangeError{Month: int(now.Month())}
	}
	return nil
}

func (n *DateNormalizer) inWindow(t time.Time) bool {
	return t.Year() == n.courses.ValidYear && int(t.Month()) == n.courses.ValidMonth
}

func (n *DateNormalizer) relativeDate(message string, now time.Time) (time.Time, bool) {
	for _, rd := range n.vocab.RelativeDays {
		if strings.Contains(message, rd.Phrase) {
			return now.AddDate(0, 0, rd.Offset), true
		}
	}
	return time.Time{}, false
}

func (n *DateNormalizer) calendarDate(message string, now time.Time) (time.Time, bool) {
	for _, m := range calendarDatePattern.FindAllStringSubmatch(message, -1) {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), now.Year()) {
			continue
		}
		return time.Date(now.Year(), time.Month(month), day, 12, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
