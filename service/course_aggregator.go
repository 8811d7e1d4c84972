package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"zoo-assistant/models"
	"zoo-assistant/models/course"
)

const envEduEligibilityNote = "※標示環教時數的課程可認證環境教育時數，請於課程結束後向現場人員登記。"

var (
	weekdayRangePattern = regexp.MustCompile(`(週[一二三四五六日])\s*(?:至|到|~|～|-|－)\s*(週[一二三四五六日])`)

	weekdayTextReplacer = strings.NewReplacer(
		"星期天", "週日", "週天", "週日", "禮拜天", "週日",
		"星期", "週", "禮拜", "週", "周", "週",
	)

	certTruthy = map[string]bool{
		"是": true, "yes": true, "y": true, "true": true, "1": true, "有": true, "v": true, "✓": true,
	}
)

// CourseAggregator groups course rows by topic and lists them per weekday.
type CourseAggregator struct {
	internalPrefix string
}

func NewCourseAggregator(internalPrefix string) *CourseAggregator {
	return &CourseAggregator{internalPrefix: internalPrefix}
}

// GroupByTopic merges rows sharing (category, topic) in first-seen order.
// Internal bookkeeping rows are dropped and repeated slots are kept once.
func (a *CourseAggregator) GroupByTopic(rows []course.CourseRow) []*course.CourseGroup {
	var groups []*course.CourseGroup
	index := make(map[[2]string]*course.CourseGroup)
	seenSlots := make(map[*course.CourseGroup]map[string]struct{})

	for _, row := range rows {
		if a.internalPrefix != "" && strings.HasPrefix(row.Category, a.internalPrefix) {
			continue
		}
		key := [2]string{row.Category, row.Topic}
		g, ok := index[key]
		if !ok {
			g = &course.CourseGroup{Category: row.Category, Topic: row.Topic}
			index[key] = g
			seenSlots[g] = make(map[string]struct{})
			groups = append(groups, g)
		}
		if IsCertified(row.Cert) {
			g.Certified = true
		}
		if h, err := strconv.ParseFloat(row.EnvHours, 64); err == nil && h > g.EnvHours {
			g.EnvHours = h
		}

		slot := course.CourseSlot{Weekday: row.Weekday, Time: row.Time, Location: row.Location}
		if _, dup := seenSlots[g][slot.Key()]; dup {
			continue
		}
		seenSlots[g][slot.Key()] = struct{}{}
		g.Slots = append(g.Slots, slot)
	}
	return groups
}

// FilterByWeekday keeps the groups with at least one slot on target,
// together with those slots.
func (a *CourseAggregator) FilterByWeekday(groups []*course.CourseGroup, target models.Weekday) []course.CourseMatch {
	var matches []course.CourseMatch
	for _, g := range groups {
		var slots []course.CourseSlot
		for _, s := range g.Slots {
			if WeekdayTextMatches(s.Weekday, target) {
				slots = append(slots, s)
			}
		}
		if len(slots) > 0 {
			matches = append(matches, course.CourseMatch{Group: g, Slots: slots})
		}
	}
	return matches
}

// WeekdayTextMatches reports whether a free-text schedule such as "週二至週六"
// or "週一、週三" covers target.
func WeekdayTextMatches(text string, target models.Weekday) bool {
	text = weekdayTextReplacer.Replace(text)
	if strings.Contains(text, string(target)) {
		return true
	}
	idx := target.Index()
	if idx < 0 {
		return false
	}
	for _, m := range weekdayRangePattern.FindAllStringSubmatch(text, -1) {
		from := models.Weekday(m[1]).Index()
		to := models.Weekday(m[2]).Index()
		if from >= 0 && to >= 0 && from <= idx && idx <= to {
			return true
		}
	}
	return false
}

func IsCertified(cert string) bool {
	return certTruthy[strings.ToLower(strings.TrimSpace(cert))]
}

// Schedule renders the courses of target day.
func (a *CourseAggregator) Schedule(rows []course.CourseRow, target models.Weekday) course.DaySchedule {
	matches := a.FilterByWeekday(a.GroupByTopic(rows), target)
	schedule := course.DaySchedule{Weekday: string(target), Matches: matches}
	if len(matches) == 0 {
		schedule.Summary = NoCoursesText(target)
		return schedule
	}
	schedule.Summary = renderSummary(matches)
	schedule.Detail = renderDetail(matches)
	return schedule
}

func NoCoursesText(target models.Weekday) string {
	return fmt.Sprintf("（%s沒有安排課程）", target)
}

type categorySummary struct {
	name                string
	certified, ordinary []string
}

func renderSummary(matches []course.CourseMatch) string {
	var order []*categorySummary
	byName := make(map[string]*categorySummary)
	for _, m := range matches {
		c, ok := byName[m.Group.Category]
		if !ok {
			c = &categorySummary{name: m.Group.Category}
			byName[c.name] = c
			order = append(order, c)
		}
		if m.Group.Certified {
			c.certified = append(c.certified, m.Group.Topic)
		} else {
			c.ordinary = append(c.ordinary, m.Group.Topic)
		}
	}

	lines := make([]string, 0, len(order))
	for _, c := range order {
		if len(c.certified) == 0 {
			lines = append(lines, fmt.Sprintf("・%s：%s", c.name, strings.Join(c.ordinary, "、")))
			continue
		}
		parts := []string{"有環教認證 " + strings.Join(c.certified, "、")}
		if len(c.ordinary) > 0 {
			parts = append(parts, "無環教認證 "+strings.Join(c.ordinary, "、"))
		}
		lines = append(lines, fmt.Sprintf("・%s：%s", c.name, strings.Join(parts, "；")))
	}
	return strings.Join(lines, "\n")
}

func renderDetail(matches []course.CourseMatch) string {
	blocks := make([]string, 0, len(matches)+1)
	anyCertified := false
	for _, m := range matches {
		var b strings.Builder
		fmt.Fprintf(&b, "【%s】\n主題：%s", m.Group.Category, m.Group.Topic)
		for _, s := range m.Slots {
			fmt.Fprintf(&b, "\n星期：%s\n時間：%s\n地點：%s", s.Weekday, s.Time, s.Location)
		}
		if m.Group.Certified {
			anyCertified = true
			if m.Group.EnvHours > 0 {
				fmt.Fprintf(&b, "\n環教時數：%s小時", strconv.FormatFloat(m.Group.EnvHours, 'f', -1, 64))
			}
		}
		blocks = append(blocks, b.String())
	}
	if anyCertified {
		blocks = append(blocks, envEduEligibilityNote)
	}
	return strings.Join(blocks, "\n\n")
}
