package services

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"zoo-assistant/config"
	"zoo-assistant/models"
	"zoo-assistant/models/visitor"
)

const (
	sectionNotFoundText   = "(找不到相關資訊)"
	sectionHeadingPrefix  = "\n=== "
	educationCenterVenue  = "教育中心"
	trainVenue            = "遊客列車"
	trainFareType         = "車資"
	mainEntranceVenue     = "入園"
	priceUnavailableLabel = "票價未提供"
)

var (
	educationCenterTicketTypes = []string{"普通票", "優待票"}
	defaultHoursVenues         = []string{"動物園", "動物展示"}
)

// VisitorInfoService answers ticket, hours, closure and document-section
// questions from the reference snapshot.
type VisitorInfoService struct {
	vocab           *config.Vocabulary
	closures        *ClosureEngine
	officialSiteURL string
	ticketInfoURL   string
}

func NewVisitorInfoService(vocab *config.Vocabulary, closures *ClosureEngine, reply config.ReplyConfig) *VisitorInfoService {
	return &VisitorInfoService{
		vocab:           vocab,
		closures:        closures,
		officialSiteURL: reply.OfficialSiteURL,
		ticketInfoURL:   reply.TicketInfoURL,
	}
}

// Classify returns the first category, in config.VisitorCategoryOrder,
// whose keywords occur in message.
func (s *VisitorInfoService) Classify(message string) (models.QueryIntent, bool) {
	for _, intent := range config.VisitorCategoryOrder {
		if containsAny(message, s.vocab.VisitorKeywords[intent]) {
			return intent, true
		}
	}
	return "", false
}

// Answer dispatches a classified visitor question.
func (s *VisitorInfoService) Answer(intent models.QueryIntent, message string, ref *models.ReferenceData, now time.Time) string {
	switch intent {
	case models.IntentTicket:
		if !ref.Tickets.OK() {
			return s.unavailableText("票價")
		}
		return s.Tickets(message, ref.Tickets.Value)
	case models.IntentHours:
		if !ref.Hours.OK() {
			return s.unavailableText("開放時間")
		}
		return s.Hours(message, ref.Hours.Value)
	case models.IntentClosure:
		if !ref.Closures.OK() {
			return s.unavailableText("公休")
		}
		return s.Closures(message, ref.Closures.Value, now)
	case models.IntentTransport:
		return s.section(ref.VisitorInfo, s.vocab.TransportSection)
	case models.IntentRules:
		return s.section(ref.VisitorInfo, s.vocab.RulesSection)
	case models.IntentItinerary:
		return s.section(ref.VisitorInfo, s.vocab.ItinerarySection)
	}
	return "(查詢類型不明)"
}

func (s *VisitorInfoService) unavailableText(topic string) string {
	return fmt.Sprintf("很抱歉，目前無法取得%s資料，請至官網查詢：%s", topic, s.officialSiteURL)
}

func (s *VisitorInfoService) section(doc models.Source[string], marker string) string {
	if !doc.OK() {
		return s.unavailableText("參觀資訊")
	}
	text, err := LoadSection(doc.Value, marker)
	if err != nil {
		return sectionNotFoundText
	}
	return text
}

// Tickets lists education-center prices, train fares, or the main entrance
// ticket types in canonical order followed by the eligibility link.
func (s *VisitorInfoService) Tickets(message string, rows []visitor.TicketRow) string {
	if containsAny(message, s.vocab.EducationCenterKeywords) {
		lines := []string{educationCenterVenue + "："}
		for _, r := range rows {
			if r.Venue == educationCenterVenue && slices.Contains(educationCenterTicketTypes, r.TicketType) {
				lines = append(lines, r.TicketType+" "+formatPrice(r.Price))
			}
		}
		if len(lines) == 1 {
			return s.unavailableText(educationCenterVenue + "票價")
		}
		return strings.Join(lines, "\n")
	}

	if containsAny(message, s.vocab.TrainKeywords) {
		lines := []string{trainVenue + "："}
		for _, r := range rows {
			if r.Venue == trainVenue && r.TicketType == trainFareType {
				lines = append(lines, trainFareType+" "+formatPrice(r.Price))
			}
		}
		if len(lines) == 1 {
			return s.unavailableText(trainVenue + "票價")
		}
		return strings.Join(lines, "\n")
	}

	var main []visitor.TicketRow
	for _, r := range rows {
		if r.Venue == mainEntranceVenue && slices.Contains(s.vocab.MainTicketTypes, r.TicketType) {
			main = append(main, r)
		}
	}
	if len(main) == 0 {
		return s.unavailableText("票價")
	}
	sort.SliceStable(main, func(i, j int) bool {
		return slices.Index(s.vocab.MainTicketTypes, main[i].TicketType) < slices.Index(s.vocab.MainTicketTypes, main[j].TicketType)
	})

	lines := []string{"入園門票："}
	for _, r := range main {
		lines = append(lines, r.TicketType+" "+formatPrice(r.Price))
	}
	lines = append(lines, "", "免票、優惠票、團體票之資格與規定請至官網查詢：", s.ticketInfoURL)
	return strings.Join(lines, "\n")
}

func formatPrice(price int) string {
	if price == visitor.PriceUnavailable {
		return priceUnavailableLabel
	}
	return fmt.Sprintf("%d元", price)
}

// Hours lists opening hours, narrowed to a sub-venue when one is named.
func (s *VisitorInfoService) Hours(message string, rows []visitor.HoursRow) string {
	if len(rows) == 0 {
		return s.unavailableText("開放時間")
	}
	lower := strings.ToLower(message)
	target := ""
	for _, kt := range s.vocab.HoursVenues {
		if strings.Contains(lower, strings.ToLower(kt.Keyword)) {
			target = kt.Target
			break
		}
	}

	var filtered []visitor.HoursRow
	for _, r := range rows {
		if (target != "" && strings.Contains(r.Venue, target)) ||
			(target == "" && slices.Contains(defaultHoursVenues, r.Venue)) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		filtered = rows
	}

	lines := make([]string, 0, len(filtered))
	for _, r := range filtered {
		line := fmt.Sprintf("【%s】%s - %s", r.Venue, r.OpenTime, r.CloseTime)
		if r.LastEntry != "" {
			line += fmt.Sprintf("（停止入園 %s）", r.LastEntry)
		}
		if r.Notes != "" {
			line += "\n  備註：" + r.Notes
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Closures answers for a named venue, or lists the whole closure table with
// today's status.
func (s *VisitorInfoService) Closures(message string, rules []visitor.ClosureRule, now time.Time) string {
	if len(rules) == 0 {
		return s.unavailableText("公休")
	}
	target := ""
	for _, kt := range s.vocab.ClosureAliases {
		if strings.Contains(message, kt.Keyword) {
			target = kt.Target
			break
		}
	}
	if target == "" {
		for _, r := range rules {
			if strings.Contains(message, r.VenueName) {
				target = r.VenueName
				break
			}
		}
	}

	if target != "" {
		return s.venueClosureText(target, rules, now)
	}

	lines := []string{fmt.Sprintf("【館區公休時間表】（今天：%d月%d日（%s））",
		int(now.Month()), now.Day(), models.WeekdayOf(now))}
	for _, r := range rules {
		status := "今日開放"
		if s.closures.RuleStatus(r, now) == ClosureClosed {
			status = "今日公休"
		}
		special := ""
		if r.SpecialHours != "" {
			special = "　開放時間 " + r.SpecialHours
		}
		lines = append(lines, fmt.Sprintf("- %s：%s%s（%s）", r.VenueName, closureRuleText(r), special, status))
	}
	return strings.Join(lines, "\n")
}

func (s *VisitorInfoService) venueClosureText(venueName string, rules []visitor.ClosureRule, now time.Time) string {
	status := s.closures.IsClosed(venueName, rules, now)
	rule, ok := FindClosureRule(rules, venueName)
	if !ok {
		if status == ClosureClosed {
			return fmt.Sprintf("「%s」今日為連假補休，暫停開放。\n平日無固定公休日。", venueName)
		}
		return fmt.Sprintf("「%s」無固定公休日，全年正常開放。", venueName)
	}

	statusText := "今日正常開放！"
	if status == ClosureClosed {
		statusText = "今日公休，建議改天再來。"
	}
	special := ""
	if rule.SpecialHours != "" {
		special = fmt.Sprintf("（開放時間 %s）", rule.SpecialHours)
	}
	return fmt.Sprintf("「%s」%s%s\n公休規則：%s", venueName, statusText, special, closureRuleText(rule))
}

func closureRuleText(r visitor.ClosureRule) string {
	if r.ClosureType == visitor.ClosureMonthly {
		return fmt.Sprintf("每月第%d個%s公休", r.WeekNumber, r.DayOfWeek)
	}
	return fmt.Sprintf("每%s公休", r.DayOfWeek)
}

// LoadSection returns the body of the section starting at marker, without
// its heading line, up to the next section heading.
func LoadSection(doc, marker string) (string, error) {
	start := strings.Index(doc, marker)
	if start < 0 {
		return "", fmt.Errorf("%w: %q", models.ErrSectionNotFound, marker)
	}
	block := doc[start:]
	if next := strings.Index(block[len(marker):], sectionHeadingPrefix); next >= 0 {
		block = block[:len(marker)+next]
	}
	block = strings.TrimSpace(block)
	if nl := strings.Index(block, "\n"); nl >= 0 {
		return strings.TrimSpace(block[nl+1:]), nil
	}
	return "", nil
}
