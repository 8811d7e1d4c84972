package services

import (
	"fmt"
	"strings"

	"zoo-assistant/config"
	"zoo-assistant/models"
	"zoo-assistant/models/course"
	"zoo-assistant/models/venue"
)

const systemPromptTemplate = `你是台北市立動物園的環境教育小幫手，用友善、簡潔的繁體中文回覆。

【課程資料（部分）】
%s

【館區】
%s

【環境教育說明】
%s

請依上述資料回答使用者。回覆時：
1. 第一行必須是興趣度標註，格式為：[興趣度: high_interest] 或 [興趣度: maybe_interest] 或 [興趣度: low_interest]
   - high_interest：明確想參加課程、報名、問細節
   - maybe_interest：開放式詢問、探索（如「有什麼活動」）
   - low_interest：一般動物園資訊（門票、開放時間、與課程無關）
2. 第二行開始才是要給使用者看的回覆內容，不要重複「興趣度」那行。`

// PromptBuilder assembles the system prompt handed to the completion service.
type PromptBuilder struct {
	courses config.CoursesConfig
}

func NewPromptBuilder(courses config.CoursesConfig) *PromptBuilder {
	return &PromptBuilder{courses: courses}
}

func (b *PromptBuilder) SystemPrompt(ref *models.ReferenceData) string {
	return fmt.Sprintf(systemPromptTemplate,
		b.CoursesContext(ref.Courses),
		b.VenuesContext(ref.Venues),
		envNotesContext(ref.EnvEduNotes))
}

// CoursesContext renders the first ContextMaxRows course rows, internal
// rows excluded, one per line.
func (b *PromptBuilder) CoursesContext(src models.Source[[]course.CourseRow]) string {
	if !src.OK() {
		return "(無法讀取課程資料)"
	}
	var lines []string
	for i, row := range src.Value {
		if i >= b.courses.ContextMaxRows {
			break
		}
		if b.courses.InternalCategoryPrefix != "" && strings.HasPrefix(row.Category, b.courses.InternalCategoryPrefix) {
			continue
		}
		parts := labelled(
			"類別", row.Category,
			"主題", row.Topic,
			"星期", row.Weekday,
			"時間", row.Time,
			"地點", row.Location,
			"認證", row.Cert,
			"時數", row.EnvHours,
		)
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " | "))
		}
	}
	if len(lines) == 0 {
		return "(無課程資料)"
	}
	return strings.Join(lines, "\n")
}

func labelled(pairs ...string) []string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			parts = append(parts, pairs[i]+":"+pairs[i+1])
		}
	}
	return parts
}

// VenuesContext lists public venues as "name（category） url".
func (b *PromptBuilder) VenuesContext(src models.Source[[]venue.Venue]) string {
	if !src.OK() {
		return "(無法讀取館區資料)"
	}
	var lines []string
	for _, v := range src.Value {
		if b.courses.InternalVenuePrefix != "" && strings.HasPrefix(v.VenueName, b.courses.InternalVenuePrefix) {
			continue
		}
		line := fmt.Sprintf("%s（%s）", v.VenueName, v.Category)
		if v.URL != "" {
			line += " " + v.URL
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "(無館區資料)"
	}
	return strings.Join(lines, "\n")
}

func envNotesContext(src models.Source[string]) string {
	if !src.OK() {
		return "(無法讀取環教說明)"
	}
	return strings.TrimSpace(src.Value)
}

// AugmentWithNearby appends the nearby ranking and itinerary reference to
// a user message.
func AugmentWithNearby(message, nearby, itinerary string) string {
	return fmt.Sprintf("%s\n\n[系統提供：%s]\n\n[建議行程參考]\n%s", message, nearby, itinerary)
}
