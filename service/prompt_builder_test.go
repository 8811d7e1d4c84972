package services

import (
	"fmt"
	"strings"
	"testing"

	"zoo-assistant/config"
	"zoo-assistant/models"
	"zoo-assistant/models/course"
	"zoo-assistant/models/venue"

	"github.com/stretchr/testify/assert"
)

func TestPromptBuilder_CoursesContext(t *testing.T) {
	b := NewPromptBuilder(config.DefaultAppConfig().Courses)
	rows := []course.CourseRow{
		{Category: "D_Category", Topic: "內部"},
		{Category: "導覽", Topic: "夜間觀察", Weekday: "週六", Time: "19:00", Location: "大門", Cert: "是", EnvHours: "2"},
		{Category: "講座", Topic: "保育"},
	}

	text := b.CoursesContext(models.Loaded(rows))

	assert.Equal(t,
		"類別:導覽 | 主題:夜間觀察 | 星期:週六 | 時間:19:00 | 地點:大門 | 認證:是 | 時數:2\n類別:講座 | 主題:保育",
		text)
	assert.Equal(t, "(無法讀取課程資料)", b.CoursesContext(models.Failed[[]course.CourseRow](models.ErrDataSourceUnavailable)))
}

func TestPromptBuilder_CoursesContextRowLimit(t *testing.T) {
	courses := config.DefaultAppConfig().Courses
	courses.ContextMaxRows = 3
	b := NewPromptBuilder(courses)

	var rows []course.CourseRow
	for i := 0; i < 10; i++ {
		rows = append(rows, course.CourseRow{Category: "講座", Topic: fmt.Sprintf("主題%d", i)})
	}

	lines := strings.Split(b.CoursesContext(models.Loaded(rows)), "\n")

	assert.Len(t, lines, 3)
}

func TestPromptBuilder_SystemPrompt(t *testing.T) {
	b := NewPromptBuilder(config.DefaultAppConfig().Courses)
	ref := &models.ReferenceData{
		Venues: models.Loaded([]venue.Venue{
			{VenueName: "E_測試", Category: "內部"},
			{VenueName: "鳥園", Category: "戶外", URL: "https://example.org/bird"},
			{VenueName: "大貓熊館", Category: "室內"},
		}),
		Courses:     models.Loaded([]course.CourseRow{}),
		EnvEduNotes: models.Loaded("  環教時數說明  \n"),
	}

	prompt := b.SystemPrompt(ref)

	assert.Contains(t, prompt, "【館區】\n鳥園（戶外） https://example.org/bird\n大貓熊館（室內）\n")
	assert.NotContains(t, prompt, "E_測試")
	assert.Contains(t, prompt, "【課程資料（部分）】\n(無課程資料)")
	assert.Contains(t, prompt, "【環境教育說明】\n環教時數說明\n")
	assert.Contains(t, prompt, "[興趣度: high_interest]")
}

func TestAugmentWithNearby(t *testing.T) {
	assert.Equal(t,
		"接下來去哪\n\n[系統提供：距離「鳥園」由近到遠的館區：]\n\n[建議行程參考]\n半日遊",
		AugmentWithNearby("接下來去哪", "距離「鳥園」由近到遠的館區：", "半日遊"))
}
