package services

import (
	"errors"
	"testing"
	"time"

	"zoo-assistant/config"
	"zoo-assistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taipei = time.FixedZone("UTC+8", 8*3600)

// 2026-02-12 is a Thursday.
var thursdayInWindow = time.Date(2026, 2, 12, 10, 0, 0, 0, taipei)

func newTestNormalizer(policy config.WeekdayWindowPolicy) *DateNormalizer {
	courses := config.DefaultAppConfig().Courses
	courses.WeekdayWindowPolicy = policy
	return NewDateNormalizer(config.DefaultVocabulary(), courses)
}

func TestDateNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer(config.WeekdayWindowNow)

	tests := []struct {
		name     string
		message  string
		expected models.Weekday
		found    bool
	}{
		{"today", "今天有什麼課", models.Thursday, true},
		{"today alternate", "今日活動", models.Thursday, true},
		{"tomorrow", "明天有課嗎", models.Friday, true},
		{"day after tomorrow", "後天呢", models.Saturday, true},
		{"yesterday", "昨天的課", models.Wednesday, true},
		{"day before yesterday", "前天的課", models.Tuesday, true},
		{"weekday short form", "週三有什麼", models.Wednesday, true},
		{"weekday long form", "星期五的課程", models.Friday, true},
		{"sunday as tian", "星期天可以去嗎", models.Sunday, true},
		{"relative beats weekday", "今天是週一嗎", models.Thursday, true},
		{"weekday beats date", "2/14週一", models.Monday, true},
		{"calendar date slash", "2/14有課嗎", models.Saturday, true},
		{"calendar date month day", "2月16號的課", models.Monday, true},
		{"year prefixed date", "2026/3/8有課嗎", models.Sunday, true},
		{"year prefixed month day", "2026年3月8日的課", models.Sunday, true},
		{"first valid date wins", "2/30或2/14有課嗎", models.Saturday, true},
		{"impossible month", "13/40有課嗎", "", false},
		{"impossible day", "2/30有課嗎", "", false},
		{"no signal", "你好", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weekday, found := n.Normalize(tt.message, thursdayInWindow)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, weekday)
		})
	}
}

func TestDateNormalizer_CheckCourseWindow(t *testing.T) {
	march := time.Date(2026, 3, 5, 10, 0, 0, 0, taipei)
	endOfFebruary := time.Date(2026, 2, 28, 10, 0, 0, 0, taipei)

	tests := []struct {
		name          string
		policy        config.WeekdayWindowPolicy
		message       string
		now           time.Time
		expectedMonth int
	}{
		{"explicit date in another month", config.WeekdayWindowNow, "3/8有課嗎", thursdayInWindow, 3},
		{"explicit date in window", config.WeekdayWindowNow, "2/14有課嗎", thursdayInWindow, 0},
		{"year prefixed date in another month", config.WeekdayWindowNow, "2026/3/8有課嗎", thursdayInWindow, 3},
		{"relative date crossing month", config.WeekdayWindowNow, "明天有課嗎", endOfFebruary, 3},
		{"relative date in window", config.WeekdayWindowNow, "今天有課嗎", thursdayInWindow, 0},
		{"weekday while now outside window", config.WeekdayWindowNow, "週六有課嗎", march, 3},
		{"weekday ignored by policy", config.WeekdayWindowIgnore, "週六有課嗎", march, 0},
		{"weekday while now inside window", config.WeekdayWindowNow, "週六有課嗎", thursdayInWindow, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestNormalizer(tt.policy).CheckCourseWindow(tt.message, tt.now)
			if tt.expectedMonth == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrOutOfRange)
			var rangeErr *OutOfRangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.expectedMonth, rangeErr.Month)
		})
	}
}
