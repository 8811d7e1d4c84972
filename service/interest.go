package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"zoo-assistant/models"
)

const (
	emptyReplyText     = "（無法產生回覆，請再試一次。）"
	truncationNotice   = "\n\n（回覆過長已截斷，請縮小問題範圍再問。）"
	interestTagPattern = `(?i)^\s*\[興趣度\s*[:：]\s*(\w+)\s*\]\s*$`
)

var interestTag = regexp.MustCompile(interestTagPattern)

// SplitInterest extracts the interest tag from the first line of a
// completion. When the first line is a tag it is removed from the visible
// text; otherwise the label is InterestNone and the text is kept whole.
func SplitInterest(reply string) (string, models.InterestLabel) {
	trimmed := strings.TrimSpace(reply)
	first, rest, _ := strings.Cut(trimmed, "\n")
	m := interestTag.FindStringSubmatch(first)
	if m == nil {
		return trimmed, models.InterestNone
	}

	label, _ := models.ParseInterestLabel(strings.ToLower(m[1]))
	visible := strings.TrimSpace(rest)
	if visible == "" {
		visible = emptyReplyText
	}
	return visible, label
}

// Truncate bounds text to maxRunes runes, notice included.
func Truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	keep := maxRunes - utf8.RuneCountInString(truncationNotice)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(text)[:keep]) + truncationNotice
}
