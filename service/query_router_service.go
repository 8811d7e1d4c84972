package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"zoo-assistant/api/openai"
	"zoo-assistant/config"
	"zoo-assistant/models"
)

const (
	greetingText       = "您好！我是動物園環境教育小幫手。\n可以問我：門票、開放時間、公休、交通、遊園須知、建議行程、某天的課程，或「我在大貓熊館附近有什麼」。"
	missingAPIKeyText  = "尚未設定 OPENAI_API_KEY，無法使用智慧回覆。"
	collaboratorFailed = "回覆時發生錯誤，請稍後再試。"
	outOfRangeTemplate = "很抱歉，由於系統尚未更新課表，%d月的課程資訊請至官網查詢喔！\n官網：%s"
)

// QueryRouterService routes one message to the first engine able to
// answer it, falling back to the completion service.
type QueryRouterService struct {
	store      *ReferenceStore
	completion openai.CompletionAPI
	vocab      *config.Vocabulary
	reply      config.ReplyConfig

	nearby     *NearbyEngine
	visitor    *VisitorInfoService
	normalizer *DateNormalizer
	courses    *CourseAggregator
	prompts    *PromptBuilder
}

// NewQueryRouterService wires the engines. completion may be nil when no
// API key is configured.
func NewQueryRouterService(
	store *ReferenceStore,
	completion openai.CompletionAPI,
	vocab *config.Vocabulary,
	courses config.CoursesConfig,
	reply config.ReplyConfig,
) *QueryRouterService {
	return &QueryRouterService{
		store:      store,
		completion: completion,
		vocab:      vocab,
		reply:      reply,
		nearby:     NewNearbyEngine(vocab, reply.NearbyTopN),
		visitor:    NewVisitorInfoService(vocab, NewClosureEngine(vocab.HolidayClosures), reply),
		normalizer: NewDateNormalizer(vocab, courses),
		courses:    NewCourseAggregator(courses.InternalCategoryPrefix),
		prompts:    NewPromptBuilder(courses),
	}
}

// Route never fails: every error is turned into a reply.
func (s *QueryRouterService) Route(ctx context.Context, message string, now time.Time) models.RouteResult {
	message = strings.TrimSpace(message)
	now = now.In(s.reply.Location())
	if message == "" {
		return models.RouteResult{Reply: greetingText, Intent: models.IntentOpenEnded}
	}

	ref := s.store.Snapshot()

	if result, ok := s.routeNearby(ctx, message, ref); ok {
		return result
	}

	if intent, ok := s.visitor.Classify(message); ok {
		interest := models.InterestLow
		if intent == models.IntentItinerary {
			interest = models.InterestMaybe
		}
		log.Printf("[QueryRouterService] Visitor query classified as %s", intent)
		return s.finish(models.RouteResult{
			Reply:    s.visitor.Answer(intent, message, ref, now),
			Interest: interest,
			Intent:   intent,
		})
	}

	if result, ok := s.routeCourses(message, ref, now); ok {
		return result
	}

	reply, interest, _ := s.complete(ctx, s.prompts.SystemPrompt(ref), message)
	return s.finish(models.RouteResult{Reply: reply, Interest: interest, Intent: models.IntentOpenEnded})
}

func (s *QueryRouterService) routeNearby(ctx context.Context, message string, ref *models.ReferenceData) (models.RouteResult, bool) {
	if !s.nearby.HasTrigger(message) || !ref.Venues.OK() {
		return models.RouteResult{}, false
	}
	venues := ref.Venues.Value
	current, ok := s.nearby.FindCurrentVenue(message, venues)
	if !ok {
		return models.RouteResult{}, false
	}
	nearbyText := NearbyText(current, RankNearby(current, venues, s.reply.NearbyTopN))

	if !s.nearby.WantsItinerary(message) {
		return s.finish(models.RouteResult{Reply: nearbyText, Interest: models.InterestLow, Intent: models.IntentNearby}), true
	}

	itinerary := s.visitor.section(ref.VisitorInfo, s.vocab.ItinerarySection)
	reply, interest, answered := s.complete(ctx, s.prompts.SystemPrompt(ref), AugmentWithNearby(message, nearbyText, itinerary))
	if answered && interest == models.InterestNone {
		interest = models.InterestLow
	}
	return s.finish(models.RouteResult{Reply: reply, Interest: interest, Intent: models.IntentNearby}), true
}

func (s *QueryRouterService) routeCourses(message string, ref *models.ReferenceData, now time.Time) (models.RouteResult, bool) {
	weekday, ok := s.normalizer.Normalize(message, now)
	if !ok {
		return models.RouteResult{}, false
	}

	var outOfRange *OutOfRangeError
	if err := s.normalizer.CheckCourseWindow(message, now); errors.As(err, &outOfRange) {
		log.Printf("[QueryRouterService] Course query outside data window: %v", err)
		return s.finish(models.RouteResult{
			Reply:    fmt.Sprintf(outOfRangeTemplate, outOfRange.Month, s.reply.OfficialSiteURL),
			Interest: models.InterestLow,
			Intent:   models.IntentCourseUnavailable,
		}), true
	}

	if !ref.Courses.OK() {
		log.Printf("[QueryRouterService] Course source unavailable, falling back to completion: %v", ref.Courses.Err)
		return models.RouteResult{}, false
	}

	schedule := s.courses.Schedule(ref.Courses.Value, weekday)
	if schedule.Empty() {
		return s.finish(models.RouteResult{
			Reply:    NoCoursesText(weekday),
			Interest: models.InterestLow,
			Intent:   models.IntentCourseByDate,
		}), true
	}
	return s.finish(models.RouteResult{
		Reply:    fmt.Sprintf("以下是%s的課程：\n\n%s\n\n%s", weekday, schedule.Summary, schedule.Detail),
		Interest: models.InterestMaybe,
		Intent:   models.IntentCourseByDate,
	}), true
}

// complete calls the completion service and splits off the interest tag.
// answered is false when the reply is a fixed failure text.
func (s *QueryRouterService) complete(ctx context.Context, systemPrompt, userMessage string) (reply string, interest models.InterestLabel, answered bool) {
	if s.completion == nil {
		return missingAPIKeyText, models.InterestNone, false
	}
	text, err := s.completion.Complete(ctx, systemPrompt, userMessage)
	if errors.Is(err, openai.ErrMissingAPIKey) {
		return missingAPIKeyText, models.InterestNone, false
	}
	if err != nil {
		log.Printf("[QueryRouterService] %v", fmt.Errorf("%w: %w", models.ErrCollaboratorFailure, err))
		return collaboratorFailed, models.InterestNone, false
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("[QueryRouterService] %v: empty completion", models.ErrCollaboratorFailure)
		return collaboratorFailed, models.InterestNone, false
	}
	reply, interest = SplitInterest(text)
	return reply, interest, true
}

func (s *QueryRouterService) finish(result models.RouteResult) models.RouteResult {
	result.Reply = Truncate(result.Reply, s.reply.MaxChars)
	return result
}
