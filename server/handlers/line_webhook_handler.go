package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const MAX_EVENTS_PER_WEBHOOK = 100

// LineReplier sends a reply through the LINE Messaging API.
type LineReplier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// NewLineReplier creates the Messaging API client for a channel token.
func NewLineReplier(channelToken string) (LineReplier, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return client, nil
}

// LineWebhookHandler verifies LINE webhook calls, routes text messages and
// replies with the result. Events are processed after the 200 is sent.
type LineWebhookHandler struct {
	channelSecret string
	replier       LineReplier
	router        QueryRouter
	recorder      InterestRecorder
	timeout       time.Duration
	now           func() time.Time

	wg sync.WaitGroup
}

// NewLineWebhookHandler wires the webhook. recorder may be nil.
func NewLineWebhookHandler(channelSecret string, replier LineReplier, router QueryRouter, recorder InterestRecorder, timeout time.Duration) *LineWebhookHandler {
	return &LineWebhookHandler{
		channelSecret: channelSecret,
		replier:       replier,
		router:        router,
		recorder:      recorder,
		timeout:       timeout,
		now:           time.Now,
	}
}

// Callback handles POST /callback
func (h *LineWebhookHandler) Callback(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFrom(r.Context())
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			log.Printf("[LineWebhookHandler] %s Invalid webhook signature", requestID)
			http.Error(w, "Invalid signature", http.StatusBadRequest)
		} else {
			log.Printf("[LineWebhookHandler] %s Failed to parse webhook request: %v", requestID, err)
			http.Error(w, "Bad request", http.StatusBadRequest)
		}
		return
	}

	events := cb.Events
	if len(events) > MAX_EVENTS_PER_WEBHOOK {
		log.Printf("[LineWebhookHandler] %s Truncating %d events", requestID, len(events))
		events = events[:MAX_EVENTS_PER_WEBHOOK]
	}
	events = append([]webhook.EventInterface(nil), events...)

	w.WriteHeader(http.StatusOK)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[LineWebhookHandler] %s Panic while processing events: %v", requestID, rec)
			}
		}()
		ctx := context.WithValue(context.Background(), requestIDKey{}, requestID)
		for _, event := range events {
			h.processEvent(ctx, event)
		}
	}()
}

func (h *LineWebhookHandler) processEvent(ctx context.Context, event webhook.EventInterface) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return
	}
	text, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}
	userID := ""
	if src, ok := e.Source.(webhook.UserSource); ok {
		userID = src.UserId
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	now := h.now()
	result := h.router.Route(ctx, text.Text, now)
	recordInterest(ctx, h.recorder, userID, result, now)
	log.Printf("[LineWebhookHandler] %s Routed message as %s (%s)", RequestIDFrom(ctx), result.Intent, result.Interest)

	if e.ReplyToken == "" {
		return
	}
	if _, err := h.replier.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: e.ReplyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: result.Reply},
		},
	}); err != nil {
		log.Printf("[LineWebhookHandler] %s Failed to send reply: %v", RequestIDFrom(ctx), err)
	}
}

// Shutdown waits for in-flight event processing or ctx expiry.
func (h *LineWebhookHandler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
