package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"zoo-assistant/models"
)

const MAX_QUERY_MESSAGE_CHARS = 2000

// QueryRouter answers one message.
type QueryRouter interface {
	Route(ctx context.Context, message string, now time.Time) models.RouteResult
}

// InterestRecorder stores the interest label of a routed message.
type InterestRecorder interface {
	RecordInterest(ctx context.Context, userID string, result models.RouteResult, at time.Time) error
}

type QueryRequest struct {
	Message string `json:"message" validate:"max=2000"`
	UserID  string `json:"user_id,omitempty" validate:"omitempty,max=64"`
}

type QueryResponse struct {
	RequestID string               `json:"request_id"`
	Reply     string               `json:"reply"`
	Interest  models.InterestLabel `json:"interest,omitempty"`
	Intent    models.QueryIntent   `json:"intent"`
}

type QueryHandler struct {
	router   QueryRouter
	recorder InterestRecorder
	validate *validator.Validate
	timeout  time.Duration
	now      func() time.Time
}

// NewQueryHandler builds the JSON query endpoint. recorder may be nil.
func NewQueryHandler(router QueryRouter, recorder InterestRecorder, timeout time.Duration) *QueryHandler {
	return &QueryHandler{
		router:   router,
		recorder: recorder,
		validate: validator.New(),
		timeout:  timeout,
		now:      time.Now,
	}
}

// Query handles POST /v1/query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	now := h.now()
	result := h.router.Route(ctx, req.Message, now)
	recordInterest(ctx, h.recorder, req.UserID, result, now)

	writeJSON(w, http.StatusOK, QueryResponse{
		RequestID: RequestIDFrom(r.Context()),
		Reply:     result.Reply,
		Interest:  result.Interest,
		Intent:    result.Intent,
	})
}

func recordInterest(ctx context.Context, recorder InterestRecorder, userID string, result models.RouteResult, at time.Time) {
	if recorder == nil || userID == "" {
		return
	}
	if err := recorder.RecordInterest(ctx, userID, result, at); err != nil {
		log.Printf("[%s] Failed to record interest: %v", RequestIDFrom(ctx), err)
	}
}
