package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo-assistant/models"
	"zoo-assistant/models/venue"
	services "zoo-assistant/service"
)

type stubRouter struct {
	mu       sync.Mutex
	messages []string
	result   models.RouteResult
}

func (s *stubRouter) Route(ctx context.Context, message string, now time.Time) models.RouteResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return s.result
}

type stubRecorder struct {
	mu      sync.Mutex
	userIDs []string
}

func (s *stubRecorder) RecordInterest(ctx context.Context, userID string, result models.RouteResult, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userIDs = append(s.userIDs, userID)
	return nil
}

type stubReplier struct {
	mu       sync.Mutex
	requests []*messaging_api.ReplyMessageRequest
}

func (s *stubReplier) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return &messaging_api.ReplyMessageResponse{}, nil
}

func TestQueryHandler_Query(t *testing.T) {
	router := &stubRouter{result: models.RouteResult{Reply: "入園門票：", Interest: models.InterestLow, Intent: models.IntentTicket}}
	recorder := &stubRecorder{}
	handler := WithRequestID(http.HandlerFunc(NewQueryHandler(router, recorder, time.Second).Query))

	req := httptest.NewRequest("POST", "/v1/query", strings.NewReader(`{"message":"門票多少錢","user_id":"U1"}`))
	req.Header.Set(REQUEST_ID_HEADER, "req-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, QueryResponse{RequestID: "req-1", Reply: "入園門票：", Interest: models.InterestLow, Intent: models.IntentTicket}, resp)
	assert.Equal(t, "req-1", rr.Header().Get(REQUEST_ID_HEADER))
	assert.Equal(t, []string{"門票多少錢"}, router.messages)
	assert.Equal(t, []string{"U1"}, recorder.userIDs)
}

func TestQueryHandler_GeneratesRequestID(t *testing.T) {
	handler := WithRequestID(http.HandlerFunc(NewQueryHandler(&stubRouter{}, nil, 0).Query))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/query", strings.NewReader(`{"message":""}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, rr.Header().Get(REQUEST_ID_HEADER), 36)
}

func TestQueryHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"message":`},
		{"message too long", `{"message":"` + strings.Repeat("a", MAX_QUERY_MESSAGE_CHARS+1) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := &stubRouter{}
			rr := httptest.NewRecorder()
			NewQueryHandler(router, nil, 0).Query(rr, httptest.NewRequest("POST", "/v1/query", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, router.messages)
		})
	}
}

func testVenueHandler() *VenueHandler {
	store := services.NewReferenceStore(&models.ReferenceData{Venues: models.Loaded([]venue.Venue{
		{VenueName: "甲館", Aliases: []string{"甲館"}, VenueLat: 0, VenueLon: 0, HasCoords: true},
		{VenueName: "乙館", Aliases: []string{"乙館"}, VenueLat: 0, VenueLon: 0.001, HasCoords: true},
		{VenueName: "丙館", Aliases: []string{"丙館"}, VenueLat: 0, VenueLon: 0.1, HasCoords: true},
	})})
	return NewVenueHandler(services.NewVenueService(store, nil, 6))
}

func TestVenueHandler_GetVenuesNearby(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		status   int
		expected []string
	}{
		{"by point with radius", "?lat=0&lon=0&radius=1", http.StatusOK, []string{"甲館", "乙館"}},
		{"by point unbounded", "?lat=0&lon=0", http.StatusOK, []string{"甲館", "乙館", "丙館"}},
		{"by venue name", "?venue=甲館", http.StatusOK, []string{"乙館", "丙館"}},
		{"unknown venue", "?venue=丁館", http.StatusNotFound, nil},
		{"missing lat", "?lon=0", http.StatusBadRequest, nil},
		{"lat out of range", "?lat=91&lon=0", http.StatusBadRequest, nil},
		{"negative radius", "?lat=0&lon=0&radius=-1", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			testVenueHandler().GetVenuesNearby(rr, httptest.NewRequest("GET", "/v1/venues/nearby"+tt.query, nil))

			require.Equal(t, tt.status, rr.Code)
			if tt.expected == nil {
				return
			}
			var resp NearbyResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			got := []string{}
			for _, v := range resp.Venues {
				got = append(got, v.VenueName)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPing(t *testing.T) {
	rr := httptest.NewRecorder()
	Ping(rr, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"pong"}`, rr.Body.String())
}

const testChannelSecret = "test-secret"

func signedWebhookRequest(body, secret string) *http.Request {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	req := httptest.NewRequest("POST", "/callback", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return req
}

const textMessageWebhook = `{
  "destination": "Ubot",
  "events": [{
    "type": "message",
    "mode": "active",
    "timestamp": 1770861600000,
    "webhookEventId": "01HTEST",
    "deliveryContext": {"isRedelivery": false},
    "source": {"type": "user", "userId": "U123"},
    "replyToken": "reply-token-1",
    "message": {"type": "text", "id": "1", "quoteToken": "q", "text": "門票多少錢"}
  }]
}`

func TestLineWebhookHandler_Callback(t *testing.T) {
	router := &stubRouter{result: models.RouteResult{Reply: "入園門票：", Interest: models.InterestLow, Intent: models.IntentTicket}}
	recorder := &stubRecorder{}
	replier := &stubReplier{}
	handler := NewLineWebhookHandler(testChannelSecret, replier, router, recorder, time.Second)

	rr := httptest.NewRecorder()
	handler.Callback(rr, signedWebhookRequest(textMessageWebhook, testChannelSecret))
	require.NoError(t, handler.Shutdown(context.Background()))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"門票多少錢"}, router.messages)
	assert.Equal(t, []string{"U123"}, recorder.userIDs)
	require.Len(t, replier.requests, 1)
	assert.Equal(t, "reply-token-1", replier.requests[0].ReplyToken)
	require.Len(t, replier.requests[0].Messages, 1)
	assert.Equal(t, messaging_api.TextMessage{Text: "入園門票："}, replier.requests[0].Messages[0])
}

func TestLineWebhookHandler_InvalidSignature(t *testing.T) {
	router := &stubRouter{}
	handler := NewLineWebhookHandler(testChannelSecret, &stubReplier{}, router, nil, time.Second)

	rr := httptest.NewRecorder()
	handler.Callback(rr, signedWebhookRequest(textMessageWebhook, "wrong-secret"))
	require.NoError(t, handler.Shutdown(context.Background()))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, router.messages)
}
