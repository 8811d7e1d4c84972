package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zoo-assistant/db"
	"zoo-assistant/models"
)

const INTEREST_HISTORY_KEY_FORMAT_V1 = "zoo_interest_v1:%s"

// InterestRecord is one labelled reply sent to a user.
type InterestRecord struct {
	Interest  models.InterestLabel `json:"interest"`
	Intent    models.QueryIntent   `json:"intent"`
	Timestamp time.Time            `json:"ts"`
}

// RedisInterestDAO keeps an append-only, capped, newest-first list of
// interest labels per user.
type RedisInterestDAO struct {
	client db.RedisClient
	limit  int64
}

// NewRedisInterestDAO keeps at most limit records per user. A zero limit
// keeps everything.
func NewRedisInterestDAO(client db.RedisClient, limit int) *RedisInterestDAO {
	return &RedisInterestDAO{client: client, limit: int64(limit)}
}

// RecordInterest stores the outcome of one routed message. Results without
// a label are skipped.
func (dao *RedisInterestDAO) RecordInterest(ctx context.Context, userID string, result models.RouteResult, at time.Time) error {
	if userID == "" || result.Interest == models.InterestNone {
		return nil
	}
	data, err := json.Marshal(InterestRecord{Interest: result.Interest, Intent: result.Intent, Timestamp: at})
	if err != nil {
		return fmt.Errorf("failed to marshal interest record: %w", err)
	}
	key := fmt.Sprintf(INTEREST_HISTORY_KEY_FORMAT_V1, userID)
	if err := dao.client.PushCapped(ctx, key, string(data), dao.limit); err != nil {
		return fmt.Errorf("failed to record interest for %s: %w", userID, err)
	}
	return nil
}

// History returns the stored records for a user, newest first.
func (dao *RedisInterestDAO) History(ctx context.Context, userID string) ([]InterestRecord, error) {
	key := fmt.Sprintf(INTEREST_HISTORY_KEY_FORMAT_V1, userID)
	raw, err := dao.client.Range(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to read interest history for %s: %w", userID, err)
	}
	records := make([]InterestRecord, 0, len(raw))
	for _, r := range raw {
		var rec InterestRecord
		if err := json.Unmarshal([]byte(r), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interest record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
