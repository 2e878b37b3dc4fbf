package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/redis/go-redis/v9"
)

// EditSessions keeps the per-day slot buffers of in-progress availability
// edits between requests. Sessions expire after ttl of inactivity.
type EditSessions struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewEditSessions(client redis.Cmdable, ttl time.Duration) *EditSessions {
	return &EditSessions{client: client, ttl: ttl}
}

// Load returns the buffered slots for day. ok is false when no session is open.
func (s *EditSessions) Load(ctx context.Context, providerID uint, day availability.Weekday) (slots []availability.TimeSlot, ok bool, err error) {
	raw, err := s.client.Get(ctx, editKey(providerID, day)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false, fmt.Errorf("decode edit session: %w", err)
	}
	if slots == nil {
		slots = []availability.TimeSlot{}
	}
	return slots, true, nil
}

// Save stores the buffer and refreshes the session expiry.
func (s *EditSessions) Save(ctx context.Context, providerID uint, day availability.Weekday, slots []availability.TimeSlot) error {
	if slots == nil {
		slots = []availability.TimeSlot{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, editKey(providerID, day), string(data), s.ttl).Err()
}

func (s *EditSessions) Delete(ctx context.Context, providerID uint, day availability.Weekday) error {
	return s.client.Del(ctx, editKey(providerID, day)).Err()
}
