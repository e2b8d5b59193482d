package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"habitfree/internal/model"
	"habitfree/internal/service"
)

var (
	_ service.Sink    = (*Ledger)(nil)
	_ service.Locker  = (*Ledger)(nil)
	_ service.History = (*Ledger)(nil)
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

// Ledger records deliveries in redis and provides the delivery run lock.
type Ledger struct {
	redis redis.Cmdable
	// keep bounds each user's history list.
	keep int64
}

// NewLedger builds a Ledger keeping up to keep deliveries per user.
func NewLedger(client redis.Cmdable, keep int64) *Ledger {
	if keep <= 0 {
		keep = 500
	}
	return &Ledger{redis: client, keep: keep}
}

func (l *Ledger) Name() string { return "redis" }

func deliveryKey(messageID int64) string {
	return fmt.Sprintf("delivered_message:%d", messageID)
}

func historyKey(userID int64) string {
	return fmt.Sprintf("delivered:%d", userID)
}

// Deliver stores the delivery as a hash and prepends it to the owner's history.
func (l *Ledger) Deliver(ctx context.Context, d model.Delivery) error {
	values := map[string]interface{}{
		"run_id":       d.RunID,
		"message_id":   d.MessageID,
		"user_id":      d.UserID,
		"username":     d.Username,
		"message":      d.Text,
		"send_date":    d.SendDate,
		"delivered_at": d.DeliveredAt.Format(time.RFC3339Nano),
	}

	if err := l.redis.HSet(ctx, deliveryKey(d.MessageID), values).Err(); err != nil {
		return err
	}
	if err := l.redis.LPush(ctx, historyKey(d.UserID), d.MessageID).Err(); err != nil {
		return err
	}
	return l.trim(ctx, d.UserID)
}

// trim drops history entries past keep along with their hashes.
func (l *Ledger) trim(ctx context.Context, userID int64) error {
	overflow, err := l.redis.LRange(ctx, historyKey(userID), l.keep, -1).Result()
	if err != nil {
		return err
	}
	if len(overflow) > 0 {
		keys := make([]string, 0, len(overflow))
		for _, id := range overflow {
			messageID, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				continue
			}
			keys = append(keys, deliveryKey(messageID))
		}
		if len(keys) > 0 {
			if err := l.redis.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return l.redis.LTrim(ctx, historyKey(userID), 0, l.keep-1).Err()
}

// ListDelivered pages through a user's history, newest first.
func (l *Ledger) ListDelivered(ctx context.Context, userID int64, offset, limit int) ([]model.Delivery, int, error) {
	total, err := l.redis.LLen(ctx, historyKey(userID)).Result()
	if err != nil {
		return nil, 0, err
	}

	ids, err := l.redis.LRange(ctx, historyKey(userID), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, err
	}

	deliveries := make([]model.Delivery, 0, len(ids))
	for _, id := range ids {
		messageID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		fields, err := l.redis.HGetAll(ctx, deliveryKey(messageID)).Result()
		if err != nil {
			return nil, 0, err
		}
		if len(fields) == 0 {
			continue
		}
		deliveries = append(deliveries, parseDelivery(messageID, userID, fields))
	}

	return deliveries, int(total), nil
}

func parseDelivery(messageID, userID int64, fields map[string]string) model.Delivery {
	d := model.Delivery{
		RunID:     fields["run_id"],
		MessageID: messageID,
		UserID:    userID,
		Username:  fields["username"],
		Text:      fields["message"],
		SendDate:  fields["send_date"],
	}
	if at, err := time.Parse(time.RFC3339Nano, fields["delivered_at"]); err == nil {
		d.DeliveredAt = at
	}
	return d
}

// Acquire takes the lock at key for ttl unless another token holds it.
func (l *Ledger) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return l.redis.SetNX(ctx, key, token, ttl).Result()
}

// Release drops the lock at key if token still owns it.
func (l *Ledger) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, l.redis, []string{key}, token).Err()
}
