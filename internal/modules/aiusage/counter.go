// README: Redis per-day model counters (HINCRBY on usage:<date>).
package aiusage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const counterKeyPrefix = "usage:%s"

// Counter keeps success/failure counts per model per UTC day.
type Counter struct {
	redis *redis.Client
}

func NewCounter(redis *redis.Client) *Counter {
	return &Counter{redis: redis}
}

func counterKey(u Usage) string {
	return fmt.Sprintf(counterKeyPrefix, u.At.UTC().Format("2006-01-02"))
}

func counterField(u Usage) string {
	outcome := "fail"
	if u.Success {
		outcome = "ok"
	}
	return u.Model + ":" + outcome
}

// Record increments one hash field per record and refreshes the key TTL.
func (c *Counter) Record(ctx context.Context, records []Usage) error {
	if len(records) == 0 {
		return nil
	}
	pipe := c.redis.TxPipeline()
	keys := map[string]struct{}{}
	for _, u := range records {
		key := counterKey(u)
		pipe.HIncrBy(ctx, key, counterField(u), 1)
		keys[key] = struct{}{}
	}
	for key := range keys {
		pipe.Expire(ctx, key, counterTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Counts returns the counters for the given UTC day (YYYY-MM-DD).
func (c *Counter) Counts(ctx context.Context, day string) (map[string]string, error) {
	return c.redis.HGetAll(ctx, fmt.Sprintf(counterKeyPrefix, day)).Result()
}
