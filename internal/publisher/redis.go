package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamProjectionRuns is the stream downstream consumers (dashboards,
// alerting) read completed runs from.
const StreamProjectionRuns = "projections.runs.basketball_nba"

// RedisPublisher publishes events to Redis streams
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishProjectionRun publishes a completed projection run to the stream
func (rp *RedisPublisher) PublishProjectionRun(ctx context.Context, runData interface{}) error {
	data, err := json.Marshal(runData)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamProjectionRuns,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
