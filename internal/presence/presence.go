package presence

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tracker records which users currently hold live gateway connections.
type Tracker interface {
	SetOnline(ctx context.Context, userID int) error
	SetOffline(ctx context.Context, userID int) error
	IsOnline(ctx context.Context, userID int) (bool, error)
	LastSeen(ctx context.Context, userID int) (time.Time, error)
}

// onlineTTL bounds how long a crashed instance can leave a user marked
// online; the gateway re-arms the key on a timer while a connection lives.
const onlineTTL = 5 * time.Minute

// RedisTracker stores presence in Redis so every instance sees the same view.
type RedisTracker struct {
	client *redis.Client
}

// NewRedisTracker connects to Redis, or returns a noop tracker when the
// address is empty or unreachable.
func NewRedisTracker(addr string) Tracker {
	if addr == "" {
		log.Printf("presence disabled, using noop: empty redis addr")
		return noopTracker{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("presence disabled, using noop: %v", err)
		return noopTracker{}
	}

	log.Printf("presence tracker connected addr=%s", addr)
	return &RedisTracker{client: client}
}

func onlineKey(userID int) string {
	return "presence:online:" + strconv.Itoa(userID)
}

func lastSeenKey(userID int) string {
	return "presence:last_seen:" + strconv.Itoa(userID)
}

// SetOnline marks the user online and stamps last-seen.
func (t *RedisTracker) SetOnline(ctx context.Context, userID int) error {
	pipe := t.client.Pipeline()
	pipe.Set(ctx, onlineKey(userID), "1", onlineTTL)
	pipe.Set(ctx, lastSeenKey(userID), time.Now().UTC().Format(time.RFC3339), 0)
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline clears the online flag and stamps last-seen.
func (t *RedisTracker) SetOffline(ctx context.Context, userID int) error {
	pipe := t.client.Pipeline()
	pipe.Del(ctx, onlineKey(userID))
	pipe.Set(ctx, lastSeenKey(userID), time.Now().UTC().Format(time.RFC3339), 0)
	_, err := pipe.Exec(ctx)
	return err
}

// IsOnline reports whether the user has a live connection somewhere.
func (t *RedisTracker) IsOnline(ctx context.Context, userID int) (bool, error) {
	count, err := t.client.Exists(ctx, onlineKey(userID)).Result()
	return count > 0, err
}

// LastSeen returns when the user was last connected, zero when unknown.
func (t *RedisTracker) LastSeen(ctx context.Context, userID int) (time.Time, error) {
	val, err := t.client.Get(ctx, lastSeenKey(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, val)
}

type noopTracker struct{}

func (noopTracker) SetOnline(context.Context, int) error  { return nil }
func (noopTracker) SetOffline(context.Context, int) error { return nil }
func (noopTracker) IsOnline(context.Context, int) (bool, error) {
	return false, nil
}
func (noopTracker) LastSeen(context.Context, int) (time.Time, error) {
	return time.Time{}, nil
}
