package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Redis stores keys as <prefix>:<key> strings and publishes every write on a
// channel so other processes sharing the server see the change.
type Redis struct {
	client  *goredis.Client
	prefix  string
	channel string
	source  string
	log     *slog.Logger
}

var (
	_ Backend  = (*Redis)(nil)
	_ Notifier = (*Redis)(nil)
)

type RedisOpts struct {
	Client  *goredis.Client
	Prefix  string
	Channel string
	Logger  *slog.Logger
}

// changeMessage is the pub/sub payload. Source identifies the writing handle
// so it can skip its own announcements.
type changeMessage struct {
	Source   string  `json:"source"`
	Key      string  `json:"key"`
	NewValue *string `json:"new_value"`
}

func NewRedis(opts RedisOpts) *Redis {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	channel := opts.Channel
	if channel == "" {
		channel = "mealprep:changes"
	}

	return &Redis{
		client:  opts.Client,
		prefix:  opts.Prefix,
		channel: channel,
		source:  uuid.NewString(),
		log:     log,
	}
}

func (r *Redis) fullKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores data with no expiration and announces the change. A failed
// announcement is logged; the value itself is already stored.
func (r *Redis) Set(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.fullKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}

	value := string(data)
	payload, err := json.Marshal(changeMessage{Source: r.source, Key: key, NewValue: &value})
	if err != nil {
		return fmt.Errorf("redis encode change %q: %w", key, err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.log.Warn("STORE: Failed to publish change", "key", key, "channel", r.channel, "error", err)
	}
	return nil
}

// Subscribe listens on the change channel and returns changes published by
// other handles. The channel is closed when ctx is done.
func (r *Redis) Subscribe(ctx context.Context) (<-chan Change, error) {
	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close() // nolint: errcheck
		return nil, fmt.Errorf("redis subscribe %q: %w", r.channel, err)
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer ps.Close() // nolint: errcheck

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var cm changeMessage
				if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
					r.log.Warn("STORE: Dropping malformed change message", "channel", r.channel, "error", err)
					continue
				}
				if cm.Source == r.source {
					continue
				}
				c := Change{Key: cm.Key}
				if cm.NewValue != nil {
					c.NewValue = []byte(*cm.NewValue)
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
