package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	goredis "github.com/redis/go-redis/v9"

	"mealprep"
	"mealprep/store"
)

// openBackend returns the configured backend, its change notifier when it has
// one, and a cleanup func.
func openBackend(ctx context.Context, cfg mealprep.StorageConfig, log *slog.Logger) (store.Backend, store.Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "memory":
		m := store.NewMemory()
		return m, m, noop, nil

	case "file":
		return store.NewFile(cfg.Dir), nil, noop, nil

	case "s3":
		if cfg.S3Bucket == "" {
			return nil, nil, noop, fmt.Errorf("MEALPREP_S3_BUCKET must be set for the s3 backend")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, nil, noop, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return store.NewS3(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil, noop, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, noop, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		r := store.NewRedis(store.RedisOpts{
			Client:  client,
			Prefix:  cfg.RedisPrefix,
			Channel: cfg.RedisChannel,
			Logger:  log,
		})
		return r, r, client.Close, nil
	}

	return nil, nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
