package redis

import (
	"context"
	"errors"

	"homework-status-bot/internal/config"

	"github.com/go-redis/redis/v8"
)

// Client wraps the go-redis client used for the poller lease.
type Client struct {
	cli *redis.Client
}

// NewClient builds the client without dialing; go-redis connects lazily.
// cfg.URL is either a redis:// URL or host:port.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("redis url is empty")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.URL}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return &Client{cli: redis.NewClient(opts)}, nil
}

func (c *Client) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *Client) Close() error { return c.cli.Close() }
