package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/next_order_seq.lua
var nextOrderSeqScript string

// Client wraps the shared Redis instance holding the daily order
// counter. The counter lives in a single hash under a fixed key with
// fields date_str (YYYYMMDD) and id (0-9999).
type Client struct {
	rdb           *redis.Client
	counterKey    string
	nextSeqScript *redis.Script
}

// NewClient creates a new Redis client with the counter script loaded
func NewClient(addr, password string, db int, counterKey string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		counterKey:    counterKey,
		nextSeqScript: redis.NewScript(nextOrderSeqScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// NextSequence advances the daily order counter atomically and
// returns today's next sequence number. Reset-on-date-change,
// increment and wrap all happen inside one Lua script, so two
// concurrent requests can never be handed the same value.
func (c *Client) NextSequence(ctx context.Context, dateStr string) (int, error) {
	result, err := c.nextSeqScript.Run(ctx, c.rdb, []string{c.counterKey}, dateStr).Result()
	if err != nil {
		return 0, fmt.Errorf("next sequence script failed: %w", err)
	}

	seq, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script result type %T", result)
	}

	return int(seq), nil
}

// CounterState reads the stored counter state, mainly for diagnostics.
func (c *Client) CounterState(ctx context.Context) (dateStr string, id int, err error) {
	result, err := c.rdb.HGetAll(ctx, c.counterKey).Result()
	if err != nil {
		return "", 0, err
	}

	if len(result) == 0 {
		return "", 0, nil
	}

	id, err = strconv.Atoi(result["id"])
	if err != nil {
		return "", 0, fmt.Errorf("corrupt counter id %q: %w", result["id"], err)
	}

	return result["date_str"], id, nil
}
