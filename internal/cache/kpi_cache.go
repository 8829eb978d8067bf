// Package cache publishes the KPI snapshot of a run to Redis for dashboard
// consumers. Like the warehouse, it is write-only from the pipeline's point of
// view and optional.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"policy-analytics/internal/config"
	"policy-analytics/internal/report"
)

const (
	latestKPIKey = "analytics:kpi:latest"
	runKPIPrefix = "analytics:kpi:run:"

	// Per-run snapshots expire; the latest pointer never does.
	runSnapshotTTL = 30 * 24 * time.Hour
)

// Client wraps the Redis connection used for KPI snapshots.
type Client struct {
	client *redis.Client
}

// NewClient connects and verifies the connection with a bounded ping.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// StoreKPIs writes the snapshot under both the latest key and a per-run key,
// so dashboards can show the current figures and still diff against history.
func (c *Client) StoreKPIs(ctx context.Context, k report.KPISet) error {
	payload, err := json.Marshal(k)
	if err != nil {
		return fmt.Errorf("failed to marshal KPI snapshot: %w", err)
	}

	if err := c.client.Set(ctx, latestKPIKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store latest KPI snapshot: %w", err)
	}
	runKey := runKPIPrefix + k.RunID.String()
	if err := c.client.Set(ctx, runKey, payload, runSnapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store KPI snapshot for run %s: %w", k.RunID, err)
	}
	return nil
}

// LatestKPIs reads back the current snapshot. Used by operational checks, not
// by the pipeline itself.
func (c *Client) LatestKPIs(ctx context.Context) (report.KPISet, error) {
	payload, err := c.client.Get(ctx, latestKPIKey).Bytes()
	if err != nil {
		return report.KPISet{}, fmt.Errorf("failed to read latest KPI snapshot: %w", err)
	}
	var k report.KPISet
	if err := json.Unmarshal(payload, &k); err != nil {
		return report.KPISet{}, fmt.Errorf("failed to decode KPI snapshot: %w", err)
	}
	return k, nil
}
