package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// ReportCache handles Redis caching of aggregated analytics reports, keyed by
// form id and date range. The TTL is short: dashboards poll, and a stale
// window of a minute is acceptable in exchange for not re-aggregating on
// every request.
type ReportCache interface {
	Get(ctx context.Context, formID string, dateRange model.DateRange) (*model.AnalyticsReport, error)
	Set(ctx context.Context, formID string, dateRange model.DateRange, report *model.AnalyticsReport) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    time.Minute,
	}
}

func (c *reportCache) reportKey(formID string, dateRange model.DateRange) string {
	from, to := "-", "-"
	if dateRange.From != nil {
		from = dateRange.From.UTC().Format(time.RFC3339)
	}
	if dateRange.To != nil {
		to = dateRange.To.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("form:%s:report:%s:%s", formID, from, to)
}

func (c *reportCache) Get(ctx context.Context, formID string, dateRange model.DateRange) (*model.AnalyticsReport, error) {
	data, err := c.client.Get(ctx, c.reportKey(formID, dateRange)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.AnalyticsReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) Set(ctx context.Context, formID string, dateRange model.DateRange, report *model.AnalyticsReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.reportKey(formID, dateRange), data, c.ttl).Err()
}
