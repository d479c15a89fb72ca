package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/domain"
)

const reportsKey = "quiz:reports"

// ReportArchive pushes exported reports onto a Redis list, newest first.
type ReportArchive struct {
	client *redis.Client
	limit  int64
}

// NewReportArchive keeps at most limit reports; limit <= 0 keeps all.
func NewReportArchive(client *redis.Client, limit int64) *ReportArchive {
	return &ReportArchive{client: client, limit: limit}
}

func (a *ReportArchive) Archive(ctx context.Context, report domain.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	pipe := a.client.TxPipeline()
	pipe.LPush(ctx, reportsKey, raw)
	if a.limit > 0 {
		pipe.LTrim(ctx, reportsKey, 0, a.limit-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("archive report: %w", err)
	}
	return nil
}

// Recent returns up to n archived reports, newest first.
func (a *ReportArchive) Recent(ctx context.Context, n int64) ([]domain.Report, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := a.client.LRange(ctx, reportsKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	reports := make([]domain.Report, 0, len(raws))
	for _, raw := range raws {
		var r domain.Report
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
