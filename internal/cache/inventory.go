package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ReportKeyPrefix   = "report:%d"
	StatsKey          = "feedback:stats"
	BlogPostKeyPrefix = "blog:%s"
)

const (
	ReportTTL   = 5 * time.Minute
	StatsTTL    = 1 * time.Minute
	BlogPostTTL = 10 * time.Minute
)

func ReportKey(reportID uint) string {
	return fmt.Sprintf(ReportKeyPrefix, reportID)
}

func BlogPostKey(slug string) string {
	return fmt.Sprintf(BlogPostKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateReport(ctx context.Context, reportID uint) {
	Invalidate(ctx, ReportKey(reportID))
	Invalidate(ctx, StatsKey)
}

func InvalidateBlogPost(ctx context.Context, slug string) {
	Invalidate(ctx, BlogPostKey(slug))
}
