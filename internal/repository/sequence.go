// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"

	"coachhub/internal/models"

	"gorm.io/gorm"
)

// Report number prefixes by report type.
var reportNumberPrefix = map[string]string{
	models.ReportTypeBug:     "BUG",
	models.ReportTypeFeature: "FEAT",
}

// SequenceAllocator hands out gap-free, monotonically increasing report
// numbers scoped per report type. Allocation is a single atomic statement;
// the service layer never does its own locking around it.
type SequenceAllocator interface {
	NextReportNumber(ctx context.Context, reportType string) (string, error)
}

type sequenceAllocator struct {
	db *gorm.DB
}

// NewSequenceAllocator creates a counter-backed sequence allocator.
func NewSequenceAllocator(db *gorm.DB) SequenceAllocator {
	return &sequenceAllocator{db: db}
}

func (a *sequenceAllocator) NextReportNumber(ctx context.Context, reportType string) (string, error) {
	prefix, ok := reportNumberPrefix[reportType]
	if !ok {
		return "", fmt.Errorf("unknown report type %q", reportType)
	}

	// Single upsert-returning statement so two concurrent submissions of the
	// same type can never observe the same value.
	var next int64
	err := a.db.WithContext(ctx).Raw(
		`INSERT INTO report_counters (report_type, current_value)
		 VALUES (?, 1)
		 ON CONFLICT (report_type)
		 DO UPDATE SET current_value = report_counters.current_value + 1
		 RETURNING current_value`,
		reportType,
	).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("allocate report number for %s: %w", reportType, err)
	}

	return fmt.Sprintf("%s-%04d", prefix, next), nil
}
