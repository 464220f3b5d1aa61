package models

import (
	"time"

	"gorm.io/gorm"
)

// Report types.
const (
	ReportTypeBug     = "bug"
	ReportTypeFeature = "feature"
)

// Report statuses. There is no enforced transition graph: staff may move a
// report between any two statuses, including back out of completed.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusQA         = "qa"
	StatusRejected   = "rejected"
	StatusCompleted  = "completed"
)

// Report priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidReportType reports whether t is a known report type.
func ValidReportType(t string) bool {
	return t == ReportTypeBug || t == ReportTypeFeature
}

// ValidStatus reports whether s is a known report status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusQA, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known report priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Report is a bug or feature-request record submitted by a user.
// ReportNumber is assigned once at creation from the type-scoped counter and
// never changes or gets reused afterwards.
type Report struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	ReportNumber     string  `gorm:"unique;not null" json:"report_number"`
	Type             string  `gorm:"not null;index" json:"type"`
	Title            string  `gorm:"not null" json:"title"`
	Description      string  `gorm:"type:text;not null" json:"description"`
	StepsToReproduce *string `gorm:"type:text" json:"steps_to_reproduce"`
	Priority         string  `gorm:"not null;default:medium" json:"priority"`
	Status           string  `gorm:"not null;default:open;index" json:"status"`
	SubmittedBy      uint    `gorm:"not null;index" json:"submitted_by"`
	SubmittedByRole  string  `gorm:"not null" json:"submitted_by_role"`
	// SubmittedByName is a snapshot taken at submission time; it is not kept
	// in sync with later profile changes.
	SubmittedByName string         `json:"submitted_by_name"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Enrichment fields computed from bulk lookups over the current page;
	// never persisted.
	VoteCount    int  `gorm:"-" json:"vote_count"`
	CommentCount int  `gorm:"-" json:"comment_count"`
	UserHasVoted bool `gorm:"-" json:"user_has_voted"`
}

// ReportCounter backs the sequence allocator. One row per report type; the
// value is advanced by a single atomic upsert so concurrent submissions can
// never observe the same number.
type ReportCounter struct {
	ReportType   string `gorm:"primaryKey" json:"report_type"`
	CurrentValue int64  `gorm:"not null;default:0" json:"current_value"`
}

// ReportStats aggregates report totals for the staff dashboard.
type ReportStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByType   map[string]int64 `json:"by_type"`
}
