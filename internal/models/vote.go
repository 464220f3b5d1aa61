package models

import (
	"time"
)

// Vote represents a user's endorsement of a report.
// The combination of ReportID and UserID must be unique; toggle semantics are
// enforced by the constraint (insert-on-conflict-do-nothing, then delete),
// never by a check-then-act read.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  uint      `gorm:"not null;uniqueIndex:idx_report_user" json:"report_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_report_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps vote rows under a report-scoped name.
func (Vote) TableName() string {
	return "report_votes"
}
