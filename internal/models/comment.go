package models

import (
	"time"
)

// Comment is an append-only remark attached to a report. UserName and
// UserRole are denormalized at post time.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  uint      `gorm:"not null;index" json:"report_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	UserRole  string    `gorm:"not null" json:"user_role"`
	UserName  string    `json:"user_name"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps comment rows under a report-scoped name.
func (Comment) TableName() string {
	return "report_comments"
}
