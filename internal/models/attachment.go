package models

import (
	"time"
)

// Attachment is a metadata row pointing at an object in the public asset
// store. Rows are only ever created as a batch tied to an existing report.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportID   uint      `gorm:"not null;index" json:"report_id"`
	FileURL    string    `gorm:"not null" json:"file_url"`
	FileName   string    `gorm:"not null" json:"file_name"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedBy uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps attachment rows under a report-scoped name.
func (Attachment) TableName() string {
	return "report_attachments"
}
