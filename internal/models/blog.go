package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogPost is a marketing/blog article managed by staff and served publicly.
type BlogPost struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Slug      string         `gorm:"unique;not null" json:"slug"`
	Title     string         `gorm:"not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Published bool           `gorm:"not null;default:false;index" json:"published"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
