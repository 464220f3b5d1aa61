package models

import (
	"time"
)

// NewsletterSubscriber is a single newsletter signup. Email is unique;
// re-subscribing is a no-op rather than an error.
type NewsletterSubscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
