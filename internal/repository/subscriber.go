package repository

import (
	"context"

	"coachhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriberRepository defines the interface for newsletter signups.
type SubscriberRepository interface {
	Subscribe(ctx context.Context, email string) error
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new newsletter subscriber repository.
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Subscribe(ctx context.Context, email string) error {
	// Re-subscribing the same address is a no-op.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.NewsletterSubscriber{Email: email}).Error
}
