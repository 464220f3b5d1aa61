package repository

import (
	"context"

	"coachhub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for report comment operations.
// Comments are append-only; there is no update or delete.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByReport(ctx context.Context, reportID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListByReport(ctx context.Context, reportID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
