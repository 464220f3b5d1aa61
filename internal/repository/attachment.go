package repository

import (
	"context"

	"coachhub/internal/models"

	"gorm.io/gorm"
)

// AttachmentRepository defines the interface for attachment metadata rows.
type AttachmentRepository interface {
	// CreateBatch inserts all rows in one transaction; either the whole batch
	// lands or none of it does.
	CreateBatch(ctx context.Context, attachments []*models.Attachment) error
	ListByReport(ctx context.Context, reportID uint) ([]*models.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) CreateBatch(ctx context.Context, attachments []*models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range attachments {
			if err := tx.Create(a).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *attachmentRepository) ListByReport(ctx context.Context, reportID uint) ([]*models.Attachment, error) {
	var attachments []*models.Attachment
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}
