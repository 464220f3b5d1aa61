package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"coachhub/internal/middleware"
	"coachhub/internal/models"
	"coachhub/internal/repository"
	"coachhub/internal/storage"

	"github.com/google/uuid"
)

// MaxAttachmentsPerRequest caps how many files one upload call may carry.
const MaxAttachmentsPerRequest = 5

// MaxAttachmentSize caps a single file at 50MB.
const MaxAttachmentSize = 50 * 1024 * 1024

// allowedAttachmentExts is the upload allow-list, keyed by lowercase
// extension without the dot.
var allowedAttachmentExts = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"mp4":  true,
	"mov":  true,
	"avi":  true,
	"pdf":  true,
}

// AttachmentUpload is one file in an upload batch.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     []byte
}

// AttachmentService stages uploads into the object store and records their
// metadata. A batch lands whole or not at all.
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	reportRepo     repository.ReportRepository
	store          storage.ObjectStore
}

// NewAttachmentService wires the upload flow dependencies.
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	reportRepo repository.ReportRepository,
	store storage.ObjectStore,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		reportRepo:     reportRepo,
		store:          store,
	}
}

// Upload validates the batch, writes every object to the store, then inserts
// the metadata rows in one transaction. Any failure after objects have been
// written deletes the staged objects before returning.
func (s *AttachmentService) Upload(ctx context.Context, userID, reportID uint, files []AttachmentUpload) ([]*models.Attachment, error) {
	if len(files) == 0 {
		return nil, models.NewValidationError("No files provided")
	}
	if len(files) > MaxAttachmentsPerRequest {
		return nil, models.NewValidationError(
			fmt.Sprintf("A maximum of %d files may be uploaded per request", MaxAttachmentsPerRequest))
	}

	// The whole batch is validated before any object is written.
	for _, f := range files {
		if f.Size > MaxAttachmentSize {
			return nil, models.NewValidationError(
				fmt.Sprintf("File %s exceeds the 50MB size limit", f.FileName))
		}
		if !allowedAttachmentExts[fileExt(f.FileName)] {
			return nil, models.NewValidationError(
				fmt.Sprintf("File type of %s is not allowed", f.FileName))
		}
	}

	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	var stagedKeys []string
	rollback := func() {
		for _, key := range stagedKeys {
			if err := s.store.Delete(ctx, key); err != nil {
				middleware.Logger.Warn("failed to remove staged attachment",
					"key", key, "error", err)
			}
		}
	}

	attachments := make([]*models.Attachment, 0, len(files))
	for _, f := range files {
		key := attachmentKey(reportID, f.FileName)
		if err := s.store.Put(ctx, key, f.Content); err != nil {
			rollback()
			return nil, models.NewInternalError(err)
		}
		stagedKeys = append(stagedKeys, key)

		attachments = append(attachments, &models.Attachment{
			ReportID:   reportID,
			FileURL:    s.store.PublicURL(key),
			FileName:   f.FileName,
			FileSize:   f.Size,
			FileType:   f.ContentType,
			UploadedBy: userID,
		})
	}

	if err := s.attachmentRepo.CreateBatch(ctx, attachments); err != nil {
		rollback()
		return nil, err
	}
	return attachments, nil
}

// ListByReport returns a report's attachments oldest first.
func (s *AttachmentService) ListByReport(ctx context.Context, reportID uint) ([]*models.Attachment, error) {
	return s.attachmentRepo.ListByReport(ctx, reportID)
}

// attachmentKey builds a collision-free object key scoped to the report.
func attachmentKey(reportID uint, fileName string) string {
	ext := fileExt(fileName)
	return fmt.Sprintf("feedback/%d/%d-%s.%s",
		reportID, time.Now().UnixNano(), uuid.NewString()[:8], ext)
}

func fileExt(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}
