package server

import (
	"io"

	"coachhub/internal/models"
	"coachhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadAttachments handles POST /api/feedback/:id/attachments. Files arrive
// as multipart form fields named "files".
func (s *Server) UploadAttachments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No files provided"))
	}
	if len(headers) > service.MaxAttachmentsPerRequest {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Too many files in one request"))
	}

	uploads := make([]service.AttachmentUpload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable file: "+h.Filename))
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable file: "+h.Filename))
		}
		uploads = append(uploads, service.AttachmentUpload{
			FileName:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Content:     content,
		})
	}

	userID, _ := currentUser(c)
	attachments, err := s.attachments.Upload(c.UserContext(), userID, id, uploads)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    attachments,
		"total":   len(attachments),
	})
}

// ListAttachments handles GET /api/feedback/:id/attachments
func (s *Server) ListAttachments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	attachments, err := s.attachments.ListByReport(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    attachments,
		"total":   len(attachments),
	})
}
