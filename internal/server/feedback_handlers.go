package server

import (
	"coachhub/internal/models"
	"coachhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitReport handles POST /api/feedback
func (s *Server) SubmitReport(c *fiber.Ctx) error {
	var req struct {
		Type             string `json:"type"`
		Title            string `json:"title"`
		Description      string `json:"description"`
		StepsToReproduce string `json:"steps_to_reproduce"`
		Priority         string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, role := currentUser(c)
	report, err := s.feedback.SubmitReport(c.UserContext(), service.SubmitReportInput{
		UserID:           userID,
		Role:             role,
		Type:             req.Type,
		Title:            req.Title,
		Description:      req.Description,
		StepsToReproduce: req.StepsToReproduce,
		Priority:         req.Priority,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// ListReports handles GET /api/feedback
func (s *Server) ListReports(c *fiber.Ctx) error {
	page, limit := parsePagination(c)
	userID, role := currentUser(c)

	reports, total, err := s.feedback.ListReports(c.UserContext(), service.ListReportsInput{
		UserID:    userID,
		Role:      role,
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		Search:    c.Query("search"),
		MyReports: c.QueryBool("my_reports"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reports,
		"total":   total,
	})
}

// GetReport handles GET /api/feedback/:id
func (s *Server) GetReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	userID, role := currentUser(c)
	detail, err := s.feedback.GetReportDetail(c.UserContext(), userID, role, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    detail,
	})
}

// GetReportStats handles GET /api/feedback/stats
func (s *Server) GetReportStats(c *fiber.Ctx) error {
	stats, err := s.feedback.Stats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// UpdateReportStatus handles PATCH /api/feedback/:id/status
func (s *Server) UpdateReportStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := currentUser(c)
	report, err := s.feedback.UpdateStatus(c.UserContext(), userID, id, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// UpdateReportPriority handles PATCH /api/feedback/:id/priority
func (s *Server) UpdateReportPriority(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	var req struct {
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := currentUser(c)
	report, err := s.feedback.UpdatePriority(c.UserContext(), userID, id, req.Priority)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// AddComment handles POST /api/feedback/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, role := currentUser(c)
	comment, err := s.feedback.AddComment(c.UserContext(), userID, role, id, req.Body)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    comment,
	})
}

// ListComments handles GET /api/feedback/:id/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	userID, role := currentUser(c)
	detail, err := s.feedback.GetReportDetail(c.UserContext(), userID, role, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    detail.Comments,
		"total":   len(detail.Comments),
	})
}

// ToggleVote handles POST /api/feedback/:id/vote
func (s *Server) ToggleVote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
	}

	userID, _ := currentUser(c)
	voted, err := s.feedback.ToggleVote(c.UserContext(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"voted":   voted,
	})
}
