package server

import (
	"strings"

	"coachhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListBlogPosts handles GET /api/blog
func (s *Server) ListBlogPosts(c *fiber.Ctx) error {
	page, limit := parsePagination(c)
	posts, err := s.blogRepo.ListPublished(c.UserContext(), limit, (page-1)*limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
		"total":   len(posts),
	})
}

// GetBlogPost handles GET /api/blog/:slug
func (s *Server) GetBlogPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	post, err := s.blogRepo.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return respondServiceError(c, err)
	}
	// Drafts are only visible through the staff management routes.
	if !post.Published {
		return respondServiceError(c,
			&models.AppError{Code: "NOT_FOUND", Message: "Post not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// CreateBlogPost handles POST /api/blog (staff only)
func (s *Server) CreateBlogPost(c *fiber.Ctx) error {
	var req struct {
		Slug      string `json:"slug"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		Published bool   `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Slug) == "" || strings.TrimSpace(req.Title) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Slug and title are required"))
	}

	userID, _ := currentUser(c)
	post := &models.BlogPost{
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
		AuthorID:  userID,
	}
	if err := s.blogRepo.Create(c.UserContext(), post); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// UpdateBlogPost handles PUT /api/blog/:id (staff only)
func (s *Server) UpdateBlogPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Title     *string `json:"title"`
		Body      *string `json:"body"`
		Published *bool   `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.blogRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.blogRepo.Update(c.UserContext(), post); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// DeleteBlogPost handles DELETE /api/blog/:id (staff only)
func (s *Server) DeleteBlogPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	if err := s.blogRepo.Delete(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
