package server

import (
	"strings"

	"coachhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SubscribeNewsletter handles POST /api/newsletter/subscribe. Re-subscribing
// an existing address succeeds without creating a duplicate row.
func (s *Server) SubscribeNewsletter(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A valid email is required"))
	}

	if err := s.subscriberRepo.Subscribe(c.UserContext(), email); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}
