package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parsePagination reads 1-based page/limit query params with sane bounds.
func parsePagination(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// currentUser reads the authenticated identity set by AuthRequired.
func currentUser(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("userRole").(string)
	return userID, role
}
