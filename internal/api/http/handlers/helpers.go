package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ok wraps a payload in the {success:true, data} envelope.
func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// created is ok with a 201 status.
func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func queryString(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}

// pagination reads page/limit query params and returns limit and offset.
func pagination(c *fiber.Ctx) (int, int) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return limit, (page - 1) * limit
}
