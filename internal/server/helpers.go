package server

import (
	"strconv"

	"guildapply/internal/models"
	"guildapply/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// page is a window over the pending queue. Limit 0 means unbounded.
type page struct {
	Limit  int
	Offset int
}

// parsePage reads ?limit and ?offset. Absent values default to 0; values that
// are not non-negative integers are a validation error. Limit is capped at
// repository.MaxPageSize.
func parsePage(c *fiber.Ctx) (page, error) {
	var p page
	for _, q := range []struct {
		name string
		dst  *int
	}{{"limit", &p.Limit}, {"offset", &p.Offset}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page{}, models.NewValidationError(q.name + " must be a non-negative integer.")
		}
		*q.dst = n
	}
	p.Limit = min(p.Limit, repository.MaxPageSize)
	return p, nil
}
