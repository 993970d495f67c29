package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header carries the ray id on requests and responses.
	Header = "X-Ray-ID"
	// LocalKey is the fiber Locals key holding the ray id.
	LocalKey = "ray_id"
)

// New returns a middleware that assigns a ray id to every request. A valid
// incoming X-Ray-ID is kept, otherwise a new UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// FromContext returns the ray id of the request, or "".
func FromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalKey).(string)
	return id
}
