package rest

import "github.com/gofiber/fiber/v2"

const allowedHeaders = "authorization, x-client-info, apikey, content-type"

// CORS lets the storefront call the API from any origin. Preflight requests
// are answered with an empty 200.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}

		return c.Next()
	}
}
