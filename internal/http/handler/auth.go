package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset always answers with the same generic acceptance so the
// response cannot be used to test whether an email address is registered.
func RequestPasswordReset(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body passwordResetRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		email := strings.TrimSpace(body.Email)
		if email == "" {
			return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
		}

		if err := svc.RequestPasswordReset(c.UserContext(), email); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "if the address is registered, a reset code has been sent",
		})
	}
}
