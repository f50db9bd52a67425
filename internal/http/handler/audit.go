package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// ListDocumentAudit pages through a document's ledger; owner-only.
func ListDocumentAudit(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		page, limit, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := svc.ByDocument(c.UserContext(), id, middleware.UserID(c), page, limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListMyAudit pages through the caller's own ledger entries.
func ListMyAudit(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := svc.ByActor(c.UserContext(), middleware.UserID(c), page, limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}
