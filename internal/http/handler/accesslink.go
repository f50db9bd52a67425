package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

type createLinkRequest struct {
	DocumentID string     `json:"document_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
	MaxViews   int        `json:"max_views"`
}

// CreateAccessLink issues a tokenized link for a document the caller owns.
func CreateAccessLink(svc service.AccessLinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createLinkRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if body.MaxViews < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MAX_VIEWS", "max_views must not be negative")
		}
		if body.ExpiresAt != nil && body.ExpiresAt.Before(time.Now()) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "expires_at must be in the future")
		}

		in := service.IssueLinkInput{
			DocumentID: body.DocumentID,
			ExpiresAt:  body.ExpiresAt,
			MaxViews:   body.MaxViews,
		}
		link, err := svc.Issue(c.UserContext(), in, middleware.UserID(c), clientInfo(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(link)
	}
}

// ListAccessLinks pages through links the caller created.
func ListAccessLinks(svc service.AccessLinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := svc.ListByCreator(c.UserContext(), middleware.UserID(c), page, limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetAccessLink returns one link; creator-only.
func GetAccessLink(svc service.AccessLinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		link, err := svc.Get(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(link)
	}
}

// RevokeAccessLink deletes a link; creator-only.
func RevokeAccessLink(svc service.AccessLinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.Revoke(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListDocumentLinks returns every link of a document the caller owns.
func ListDocumentLinks(svc service.AccessLinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		links, err := svc.ListByDocument(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(links)
	}
}

// AccessByToken is the anonymous entry point: it burns one view on the token,
// then streams the document. Every rejection looks the same to the caller so
// tokens cannot be probed for their state.
func AccessByToken(links service.AccessLinkService, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")

		grant, err := links.Consume(c.UserContext(), token, clientInfo(c))
		if err != nil {
			switch {
			case anyOf(err, service.ErrNotFound, service.ErrLinkExpired, service.ErrLinkExhausted):
				return writeError(c, fiber.StatusNotFound, "LINK_INVALID", "link is invalid or no longer available")
			default:
				return serviceError(c, err)
			}
		}

		res, err := docs.Download(c.UserContext(), grant.DocumentID, service.Requester{AccessLinkID: grant.AccessLinkID}, clientInfo(c))
		if err != nil {
			return serviceError(c, err)
		}
		return sendContent(c, res)
	}
}

func anyOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
