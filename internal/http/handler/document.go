package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

func clientInfo(c *fiber.Ctx) model.ClientInfo {
	return model.ClientInfo{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// pageParams reads ?page= and ?limit= with service-side defaults on zero.
func pageParams(c *fiber.Ctx) (page, limit int, err error) {
	page, err = strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
	}
	limit, err = strconv.Atoi(c.Query("limit", "0"))
	if err != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	return page, limit, nil
}

func parseID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// UploadDocument accepts multipart/form-data with a "file" field plus optional
// "description" and "encrypt" fields. Encryption is on unless encrypt=false.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		in := service.UploadInput{
			Filename:    fh.Filename,
			Description: c.FormValue("description"),
			ContentType: ct,
			Size:        fh.Size,
		}
		if v := c.FormValue("encrypt"); v != "" {
			enc, err := strconv.ParseBool(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ENCRYPT", "invalid encrypt flag")
			}
			in.Encrypt = &enc
		}

		doc, err := svc.Upload(c.UserContext(), f, in, middleware.UserID(c), clientInfo(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments pages through the authenticated user's documents.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := svc.ListByOwner(c.UserContext(), middleware.UserID(c), page, limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns one document's metadata; owner-only.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		doc, err := svc.Get(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the decrypted payload back to the owner.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		res, err := svc.Download(c.UserContext(), id, service.Requester{UserID: middleware.UserID(c)}, clientInfo(c))
		if err != nil {
			return serviceError(c, err)
		}
		return sendContent(c, res)
	}
}

func sendContent(c *fiber.Ctx, res *service.DownloadResult) error {
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
	return c.Send(res.Content)
}

type updateDocumentRequest struct {
	Filename    *string `json:"filename"`
	Description *string `json:"description"`
}

// UpdateDocument patches filename and description; owner-only.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var body updateDocumentRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		patch := service.UpdateInput{Filename: body.Filename, Description: body.Description}
		doc, err := svc.Update(c.UserContext(), id, patch, middleware.UserID(c), clientInfo(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes the blob, the row, and all dependent records; owner-only.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.Remove(c.UserContext(), id, middleware.UserID(c), clientInfo(c)); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
