package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/importer"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

const maxUploadBytes = 10 << 20

type ImportHandler struct {
	imp   *importer.Importer
	feeds *services.FeedService
}

func NewImportHandler(imp *importer.Importer, feeds *services.FeedService) *ImportHandler {
	return &ImportHandler{imp: imp, feeds: feeds}
}

// sellerFor resolves whose catalog the import writes to. Admins may act
// on behalf of a seller via the request; everyone else imports into
// their own.
func sellerFor(ident auth.Identity, requested string) (uuid.UUID, error) {
	if ident.Role == models.RoleAdmin && requested != "" {
		return uuid.Parse(requested)
	}
	return ident.ID, nil
}

// UploadCSV imports a multipart CSV file. The mapping arrives as a JSON
// string form field alongside the file.
func (h *ImportHandler) UploadCSV(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	sellerID, err := sellerFor(ident, c.FormValue("seller_id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid seller id")
	}

	mapping, err := importer.ParseMapping([]byte(c.FormValue("mapping")))
	if err != nil {
		return badRequest(c, err)
	}

	data, err := readUpload(c)
	if err != nil {
		return badRequest(c, err)
	}

	rows, err := importer.Rows(data)
	if err != nil {
		return badRequest(c, err)
	}

	created, updated, err := h.imp.Import(c.Context(), sellerID, rows, mapping)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(importResult(created, updated))
}

// CSVHeaders previews the column names of an uploaded CSV so the client
// can build a mapping.
func (h *ImportHandler) CSVHeaders(c *fiber.Ctx) error {
	data, err := readUpload(c)
	if err != nil {
		return badRequest(c, err)
	}

	headers, err := importer.Headers(data)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(dto.HeadersResponse{Success: true, Headers: headers})
}

func (h *ImportHandler) ImportURL(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.URLImportRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	sellerID, err := sellerFor(ident, req.SellerID)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid seller id")
	}

	data, err := importer.FetchURL(importer.ConvertGoogleSheetsURL(req.APIURL))
	if err != nil {
		return fail(c, fiber.StatusBadGateway, err.Error())
	}

	rows, err := importer.DocumentRows(data)
	if err != nil {
		return badRequest(c, err)
	}

	created, updated, err := h.imp.Import(c.Context(), sellerID, rows, importer.Mapping(req.Mapping))
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(importResult(created, updated))
}

func (h *ImportHandler) URLHeaders(c *fiber.Ctx) error {
	var req dto.URLPreviewRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	data, err := importer.FetchURL(importer.ConvertGoogleSheetsURL(req.APIURL))
	if err != nil {
		return fail(c, fiber.StatusBadGateway, err.Error())
	}

	headers, err := importer.DocumentHeaders(data)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(dto.HeadersResponse{Success: true, Headers: headers})
}

func (h *ImportHandler) ImportSFTP(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.SFTPImportRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	sellerID, err := sellerFor(ident, req.SellerID)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid seller id")
	}

	data, err := importer.FetchSFTP(req.Host, req.User, req.Password, req.Path)
	if err != nil {
		return fail(c, fiber.StatusBadGateway, err.Error())
	}

	rows, err := importer.Rows(data)
	if err != nil {
		return badRequest(c, err)
	}

	created, updated, err := h.imp.Import(c.Context(), sellerID, rows, importer.Mapping(req.Mapping))
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(importResult(created, updated))
}

func (h *ImportHandler) SFTPHeaders(c *fiber.Ctx) error {
	var req dto.SFTPRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	data, err := importer.FetchSFTP(req.Host, req.User, req.Password, req.Path)
	if err != nil {
		return fail(c, fiber.StatusBadGateway, err.Error())
	}

	headers, err := importer.Headers(data)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(dto.HeadersResponse{Success: true, Headers: headers})
}

func (h *ImportHandler) CreateFeed(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.CreateFeedRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	feed, err := h.feeds.Register(ident.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrFeedIncomplete) {
			return badRequest(c, err)
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(feed)
}

func (h *ImportHandler) ListFeeds(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	feeds, err := h.feeds.List(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(feeds)
}

func (h *ImportHandler) UpdateFeed(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid feed id")
	}

	var req dto.UpdateFeedRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	if err := h.feeds.SetActive(userID, id, *req.Active); err != nil {
		if errors.Is(err, services.ErrFeedNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Feed updated"})
}

func (h *ImportHandler) DeleteFeed(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid feed id")
	}

	if err := h.feeds.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrFeedNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Feed deleted"})
}

func readUpload(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("missing file upload")
	}
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d byte limit", maxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

func importResult(created, updated int) dto.ImportResultResponse {
	return dto.ImportResultResponse{
		Success:      true,
		Message:      fmt.Sprintf("Import complete: %d added, %d updated", created, updated),
		ItemsAdded:   created,
		ItemsUpdated: updated,
	}
}
