package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) Browse(c *fiber.Ctx) error {
	q := services.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: c.QueryBool("featured"),
		Page:     c.QueryInt("page", 1),
	}

	resp, err := h.catalog.Browse(q)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			return badRequest(c, err)
		}
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid product id")
	}

	product, err := h.catalog.Get(id)
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(product)
}

func (h *ProductHandler) GetBySKU(c *fiber.Ctx) error {
	sku := c.Params("sku")
	if sku == "" {
		return fail(c, fiber.StatusBadRequest, "Missing SKU")
	}

	product, err := h.catalog.GetBySKU(sku)
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(product)
}

func (h *ProductHandler) Collections(c *fiber.Ctx) error {
	collections, err := h.catalog.Collections()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(collections)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.CreateProductRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	product, err := h.catalog.Create(ident, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCategory), errors.Is(err, services.ErrPriceInvariant):
			return badRequest(c, err)
		case errors.Is(err, services.ErrDuplicateSKU):
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid product id")
	}

	var req dto.UpdateProductRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	product, err := h.catalog.Update(ident, id, &req)
	if err != nil {
		return h.mapCatalogError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid product id")
	}

	var req dto.UpdateStockRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	product, err := h.catalog.UpdateStock(ident, id, req.StockQuantity)
	if err != nil {
		return h.mapCatalogError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid product id")
	}

	if err := h.catalog.Delete(ident, id); err != nil {
		return h.mapCatalogError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Product deleted"})
}

func (h *ProductHandler) MyProducts(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	resp, err := h.catalog.SellerProducts(userID, c.QueryInt("page", 1))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *ProductHandler) Pending(c *fiber.Ctx) error {
	resp, err := h.catalog.PendingProducts(c.QueryInt("page", 1))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *ProductHandler) All(c *fiber.Ctx) error {
	resp, err := h.catalog.AllProducts(c.QueryInt("page", 1))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *ProductHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, true)
}

func (h *ProductHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, false)
}

func (h *ProductHandler) review(c *fiber.Ctx, approve bool) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid product id")
	}

	product, err := h.catalog.Review(id, approve)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrProductNotPending):
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(product)
}

func (h *ProductHandler) mapCatalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCategory), errors.Is(err, services.ErrPriceInvariant):
		return badRequest(c, err)
	}
	return internalError(c)
}
