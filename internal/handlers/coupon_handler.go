package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type CouponHandler struct {
	coupons *services.CouponService
}

func NewCouponHandler(coupons *services.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCouponRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	coupon, err := h.coupons.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrCouponCodeTaken) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

func (h *CouponHandler) List(c *fiber.Ctx) error {
	coupons, err := h.coupons.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(coupons)
}

func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid coupon id")
	}

	if err := h.coupons.Delete(id); err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Coupon deleted"})
}

// Validate answers whether a code applies to a purchase total. Every
// rejection reason maps to 400 with the specific message so the
// storefront can surface it verbatim.
func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateCouponRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := h.coupons.Validate(req.Code, req.TotalAmount)
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return badRequest(c, err)
	}
	return c.JSON(resp)
}
