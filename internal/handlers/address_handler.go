package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type AddressHandler struct {
	addresses *services.AddressService
}

func NewAddressHandler(addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	addresses, err := h.addresses.List(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(addresses)
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.AddressRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	addr, err := h.addresses.Create(userID, &req)
	if err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(addr)
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid address id")
	}

	var req dto.AddressRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	addr, err := h.addresses.Update(userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(addr)
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid address id")
	}

	if err := h.addresses.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Address deleted"})
}
