package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type CartHandler struct {
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	cart, err := h.carts.Cart(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(cart)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.AddToCartRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	productID, _ := uuid.Parse(req.ProductID)

	if err := h.carts.AddToCart(userID, productID, req.Quantity); err != nil {
		return h.mapCartError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Added to cart"})
}

func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.UpdateCartQuantityRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	productID, _ := uuid.Parse(req.ProductID)

	if err := h.carts.SetQuantity(userID, productID, req.Quantity); err != nil {
		return h.mapCartError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Cart updated"})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	productID, err := paramUUID(c, "productId")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid product id")
	}

	if err := h.carts.RemoveFromCart(userID, productID); err != nil {
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Removed from cart"})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	if err := h.carts.ClearCart(userID); err != nil {
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Cart cleared"})
}

func (h *CartHandler) Wishlist(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	products, err := h.carts.Wishlist(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(products)
}

func (h *CartHandler) ToggleWishlist(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.ToggleWishlistRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	productID, _ := uuid.Parse(req.ProductID)

	added, err := h.carts.ToggleWishlist(userID, productID)
	if err != nil {
		return h.mapCartError(c, err)
	}

	message := "Removed from wishlist"
	if added {
		message = "Added to wishlist"
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "wishlisted": added})
}

func (h *CartHandler) mapCartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, err.Error())
	}
	return internalError(c)
}
