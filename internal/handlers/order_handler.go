package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/invoice"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type OrderHandler struct {
	orders   *services.OrderService
	invoices *invoice.Renderer
}

func NewOrderHandler(orders *services.OrderService, invoices *invoice.Renderer) *OrderHandler {
	return &OrderHandler{orders: orders, invoices: invoices}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.CreateOrderRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := h.orders.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound),
			errors.Is(err, services.ErrAddressNotFound),
			errors.Is(err, services.ErrCouponNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInsufficientStock):
			return fail(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrZeroAmount),
			errors.Is(err, services.ErrCouponInactive),
			errors.Is(err, services.ErrCouponExpired),
			errors.Is(err, services.ErrCouponExhausted),
			errors.Is(err, services.ErrBelowMinPurchase):
			return badRequest(c, err)
		}
		return fail(c, fiber.StatusBadGateway, "Failed to initiate payment")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// VerifyPayment is the gateway callback target. A replayed callback for
// an already verified payment gets the same success response as the
// first one.
func (h *OrderHandler) VerifyPayment(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.orders.VerifyPayment(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyVerified):
			return c.JSON(fiber.Map{"success": true, "message": "Payment verified", "order": order})
		case errors.Is(err, services.ErrOrderNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrSignatureMismatch):
			return badRequest(c, err)
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Payment verified", "order": order})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	order, err := h.orders.Cancel(c.Context(), ident, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			return fail(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrOrderNotCancellable):
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return fail(c, fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order cancelled", "order": order})
}

func (h *OrderHandler) My(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	orders, err := h.orders.MyOrders(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	order, err := h.orders.Get(ident, id)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return fail(c, fiber.StatusForbidden, err.Error())
		}
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(order)
}

func (h *OrderHandler) SellerOrders(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	orders, err := h.orders.SellerOrders(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) All(c *fiber.Ctx) error {
	orders, err := h.orders.AllOrders()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.UpdateOrderStatusRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.orders.UpdateStatus(id, models.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return badRequest(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	if err := h.orders.Delete(id); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Order deleted"})
}

func (h *OrderHandler) UpdateItemStatus(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	itemID, err := paramUUID(c, "itemId")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid item id")
	}

	var req dto.UpdateItemStatusRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	item, err := h.orders.UpdateItemStatus(ident, itemID, models.ItemStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			return fail(c, fiber.StatusForbidden, err.Error())
		}
		return badRequest(c, err)
	}
	return c.JSON(item)
}

// Invoice streams the PDF invoice for a paid order.
func (h *OrderHandler) Invoice(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	order, buyer, address, products, err := h.orders.InvoiceData(ident, id)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return fail(c, fiber.StatusForbidden, err.Error())
		}
		return fail(c, fiber.StatusNotFound, err.Error())
	}

	pdf, err := h.invoices.Render(order, buyer, address, products)
	if err != nil {
		return internalError(c)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.Receipt))
	return c.Send(pdf)
}
