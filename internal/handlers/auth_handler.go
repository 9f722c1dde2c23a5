package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	message, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Success: true, Message: message})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, pending, err := h.authService.VerifyOTP(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			return badRequest(c, err)
		}
		return internalError(c)
	}

	if pending {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Email verified. Your supplier account is awaiting admin approval.",
			"user":    resp.User,
		})
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return fail(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrNotVerified), errors.Is(err, services.ErrNotApproved):
			return fail(c, fiber.StatusForbidden, err.Error())
		}
		return internalError(c)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	// Always answer the same way so the endpoint cannot be used to
	// enumerate registered emails.
	if err := h.authService.ForgotPassword(req.Email); err != nil && !errors.Is(err, services.ErrUserNotFound) {
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{
		Success: true,
		Message: "If that email is registered, a reset link has been sent.",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := h.authService.ResetPassword(c.Params("token"), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			return badRequest(c, err)
		}
		return internalError(c)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(user)
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(users)
}

func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.authService.UpdateUser(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(user)
}

func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	if err := h.authService.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "User deleted"})
}

func (h *AuthHandler) PendingSuppliers(c *fiber.Ctx) error {
	users, err := h.authService.ListPendingSuppliers()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(users)
}

func (h *AuthHandler) ApproveSupplier(c *fiber.Ctx) error {
	return h.setStatus(c, models.AccountApproved, "Supplier approved")
}

func (h *AuthHandler) RejectSupplier(c *fiber.Ctx) error {
	return h.setStatus(c, models.AccountRejected, "Supplier rejected")
}

func (h *AuthHandler) setStatus(c *fiber.Ctx, status models.AccountStatus, message string) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := h.authService.SetAccountStatus(id, status)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "user": dto.NewUserResponse(user)})
}
