package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/jewelen/marketplace-backend/internal/validation"
)

type BlogHandler struct {
	blog *services.BlogService
}

func NewBlogHandler(blog *services.BlogService) *BlogHandler {
	return &BlogHandler{blog: blog}
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	posts, err := h.blog.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(posts)
}

func (h *BlogHandler) GetBySlug(c *fiber.Ctx) error {
	post, err := h.blog.GetBySlug(c.Params("slug"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(post)
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	ident, err := auth.FromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.CreateBlogPostRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	post, err := h.blog.Create(ident.ID, &req)
	if err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid post id")
	}

	if err := h.blog.Delete(id); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Post deleted"})
}
