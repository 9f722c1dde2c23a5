package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
)

// Identity is the authenticated caller, extracted from JWT claims.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  models.Role
}

// FromContext builds the Identity from the JWT the auth middleware stored
// in Fiber locals.
func FromContext(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Identity{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, err
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return Identity{ID: id, Email: email, Role: models.Role(role)}, nil
}

// UserID extracts just the user UUID from JWT claims in context.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	ident, err := FromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return ident.ID, nil
}
