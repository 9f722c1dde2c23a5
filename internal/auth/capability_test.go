package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	admin := Identity{ID: uuid.New(), Role: models.RoleAdmin}
	buyer := Identity{ID: owner, Role: models.RoleBuyer}
	other := Identity{ID: stranger, Role: models.RoleBuyer}
	supplier := Identity{ID: owner, Role: models.RoleSupplier}

	res := OrderResource(owner)

	// Admins can do everything, including manage.
	assert.True(t, CanAccess(admin, res, ActionRead))
	assert.True(t, CanAccess(admin, res, ActionManage))

	// Owners can read and update their own resources.
	assert.True(t, CanAccess(buyer, res, ActionRead))
	assert.True(t, CanAccess(buyer, res, ActionUpdate))
	assert.True(t, CanAccess(supplier, ProductResource(owner), ActionDelete))

	// Manage is admin-only even for the owner.
	assert.False(t, CanAccess(buyer, res, ActionManage))

	// Non-owners get nothing.
	assert.False(t, CanAccess(other, res, ActionRead))
	assert.False(t, CanAccess(other, res, ActionUpdate))
}

func TestCanAccessNilOwner(t *testing.T) {
	buyer := Identity{ID: uuid.New(), Role: models.RoleBuyer}

	// A resource without an owner is never accessible to non-admins.
	assert.False(t, CanAccess(buyer, Resource{Kind: "order"}, ActionRead))
}
