package auth

import (
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage covers admin-only operations: approvals, status
	// overrides, hard deletes of other users' data.
	ActionManage Action = "manage"
)

// Resource is the thing being accessed: its kind plus who owns it.
type Resource struct {
	Kind    string
	OwnerID uuid.UUID
}

func OrderResource(ownerID uuid.UUID) Resource   { return Resource{Kind: "order", OwnerID: ownerID} }
func ProductResource(ownerID uuid.UUID) Resource { return Resource{Kind: "product", OwnerID: ownerID} }
func UserResource(ownerID uuid.UUID) Resource    { return Resource{Kind: "user", OwnerID: ownerID} }

// CanAccess is the single authorization decision used by every handler.
// Admins can do anything; everyone else is limited to their own resources
// and can never perform manage actions.
func CanAccess(ident Identity, res Resource, action Action) bool {
	if ident.Role == models.RoleAdmin {
		return true
	}
	if action == ActionManage {
		return false
	}
	return res.OwnerID != uuid.Nil && res.OwnerID == ident.ID
}
