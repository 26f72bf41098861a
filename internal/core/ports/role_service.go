package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// CreateRoleInput carries the data for a new role.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions []string
}

// RoleService defines role-management use cases.
type RoleService interface {
	CreateRole(ctx context.Context, in CreateRoleInput) (*domain.Role, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	UpdateRole(ctx context.Context, id string, patch RolePatch) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) error
	// ValidateRoleIDs returns a ValidationError naming every unknown id.
	ValidateRoleIDs(ctx context.Context, ids []string) error
	// SeedDefaultRoles creates the built-in roles when missing.
	SeedDefaultRoles(ctx context.Context) error
}
