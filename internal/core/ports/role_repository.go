package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// RolePatch carries a partial role update. Nil fields are left untouched.
type RolePatch struct {
	Name        *string
	Description *string
	Permissions *[]string
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, r *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Role, error)
	FindAll(ctx context.Context) ([]*domain.Role, error)
	Update(ctx context.Context, id string, patch RolePatch) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}
