package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// RoleService manages permission bundles.
type RoleService struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, log: log}
}

// CreateRole creates a role with a globally unique name.
func (s *RoleService) CreateRole(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.Name)
	existing, err := s.roles.FindByName(ctx, name)
	if err != nil && err != domain.ErrRoleNotFound {
		return nil, fmt.Errorf("create role: %w", err)
	}
	if existing != nil {
		return nil, domain.NewValidation(fmt.Sprintf("role %q already exists", name))
	}

	now := time.Now().UTC()
	role := &domain.Role{
		Name:        name,
		Description: in.Description,
		Permissions: in.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}

	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	s.log.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return created, nil
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.FindAll(ctx)
}

func (s *RoleService) UpdateRole(ctx context.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		existing, err := s.roles.FindByName(ctx, name)
		if err != nil && err != domain.ErrRoleNotFound {
			return nil, fmt.Errorf("update role: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, domain.NewValidation(fmt.Sprintf("role %q already exists", name))
		}
		patch.Name = &name
	}
	return s.roles.Update(ctx, id, patch)
}

// DeleteRole removes a role. Users referencing the role keep the dangling id;
// there is no cascade or guard.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("role_id", id).Msg("role deleted")
	return nil
}

// ValidateRoleIDs verifies that every id references an existing role.
func (s *RoleService) ValidateRoleIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	roles, err := s.roles.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("validate role ids: %w", err)
	}
	if len(roles) == len(ids) {
		return nil
	}
	found := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		found[r.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return domain.NewValidation("invalid role ids: " + strings.Join(missing, ", "))
}

// SeedDefaultRoles creates the built-in roles when missing. Safe to call on
// every startup.
func (s *RoleService) SeedDefaultRoles(ctx context.Context) error {
	defaults := []ports.CreateRoleInput{
		{Name: domain.RoleAdmin, Description: "Administrator with full access", Permissions: []string{"*"}},
		{Name: domain.RoleUser, Description: "Regular user", Permissions: []string{"read:own", "write:own"}},
		{Name: domain.RoleModerator, Description: "Moderator with limited admin access", Permissions: []string{"read:all", "moderate"}},
	}
	for _, in := range defaults {
		existing, err := s.roles.FindByName(ctx, in.Name)
		if err != nil && err != domain.ErrRoleNotFound {
			return fmt.Errorf("seed roles: %w", err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.CreateRole(ctx, in); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}
	return nil
}
