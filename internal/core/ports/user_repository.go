package ports

import (
	"context"
	"time"

	"github.com/accounthub/user-service/internal/core/domain"
)

// UserPatch carries a partial update. Nil fields are left untouched. A
// pointer to the empty string clears PhoneNumber/DisplayName (the field is
// removed from the stored document).
type UserPatch struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	PhoneNumber *string
	DateOfBirth *time.Time
	IsActive    *bool
}

// UserFilter narrows a paginated find. Zero values mean "no filter" except
// IsActive, which is tri-state via pointer. Deleted records are always
// excluded.
type UserFilter struct {
	// Query is a free-text term matched case-insensitively as a substring of
	// first name, last name, email, or display name (OR-combined).
	Query string
	// Email and Phone are partial, case-insensitive substring filters
	// (AND-combined with Query).
	Email string
	Phone string
	// IsActive filters by exact active flag when non-nil.
	IsActive *bool
}

// UserPage is one page of users plus its pagination metadata.
type UserPage struct {
	Items []*domain.User
	Meta  domain.PageMeta
}

// UserRepository defines persistence operations for users. Implementations
// must reject writes that violate the active-scope email/phone uniqueness
// invariant and surface the violation as a *domain.ConflictError: the
// validator layer is a fast-fail UX optimisation, the store's unique index
// is the backstop.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)

	// FindByID returns the record regardless of deletion state.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail and FindByPhone match non-deleted records only.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)

	// Existence probes, split by deletion scope.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsDeletedByEmail(ctx context.Context, email string) (bool, error)
	ExistsDeletedByPhone(ctx context.Context, phone string) (bool, error)

	// Update applies a partial patch and returns the refreshed record, or
	// domain.ErrUserNotFound if the record vanished between fetch and write.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetRoles(ctx context.Context, id string, roleIDs []string) (*domain.User, error)

	// SoftDelete marks the record deleted. Returns false without error when
	// the record is absent or already deleted (idempotent).
	SoftDelete(ctx context.Context, id string) (bool, error)
	// Restore flips a deleted record back to active using a conditional
	// update; it returns domain.ErrUserNotFound when no record currently
	// matches (absent, or not deleted at write time).
	Restore(ctx context.Context, id string) (*domain.User, error)

	FindAllPaginated(ctx context.Context, filter UserFilter, opts domain.PageOptions) (*UserPage, error)
}
