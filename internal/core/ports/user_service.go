package ports

import (
	"context"
	"time"

	"github.com/accounthub/user-service/internal/core/domain"
)

// RegisterUserInput carries all data needed to register a new account.
// Email is normalized (lowercased, trimmed) by the service.
type RegisterUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DisplayName string
	PhoneNumber string
	DateOfBirth string // "2006-01-02"; empty means not provided
}

// UpdateUserInput is a partial profile update. Nil fields are untouched;
// empty-string PhoneNumber/DisplayName clear the field.
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	PhoneNumber *string
	DateOfBirth *string
	IsActive    *bool
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// SearchUsersInput builds the search filter plus page selection.
type SearchUsersInput struct {
	Query    string
	Email    string
	Phone    string
	IsActive *bool
	Page     domain.PageOptions
}

// UserProfile is the projection of a user returned to external callers.
// It never contains the password digest or deletion bookkeeping.
type UserProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DisplayName string     `json:"display_name,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	RoleIDs     []string   `json:"role_ids,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserPageResult is one page of user profiles.
type UserPageResult struct {
	Items []*UserProfile  `json:"items"`
	Meta  domain.PageMeta `json:"pagination"`
}

// UserService defines the account-management use cases.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*UserProfile, error)
	GetUser(ctx context.Context, id string) (*UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*UserProfile, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*UserProfile, error)
	ChangePassword(ctx context.Context, id string, in ChangePasswordInput) error
	SoftDeleteUser(ctx context.Context, id string) (bool, error)
	RestoreUser(ctx context.Context, id string) (*UserProfile, error)
	ListUsers(ctx context.Context, opts domain.PageOptions) (*UserPageResult, error)
	SearchUsers(ctx context.Context, in SearchUsersInput) (*UserPageResult, error)
	AssignRoles(ctx context.Context, id string, roleIDs []string) (*UserProfile, error)
}

// PasswordHasher is the one-way digest primitive used for credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}

// WelcomeMailer notifies a freshly registered user. Delivery is best-effort;
// failures never fail registration.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, to, name string) error
}
