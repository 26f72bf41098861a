package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/validation"
)

const dateOfBirthLayout = "2006-01-02"

// UserService implements the account-management use cases: the
// registration/validation pipeline, partial profile updates, password
// rotation, and the soft-delete lifecycle.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleService
	hasher ports.PasswordHasher
	mailer ports.WelcomeMailer
	log    zerolog.Logger

	emailCheck   *validation.EmailUniqueness
	phoneCheck   *validation.PhoneUniqueness
	deletedCheck *validation.SoftDeleteBlock
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleService,
	hasher ports.PasswordHasher,
	mailer ports.WelcomeMailer,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:        users,
		roles:        roles,
		hasher:       hasher,
		mailer:       mailer,
		log:          log,
		emailCheck:   validation.NewEmailUniqueness(users),
		phoneCheck:   validation.NewPhoneUniqueness(users),
		deletedCheck: validation.NewSoftDeleteBlock(users),
	}
}

// Register runs the full registration pipeline: normalize, uniqueness
// validators in order with short-circuit, password policy collecting all
// violations, digest, date-of-birth parse, persist, project.
func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*ports.UserProfile, error) {
	email := validation.NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)

	// Uniqueness validators short-circuit on the first failure, surfacing
	// that validator's message verbatim as a conflict.
	if res, err := s.emailCheck.Validate(ctx, email); err != nil {
		return nil, fmt.Errorf("register: email uniqueness: %w", err)
	} else if fe := res.First(); fe != nil {
		return nil, domain.NewConflict(fe.Code, fe.Message)
	}
	if res, err := s.phoneCheck.Validate(ctx, phone); err != nil {
		return nil, fmt.Errorf("register: phone uniqueness: %w", err)
	} else if fe := res.First(); fe != nil {
		return nil, domain.NewConflict(fe.Code, fe.Message)
	}
	if res, err := s.deletedCheck.Validate(ctx, validation.SoftDeleteCheckInput{Email: email, PhoneNumber: phone}); err != nil {
		return nil, fmt.Errorf("register: soft-delete block: %w", err)
	} else if fe := res.First(); fe != nil {
		return nil, domain.NewConflict(fe.Code, fe.Message)
	}

	// Password policy runs after the uniqueness gates and, unlike them,
	// collects every violation.
	if violations := validation.ValidatePassword(in.Password, email, phone); len(violations) > 0 {
		return nil, domain.NewPolicyViolations(violations)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	dob, err := parseDateOfBirth(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PhoneNumber:  phone,
		DateOfBirth:  dob,
		IsActive:     true,
		IsDeleted:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// The repository translates unique-index violations into conflicts:
		// the validators above are a fast-fail optimisation, the index is
		// the backstop against the check-then-insert race.
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	s.sendWelcome(created)

	return toProfile(created), nil
}

// sendWelcome fires the welcome mail without blocking or failing the
// request. The mailer logs when delivery is not configured.
func (s *UserService) sendWelcome(u *domain.User) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcome(ctx, u.Email, u.FirstName); err != nil {
			s.log.Warn().Err(err).Str("email", u.Email).Msg("welcome mail failed")
		}
	}()
}

// GetUser returns the projection for a non-deleted user.
func (s *UserService) GetUser(ctx context.Context, id string) (*ports.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}
	return toProfile(user), nil
}

// GetUserByEmail looks up a non-deleted user by normalized email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*ports.UserProfile, error) {
	user, err := s.users.FindByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateUser applies a partial patch. Untouched fields keep their prior
// value; empty-string phone/display name clear the field; a changed phone is
// re-validated for active-scope uniqueness.
func (s *UserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserProfile, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsDeleted {
		return nil, domain.ErrUserNotFound
	}

	patch := ports.UserPatch{IsActive: in.IsActive}
	if in.FirstName != nil {
		patch.FirstName = trimmed(in.FirstName)
	}
	if in.LastName != nil {
		patch.LastName = trimmed(in.LastName)
	}
	if in.DisplayName != nil {
		patch.DisplayName = trimmed(in.DisplayName)
	}
	if in.PhoneNumber != nil {
		phone := strings.TrimSpace(*in.PhoneNumber)
		if phone != "" && phone != current.PhoneNumber {
			res, err := s.phoneCheck.Validate(ctx, phone)
			if err != nil {
				return nil, fmt.Errorf("update user: phone uniqueness: %w", err)
			}
			if fe := res.First(); fe != nil {
				return nil, domain.NewConflict(fe.Code, fe.Message)
			}
		}
		patch.PhoneNumber = &phone
	}
	if in.DateOfBirth != nil && *in.DateOfBirth != "" {
		dob, err := parseDateOfBirth(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		patch.DateOfBirth = dob
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		// Lost-update race: the record disappeared between fetch and write.
		return nil, err
	}
	return toProfile(updated), nil
}

// ChangePassword rotates a user's password. The confirmation and
// same-as-current checks run before any repository access.
func (s *UserService) ChangePassword(ctx context.Context, id string, in ports.ChangePasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return domain.NewValidation("new password and confirmation do not match")
	}
	if in.NewPassword == in.CurrentPassword {
		return domain.NewValidation("new password must be different from the current password")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsDeleted {
		return domain.ErrUserNotFound
	}

	if !s.hasher.Compare(in.CurrentPassword, user.PasswordHash) {
		return domain.NewValidation("incorrect current password")
	}

	if violations := validation.ValidatePassword(in.NewPassword, user.Email, user.PhoneNumber); len(violations) > 0 {
		return domain.NewPolicyViolations(violations)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("change password: persist: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("password changed")
	return nil
}

// SoftDeleteUser transitions Active → Deleted. Repeated calls after success
// return false rather than an error.
func (s *UserService) SoftDeleteUser(ctx context.Context, id string) (bool, error) {
	deleted, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("soft delete: %w", err)
	}
	if deleted {
		s.log.Info().Str("user_id", id).Msg("user soft-deleted")
	}
	return deleted, nil
}

// RestoreUser transitions Deleted → Active. The stored email (and phone,
// when present) are re-validated against current active users first:
// restoring must not resurrect an identity that has since been claimed.
func (s *UserService) RestoreUser(ctx context.Context, id string) (*ports.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsDeleted {
		return nil, domain.NewValidation("user is not deleted")
	}

	if res, err := s.emailCheck.Validate(ctx, user.Email); err != nil {
		return nil, fmt.Errorf("restore: email uniqueness: %w", err)
	} else if fe := res.First(); fe != nil {
		return nil, domain.NewConflict(fe.Code, "Cannot restore: email has since been claimed by another account")
	}
	if user.PhoneNumber != "" {
		if res, err := s.phoneCheck.Validate(ctx, user.PhoneNumber); err != nil {
			return nil, fmt.Errorf("restore: phone uniqueness: %w", err)
		} else if fe := res.First(); fe != nil {
			return nil, domain.NewConflict(fe.Code, "Cannot restore: phone number has since been claimed by another account")
		}
	}

	restored, err := s.users.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The conditional write found no deleted record: a concurrent
			// call restored it first.
			return nil, domain.NewValidation("user is not deleted")
		}
		return nil, fmt.Errorf("restore: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("user restored")
	return toProfile(restored), nil
}

// ListUsers returns a page of all non-deleted users.
func (s *UserService) ListUsers(ctx context.Context, opts domain.PageOptions) (*ports.UserPageResult, error) {
	page, err := s.users.FindAllPaginated(ctx, ports.UserFilter{}, opts.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return toPageResult(page), nil
}

// SearchUsers translates search criteria into a filtered paginated fetch.
// Deleted records are always excluded.
func (s *UserService) SearchUsers(ctx context.Context, in ports.SearchUsersInput) (*ports.UserPageResult, error) {
	filter := ports.UserFilter{
		Query:    strings.TrimSpace(in.Query),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		IsActive: in.IsActive,
	}
	page, err := s.users.FindAllPaginated(ctx, filter, in.Page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return toPageResult(page), nil
}

// AssignRoles replaces the user's role set after validating every id.
func (s *UserService) AssignRoles(ctx context.Context, id string, roleIDs []string) (*ports.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}
	if err := s.roles.ValidateRoleIDs(ctx, roleIDs); err != nil {
		return nil, err
	}
	updated, err := s.users.SetRoles(ctx, id, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("assign roles: %w", err)
	}
	return toProfile(updated), nil
}

// parseDateOfBirth parses an optional "2006-01-02" date and enforces the
// minimum registration age.
func parseDateOfBirth(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	dob, err := time.Parse(dateOfBirthLayout, raw)
	if err != nil {
		return nil, domain.NewValidation("invalid date of birth, expected YYYY-MM-DD")
	}
	if validation.Age(dob, time.Now().UTC()) < validation.MinimumRegistrationAge {
		return nil, domain.NewValidation("you must be at least 13 years old to register")
	}
	return &dob, nil
}

func trimmed(s *string) *string {
	t := strings.TrimSpace(*s)
	return &t
}

func toProfile(u *domain.User) *ports.UserProfile {
	return &ports.UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName,
		PhoneNumber: u.PhoneNumber,
		DateOfBirth: u.DateOfBirth,
		RoleIDs:     u.RoleIDs,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toPageResult(page *ports.UserPage) *ports.UserPageResult {
	items := make([]*ports.UserProfile, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, toProfile(u))
	}
	return &ports.UserPageResult{Items: items, Meta: page.Meta}
}
