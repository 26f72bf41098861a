package validation

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// EmailUniqueness checks that no active user holds the given email.
type EmailUniqueness struct {
	repo ports.UserRepository
}

func NewEmailUniqueness(repo ports.UserRepository) *EmailUniqueness {
	return &EmailUniqueness{repo: repo}
}

// Validate normalizes the email and probes active-scope existence. The
// returned error is reserved for repository failures; policy outcomes are in
// the Result.
func (v *EmailUniqueness) Validate(ctx context.Context, email string) (Result, error) {
	exists, err := v.repo.ExistsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Invalid("email", "Email already registered", domain.CodeEmailTaken), nil
	}
	return Valid(), nil
}

// PhoneUniqueness checks that no active user holds the given phone number.
// An absent phone is a no-op pass.
type PhoneUniqueness struct {
	repo ports.UserRepository
}

func NewPhoneUniqueness(repo ports.UserRepository) *PhoneUniqueness {
	return &PhoneUniqueness{repo: repo}
}

func (v *PhoneUniqueness) Validate(ctx context.Context, phoneNumber string) (Result, error) {
	if phoneNumber == "" {
		return Valid(), nil
	}
	exists, err := v.repo.ExistsByPhone(ctx, phoneNumber)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Invalid("phoneNumber", "Phone number already registered", domain.CodePhoneTaken), nil
	}
	return Valid(), nil
}

// SoftDeleteCheckInput is the input to SoftDeleteBlock.
type SoftDeleteCheckInput struct {
	Email       string
	PhoneNumber string // optional
}

// SoftDeleteBlock rejects registration over a soft-deleted identity, forcing
// the admin-mediated restore path instead of a silent re-registration. The
// phone probe runs only when the email probe passes.
type SoftDeleteBlock struct {
	repo ports.UserRepository
}

func NewSoftDeleteBlock(repo ports.UserRepository) *SoftDeleteBlock {
	return &SoftDeleteBlock{repo: repo}
}

func (v *SoftDeleteBlock) Validate(ctx context.Context, in SoftDeleteCheckInput) (Result, error) {
	deletedEmail, err := v.repo.ExistsDeletedByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return Result{}, err
	}
	if deletedEmail {
		return Invalid(
			"email",
			"An account with this email was previously deleted. Please contact an admin to restore it.",
			domain.CodeDeletedEmailExists,
		), nil
	}

	if in.PhoneNumber != "" {
		deletedPhone, err := v.repo.ExistsDeletedByPhone(ctx, in.PhoneNumber)
		if err != nil {
			return Result{}, err
		}
		if deletedPhone {
			return Invalid(
				"phoneNumber",
				"An account with this phone number was previously deleted. Please contact an admin to restore it.",
				domain.CodeDeletedPhoneExists,
			), nil
		}
	}

	return Valid(), nil
}
