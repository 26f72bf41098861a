package validation

import (
	"context"
	"testing"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// fakeExistsRepo implements only the existence probes; embedding the
// interface keeps the unused methods out of the way.
type fakeExistsRepo struct {
	ports.UserRepository
	activeEmails  map[string]bool
	activePhones  map[string]bool
	deletedEmails map[string]bool
	deletedPhones map[string]bool
}

func (r *fakeExistsRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.activeEmails[email], nil
}

func (r *fakeExistsRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	return r.activePhones[phone], nil
}

func (r *fakeExistsRepo) ExistsDeletedByEmail(_ context.Context, email string) (bool, error) {
	return r.deletedEmails[email], nil
}

func (r *fakeExistsRepo) ExistsDeletedByPhone(_ context.Context, phone string) (bool, error) {
	return r.deletedPhones[phone], nil
}

func TestEmailUniqueness_NormalizesBeforeQuery(t *testing.T) {
	repo := &fakeExistsRepo{activeEmails: map[string]bool{"taken@example.com": true}}
	v := NewEmailUniqueness(repo)

	res, err := v.Validate(context.Background(), "  Taken@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid {
		t.Fatalf("expected failure for case-variant of taken email")
	}
	if fe := res.First(); fe == nil || fe.Code != domain.CodeEmailTaken {
		t.Fatalf("expected %s, got %+v", domain.CodeEmailTaken, fe)
	}
}

func TestEmailUniqueness_PassesFreshEmail(t *testing.T) {
	v := NewEmailUniqueness(&fakeExistsRepo{activeEmails: map[string]bool{}})
	res, err := v.Validate(context.Background(), "fresh@example.com")
	if err != nil || !res.Valid {
		t.Fatalf("expected pass, got res=%+v err=%v", res, err)
	}
}

func TestPhoneUniqueness_AbsentPhoneIsNoop(t *testing.T) {
	// Repo would panic if queried (nil maps read is fine, but prove no
	// filter short-circuit by leaving the repo empty).
	v := NewPhoneUniqueness(&fakeExistsRepo{})
	res, err := v.Validate(context.Background(), "")
	if err != nil || !res.Valid {
		t.Fatalf("expected no-op pass, got res=%+v err=%v", res, err)
	}
}

func TestPhoneUniqueness_TakenPhone(t *testing.T) {
	repo := &fakeExistsRepo{activePhones: map[string]bool{"+8801712345678": true}}
	v := NewPhoneUniqueness(repo)

	res, err := v.Validate(context.Background(), "+8801712345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fe := res.First(); fe == nil || fe.Code != domain.CodePhoneTaken {
		t.Fatalf("expected %s, got %+v", domain.CodePhoneTaken, fe)
	}
}

func TestSoftDeleteBlock_DeletedEmail(t *testing.T) {
	repo := &fakeExistsRepo{
		deletedEmails: map[string]bool{"gone@example.com": true},
		deletedPhones: map[string]bool{"+8801712345678": true},
	}
	v := NewSoftDeleteBlock(repo)

	res, err := v.Validate(context.Background(), SoftDeleteCheckInput{
		Email:       "Gone@Example.com",
		PhoneNumber: "+8801712345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Email check fails first; the phone probe must not override it.
	if fe := res.First(); fe == nil || fe.Code != domain.CodeDeletedEmailExists {
		t.Fatalf("expected %s, got %+v", domain.CodeDeletedEmailExists, fe)
	}
}

func TestSoftDeleteBlock_DeletedPhoneOnly(t *testing.T) {
	repo := &fakeExistsRepo{
		deletedEmails: map[string]bool{},
		deletedPhones: map[string]bool{"+8801712345678": true},
	}
	v := NewSoftDeleteBlock(repo)

	res, err := v.Validate(context.Background(), SoftDeleteCheckInput{
		Email:       "fresh@example.com",
		PhoneNumber: "+8801712345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fe := res.First(); fe == nil || fe.Code != domain.CodeDeletedPhoneExists {
		t.Fatalf("expected %s, got %+v", domain.CodeDeletedPhoneExists, fe)
	}
}

func TestSoftDeleteBlock_CleanIdentity(t *testing.T) {
	v := NewSoftDeleteBlock(&fakeExistsRepo{})
	res, err := v.Validate(context.Background(), SoftDeleteCheckInput{Email: "new@example.com"})
	if err != nil || !res.Valid {
		t.Fatalf("expected pass, got res=%+v err=%v", res, err)
	}
}
