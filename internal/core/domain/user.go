package domain

import "time"

// User is the core identity record. ID is assigned by the store. Email is
// unique among non-deleted users; PhoneNumber is unique among non-deleted
// users when present. Deleted users may share email/phone only with other
// deleted users.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	DisplayName  string     `json:"display_name,omitempty"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	RoleIDs      []string   `json:"role_ids,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsDeleted    bool       `json:"-"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
