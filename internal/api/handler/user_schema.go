package handler

// --- Request types ---

type registerUserRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required"`
	FirstName   string `json:"first_name"   validate:"required,max=100"`
	LastName    string `json:"last_name"    validate:"required,max=100"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// updateUserRequest is a partial update: absent fields stay untouched,
// empty-string phone_number/display_name clear the stored value.
type updateUserRequest struct {
	FirstName   *string `json:"first_name"   validate:"omitempty,max=100"`
	LastName    *string `json:"last_name"    validate:"omitempty,max=100"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	IsActive    *bool   `json:"is_active"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type assignRolesRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required"`
}

// --- Response types ---

type deleteUserResponse struct {
	Deleted bool `json:"deleted"`
}
