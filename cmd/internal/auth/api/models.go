package authapi

import "time"

// Request fields are pointers so that "required" means "present";
// blank values still reach the services, which own the validation rules.

type registerRequest struct {
	Email    *string `json:"email" validate:"required"`
	Name     *string `json:"name" validate:"required"`
	Phone    *string `json:"phone" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"required"`
	Phone *string `json:"phone" validate:"required"`
}

// userResponse is the redacted identity: the credential hash never leaves the process.
type userResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Roles []string `json:"roles"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type principalResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

type listResponse struct {
	Users []userResponse `json:"users"`
}
