package auth

import "beatlab/internal/domain"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthLoginRequest carries the identity the OAuth gateway resolved. The
// open_id is the upstream identity; it maps onto a local numeric user.
type OAuthLoginRequest struct {
	OpenID      string `json:"open_id" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Name        string `json:"name,omitempty"`
	LoginMethod string `json:"login_method,omitempty"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
