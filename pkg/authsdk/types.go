package authsdk

import "github.com/aussiebroadwan/credgate/pkg/idx"

// LoginRequest is the body of POST /api/auth/login. JSON and form encoded
// bodies are both accepted.
type LoginRequest struct {
	// Identifier is the user's email or username
	Identifier string `json:"identifier" form:"identifier" example:"alice@example.com"`

	Password string `json:"password" form:"password" example:"correct horse"`
}

// User is the sanitized user projection returned on login.
type User struct {
	ID       idx.ExternalID `json:"id" swaggertype:"string" example:"1"`
	Username string         `json:"username" example:"alice"`
	Email    string         `json:"email" example:"alice@example.com"`
	Role     string         `json:"role" example:"admin"`
}

type LoginResponse struct {
	Message string `json:"message" example:"Login exitoso"`

	// Token is an HS256 signed JWT carrying id, role and username
	Token string `json:"token"`

	User User `json:"user"`
}

// TokenUser is the identity decoded from a valid token.
type TokenUser struct {
	ID       idx.ExternalID `json:"id" swaggertype:"string" example:"1"`
	Role     string         `json:"role" example:"admin"`
	Username string         `json:"username" example:"alice"`
}

type ValidateResponse struct {
	Valid bool      `json:"valid" example:"true"`
	User  TokenUser `json:"user"`
}

// MessageResponse is the plain {"message": ...} body, with the optional
// internal error text shown only in development.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"OK"`
	Service string `json:"service" example:"Auth Service"`
}

// FieldError describes one failed request validation rule.
type FieldError struct {
	Type     string `json:"type" example:"field"`
	Msg      string `json:"msg" example:"La contrasena es requerida"`
	Path     string `json:"path" example:"password"`
	Location string `json:"location" example:"body"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type RevocationsClearedResponse struct {
	Message string `json:"message" example:"Lista de tokens invalidados reiniciada"`
	Cleared int    `json:"cleared" example:"3"`
}
