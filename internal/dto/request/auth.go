package request

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Identifier is a username or an email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
