package dto

// ── auth ──

// LoginRequest login by e-mail and password.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// VerifyRequest confirms a pending verification. The credentials are
// checked again before the account is marked verified.
type VerifyRequest struct {
	Email    string `json:"email"    binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// ResendVerificationRequest asks for a new verification link.
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,max=254"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"` // seconds
	SessionID   string          `json:"session_id"`
	User        AccountResponse `json:"user"`
}

// AccessResponse is the access gate decision.
type AccessResponse struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// SessionResponse is the live view of the current session.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	User      AccountResponse `json:"user"`
	Access    AccessResponse  `json:"access"`
}
