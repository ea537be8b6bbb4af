package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const issuer = "bjj-federation"

// Subject is the identity snapshot embedded in a token at login.
type Subject struct {
	UserID    string
	Role      string
	Name      string
	Email     string
	TeacherID string

	// Access state at login, kept for when the identity later disappears.
	Status        string
	PaymentStatus string
	LastAIAudit   string
}

// Claims custom JWT claims. RegisteredClaims.ID (jti) identifies the session.
type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	TeacherID string `json:"teacher_id,omitempty"`

	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	LastAIAudit   string `json:"last_ai_audit,omitempty"`
	jwtv5.RegisteredClaims
}

// Manager signs and verifies access tokens.
type Manager struct {
	secret         []byte
	accessTokenTTL time.Duration
}

// NewManager creates a Manager.
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:         []byte(cfg.JWTSecret),
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// GenerateAccessToken signs a token for sub and returns it with its claims.
func (m *Manager) GenerateAccessToken(sub Subject) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    sub.UserID,
		Role:      sub.Role,
		Name:      sub.Name,
		Email:     sub.Email,
		TeacherID: sub.TeacherID,

		Status:        sub.Status,
		PaymentStatus: sub.PaymentStatus,
		LastAIAudit:   sub.LastAIAudit,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   sub.UserID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTokenTTL)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken verifies tokenString and returns its claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Remaining reports how long the token behind claims stays valid.
func (c *Claims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
