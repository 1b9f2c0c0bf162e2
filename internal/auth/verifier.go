package auth

//go:generate mockgen -package=mocks -destination=mocks/mock_verifier.go github.com/unitychat/gateway/internal/auth Verifier

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any structurally invalid, expired, or
// wrongly signed credential. Callers get no further detail; a failed
// handshake is terminal for that attempt.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the stable identity extracted from a verified credential.
type Identity struct {
	// UserID is the authenticated user's id
	UserID string

	// Username is the user's display name
	Username string
}

// Verifier validates a bearer credential presented during the connection
// handshake. Verification is pure and side-effect-free.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// Claims defines the JWT claims the gateway understands.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Config holds configuration for the HMAC token verifier
type Config struct {
	// Secret is the shared HMAC signing secret
	Secret string
}

// hmacVerifier implements Verifier using HMAC-signed JWTs
type hmacVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier for HMAC-signed bearer tokens.
func NewHMACVerifier(cfg *Config) (*hmacVerifier, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Secret == "" {
		return nil, errors.New("secret cannot be empty")
	}

	return &hmacVerifier{
		secret: []byte(cfg.Secret),
	}, nil
}

// Verify parses and validates the token and extracts the caller's identity.
func (v *hmacVerifier) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}
