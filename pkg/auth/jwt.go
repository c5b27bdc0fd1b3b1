package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpiredToken is returned when the token's exp claim has passed
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidToken is returned for any other validation failure
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the token claims the engine cares about: the owner identity
// and the subscription plan the profile service stamped into the token.
type Claims struct {
	OwnerID string `json:"sub"`
	Email   string `json:"email"`
	Plan    string `json:"plan"`
	jwt.RegisteredClaims
}

// JWTConfig configures token validation
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates bearer tokens
type JWTValidator struct {
	cfg JWTConfig
}

// NewJWTValidator creates a validator for HS256 tokens
func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("JWT secret key is required")
	}
	return &JWTValidator{cfg: cfg}, nil
}

// ValidateToken parses and verifies a token string and returns its claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.cfg.SecretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.OwnerID == "" {
		if claims.Subject != "" {
			claims.OwnerID = claims.Subject
		} else {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}
