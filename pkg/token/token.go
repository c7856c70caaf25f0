package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims carries the authenticated user identity. Token issuance is
// owned by the identity service; this package only needs to mint tokens
// in tests and verify them on protected routes.
type Claims struct {
	jwt.RegisteredClaims
}

// Engine signs and verifies HS256 bearer tokens
type Engine struct {
	secret     string
	expiration time.Duration
}

// NewEngine creates a new token engine
func NewEngine(secret string, expiration time.Duration) *Engine {
	return &Engine{
		secret:     secret,
		expiration: expiration,
	}
}

// Generate creates a signed token for the given user id
func (e *Engine) Generate(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
			Issuer:    "chirp",
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(e.secret))
}

// Verify parses a bearer token and returns the user id it carries
func (e *Engine) Verify(token string) (int64, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return userID, nil
}
