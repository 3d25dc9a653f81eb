package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenSubject is returned for a correctly signed token that names no user.
var ErrTokenSubject = errors.New("token has no subject")

// clockSkew tolerates small drift between this service and the token issuer.
const clockSkew = 30 * time.Second

var tokenParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithLeeway(clockSkew),
	jwt.WithIssuedAt(),
)

// IssueToken signs an HS256 bearer token for userID that expires after ttl.
// The ledger only verifies tokens in production; this is used by tests and local tooling.
func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken checks the signature and time claims of raw and returns the
// user it was issued to. Errors wrap the jwt sentinels, so callers can tell
// an expired token from a forged one with errors.Is.
func VerifyToken(raw, secret string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := tokenParser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrTokenSubject
	}
	return claims.Subject, nil
}
