package token

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// secret returns the HMAC signing key from the environment.
func secret() ([]byte, error) {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return []byte(s), nil
}

// Sign issues a stateless HS256 session token carrying the account id.
func Sign(accountID uint, ttl time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  accountID,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return t.SignedString(key)
}

// Verify checks the token signature and expiry and returns the embedded
// account id. There is no server-side session state; identity is re-derived
// from the token on every request.
func Verify(tokenString string) (uint, error) {
	key, err := secret()
	if err != nil {
		return 0, err
	}

	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("account id not found in token")
	}
	return uint(id), nil
}
