package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenTTL = 24 * time.Hour

// SignAccessToken issues the bearer token handed out on login.
func SignAccessToken(userID uint, isAdmin bool, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"userId":  userID,
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// SignVerificationToken issues the short-lived token embedded in the
// email-verification link.
func SignVerificationToken(userID uint, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"typ":    "verify",
		"exp":    time.Now().Add(accessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// ParseVerificationToken returns the user id carried by a verification token.
func ParseVerificationToken(raw string, secret []byte) (uint, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return 0, fmt.Errorf("invalid verification token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "verify" {
		return 0, fmt.Errorf("not a verification token")
	}

	sub, ok := claims["userId"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid userId claim")
	}
	return uint(sub), nil
}
