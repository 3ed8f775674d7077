// Package auth handles bearer token parsing for the portal's identity
// claims. Tokens are issued elsewhere; this service only verifies them
// and reads the user id and role claims.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the portal token this service cares about.
type Claims struct {
	UserID int64
	Role   string
}

// GenerateToken creates a signed token. Used by tests and local tooling.
func GenerateToken(userID int64, role, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and extracts the identity claims.
func ParseToken(tokenStr, secret string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, jwt.ErrTokenMalformed
	}

	userIDFloat, ok := mapClaims["user_id"].(float64)
	if !ok {
		return Claims{}, jwt.ErrTokenMalformed
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return Claims{}, jwt.ErrTokenMalformed
	}

	return Claims{UserID: int64(userIDFloat), Role: role}, nil
}

// ExtractToken pulls the bearer token out of the Authorization header,
// returning "" when no well-formed bearer header is present.
func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
