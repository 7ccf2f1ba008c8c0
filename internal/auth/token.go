// Package auth validates access tokens issued by the authentication service
package auth

import (
	"fmt"
	"time"

	"github.com/coursehub/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator handles JWT access token validation
type TokenValidator struct {
	secret string
}

// NewTokenValidator creates a new token validator
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: secret}
}

// GenerateAccessToken creates an access token with userID and role in payload
func (tv *TokenValidator) GenerateAccessToken(userID int, role models.Role, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    int(role),
		"exp":     time.Now().Add(expiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tv.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the identity it carries
func (tv *TokenValidator) ValidateAccessToken(tokenString string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tv.secret), nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return models.Identity{}, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return models.Identity{}, fmt.Errorf("token is not an access token")
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return models.Identity{}, fmt.Errorf("user_id not found in token")
	}

	role, ok := claims["role"].(float64)
	if !ok {
		return models.Identity{}, fmt.Errorf("role not found in token")
	}
	if r := models.Role(role); r != models.RoleStudent && r != models.RoleInstructor {
		return models.Identity{}, fmt.Errorf("unknown role %d", int(role))
	}

	return models.Identity{UserID: int(userID), Role: models.Role(role)}, nil
}
