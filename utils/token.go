package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/petcare/models"
)

// GenerateToken signs an HS256 access token carrying the user's id, email and role.
func GenerateToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
