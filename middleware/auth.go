package middleware

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/utils"
	"go.uber.org/zap"
)

// Protected validates the bearer token and stores the caller's id and role
// in c.Locals("userID") and c.Locals("role").
func Protected(secret string, logger *zap.Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Debug("jwt rejected", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, "Invalid or expired token")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Malformed token claims")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				logger.Warn("token carries no usable user id", zap.Error(err))
				return unauthorized(c, "Token has no valid user id")
			}
			role, err := extractRole(claims)
			if err != nil {
				logger.Warn("token carries no usable role", zap.Uint("user_id", userID), zap.Error(err))
				return unauthorized(c, "Token has no valid role")
			}

			c.Locals("userID", userID)
			c.Locals("role", role)
			return c.Next()
		},
	})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Error:   "Unauthorized",
		Message: msg,
	})
}

// RequireRole lets the request through only when the caller holds one of roles.
// It must run after Protected.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(models.Role)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Error:   "Forbidden",
			Message: "You don't have permission to perform this action",
		})
	}
}

// UserID returns the authenticated caller set by Protected.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("role").(models.Role)
	return role
}

// extractUserID accepts the id as a JSON number or a decimal string.
func extractUserID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["id"].(type) {
	case nil:
		return 0, errors.New("id claim missing")
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("id claim out of range: %v", v)
		}
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("id claim: %w", err)
		}
		return uint(id), nil
	default:
		return 0, fmt.Errorf("id claim has type %T", v)
	}
}

func extractRole(claims jwt.MapClaims) (models.Role, error) {
	s, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim missing")
	}
	role := models.Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}
