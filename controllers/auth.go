package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/repository"
	"github.com/meinhoongagan/petcare/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	users  UserStore
	secret string
	logger *zap.Logger
}

func NewAuthHandler(users UserStore, secret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, logger: logger}
}

type registerInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Missing required fields")
	}
	if input.Role == "" {
		input.Role = models.RoleCustomer
	}
	// Admins are created out of band.
	if input.Role != models.RoleCustomer && input.Role != models.RoleProvider {
		return errorJSON(c, fiber.StatusBadRequest, "Role must be customer or provider")
	}

	_, err := h.users.GetByEmail(c.UserContext(), input.Email)
	switch {
	case err == nil:
		return errorJSON(c, fiber.StatusConflict, "User with this email already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return storeError(c, h.logger, err, "")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Phone:    input.Phone,
		Role:     input.Role,
	}
	if err := h.users.Create(c.UserContext(), user); err != nil {
		return storeError(c, h.logger, err, "")
	}
	h.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	user, err := h.users.GetByEmail(c.UserContext(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return storeError(c, h.logger, err, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateToken(h.secret, user, tokenTTL)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetUserProfile returns the current user's profile
func (h *AuthHandler) GetUserProfile(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "User not found")
	}
	user.Password = ""
	return c.JSON(user)
}
