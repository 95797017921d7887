// Package handlers contains HTTP request handlers for the auth service.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/louals/production-api/internal/logging"
	"github.com/louals/production-api/internal/models"
	"github.com/louals/production-api/internal/service"
	"github.com/louals/production-api/internal/validation"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	log         logging.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// UserResponse is the outward-facing user projection. It never carries the
// password hash.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// SignUp godoc
// @Summary Register a new user
// @Description Create a user account with a unique email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.SignupRequest true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req validation.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"details": validation.Details(err),
		})
		return
	}
	req.Normalize()

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "User with this email already exists"})
			return
		}
		LogAndRespondError(c, h.log, http.StatusInternalServerError, err, "signup failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    toUserResponse(user),
	})
}

// SignIn godoc
// @Summary Authenticate a user
// @Description Verify email/password and return the user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.SigninRequest true "Signin payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req validation.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"details": validation.Details(err),
		})
		return
	}
	req.Normalize()

	user, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Unknown email and wrong password are indistinguishable.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		LogAndRespondError(c, h.log, http.StatusInternalServerError, err, "signin failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"user":    toUserResponse(user),
	})
}

// SignOut godoc
// @Summary Sign out
// @Description Stateless placeholder; reserved for future session teardown
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}
