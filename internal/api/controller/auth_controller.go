package controller

import (
	"log/slog"
	"net/http"

	"openshelf/library-management/internal/api/models"
	"openshelf/library-management/internal/api/response"
	"openshelf/library-management/internal/api/service"

	"github.com/gin-gonic/gin"
)

// AuthController handles login and registration endpoints.
type AuthController struct {
	authService service.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login handles the user login endpoint.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "login failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error during login")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  result.UserID,
		"cardNo":  result.CardNo,
		"token":   result.Token,
		"message": "Login successful",
	})
}

// Signup handles the user registration endpoint.
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ac.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "signup failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error during registration")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, result.Message)
}
