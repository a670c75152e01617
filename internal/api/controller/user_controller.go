package controller

import (
	"log/slog"
	"net/http"

	"openshelf/library-management/internal/api/models"
	"openshelf/library-management/internal/api/response"
	"openshelf/library-management/internal/api/service"

	"github.com/gin-gonic/gin"
)

// UserController handles profile and dashboard endpoints.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetUserStats aggregates borrowing counts and outstanding fines.
func (uc *UserController) GetUserStats(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	stats, err := uc.userService.Stats(c.Request.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to fetch user stats", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user statistics")
		return
	}
	response.SuccessPayload(c, stats)
}

// GetUserProfile returns the joined user+card view.
func (uc *UserController) GetUserProfile(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	profile, err := uc.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to fetch user profile", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}
	if profile == nil {
		response.ErrorResponse(c, http.StatusNotFound, "User not found")
		return
	}
	response.SuccessPayload(c, profile)
}

// UpdateUserProfile writes a full-field profile update.
func (uc *UserController) UpdateUserProfile(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := uc.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to update user profile", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to update user profile")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}
	response.SuccessResponse(c, http.StatusOK, result.Message)
}
