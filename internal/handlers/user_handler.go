package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recallhub/recall-service/internal/middleware"
	"github.com/recallhub/recall-service/internal/services"
	"github.com/recallhub/recall-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// Register creates a new contributor account
// @Summary Register
// @Description Registers a new contributor and returns an auth token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.RegisterRequest true "Registration data"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	auth, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, auth)
}

// Login authenticates a user
// @Summary Login
// @Description Exchanges credentials for an auth token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	auth, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, auth)
}

// GetContributions returns a user's contribution ledger
// @Summary Contribution ledger
// @Description Returns a user's contribution counts and approval rate
// @Tags users
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Success 200 {object} gin.H
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/contributions/{id} [get]
func (h *UserHandler) GetContributions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":       user.ID,
		"username":      user.Username,
		"contributions": user.Contributions,
		"approved":      user.Approved,
		"pending":       user.Pending,
		"approval_rate": user.ApprovalRate(),
	})
}

// ModeratorDashboard returns the moderation overview
// @Summary Moderation dashboard
// @Description Returns status counts and the most recent pending questions
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} services.DashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/moderator/dashboard [get]
func (h *UserHandler) ModeratorDashboard(c *gin.Context) {
	dashboard, err := h.userService.ModeratorDashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
