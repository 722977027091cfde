package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recallhub/recall-service/internal/middleware"
	"github.com/recallhub/recall-service/internal/repositories"
	"github.com/recallhub/recall-service/internal/services"
	"github.com/recallhub/recall-service/internal/utils"
	"github.com/recallhub/recall-service/internal/validator"
)

type HandlerManager struct {
	questionHandler *QuestionHandler
	userHandler     *UserHandler
	auth            *middleware.Authenticator
	repo            repositories.Repository
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	auth *middleware.Authenticator,
	repo repositories.Repository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(serviceManager.Question(), validator, logger),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		auth:            auth,
		repo:            repo,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.userHandler.Register)
			auth.POST("/login", hm.userHandler.Login)
		}

		// Question routes. Reads take optional auth so guests see locked
		// placeholders; writes require a token.
		questions := v1.Group("/questions")
		{
			questions.GET("", hm.auth.OptionalAuth(), hm.questionHandler.ListQuestions)
			questions.GET("/duplicate-check", hm.auth.OptionalAuth(), hm.questionHandler.CheckDuplicate)
			questions.GET("/my-questions", hm.auth.RequireAuth(), hm.questionHandler.GetMyQuestions)
			questions.GET("/:id", hm.auth.OptionalAuth(), hm.questionHandler.GetQuestion)

			questions.POST("", hm.auth.RequireAuth(), hm.questionHandler.CreateQuestion)
			questions.PUT("/:id", hm.auth.RequireAuth(), hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.auth.RequireAuth(), hm.questionHandler.DeleteQuestion)
			questions.PUT("/:id/review",
				hm.auth.RequireAuth(), hm.auth.RequireModerator(),
				hm.questionHandler.ReviewQuestion)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/contributions/:id", hm.userHandler.GetContributions)
			users.GET("/moderator/dashboard",
				hm.auth.RequireAuth(), hm.auth.RequireModerator(),
				hm.userHandler.ModeratorDashboard)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	if err := hm.repo.Ping(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "recall-service",
	})
}
