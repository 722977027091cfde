package services

import (
	"context"

	"github.com/recallhub/recall-service/internal/models"
)

// QuestionService owns the question lifecycle: submission, review,
// visibility and the duplicate probe.
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, submitterID uint) (*QuestionResponse, error)
	GetByID(ctx context.Context, id uint, viewer *models.User) (*QuestionResponse, error)
	List(ctx context.Context, req *ListQuestionsRequest, viewer *models.User) (*QuestionListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actor *models.User) (*QuestionResponse, error)
	Review(ctx context.Context, id uint, decision models.QuestionStatus, actor *models.User) (*QuestionResponse, error)
	Delete(ctx context.Context, id uint, actor *models.User) error
	GetBySubmitter(ctx context.Context, submitterID uint) ([]*QuestionResponse, error)
	CheckDuplicate(ctx context.Context, text string) (*DuplicateCheckResponse, error)
}

// UserService owns registration, login and the moderation dashboard.
type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ModeratorDashboard(ctx context.Context, actor *models.User) (*DashboardResponse, error)
}

// ServiceManager bundles the services for handler wiring.
type ServiceManager interface {
	Question() QuestionService
	User() UserService
}

type serviceManager struct {
	questionService QuestionService
	userService     UserService
}

func NewServiceManager(questionService QuestionService, userService UserService) ServiceManager {
	return &serviceManager{
		questionService: questionService,
		userService:     userService,
	}
}

func (m *serviceManager) Question() QuestionService { return m.questionService }
func (m *serviceManager) User() UserService         { return m.userService }
