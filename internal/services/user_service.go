package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/recallhub/recall-service/internal/cache"
	"github.com/recallhub/recall-service/internal/models"
	"github.com/recallhub/recall-service/internal/repositories"
	"github.com/recallhub/recall-service/internal/validator"
)

const (
	tokenLifetime     = 24 * time.Hour
	dashboardCacheKey = "dashboard:moderation"
	dashboardCacheTTL = 30 * time.Second
	recentPendingSize = 5
)

// AuthClaims is the JWT payload issued at login.
type AuthClaims struct {
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
	jwtSecret []byte
	now       func() time.Time
}

func NewUserService(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	cacheService cache.CacheService,
	jwtSecret string,
) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: v,
		cache:     cacheService,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// ===== AUTH =====

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	emailTaken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}
	usernameTaken, err := s.repo.User().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameTaken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleContributor,
		Specialty:    req.Specialty,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *userService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := AuthClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ===== READS =====

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ModeratorDashboard returns status counts plus the most recent pending
// questions. The counts scan the whole table so the result is cached for a
// short window; lifecycle changes invalidate it eagerly.
func (s *userService) ModeratorDashboard(ctx context.Context, actor *models.User) (*DashboardResponse, error) {
	if actor == nil || !actor.Role.CanModerate() {
		return nil, ErrForbidden
	}

	if s.cache != nil {
		var cached DashboardResponse
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Dashboard cache read failed", "error", err)
		}
	}

	counts, err := s.repo.Question().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Question().GetRecentPending(ctx, recentPendingSize)
	if err != nil {
		return nil, err
	}

	recentResponses := make([]*QuestionResponse, 0, len(recent))
	for _, q := range recent {
		resp, err := buildQuestionResponse(q, false)
		if err != nil {
			return nil, err
		}
		recentResponses = append(recentResponses, resp)
	}

	dashboard := &DashboardResponse{
		PendingCount:  counts.Pending,
		ApprovedCount: counts.Approved,
		RejectedCount: counts.Rejected,
		RecentPending: recentResponses,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, dashboard, dashboardCacheTTL); err != nil {
			s.logger.Warn("Dashboard cache write failed", "error", err)
		}
	}
	return dashboard, nil
}
