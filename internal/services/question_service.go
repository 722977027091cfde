package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recallhub/recall-service/internal/cache"
	"github.com/recallhub/recall-service/internal/events"
	"github.com/recallhub/recall-service/internal/models"
	"github.com/recallhub/recall-service/internal/repositories"
	"github.com/recallhub/recall-service/internal/validator"
)

// dashboardCachePattern covers the moderation dashboard keys invalidated on
// every lifecycle change.
const dashboardCachePattern = "dashboard:*"

// minDuplicateProbeLength keeps trivial fragments from matching everything.
const minDuplicateProbeLength = 10

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	gate      *AccessGate
	publisher events.EventPublisher
	cache     cache.CacheService
}

func NewQuestionService(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	gate *AccessGate,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: v,
		gate:      gate,
		publisher: publisher,
		cache:     cacheService,
	}
}

// ===== SUBMISSION =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, submitterID uint) (*QuestionResponse, error) {
	s.logger.Info("Creating question", "submitter_id", submitterID, "exam", req.Exam, "subject", req.Subject)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	answerType := s.validator.Question().ResolveAnswerType(req.AnswerType, req.CorrectAnswers)
	if errs := s.validator.Question().ValidateSubmission(
		req.QuestionText, req.Exam, req.Subject, req.Options, req.CorrectAnswers, answerType,
	); len(errs) > 0 {
		return nil, errs
	}

	question := &models.Question{
		QuestionText:   req.QuestionText,
		AnswerType:     answerType,
		CorrectAnswers: req.CorrectAnswers,
		Explanation:    req.Explanation,
		Discussion:     req.Discussion,
		Exam:           req.Exam,
		Subject:        req.Subject,
		Topics:         dedupe(req.Topics),
		Tags:           dedupe(req.Tags),
		Status:         models.StatusPending,
		SubmittedBy:    submitterID,
	}
	if err := question.SetOptions(req.Options); err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	// The question row and the submitter's ledger move together or not at all.
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Question().Create(ctx, question); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		if err := txRepo.User().RecordSubmission(ctx, submitterID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to record submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewQuestionSubmittedEvent(question))
	s.invalidateDashboard(ctx)

	s.logger.Info("Question created", "question_id", question.ID, "submitter_id", submitterID)

	// Submitters always see their own question in full.
	return buildQuestionResponse(question, false)
}

// ===== READS =====

func (s *questionService) GetByID(ctx context.Context, id uint, viewer *models.User) (*QuestionResponse, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	// pending/rejected questions exist only for their submitter and moderators.
	if question.Status != models.StatusApproved {
		if viewer == nil || (!viewer.Role.CanModerate() && question.SubmittedBy != viewer.ID) {
			return nil, ErrQuestionAccessDenied
		}
		return buildQuestionResponse(question, false)
	}

	rank, err := s.repo.Question().ApprovedRank(ctx, question)
	if err != nil {
		return nil, err
	}
	locked := !s.gate.CanView(question, viewer, rank)
	return buildQuestionResponse(question, locked)
}

func (s *questionService) List(ctx context.Context, req *ListQuestionsRequest, viewer *models.User) (*QuestionListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	filters := repositories.QuestionFilters{
		Exam:    req.Exam,
		Subject: req.Subject,
		Status:  req.Status,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}

	moderates := viewer != nil && viewer.Role.CanModerate()
	if !moderates {
		if req.Status != nil && *req.Status != models.StatusApproved {
			// Non-moderators may only browse their own pending/rejected work.
			if viewer == nil {
				return nil, ErrQuestionAccessDenied
			}
			filters.SubmittedBy = &viewer.ID
		} else if req.Status == nil {
			approved := models.StatusApproved
			filters.Status = &approved
		}
	}

	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.unlockedIDSet(ctx, viewer)
	if err != nil {
		return nil, err
	}

	responses := make([]*QuestionResponse, 0, len(questions))
	for _, q := range questions {
		locked := s.isLockedInListing(q, viewer, unlocked)
		resp, err := buildQuestionResponse(q, locked)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	return &QuestionListResponse{Questions: responses, Total: total}, nil
}

func (s *questionService) GetBySubmitter(ctx context.Context, submitterID uint) ([]*QuestionResponse, error) {
	questions, err := s.repo.Question().GetBySubmitter(ctx, submitterID)
	if err != nil {
		return nil, err
	}
	responses := make([]*QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp, err := buildQuestionResponse(q, false)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *questionService) CheckDuplicate(ctx context.Context, text string) (*DuplicateCheckResponse, error) {
	probe := strings.TrimSpace(text)
	if len(probe) < minDuplicateProbeLength {
		return &DuplicateCheckResponse{IsDuplicate: false}, nil
	}

	similar, err := s.repo.Question().FindSimilarByText(ctx, probe, 5)
	if err != nil {
		return nil, err
	}
	return &DuplicateCheckResponse{
		IsDuplicate:      len(similar) > 0,
		SimilarQuestions: similar,
	}, nil
}

// ===== MUTATIONS =====

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actor *models.User) (*QuestionResponse, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if !actor.Role.CanModerate() && question.SubmittedBy != actor.ID {
		return nil, NewPermissionError(actor.ID, id, "question", "update", "not submitter or moderator")
	}
	if req.Status != nil && !actor.Role.CanModerate() {
		return nil, ErrStatusChangeNotAllowed
	}

	if err := s.applyContentUpdate(question, req); err != nil {
		return nil, err
	}

	// A status change rides the same update and runs the review transition.
	if req.Status != nil && *req.Status != question.Status {
		return s.reviewWithContent(ctx, question, *req.Status, actor)
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info("Question updated", "question_id", id, "actor_id", actor.ID)
	return buildQuestionResponse(question, false)
}

func (s *questionService) Review(ctx context.Context, id uint, decision models.QuestionStatus, actor *models.User) (*QuestionResponse, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return s.reviewWithContent(ctx, question, decision, actor)
}

// reviewWithContent transitions a loaded question out of pending and updates
// the submitter's ledger in the same transaction. question may carry
// uncommitted content edits; they land atomically with the decision.
func (s *questionService) reviewWithContent(ctx context.Context, question *models.Question, decision models.QuestionStatus, actor *models.User) (*QuestionResponse, error) {
	if actor == nil || !actor.Role.CanModerate() {
		actorID := uint(0)
		if actor != nil {
			actorID = actor.ID
		}
		return nil, NewPermissionError(actorID, question.ID, "question", "review", "moderator role required")
	}
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, ErrInvalidReviewDecision
	}
	if question.IsDecided() {
		return nil, ErrQuestionAlreadyDecided
	}

	question.Status = decision
	question.ReviewedBy = &actor.ID

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Question().Update(ctx, question); err != nil {
			return fmt.Errorf("failed to update question status: %w", err)
		}
		if decision == models.StatusApproved {
			if err := txRepo.User().RecordApproval(ctx, question.SubmittedBy); err != nil {
				return fmt.Errorf("failed to record approval: %w", err)
			}
		} else {
			if err := txRepo.User().RecordRejection(ctx, question.SubmittedBy); err != nil {
				return fmt.Errorf("failed to record rejection: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewQuestionReviewedEvent(question, actor.ID))
	s.invalidateDashboard(ctx)

	s.logger.Info("Question reviewed",
		"question_id", question.ID,
		"decision", decision,
		"reviewer_id", actor.ID)

	return buildQuestionResponse(question, false)
}

func (s *questionService) Delete(ctx context.Context, id uint, actor *models.User) error {
	if actor == nil {
		return ErrUnauthorized
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if !actor.Role.CanModerate() && question.SubmittedBy != actor.ID {
		return NewPermissionError(actor.ID, id, "question", "delete", "not submitter or moderator")
	}

	if err := s.repo.Question().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("Question deleted", "question_id", id, "actor_id", actor.ID)
	return nil
}

// ===== HELPERS =====

func (s *questionService) applyContentUpdate(question *models.Question, req *UpdateQuestionRequest) error {
	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.Options != nil {
		if err := question.SetOptions(*req.Options); err != nil {
			return fmt.Errorf("failed to encode options: %w", err)
		}
	}
	if req.CorrectAnswers != nil {
		question.CorrectAnswers = *req.CorrectAnswers
	}
	if req.AnswerType != nil {
		question.AnswerType = *req.AnswerType
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}
	if req.Discussion != nil {
		question.Discussion = req.Discussion
	}
	if req.Exam != nil {
		question.Exam = *req.Exam
	}
	if req.Subject != nil {
		question.Subject = *req.Subject
	}
	if req.Topics != nil {
		question.Topics = dedupe(*req.Topics)
	}
	if req.Tags != nil {
		question.Tags = dedupe(*req.Tags)
	}

	// Re-check the structural invariants on the merged result.
	opts, err := question.OptionList()
	if err != nil {
		return err
	}
	if errs := s.validator.Question().ValidateSubmission(
		question.QuestionText, question.Exam, question.Subject, opts, question.CorrectAnswers, question.AnswerType,
	); len(errs) > 0 {
		return errs
	}
	return nil
}

// unlockedIDSet resolves the viewer's entitlement to the concrete set of
// unlocked question ids, nil when the viewer bypasses the entitlement.
func (s *questionService) unlockedIDSet(ctx context.Context, viewer *models.User) (map[uint]bool, error) {
	if viewer != nil && (viewer.Role.CanModerate() || viewer.HasActiveSubscription(s.gate.now())) {
		return nil, nil
	}

	entitlement := s.gate.Entitlement(viewer)
	ids, err := s.repo.Question().OldestApprovedIDs(ctx, entitlement)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

func (s *questionService) isLockedInListing(q *models.Question, viewer *models.User, unlocked map[uint]bool) bool {
	if unlocked == nil {
		return false // moderator or subscriber
	}
	if viewer != nil && q.SubmittedBy == viewer.ID {
		return false
	}
	if q.Status != models.StatusApproved {
		// Non-approved rows in a listing are always the viewer's own here;
		// the filter scoping above guarantees it.
		return false
	}
	return !unlocked[q.ID]
}

func (s *questionService) publishEvent(ctx context.Context, event *events.ReviewEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReviewEvent(ctx, event); err != nil {
		// Events are advisory; the state change has already committed.
		s.logger.Warn("Failed to publish review event", "event_type", event.Type, "error", err)
	}
}

func (s *questionService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", "error", err)
	}
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
