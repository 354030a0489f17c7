package services

import (
	"context"
	"log/slog"

	"github.com/surveyforge/survey-service/internal/events"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/store"
	"github.com/surveyforge/survey-service/internal/submission"
)

type ValidateSubmissionRequest struct {
	Answers models.AnswerSet `json:"answers"`
}

// SubmissionResult reports whether the answers satisfy every required
// question. Violations holds the offending question ids, in question order,
// so the caller can highlight all of them at once.
type SubmissionResult struct {
	Accepted   bool     `json:"accepted"`
	Violations []string `json:"violations"`
}

type SubmissionService interface {
	Validate(ctx context.Context, session string, answers models.AnswerSet) (*SubmissionResult, error)
}

type submissionService struct {
	stores    *store.Manager
	publisher events.Publisher
	logger    *slog.Logger
}

func NewSubmissionService(stores *store.Manager, publisher events.Publisher, logger *slog.Logger) SubmissionService {
	return &submissionService{
		stores:    stores,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *submissionService) Validate(ctx context.Context, session string, answers models.AnswerSet) (*SubmissionResult, error) {
	current := s.stores.ForSession(session).Current()
	if current == nil {
		return nil, ErrNoDraft
	}

	violations := submission.Validate(current, answers)
	result := &SubmissionResult{
		Accepted:   len(violations) == 0,
		Violations: violations,
	}

	if err := s.publisher.Publish(ctx, events.EventDraftSubmitted, events.DraftSubmittedEvent{
		Session:        session,
		Title:          current.Title,
		ViolationCount: len(violations),
	}); err != nil {
		s.logger.Warn("failed to publish submission event", "error", err)
	}

	return result, nil
}
