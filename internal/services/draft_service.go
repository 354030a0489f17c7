package services

import (
	"context"
	"log/slog"

	"github.com/surveyforge/survey-service/internal/editor"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/store"
	"github.com/surveyforge/survey-service/internal/utils"
)

// ===== REQUEST STRUCTURES =====

type InsertQuestionRequest struct {
	Index    int    `json:"index" validate:"min=0"`
	Position string `json:"position" validate:"required,oneof=above below"`
	Type     string `json:"type" validate:"required,question_type"`
}

type ChangeTypeRequest struct {
	Type string `json:"type" validate:"required,question_type"`
}

type UpdateOptionRequest struct {
	Value string `json:"value"`
}

type UpdateTextRequest struct {
	Value string `json:"value"`
}

type EnterPageRequest struct {
	Reason string `json:"reason" validate:"required,entry_reason"`
}

// DraftService exposes the draft lifecycle and the structural edit
// operations. Every edit builds a new snapshot through the editor package
// and hands it to the session's draft store.
type DraftService interface {
	Current(ctx context.Context, session string) (*models.Questionnaire, error)
	EnterPage(ctx context.Context, session string, reason store.EntryReason) (*models.Questionnaire, error)
	Recent(ctx context.Context, session string) ([]models.RecentEntry, error)
	LoadFromRecent(ctx context.Context, session, entryID string) (*models.Questionnaire, error)
	SeedParams(ctx context.Context, session string) (*models.SeedParams, error)

	InsertQuestion(ctx context.Context, session string, req *InsertQuestionRequest) (*models.Questionnaire, error)
	ChangeType(ctx context.Context, session, questionID string, req *ChangeTypeRequest) (*models.Questionnaire, error)
	UpdateField(ctx context.Context, session, questionID string, patch editor.FieldPatch) (*models.Questionnaire, error)
	UpdateOption(ctx context.Context, session, questionID string, index int, value string) (*models.Questionnaire, error)
	UpdateTitle(ctx context.Context, session, title string) (*models.Questionnaire, error)
	UpdateIntro(ctx context.Context, session, intro string) (*models.Questionnaire, error)
}

type draftService struct {
	stores    *store.Manager
	validator *utils.Validator
	logger    *slog.Logger
}

func NewDraftService(stores *store.Manager, validator *utils.Validator, logger *slog.Logger) DraftService {
	return &draftService{
		stores:    stores,
		validator: validator,
		logger:    logger,
	}
}

func (s *draftService) Current(_ context.Context, session string) (*models.Questionnaire, error) {
	current := s.stores.ForSession(session).Current()
	if current == nil {
		return nil, ErrNoDraft
	}
	return current, nil
}

func (s *draftService) EnterPage(ctx context.Context, session string, reason store.EntryReason) (*models.Questionnaire, error) {
	s.logger.Info("entering editor page", "session", session, "reason", reason)
	return s.stores.ForSession(session).RestoreOnNavigate(ctx, reason)
}

func (s *draftService) Recent(ctx context.Context, session string) ([]models.RecentEntry, error) {
	return s.stores.ForSession(session).Recent(ctx)
}

func (s *draftService) LoadFromRecent(ctx context.Context, session, entryID string) (*models.Questionnaire, error) {
	return s.stores.ForSession(session).LoadFromRecent(ctx, entryID)
}

func (s *draftService) SeedParams(ctx context.Context, session string) (*models.SeedParams, error) {
	return s.stores.ForSession(session).SeedParams(ctx)
}

func (s *draftService) InsertQuestion(ctx context.Context, session string, req *InsertQuestionRequest) (*models.Questionnaire, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.edit(ctx, session, func(current *models.Questionnaire) (*models.Questionnaire, error) {
		return editor.InsertQuestion(current, req.Index, editor.Position(req.Position), models.QuestionType(req.Type))
	})
}

func (s *draftService) ChangeType(ctx context.Context, session, questionID string, req *ChangeTypeRequest) (*models.Questionnaire, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.edit(ctx, session, func(current *models.Questionnaire) (*models.Questionnaire, error) {
		return editor.ChangeType(current, questionID, models.QuestionType(req.Type))
	})
}

func (s *draftService) UpdateField(ctx context.Context, session, questionID string, patch editor.FieldPatch) (*models.Questionnaire, error) {
	return s.edit(ctx, session, func(current *models.Questionnaire) (*models.Questionnaire, error) {
		return editor.UpdateField(current, questionID, patch)
	})
}

func (s *draftService) UpdateOption(ctx context.Context, session, questionID string, index int, value string) (*models.Questionnaire, error) {
	return s.edit(ctx, session, func(current *models.Questionnaire) (*models.Questionnaire, error) {
		return editor.UpdateOption(current, questionID, index, value)
	})
}

func (s *draftService) UpdateTitle(ctx context.Context, session, title string) (*models.Questionnaire, error) {
	return s.edit(ctx, session, func(current *models.Questionnaire) (*models.Questionnaire, error) {
		return editor.UpdateTitle(current, title), nil
	})
}

func (s *draftService) UpdateIntro(ctx context.Context, session, intro string) (*models.Questionnaire, error) {
	return s.edit(ctx, session, func(current *models.Questionnaire) (*models.Questionnaire, error) {
		return editor.UpdateIntro(current, intro), nil
	})
}

func (s *draftService) edit(ctx context.Context, session string, transform func(*models.Questionnaire) (*models.Questionnaire, error)) (*models.Questionnaire, error) {
	draftStore := s.stores.ForSession(session)
	current := draftStore.Current()
	if current == nil {
		return nil, ErrNoDraft
	}

	next, err := transform(current)
	if err != nil {
		return nil, err
	}
	if err := draftStore.ApplyEdit(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
