package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/surveyforge/survey-service/internal/events"
	"github.com/surveyforge/survey-service/internal/generator"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/store"
	"github.com/surveyforge/survey-service/internal/utils"
)

// DefaultQuestionCount is used when a request omits the count.
const DefaultQuestionCount = 8

type GenerationService interface {
	Generate(ctx context.Context, session string, req *models.GenerationRequest) (*models.Questionnaire, error)
}

type generationService struct {
	contract  *generator.Contract
	stores    *store.Manager
	publisher events.Publisher
	validator *utils.Validator
	logger    *slog.Logger
}

func NewGenerationService(
	contract *generator.Contract,
	stores *store.Manager,
	publisher events.Publisher,
	validator *utils.Validator,
	logger *slog.Logger,
) GenerationService {
	return &generationService{
		contract:  contract,
		stores:    stores,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// Generate runs the generation contract for the session and adopts the
// result as its current draft. A result superseded by a newer generation
// call is discarded (store.ErrStaleGeneration).
func (s *generationService) Generate(ctx context.Context, session string, req *models.GenerationRequest) (*models.Questionnaire, error) {
	if req.QuestionCount == 0 {
		req.QuestionCount = DefaultQuestionCount
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	s.logger.Info("generating questionnaire",
		"session", session,
		"goal", req.Goal,
		"question_count", req.QuestionCount)

	draftStore := s.stores.ForSession(session)
	if err := draftStore.RememberSeedParams(ctx, &models.SeedParams{
		Goal:          req.Goal,
		Audience:      req.Audience,
		Tone:          req.Tone,
		Language:      req.Language,
		QuestionCount: strconv.Itoa(req.QuestionCount),
	}); err != nil {
		return nil, fmt.Errorf("remember seed params: %w", err)
	}

	seq := draftStore.BeginGeneration()
	questionnaire, usedFallback := s.contract.Generate(ctx, req)

	if err := draftStore.AdoptGenerated(ctx, seq, questionnaire); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.EventQuestionnaireGenerated, events.QuestionnaireGeneratedEvent{
		Session:       session,
		Title:         questionnaire.Title,
		QuestionCount: len(questionnaire.Questions),
		UsedFallback:  usedFallback,
	}); err != nil {
		s.logger.Warn("failed to publish generation event", "error", err)
	}

	return questionnaire, nil
}
