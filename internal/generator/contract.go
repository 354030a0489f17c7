package generator

import (
	"context"
	"log/slog"

	"github.com/surveyforge/survey-service/internal/models"
)

// Contract is the generation operation exposed to the rest of the service.
// It prefers the primary generator and falls back to the deterministic one on
// any primary failure, so from the caller's perspective it always succeeds.
type Contract struct {
	primary  Generator
	fallback *Fallback
	logger   *slog.Logger
}

// NewContract builds a contract around an optional primary generator.
// Pass nil primary to run fallback-only.
func NewContract(primary Generator, logger *slog.Logger) *Contract {
	return &Contract{
		primary:  primary,
		fallback: NewFallback(),
		logger:   logger,
	}
}

// Generate returns a structurally valid questionnaire and whether the
// fallback produced it.
func (c *Contract) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Questionnaire, bool) {
	if c.primary != nil {
		questionnaire, err := c.primary.Generate(ctx, req)
		if err == nil {
			questionnaire.Normalize()
			autoRequired(questionnaire)
			return questionnaire, false
		}
		c.logger.Warn("primary generation failed, using fallback", "error", err)
	}

	questionnaire, _ := c.fallback.Generate(ctx, req)
	questionnaire.Normalize()
	autoRequired(questionnaire)
	return questionnaire, true
}

// autoRequired ensures at least one question is required when the generator
// marked none: choice and rating questions become required, and if the
// questionnaire still has no required question the first one does.
func autoRequired(q *models.Questionnaire) {
	for i := range q.Questions {
		if q.Questions[i].Required {
			return
		}
	}
	marked := false
	for i := range q.Questions {
		if q.Questions[i].Type == models.SingleChoice || q.Questions[i].Type == models.Rating {
			q.Questions[i].Required = true
			marked = true
		}
	}
	if !marked && len(q.Questions) > 0 {
		q.Questions[0].Required = true
	}
}
