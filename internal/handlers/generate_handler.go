package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/utils"
)

type GenerateHandler struct {
	BaseHandler
	generationService services.GenerationService
}

func NewGenerateHandler(generationService services.GenerationService, logger utils.Logger) *GenerateHandler {
	return &GenerateHandler{
		BaseHandler:       NewBaseHandler(logger),
		generationService: generationService,
	}
}

// Generate produces a questionnaire for the request and adopts it as the
// session's current draft
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Generating questionnaire", "goal", req.Goal, "question_count", req.QuestionCount)

	questionnaire, err := h.generationService.Generate(c.Request.Context(), sessionID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questionnaire)
}
