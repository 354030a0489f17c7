package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/surveyforge/survey-service/internal/editor"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/store"
	"github.com/surveyforge/survey-service/internal/utils"
)

type DraftHandler struct {
	BaseHandler
	draftService      services.DraftService
	submissionService services.SubmissionService
	exportService     services.ExportService
	validator         *utils.Validator
}

func NewDraftHandler(
	draftService services.DraftService,
	submissionService services.SubmissionService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *DraftHandler {
	return &DraftHandler{
		BaseHandler:       NewBaseHandler(logger),
		draftService:      draftService,
		submissionService: submissionService,
		exportService:     exportService,
		validator:         validator,
	}
}

// EnterPage applies the page-entry policy: a fresh load clears the draft,
// resumed navigation restores it
func (h *DraftHandler) EnterPage(c *gin.Context) {
	var req services.EnterPageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	restored, err := h.draftService.EnterPage(c.Request.Context(), sessionID(c), store.EntryReason(req.Reason))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": restored})
}

// GetDraft returns the session's current draft
func (h *DraftHandler) GetDraft(c *gin.Context) {
	current, err := h.draftService.Current(c.Request.Context(), sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

// UpdateTitle replaces the draft title
func (h *DraftHandler) UpdateTitle(c *gin.Context) {
	var req services.UpdateTextRequest
	if !h.bindJSON(c, &req) {
		return
	}

	next, err := h.draftService.UpdateTitle(c.Request.Context(), sessionID(c), req.Value)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// UpdateIntro replaces the draft intro
func (h *DraftHandler) UpdateIntro(c *gin.Context) {
	var req services.UpdateTextRequest
	if !h.bindJSON(c, &req) {
		return
	}

	next, err := h.draftService.UpdateIntro(c.Request.Context(), sessionID(c), req.Value)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// InsertQuestion adds a new question above or below the given index
func (h *DraftHandler) InsertQuestion(c *gin.Context) {
	var req services.InsertQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	next, err := h.draftService.InsertQuestion(c.Request.Context(), sessionID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// UpdateQuestion patches the text and/or required flag of a question
func (h *DraftHandler) UpdateQuestion(c *gin.Context) {
	var patch editor.FieldPatch
	if !h.bindJSON(c, &patch) {
		return
	}

	next, err := h.draftService.UpdateField(c.Request.Context(), sessionID(c), c.Param("id"), patch)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// ChangeQuestionType retypes a question, re-deriving its options
func (h *DraftHandler) ChangeQuestionType(c *gin.Context) {
	var req services.ChangeTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	next, err := h.draftService.ChangeType(c.Request.Context(), sessionID(c), c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// UpdateQuestionOption replaces one option string of a question
func (h *DraftHandler) UpdateQuestionOption(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid option index"})
		return
	}

	var req services.UpdateOptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	next, err := h.draftService.UpdateOption(c.Request.Context(), sessionID(c), c.Param("id"), index, req.Value)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// ListRecent returns the recency cache, most recent first
func (h *DraftHandler) ListRecent(c *gin.Context) {
	recent, err := h.draftService.Recent(c.Request.Context(), sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent": recent})
}

// LoadRecent makes a recency cache entry the current draft
func (h *DraftHandler) LoadRecent(c *gin.Context) {
	loaded, err := h.draftService.LoadFromRecent(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, loaded)
}

// GetSeedParams returns the last-used generation inputs for the session
func (h *DraftHandler) GetSeedParams(c *gin.Context) {
	seed, err := h.draftService.SeedParams(c.Request.Context(), sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seed_params": seed})
}

// ValidateSubmission checks answers against the draft's required questions
func (h *DraftHandler) ValidateSubmission(c *gin.Context) {
	var req services.ValidateSubmissionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.submissionService.Validate(c.Request.Context(), sessionID(c), req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportDraft streams the current draft as an xlsx workbook
func (h *DraftHandler) ExportDraft(c *gin.Context) {
	data, filename, err := h.exportService.ExportXLSX(c.Request.Context(), sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
