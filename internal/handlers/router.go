package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/surveyforge/survey-service/internal/config"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/utils"
)

type HandlerManager struct {
	cfg             *config.Config
	authService     services.AuthService
	authHandler     *AuthHandler
	generateHandler *GenerateHandler
	draftHandler    *DraftHandler
}

func NewHandlerManager(
	cfg *config.Config,
	authService services.AuthService,
	generationService services.GenerationService,
	draftService services.DraftService,
	submissionService services.SubmissionService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		cfg:             cfg,
		authService:     authService,
		authHandler:     NewAuthHandler(authService, logger),
		generateHandler: NewGenerateHandler(generationService, logger),
		draftHandler:    NewDraftHandler(draftService, submissionService, exportService, validator, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(CORS(hm.cfg.FrontendOrigins))

	router.GET("/health", HealthCheck)

	auth := router.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.GET("/me", hm.authHandler.Me)
	}

	// Generation and draft routes operate on the caller's session. A bearer
	// token is resolved when present; generation requires one only when the
	// deployment's policy says so.
	session := router.Group("")
	session.Use(Auth(hm.authService, false), Session())
	{
		generate := session.Group("")
		if hm.cfg.RequireAuthForGenerate {
			generate.Use(Auth(hm.authService, true))
		}
		generate.POST("/generate", hm.generateHandler.Generate)

		session.POST("/session/enter", hm.draftHandler.EnterPage)
		session.GET("/seed-params", hm.draftHandler.GetSeedParams)

		draft := session.Group("/draft")
		{
			draft.GET("", hm.draftHandler.GetDraft)
			draft.PUT("/title", hm.draftHandler.UpdateTitle)
			draft.PUT("/intro", hm.draftHandler.UpdateIntro)
			draft.POST("/questions", hm.draftHandler.InsertQuestion)
			draft.PATCH("/questions/:id", hm.draftHandler.UpdateQuestion)
			draft.PUT("/questions/:id/type", hm.draftHandler.ChangeQuestionType)
			draft.PUT("/questions/:id/options/:index", hm.draftHandler.UpdateQuestionOption)
			draft.POST("/validate", hm.draftHandler.ValidateSubmission)
			draft.GET("/export", hm.draftHandler.ExportDraft)
		}

		recent := session.Group("/recent")
		{
			recent.GET("", hm.draftHandler.ListRecent)
			recent.POST("/:id/load", hm.draftHandler.LoadRecent)
		}
	}
}
