package controller

import (
	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController holds the admin authoring endpoints for the training
// content catalog.
type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

type CreateModuleRequest struct {
	Title string         `json:"title" binding:"required"`
	Role  model.UserRole `json:"role" binding:"required"`
}

// @Summary Create a training module
// @Tags training-admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateModuleRequest true "module"
// @Success 201 {object} util.Response
// @Router /training/modules [post]
func (c *CatalogController) CreateModule(ctx *gin.Context) {
	var req CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CatalogService.CreateModule(req.Title, req.Role)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// @Summary Delete a training module
// @Tags training-admin
// @Security ApiKeyAuth
// @Param id path string true "module id"
// @Success 200 {object} util.Response
// @Router /training/modules/{id} [delete]
func (c *CatalogController) DeleteModule(ctx *gin.Context) {
	if err := c.CatalogService.DeleteModule(ctx.Param("id")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type FlashcardRequest struct {
	ModuleID string `json:"moduleId"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// @Summary Add a flashcard
// @Tags training-admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body FlashcardRequest true "flashcard"
// @Success 201 {object} util.Response
// @Router /training/flashcards [post]
func (c *CatalogController) AddFlashcard(ctx *gin.Context) {
	var req FlashcardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.ModuleID == "" {
		util.BadRequest(ctx, "moduleId is required")
		return
	}

	card, err := c.CatalogService.AddFlashcard(req.ModuleID, req.Question, req.Answer)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, card)
}

// @Summary Update a flashcard
// @Tags training-admin
// @Accept json
// @Security ApiKeyAuth
// @Param id path string true "flashcard id"
// @Param body body FlashcardRequest true "flashcard"
// @Success 200 {object} util.Response
// @Router /training/flashcards/{id} [put]
func (c *CatalogController) UpdateFlashcard(ctx *gin.Context) {
	var req FlashcardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CatalogService.UpdateFlashcard(ctx.Param("id"), req.Question, req.Answer); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Delete a flashcard
// @Tags training-admin
// @Security ApiKeyAuth
// @Param id path string true "flashcard id"
// @Success 200 {object} util.Response
// @Router /training/flashcards/{id} [delete]
func (c *CatalogController) DeleteFlashcard(ctx *gin.Context) {
	if err := c.CatalogService.DeleteFlashcard(ctx.Param("id")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type VideoRequest struct {
	ModuleID string `json:"moduleId"`
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// @Summary Add a video
// @Tags training-admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body VideoRequest true "video"
// @Success 201 {object} util.Response
// @Router /training/videos [post]
func (c *CatalogController) AddVideo(ctx *gin.Context) {
	var req VideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.ModuleID == "" {
		util.BadRequest(ctx, "moduleId is required")
		return
	}

	video, err := c.CatalogService.AddVideo(req.ModuleID, req.Title, req.URL)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// @Summary Update a video
// @Tags training-admin
// @Accept json
// @Security ApiKeyAuth
// @Param id path string true "video id"
// @Param body body VideoRequest true "video"
// @Success 200 {object} util.Response
// @Router /training/videos/{id} [put]
func (c *CatalogController) UpdateVideo(ctx *gin.Context) {
	var req VideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CatalogService.UpdateVideo(ctx.Param("id"), req.Title, req.URL); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Delete a video
// @Tags training-admin
// @Security ApiKeyAuth
// @Param id path string true "video id"
// @Success 200 {object} util.Response
// @Router /training/videos/{id} [delete]
func (c *CatalogController) DeleteVideo(ctx *gin.Context) {
	if err := c.CatalogService.DeleteVideo(ctx.Param("id")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Upload a video file
// @Description Stores the file and returns the URL to use for a video item
// @Tags training-admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "video file"
// @Success 201 {object} util.Response
// @Router /training/videos/upload [post]
func (c *CatalogController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.CatalogService.UploadVideoFile(ctx.Request.Context(), file)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}

type QuizRequest struct {
	ModuleID string `json:"moduleId" binding:"required"`
	Title    string `json:"title" binding:"required"`
}

// @Summary Add a quiz
// @Tags training-admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuizRequest true "quiz"
// @Success 201 {object} util.Response
// @Router /training/quizzes [post]
func (c *CatalogController) AddQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.CatalogService.AddQuiz(req.ModuleID, req.Title)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary Delete a quiz
// @Tags training-admin
// @Security ApiKeyAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response
// @Router /training/quizzes/{id} [delete]
func (c *CatalogController) DeleteQuiz(ctx *gin.Context) {
	if err := c.CatalogService.DeleteQuiz(ctx.Param("id")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type QuestionRequest struct {
	QuizID   string                `json:"quizId" binding:"required"`
	Type     model.QuestionType    `json:"type" binding:"required"`
	Question string                `json:"question" binding:"required"`
	Answer   string                `json:"answer"`
	Options  []service.OptionInput `json:"options"`
}

// @Summary Add a quiz question
// @Tags training-admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuestionRequest true "question with options for MCQ"
// @Success 201 {object} util.Response
// @Router /training/questions [post]
func (c *CatalogController) AddQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.CatalogService.AddQuizQuestion(req.QuizID, req.Type, req.Question, req.Answer, req.Options)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary Delete a quiz question
// @Tags training-admin
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Router /training/questions/{id} [delete]
func (c *CatalogController) DeleteQuestion(ctx *gin.Context) {
	if err := c.CatalogService.DeleteQuizQuestion(ctx.Param("id")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type OptionRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Text       string `json:"text" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

// @Summary Add a quiz option
// @Tags training-admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body OptionRequest true "option"
// @Success 201 {object} util.Response
// @Router /training/options [post]
func (c *CatalogController) AddOption(ctx *gin.Context) {
	var req OptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	option, err := c.CatalogService.AddQuizOption(req.QuestionID, req.Text, req.IsCorrect)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, option)
}

// @Summary Delete a quiz option
// @Tags training-admin
// @Security ApiKeyAuth
// @Param id path string true "option id"
// @Success 200 {object} util.Response
// @Router /training/options/{id} [delete]
func (c *CatalogController) DeleteOption(ctx *gin.Context) {
	if err := c.CatalogService.DeleteQuizOption(ctx.Param("id")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
