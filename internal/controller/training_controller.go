package controller

import (
	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TrainingController exposes the progress engine to authenticated
// citizens and workers.
type TrainingController struct {
	TrainingService    *service.TrainingService
	LeaderboardService *service.LeaderboardService
}

func NewTrainingController(trainingService *service.TrainingService, leaderboardService *service.LeaderboardService) *TrainingController {
	return &TrainingController{
		TrainingService:    trainingService,
		LeaderboardService: leaderboardService,
	}
}

// @Summary List training modules
// @Description Returns the role's catalog with the caller's progress attached
// @Tags training
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "CITIZEN or WORKER, defaults to the caller's role"
// @Success 200 {object} util.Response
// @Router /training/modules [get]
func (c *TrainingController) GetModules(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	role := model.UserRole(ctx.Query("role"))
	if role == "" {
		role = user.Role
	}
	if role != model.Citizen && role != model.Worker {
		util.BadRequest(ctx, "role must be CITIZEN or WORKER")
		return
	}

	modules, err := c.TrainingService.GetModules(role, user.UserID)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary Get one training module
// @Tags training
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "module id"
// @Success 200 {object} util.Response
// @Router /training/modules/{id} [get]
func (c *TrainingController) GetModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	module, err := c.TrainingService.GetModuleByID(ctx.Param("id"), user.UserID)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary Get the caller's progress for one module
// @Tags training
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "module id"
// @Success 200 {object} util.Response
// @Router /training/modules/{id}/progress [get]
func (c *TrainingController) GetModuleProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.TrainingService.GetModuleProgress(user.UserID, ctx.Param("id"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Record item progress
// @Description Upserts progress for one flashcard, video or quiz and recomputes the module aggregate
// @Tags training
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.ProgressEvent true "progress event"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /training/progress [post]
func (c *TrainingController) RecordProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev model.ProgressEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, module, err := c.TrainingService.RecordItemProgress(ctx.Request.Context(), user.UserID, ev)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"itemProgress":   item,
		"moduleProgress": module,
	})
}

// @Summary Overall training progress
// @Description Returns xp, level, streak and badges for the caller
// @Tags training
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /training/user/progress [get]
func (c *TrainingController) GetUserProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.TrainingService.GetUserOverallProgress(user.UserID, user.Role)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Leaderboard
// @Description Full ranking for a role, xp descending with deterministic ties
// @Tags training
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "CITIZEN or WORKER, defaults to the caller's role"
// @Success 200 {object} util.Response
// @Router /training/leaderboard [get]
func (c *TrainingController) GetLeaderboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	role := model.UserRole(ctx.Query("role"))
	if role == "" {
		role = user.Role
	}

	entries, err := c.LeaderboardService.GetLeaderboard(ctx.Request.Context(), role)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// @Summary The caller's rank
// @Description Returns the caller's leaderboard entry even outside the top of the list
// @Tags training
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /training/my-rank [get]
func (c *TrainingController) GetMyRank(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rank, err := c.LeaderboardService.GetMyRank(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, rank)
}
