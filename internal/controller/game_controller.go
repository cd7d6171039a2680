package controller

import (
	"errors"
	"io"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/repository"
	"simtrain_backend/internal/service"
	"simtrain_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
	SessionRepo *repository.GameSessionRepository
}

func NewGameController(gameService *service.GameService, sessionRepo *repository.GameSessionRepository) *GameController {
	return &GameController{
		GameService: gameService,
		SessionRepo: sessionRepo,
	}
}

// GetGameTypes godoc
// @Summary List available simulation types
// @Description Catalog of game types with display names and score parameter labels
// @Tags games
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/games/types [get]
func (c *GameController) GetGameTypes(ctx *gin.Context) {
	types := make([]gin.H, 0, len(model.CatalogOrder()))
	for _, gameType := range model.CatalogOrder() {
		labels := model.ParameterLabelsFor(gameType)
		types = append(types, gin.H{
			"key":         gameType,
			"displayName": model.GameTypeDisplayName(gameType),
			"parameters":  []string{labels.Param1, labels.Param2, labels.Param3},
		})
	}
	util.Success(ctx, gin.H{"gameTypes": types})
}

// swagger:model StartGameRequest
type StartGameRequest struct {
	GameType string `json:"gameType" binding:"required"`
}

// StartGame godoc
// @Summary Start a new simulation
// @Description Generates a fresh scenario and returns the session id and opening briefing
// @Tags games
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartGameRequest true "Game type key or alias"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid parameters"
// @Failure 500 {object} util.Response "Scenario generation failed"
// @Router /api/games/start [post]
func (c *GameController) StartGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	game, err := c.GameService.StartGame(claims.UserID, req.GameType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"sessionId": game.SessionID,
		"gameType":  game.GameType,
		"caseTitle": game.CaseTitle,
		"briefing":  game.Briefing,
		"startedAt": game.StartedAt,
	})
}

// swagger:model GameActionRequest
type GameActionRequest struct {
	Action string `json:"action" binding:"required"`
	Hint   bool   `json:"hint"`
}

// ProcessAction godoc
// @Summary Submit an action in a running simulation
// @Tags games
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Session ID"
// @Param   body body GameActionRequest true "Player action; hint=true asks for a nudge"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 403 {object} util.Response "Not your session"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/games/{id}/action [post]
func (c *GameController) ProcessAction(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GameActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.GameService.ProcessAction(claims.UserID, ctx.Param("id"), req.Action, req.Hint)
	if err != nil {
		c.writeGameError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"reply": reply})
}

// StreamAction godoc
// @Summary Submit an action and stream the reply
// @Description Server-sent events; each event carries one reply chunk, terminated by event "done"
// @Tags games
// @Accept  json
// @Produce  text/event-stream
// @Security ApiKeyAuth
// @Param   id path string true "Session ID"
// @Param   body body GameActionRequest true "Player action"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/games/{id}/action/stream [post]
func (c *GameController) StreamAction(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GameActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chunks, errChan, err := c.GameService.StreamAction(claims.UserID, ctx.Param("id"), req.Action)
	if err != nil {
		c.writeGameError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.Stream(func(w io.Writer) bool {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				if err := <-errChan; err != nil {
					ctx.SSEvent("error", err.Error())
				} else {
					ctx.SSEvent("done", "")
				}
				return false
			}
			ctx.SSEvent("message", chunk)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

// EndGame godoc
// @Summary End a simulation and receive the evaluation
// @Description Finishes the session; the score breakdown may be absent when evaluation fails
// @Tags games
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Session ID"
// @Success 200 {object} util.Response{data=model.GameSession} "Success"
// @Failure 403 {object} util.Response "Not your session"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/games/{id}/end [post]
func (c *GameController) EndGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.GameService.EndGame(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.writeGameError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

// GetHistory godoc
// @Summary Own session history
// @Description Finished sessions, newest first
// @Tags games
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "Max sessions, 0 for all" default(0)
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/games/history [get]
func (c *GameController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	sessions, err := c.SessionRepo.FindByUserID(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"sessions": sessions, "total": len(sessions)})
}

func (c *GameController) writeGameError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
