package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tales-server/internal/game"
	"tales-server/internal/service"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp ErrorResponse

	switch {
	case errors.Is(err, service.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeStoryNotFound, Message: "Story not found"}
	case errors.Is(err, service.ErrImageNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeImageNotFound, Message: "Image not found"}
	case errors.Is(err, service.ErrActivityNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeContentNotFound, Message: "Activity not found"}
	case errors.Is(err, service.ErrGameNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeContentNotFound, Message: "Game not found"}
	case errors.Is(err, service.ErrColoringPageNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeContentNotFound, Message: "Coloring page not found"}
	case errors.Is(err, game.ErrSessionNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeSessionNotFound, Message: "Game session not found or expired"}
	case errors.Is(err, service.ErrNoAnswers):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeValidation, Message: "No answers submitted"}
	case errors.Is(err, game.ErrInvalidMove):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeInvalidMove, Message: "Move is not allowed in the current state"}
	case errors.Is(err, game.ErrWrongGameType):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeInvalidMove, Message: "Operation is not supported by this game type"}
	case errors.Is(err, game.ErrSessionCompleted):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeSessionDone, Message: "Game session is already completed"}
	case errors.Is(err, service.ErrGenerationFailed):
		statusCode = http.StatusBadGateway
		errResp = ErrorResponse{Code: ErrCodeGeneration, Message: "Content generation failed"}
	default:
		zap.L().Error("Необработанная внутренняя ошибка в handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: message})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		badRequest(c, "Invalid identifier: "+c.Param(param))
		return uuid.Nil, false
	}
	return id, true
}
