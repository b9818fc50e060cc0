package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tales-server/internal/game"
	"tales-server/internal/service"
)

// GameHandler обслуживает сессии мини-игр.
type GameHandler struct {
	library  *service.LibraryService
	sessions *game.Manager
}

// NewGameHandler создает обработчик игровых сессий.
func NewGameHandler(library *service.LibraryService, sessions *game.Manager) *GameHandler {
	return &GameHandler{library: library, sessions: sessions}
}

// RegisterRoutes регистрирует маршруты игровых сессий.
func (h *GameHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/games/:id/sessions", h.createSession)

	sessions := api.Group("/game-sessions")
	{
		sessions.GET("/:id", h.getSession)
		sessions.DELETE("/:id", h.deleteSession)
		sessions.POST("/:id/flip", h.flip)
		sessions.POST("/:id/move", h.move)
		sessions.POST("/:id/check", h.check)
		sessions.POST("/:id/answer", h.answer)
		sessions.POST("/:id/next", h.next)
		sessions.POST("/:id/prev", h.prev)
		sessions.POST("/:id/complete", h.complete)
		sessions.POST("/:id/reset", h.reset)
	}
}

// @Summary Создание игровой сессии
// @Description Создает сессию по игре; раскладка перемешивается на сервере
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID игры"
// @Success 201 {object} sessionResponse
// @Failure 404 {object} ErrorResponse "Игра не найдена"
// @Router /api/games/{id}/sessions [post]
func (h *GameHandler) createSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.library.GetGame(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	session, err := h.sessions.Create(g)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(session))
}

// @Summary Состояние сессии
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} sessionResponse
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /api/game-sessions/{id} [get]
func (h *GameHandler) getSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// @Summary Завершение работы с сессией
// @Tags game-sessions
// @Param id path string true "ID сессии"
// @Success 204
// @Router /api/game-sessions/{id} [delete]
func (h *GameHandler) deleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.sessions.Delete(id)
	c.Status(http.StatusNoContent)
}

// @Summary Открытие карты (память)
// @Tags game-sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body flipRequest true "Индекс карты в раскладке"
// @Success 200 {object} game.FlipOutcome
// @Failure 400 {object} ErrorResponse "Недопустимый ход"
// @Failure 409 {object} ErrorResponse "Сессия завершена"
// @Router /api/game-sessions/{id}/flip [post]
func (h *GameHandler) flip(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	memory, ok := session.(*game.MemorySession)
	if !ok {
		handleServiceError(c, game.ErrWrongGameType)
		return
	}
	var req flipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	outcome, err := memory.Flip(req.Index)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// @Summary Перемещение события (порядок событий)
// @Tags game-sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body moveRequest true "Позиции откуда и куда"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} ErrorResponse "Недопустимый ход"
// @Router /api/game-sessions/{id}/move [post]
func (h *GameHandler) move(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	ordering, ok := session.(*game.OrderingSession)
	if !ok {
		handleServiceError(c, game.ErrWrongGameType)
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if err := ordering.Move(req.From, req.To); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(ordering))
}

// @Summary Проверка расстановки (порядок событий)
// @Description Неудачная проверка не завершает сессию и не дает оценки
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} game.CheckResult
// @Failure 409 {object} ErrorResponse "Сессия завершена"
// @Router /api/game-sessions/{id}/check [post]
func (h *GameHandler) check(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	ordering, ok := session.(*game.OrderingSession)
	if !ok {
		handleServiceError(c, game.ErrWrongGameType)
		return
	}
	result, err := ordering.Check()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Ответ на вопрос (викторина)
// @Tags game-sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body answerRequest true "Вопрос и выбранный вариант"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} ErrorResponse "Недопустимый ход"
// @Router /api/game-sessions/{id}/answer [post]
func (h *GameHandler) answer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	quiz, ok := session.(*game.QuizSession)
	if !ok {
		handleServiceError(c, game.ErrWrongGameType)
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if err := quiz.Answer(req.QuestionID, req.Option); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(quiz))
}

// @Summary Следующий вопрос (викторина)
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} sessionResponse
// @Router /api/game-sessions/{id}/next [post]
func (h *GameHandler) next(c *gin.Context) {
	h.navigate(c, func(q *game.QuizSession) error { return q.Next() })
}

// @Summary Предыдущий вопрос (викторина)
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} sessionResponse
// @Router /api/game-sessions/{id}/prev [post]
func (h *GameHandler) prev(c *gin.Context) {
	h.navigate(c, func(q *game.QuizSession) error { return q.Prev() })
}

func (h *GameHandler) navigate(c *gin.Context, op func(*game.QuizSession) error) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	quiz, ok := session.(*game.QuizSession)
	if !ok {
		handleServiceError(c, game.ErrWrongGameType)
		return
	}
	if err := op(quiz); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(quiz))
}

// @Summary Завершение викторины
// @Description Подсчитывает итог; неотвеченные вопросы считаются неверными
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} game.Result
// @Failure 409 {object} ErrorResponse "Сессия уже завершена"
// @Router /api/game-sessions/{id}/complete [post]
func (h *GameHandler) complete(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	quiz, ok := session.(*game.QuizSession)
	if !ok {
		handleServiceError(c, game.ErrWrongGameType)
		return
	}
	result, err := quiz.Complete()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Сброс сессии к началу
// @Tags game-sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} sessionResponse
// @Router /api/game-sessions/{id}/reset [post]
func (h *GameHandler) reset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, newSessionResponse(session))
}

func (h *GameHandler) session(c *gin.Context) (game.Session, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	session, err := h.sessions.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	return session, true
}
