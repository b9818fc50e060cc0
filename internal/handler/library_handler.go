package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tales-server/internal/models"
	"tales-server/internal/service"
)

// LibraryHandler обслуживает REST API библиотеки: сказки и их контент.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler создает обработчик библиотеки.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// RegisterRoutes регистрирует маршруты библиотеки.
func (h *LibraryHandler) RegisterRoutes(api *gin.RouterGroup) {
	stories := api.Group("/stories")
	{
		stories.POST("", h.createStory)
		stories.GET("", h.listStories)
		stories.GET("/:id", h.getStory)
		stories.PUT("/:id", h.updateStory)
		stories.DELETE("/:id", h.deleteStory)
		stories.GET("/:id/content", h.getStoryContent)
		stories.POST("/:id/images/prompt", h.createImagePrompt)
		stories.POST("/:id/images", h.createImage)
		stories.POST("/:id/activities", h.createActivity)
		stories.POST("/:id/games/ideas", h.createGameIdea)
		stories.POST("/:id/games", h.createGame)
		stories.POST("/:id/coloring-pages", h.createColoringPage)
	}
	api.DELETE("/images/:id", h.deleteImage)
	api.POST("/activities/:id/regenerate", h.regenerateActivity)
	api.POST("/activities/:id/submit", h.submitActivity)
	api.DELETE("/activities/:id", h.deleteActivity)
	api.GET("/games/:id", h.getGame)
	api.DELETE("/games/:id", h.deleteGame)
	api.DELETE("/coloring-pages/:id", h.deleteColoringPage)
}

// @Summary Создание сказки
// @Description Создает сказку с готовым текстом или генерирует текст по теме
// @Tags stories
// @Accept json
// @Produce json
// @Param request body createStoryRequest true "Данные сказки"
// @Success 201 {object} models.Story
// @Failure 400 {object} ErrorResponse "Неверные данные запроса"
// @Failure 502 {object} ErrorResponse "Ошибка генерации"
// @Router /api/stories [post]
func (h *LibraryHandler) createStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if req.Content == "" && req.Topic == "" {
		badRequest(c, "Either content or topic is required")
		return
	}

	story, err := h.library.CreateStory(c.Request.Context(), service.CreateStoryInput{
		Title:    req.Title,
		Content:  req.Content,
		HeroName: req.HeroName,
		Topic:    req.Topic,
		AgeGroup: req.AgeGroup,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

// @Summary Список сказок
// @Tags stories
// @Produce json
// @Success 200 {array} models.Story
// @Router /api/stories [get]
func (h *LibraryHandler) listStories(c *gin.Context) {
	c.JSON(http.StatusOK, h.library.ListStories(c.Request.Context()))
}

// @Summary Сказка по id
// @Tags stories
// @Produce json
// @Param id path string true "ID сказки"
// @Success 200 {object} models.Story
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Router /api/stories/{id} [get]
func (h *LibraryHandler) getStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	story, err := h.library.GetStory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// @Summary Частичное обновление сказки
// @Tags stories
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body updateStoryRequest true "Изменяемые поля"
// @Success 200 {object} models.Story
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Router /api/stories/{id} [put]
func (h *LibraryHandler) updateStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	story, err := h.library.UpdateStory(c.Request.Context(), id, models.StoryUpdate{
		Title:    req.Title,
		Content:  req.Content,
		HeroName: req.HeroName,
		Topic:    req.Topic,
		AgeGroup: req.AgeGroup,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// @Summary Удаление сказки
// @Description Удаляет сказку и каскадно весь ее контент
// @Tags stories
// @Param id path string true "ID сказки"
// @Success 204
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Router /api/stories/{id} [delete]
func (h *LibraryHandler) deleteStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.library.DeleteStory(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Весь контент сказки
// @Tags stories
// @Produce json
// @Param id path string true "ID сказки"
// @Success 200 {object} models.StoryContent
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Router /api/stories/{id}/content [get]
func (h *LibraryHandler) getStoryContent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	content, err := h.library.GetStoryContent(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// @Summary Генерация промпта иллюстрации
// @Description Строит текстовый промпт по сцене без создания иллюстрации
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body createImageRequest true "Описание сцены"
// @Success 200 {object} imagePromptResponse
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Failure 502 {object} ErrorResponse "Ошибка генерации"
// @Router /api/stories/{id}/images/prompt [post]
func (h *LibraryHandler) createImagePrompt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	prompt, err := h.library.GenerateImagePrompt(c.Request.Context(), id, req.Scene)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, imagePromptResponse{Prompt: prompt})
}

// @Summary Генерация иллюстрации
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body createImageRequest true "Описание сцены"
// @Success 201 {object} models.Image
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Failure 502 {object} ErrorResponse "Ошибка генерации"
// @Router /api/stories/{id}/images [post]
func (h *LibraryHandler) createImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	img, err := h.library.CreateImage(c.Request.Context(), id, req.Scene)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// @Summary Удаление иллюстрации
// @Description Удаляет иллюстрацию и каскадно ее раскраски
// @Tags images
// @Param id path string true "ID иллюстрации"
// @Success 204
// @Failure 404 {object} ErrorResponse "Иллюстрация не найдена"
// @Router /api/images/{id} [delete]
func (h *LibraryHandler) deleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.library.DeleteImage(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Генерация задания
// @Tags activities
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body createActivityRequest true "Тип задания"
// @Success 201 {object} models.Activity
// @Failure 400 {object} ErrorResponse "Неизвестный тип задания"
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Router /api/stories/{id}/activities [post]
func (h *LibraryHandler) createActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if !req.Type.Valid() {
		badRequest(c, "Unknown activity type: "+string(req.Type))
		return
	}
	act, err := h.library.CreateActivity(c.Request.Context(), id, req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, act)
}

// @Summary Повторная генерация задания
// @Description Генерирует содержимое заново, id и привязка сохраняются
// @Tags activities
// @Produce json
// @Param id path string true "ID задания"
// @Success 200 {object} models.Activity
// @Failure 404 {object} ErrorResponse "Задание не найдено"
// @Router /api/activities/{id}/regenerate [post]
func (h *LibraryHandler) regenerateActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	act, err := h.library.RegenerateActivity(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, act)
}

// @Summary Проверка ответов на задание
// @Tags activities
// @Accept json
// @Produce json
// @Param id path string true "ID задания"
// @Param request body submitActivityRequest true "Ответы по id вопроса"
// @Success 200 {object} submitActivityResponse
// @Failure 400 {object} ErrorResponse "Нет ответов"
// @Failure 404 {object} ErrorResponse "Задание не найдено"
// @Router /api/activities/{id}/submit [post]
func (h *LibraryHandler) submitActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req submitActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	score, err := h.library.SubmitActivity(c.Request.Context(), id, req.Answers)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitActivityResponse{Score: score})
}

// @Summary Удаление задания
// @Tags activities
// @Param id path string true "ID задания"
// @Success 204
// @Failure 404 {object} ErrorResponse "Задание не найдено"
// @Router /api/activities/{id} [delete]
func (h *LibraryHandler) deleteActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.library.DeleteActivity(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Генерация идеи игры
// @Description Генерирует свободную текстовую идею игры по сказке без сохранения
// @Tags games
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body gameIdeaRequest true "Описание желаемой игры"
// @Success 200 {object} gameIdeaResponse
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Failure 502 {object} ErrorResponse "Ошибка генерации"
// @Router /api/stories/{id}/games/ideas [post]
func (h *LibraryHandler) createGameIdea(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req gameIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	title, content, err := h.library.GenerateGameIdea(c.Request.Context(), id, req.Label)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameIdeaResponse{Title: title, Content: content})
}

// @Summary Генерация мини-игры
// @Tags games
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body createGameRequest true "Тип игры"
// @Success 201 {object} models.Game
// @Failure 400 {object} ErrorResponse "Неизвестный тип игры"
// @Failure 404 {object} ErrorResponse "Сказка не найдена"
// @Router /api/stories/{id}/games [post]
func (h *LibraryHandler) createGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if !req.Type.Valid() {
		badRequest(c, "Unknown game type: "+string(req.Type))
		return
	}
	g, err := h.library.CreateGame(c.Request.Context(), id, req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// @Summary Игра по id
// @Tags games
// @Produce json
// @Param id path string true "ID игры"
// @Success 200 {object} models.Game
// @Failure 404 {object} ErrorResponse "Игра не найдена"
// @Router /api/games/{id} [get]
func (h *LibraryHandler) getGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.library.GetGame(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Удаление игры
// @Tags games
// @Param id path string true "ID игры"
// @Success 204
// @Failure 404 {object} ErrorResponse "Игра не найдена"
// @Router /api/games/{id} [delete]
func (h *LibraryHandler) deleteGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.library.DeleteGame(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Создание раскраски
// @Description Строит раскраску по существующей иллюстрации сказки или генерирует новую по описанию персонажа
// @Tags coloring-pages
// @Accept json
// @Produce json
// @Param id path string true "ID сказки"
// @Param request body createColoringPageRequest true "Иллюстрация или персонаж, заголовок"
// @Success 201 {object} models.ColoringPage
// @Failure 400 {object} ErrorResponse "Не указана ни иллюстрация, ни персонаж"
// @Failure 404 {object} ErrorResponse "Сказка или иллюстрация не найдена"
// @Failure 502 {object} ErrorResponse "Ошибка генерации"
// @Router /api/stories/{id}/coloring-pages [post]
func (h *LibraryHandler) createColoringPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createColoringPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if req.ImageID == uuid.Nil && req.Character == "" {
		badRequest(c, "Either imageId or character is required")
		return
	}

	var page models.ColoringPage
	var err error
	if req.ImageID != uuid.Nil {
		page, err = h.library.CreateColoringPage(c.Request.Context(), id, req.ImageID, req.Title)
	} else {
		page, err = h.library.GenerateColoringPage(c.Request.Context(), id, req.Character, req.Title)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// @Summary Удаление раскраски
// @Tags coloring-pages
// @Param id path string true "ID раскраски"
// @Success 204
// @Failure 404 {object} ErrorResponse "Раскраска не найдена"
// @Router /api/coloring-pages/{id} [delete]
func (h *LibraryHandler) deleteColoringPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.library.DeleteColoringPage(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
