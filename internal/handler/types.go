package handler

import (
	"github.com/google/uuid"

	"tales-server/internal/game"
	"tales-server/internal/models"
)

// ErrorResponse — единый формат ошибки API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeStoryNotFound   = "STORY_NOT_FOUND"
	ErrCodeImageNotFound   = "IMAGE_NOT_FOUND"
	ErrCodeContentNotFound = "CONTENT_NOT_FOUND"
	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeSessionDone     = "SESSION_COMPLETED"
	ErrCodeInvalidMove     = "INVALID_MOVE"
	ErrCodeGeneration      = "GENERATION_FAILED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

type createStoryRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	HeroName string `json:"heroName"`
	Topic    string `json:"topic"`
	AgeGroup string `json:"ageGroup"`
}

type updateStoryRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	HeroName *string `json:"heroName,omitempty"`
	Topic    *string `json:"topic,omitempty"`
	AgeGroup *string `json:"ageGroup,omitempty"`
}

type createImageRequest struct {
	Scene string `json:"scene" binding:"required"`
}

type imagePromptResponse struct {
	Prompt string `json:"prompt"`
}

type gameIdeaRequest struct {
	Label string `json:"label" binding:"required"`
}

type gameIdeaResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createActivityRequest struct {
	Type models.ActivityType `json:"type" binding:"required"`
}

type submitActivityRequest struct {
	Answers map[int]interface{} `json:"answers" binding:"required"`
}

type submitActivityResponse struct {
	Score int `json:"score"`
}

type createGameRequest struct {
	Type models.GameType `json:"type" binding:"required"`
}

type createColoringPageRequest struct {
	ImageID   uuid.UUID `json:"imageId"`
	Character string    `json:"character"`
	Title     string    `json:"title"`
}

type flipRequest struct {
	Index int `json:"index"`
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type answerRequest struct {
	QuestionID int    `json:"questionId"`
	Option     string `json:"option" binding:"required"`
}

// questionView — вопрос без правильного ответа.
type questionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// sessionResponse — состояние сессии; View зависит от типа игры.
type sessionResponse struct {
	ID     uuid.UUID       `json:"id"`
	GameID uuid.UUID       `json:"gameId"`
	Type   models.GameType `json:"type"`
	State  game.State      `json:"state"`
	View   interface{}     `json:"view"`
	Result *game.Result    `json:"result,omitempty"`
}

type memoryView struct {
	TotalCards int   `json:"totalCards"`
	MatchedIDs []int `json:"matchedIds"`
	Moves      int   `json:"moves"`
	// RevealMillis — сколько клиенту показывать несовпавшую пару.
	RevealMillis int64 `json:"revealMillis"`
}

type orderingEventView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type orderingView struct {
	Events []orderingEventView `json:"events"`
	Moves  int                 `json:"moves"`
}

type quizView struct {
	Current  int           `json:"current"`
	Total    int           `json:"total"`
	Question *questionView `json:"question,omitempty"`
	Answered []int         `json:"answered"`
}

func newSessionResponse(s game.Session) sessionResponse {
	resp := sessionResponse{
		ID:     s.ID(),
		GameID: s.GameID(),
		Type:   s.Type(),
		State:  s.State(),
	}
	switch sess := s.(type) {
	case *game.MemorySession:
		matched := []int{}
		for _, c := range sess.Cards() {
			if sess.Matched(c.ID) {
				matched = append(matched, c.ID)
			}
		}
		resp.View = memoryView{
			TotalCards:   len(sess.Cards()),
			MatchedIDs:   matched,
			Moves:        sess.Moves(),
			RevealMillis: game.MismatchRevealDelay.Milliseconds(),
		}
		if sess.State() == game.StateCompleted {
			r := sess.Result()
			resp.Result = &r
		}
	case *game.OrderingSession:
		byID := make(map[int]models.OrderingEvent, len(sess.Events()))
		for _, ev := range sess.Events() {
			byID[ev.ID] = ev
		}
		events := make([]orderingEventView, 0, len(sess.Arrangement()))
		for _, id := range sess.Arrangement() {
			events = append(events, orderingEventView{ID: id, Text: byID[id].Text})
		}
		resp.View = orderingView{Events: events, Moves: sess.Moves()}
		if sess.State() == game.StateCompleted {
			r := sess.Result()
			resp.Result = &r
		}
	case *game.QuizSession:
		answered := make([]int, 0, len(sess.Answers()))
		for id := range sess.Answers() {
			answered = append(answered, id)
		}
		view := quizView{
			Current:  sess.Current(),
			Total:    len(sess.Questions()),
			Answered: answered,
		}
		if sess.Current() < len(sess.Questions()) {
			q := sess.Questions()[sess.Current()]
			view.Question = &questionView{ID: q.ID, Text: q.Text, Options: q.Options}
		}
		resp.View = view
		if sess.State() == game.StateCompleted {
			r := sess.Result()
			resp.Result = &r
		}
	}
	return resp
}
