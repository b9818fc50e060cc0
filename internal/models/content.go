package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityType определяет вид учебного задания.
type ActivityType string

const (
	ActivityMatching       ActivityType = "matching"
	ActivityTrueFalse      ActivityType = "truefalse"
	ActivityFillBlanks     ActivityType = "fillblanks"
	ActivityMultipleChoice ActivityType = "multiplechoice"
)

// Valid проверяет, что тип задания известен.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityMatching, ActivityTrueFalse, ActivityFillBlanks, ActivityMultipleChoice:
		return true
	}
	return false
}

// GameType определяет вид мини-игры.
type GameType string

const (
	GameMemory   GameType = "memory"
	GameOrdering GameType = "ordering"
	GameQuiz     GameType = "quiz"
)

// Valid проверяет, что тип игры известен.
func (t GameType) Valid() bool {
	switch t {
	case GameMemory, GameOrdering, GameQuiz:
		return true
	}
	return false
}

// Image представляет иллюстрацию, сгенерированную для сказки.
type Image struct {
	ID        uuid.UUID `json:"id"`
	StoryID   uuid.UUID `json:"storyId"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity представляет учебное задание, привязанное к сказке.
// Content хранится как JSON и декодируется по Type через DecodeActivityContent.
type Activity struct {
	ID        uuid.UUID       `json:"id"`
	StoryID   uuid.UUID       `json:"storyId"`
	Title     string          `json:"title"`
	Type      ActivityType    `json:"type"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Game представляет мини-игру, привязанную к сказке.
type Game struct {
	ID        uuid.UUID       `json:"id"`
	StoryID   uuid.UUID       `json:"storyId"`
	Title     string          `json:"title"`
	Type      GameType        `json:"type"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ColoringPage представляет раскраску, построенную по иллюстрации.
type ColoringPage struct {
	ID          uuid.UUID `json:"id"`
	StoryID     uuid.UUID `json:"storyId"`
	ImageID     uuid.UUID `json:"imageId"`
	Title       string    `json:"title"`
	OutlineURL  string    `json:"outlineUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StoryContent — срез всего контента одной сказки, результат getStoryContent.
type StoryContent struct {
	Images        []Image        `json:"images"`
	Activities    []Activity     `json:"activities"`
	Games         []Game         `json:"games"`
	ColoringPages []ColoringPage `json:"coloringPages"`
}

// --- Типизированные полезные нагрузки заданий и игр ---
//
// Поле Raw заполняется только в деградированном случае, когда из ответа AI
// не удалось извлечь JSON: тогда сырой текст сохраняется как есть, а списки
// остаются пустыми.

// MatchingPair — пара «элемент — соответствие» задания на сопоставление.
type MatchingPair struct {
	ID    int    `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingContent — полезная нагрузка задания matching.
type MatchingContent struct {
	Title        string         `json:"title,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
	Pairs        []MatchingPair `json:"pairs"`
	Raw          string         `json:"raw,omitempty"`
}

// TrueFalseQuestion — утверждение задания «верно/неверно».
type TrueFalseQuestion struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Answer bool   `json:"answer"`
}

// TrueFalseContent — полезная нагрузка задания truefalse.
type TrueFalseContent struct {
	Title        string              `json:"title,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	Questions    []TrueFalseQuestion `json:"questions"`
	Raw          string              `json:"raw,omitempty"`
}

// FillBlankSentence — предложение с пропуском.
type FillBlankSentence struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Answer  string   `json:"answer"`
	Options []string `json:"options,omitempty"`
}

// FillBlanksContent — полезная нагрузка задания fillblanks.
type FillBlanksContent struct {
	Title        string              `json:"title,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	Sentences    []FillBlankSentence `json:"sentences"`
	Raw          string              `json:"raw,omitempty"`
}

// ChoiceQuestion — вопрос с вариантами ответа (multiplechoice и quiz).
type ChoiceQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// MultipleChoiceContent — полезная нагрузка задания multiplechoice.
type MultipleChoiceContent struct {
	Title        string           `json:"title,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	Questions    []ChoiceQuestion `json:"questions"`
	Raw          string           `json:"raw,omitempty"`
}

// MemoryCard — карточка игры на память. Пары определяются равенством Content.
type MemoryCard struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// MemoryContent — полезная нагрузка игры memory.
type MemoryContent struct {
	Title        string       `json:"title,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Cards        []MemoryCard `json:"cards"`
	Raw          string       `json:"raw,omitempty"`
}

// OrderingEvent — событие сказки с каноническим порядковым номером (с единицы).
type OrderingEvent struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// OrderingContent — полезная нагрузка игры ordering.
type OrderingContent struct {
	Title        string          `json:"title,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Events       []OrderingEvent `json:"events"`
	Raw          string          `json:"raw,omitempty"`
}

// QuizContent — полезная нагрузка игры quiz.
type QuizContent struct {
	Title        string           `json:"title,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	Questions    []ChoiceQuestion `json:"questions"`
	Raw          string           `json:"raw,omitempty"`
}

// DecodeActivityContent декодирует полезную нагрузку задания согласно его типу.
// Возвращает один из *MatchingContent, *TrueFalseContent, *FillBlanksContent,
// *MultipleChoiceContent.
func DecodeActivityContent(t ActivityType, raw json.RawMessage) (interface{}, error) {
	switch t {
	case ActivityMatching:
		var c MatchingContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого matching: %w", err)
		}
		return &c, nil
	case ActivityTrueFalse:
		var c TrueFalseContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого truefalse: %w", err)
		}
		return &c, nil
	case ActivityFillBlanks:
		var c FillBlanksContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого fillblanks: %w", err)
		}
		return &c, nil
	case ActivityMultipleChoice:
		var c MultipleChoiceContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого multiplechoice: %w", err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("неизвестный тип задания: %q", t)
	}
}

// DecodeGameContent декодирует полезную нагрузку игры согласно ее типу.
// Возвращает один из *MemoryContent, *OrderingContent, *QuizContent.
func DecodeGameContent(t GameType, raw json.RawMessage) (interface{}, error) {
	switch t {
	case GameMemory:
		var c MemoryContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого memory: %w", err)
		}
		return &c, nil
	case GameOrdering:
		var c OrderingContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого ordering: %w", err)
		}
		return &c, nil
	case GameQuiz:
		var c QuizContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("ошибка декодирования содержимого quiz: %w", err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("неизвестный тип игры: %q", t)
	}
}
