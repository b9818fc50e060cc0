// Package game реализует серверные сессии мини-игр: память, порядок событий
// и викторина. Сессии живут только в памяти процесса и не переживают рестарт.
package game

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"tales-server/internal/models"
)

// State — состояние сессии игры.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// MismatchRevealDelay — время, в течение которого клиенту следует показывать
// несовпавшую пару карт перед тем, как скрыть ее. Сервер задержку не
// навязывает: пара сбрасывается в состоянии сразу.
const MismatchRevealDelay = time.Second

var (
	ErrSessionNotFound  = errors.New("сессия не найдена")
	ErrSessionCompleted = errors.New("сессия уже завершена")
	ErrInvalidMove      = errors.New("недопустимый ход")
	ErrWrongGameType    = errors.New("операция не поддерживается этим типом игры")
)

// Result — итог завершенной сессии. Time — прошедшие секунды от первого хода
// до завершения.
type Result struct {
	Score int `json:"score"`
	Moves int `json:"moves"`
	Time  int `json:"time"`
}

// Session — общий контракт сессий всех типов игр. Конкретные операции (ход,
// ответ, проверка) живут на конкретных типах.
type Session interface {
	ID() uuid.UUID
	GameID() uuid.UUID
	Type() models.GameType
	State() State
	Reset()
}
