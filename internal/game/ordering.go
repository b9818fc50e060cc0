package game

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tales-server/internal/models"
)

// OrderingSession — сессия игры на порядок событий. Хранит текущую
// расстановку событий; проверка нетерминальна, пока порядок не верен.
type OrderingSession struct {
	mu sync.Mutex

	id     uuid.UUID
	gameID uuid.UUID

	events      []models.OrderingEvent
	arrangement []int
	initial     []int

	moves     int
	state     State
	startedAt time.Time
	result    Result

	now func() time.Time
}

func newOrderingSession(id, gameID uuid.UUID, content *models.OrderingContent, rng *rand.Rand, now func() time.Time) *OrderingSession {
	events := make([]models.OrderingEvent, len(content.Events))
	copy(events, content.Events)
	sort.Slice(events, func(i, j int) bool { return events[i].Order < events[j].Order })

	arrangement := make([]int, len(events))
	for i, ev := range events {
		arrangement[i] = ev.ID
	}
	// Если после перемешивания расстановка осталась канонической, достаточно
	// поменять местами первые два события: id уникальны, значит результат
	// гарантированно отличается от канонического.
	if len(arrangement) > 1 {
		rng.Shuffle(len(arrangement), func(i, j int) {
			arrangement[i], arrangement[j] = arrangement[j], arrangement[i]
		})
		if orderedCorrectly(events, arrangement) {
			arrangement[0], arrangement[1] = arrangement[1], arrangement[0]
		}
	}

	initial := make([]int, len(arrangement))
	copy(initial, arrangement)

	return &OrderingSession{
		id:          id,
		gameID:      gameID,
		events:      events,
		arrangement: arrangement,
		initial:     initial,
		state:       StateNotStarted,
		now:         now,
	}
}

func (s *OrderingSession) ID() uuid.UUID         { return s.id }
func (s *OrderingSession) GameID() uuid.UUID     { return s.gameID }
func (s *OrderingSession) Type() models.GameType { return models.GameOrdering }

func (s *OrderingSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events возвращает события в каноническом порядке.
func (s *OrderingSession) Events() []models.OrderingEvent { return s.events }

// Arrangement возвращает копию текущей расстановки (id событий).
func (s *OrderingSession) Arrangement() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.arrangement))
	copy(out, s.arrangement)
	return out
}

// Moves возвращает число перестановок.
func (s *OrderingSession) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves
}

// Result возвращает итог после завершения.
func (s *OrderingSession) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Move перемещает событие с позиции from на позицию to. Каждое перемещение —
// один ход.
func (s *OrderingSession) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrSessionCompleted
	}
	n := len(s.arrangement)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return ErrInvalidMove
	}
	if s.state == StateNotStarted {
		s.state = StateInProgress
		s.startedAt = s.now()
	}

	id := s.arrangement[from]
	s.arrangement = append(s.arrangement[:from], s.arrangement[from+1:]...)
	s.arrangement = append(s.arrangement[:to], append([]int{id}, s.arrangement[to:]...)...)
	s.moves++
	return nil
}

// CheckResult — итог проверки расстановки.
type CheckResult struct {
	Correct bool `json:"correct"`
	// CorrectlyPlaced — сколько событий стоит на своем месте.
	CorrectlyPlaced int `json:"correctlyPlaced"`
	// CanonicalOrder — правильная последовательность id событий.
	CanonicalOrder []int   `json:"canonicalOrder"`
	Result         *Result `json:"result,omitempty"`
}

// Check сверяет расстановку с канонической. Неудачная проверка не завершает
// сессию и не дает оценки; удачная завершает и подсчитывает итог.
func (s *OrderingSession) Check() (CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return CheckResult{}, ErrSessionCompleted
	}
	if s.state == StateNotStarted {
		s.state = StateInProgress
		s.startedAt = s.now()
	}

	canonical := make([]int, len(s.events))
	placed := 0
	for i, ev := range s.events {
		canonical[i] = ev.ID
		if i < len(s.arrangement) && s.arrangement[i] == ev.ID {
			placed++
		}
	}

	res := CheckResult{
		Correct:         placed == len(s.events),
		CorrectlyPlaced: placed,
		CanonicalOrder:  canonical,
	}
	if res.Correct {
		s.state = StateCompleted
		s.result = Result{
			Score: orderingScore(s.moves, len(s.events)),
			Moves: s.moves,
			Time:  int(s.now().Sub(s.startedAt).Seconds()),
		}
		r := s.result
		res.Result = &r
	}
	return res, nil
}

// Reset возвращает сессию к началу, восстанавливая исходную перемешанную
// расстановку: оставлять текущую нельзя, после завершенной сессии она уже
// канонична.
func (s *OrderingSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.arrangement, s.initial)
	s.moves = 0
	s.state = StateNotStarted
	s.startedAt = time.Time{}
	s.result = Result{}
}

func orderedCorrectly(events []models.OrderingEvent, arrangement []int) bool {
	for i, ev := range events {
		if arrangement[i] != ev.ID {
			return false
		}
	}
	return true
}

// orderingScore — оценка за порядок событий: минимум len(events)-1 перемещений
// дает 100, каждое лишнее снимает 100/(minMoves*2) очков, не ниже нуля.
func orderingScore(moves, events int) int {
	minMoves := events - 1
	if minMoves <= 0 {
		return 100
	}
	penalty := int(math.Floor(float64(moves-minMoves) * (100.0 / float64(minMoves*2))))
	if penalty < 0 {
		penalty = 0
	}
	score := 100 - penalty
	if score < 0 {
		return 0
	}
	return score
}
