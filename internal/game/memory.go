package game

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"tales-server/internal/models"
)

// MemorySession — сессия игры на память. Карты перемешиваются при создании;
// ход засчитывается на каждой второй открытой карте.
type MemorySession struct {
	mu sync.Mutex

	id     uuid.UUID
	gameID uuid.UUID

	cards   []models.MemoryCard
	matched map[int]bool
	flipped []int

	moves     int
	state     State
	startedAt time.Time
	result    Result

	now func() time.Time
}

func newMemorySession(id, gameID uuid.UUID, content *models.MemoryContent, rng *rand.Rand, now func() time.Time) *MemorySession {
	cards := make([]models.MemoryCard, len(content.Cards))
	copy(cards, content.Cards)
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &MemorySession{
		id:      id,
		gameID:  gameID,
		cards:   cards,
		matched: make(map[int]bool),
		state:   StateNotStarted,
		now:     now,
	}
}

func (s *MemorySession) ID() uuid.UUID         { return s.id }
func (s *MemorySession) GameID() uuid.UUID     { return s.gameID }
func (s *MemorySession) Type() models.GameType { return models.GameMemory }

func (s *MemorySession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cards возвращает карты в порядке раскладки сессии.
func (s *MemorySession) Cards() []models.MemoryCard { return s.cards }

// Moves возвращает число завершенных ходов (пар открытых карт).
func (s *MemorySession) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves
}

// Matched сообщает, нашла ли карта свою пару.
func (s *MemorySession) Matched(cardID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matched[cardID]
}

// Result возвращает итог после завершения.
func (s *MemorySession) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// FlipOutcome — результат открытия карты.
type FlipOutcome struct {
	Card models.MemoryCard `json:"card"`
	// Pair заполняется на второй карте хода.
	Pair      *models.MemoryCard `json:"pair,omitempty"`
	Matched   bool               `json:"matched"`
	Completed bool               `json:"completed"`
	Result    *Result            `json:"result,omitempty"`
}

// Flip открывает карту по индексу раскладки. Первая карта хода остается
// открытой; на второй ход засчитывается и пара либо фиксируется как
// совпавшая, либо сбрасывается (клиент показывает ее MismatchRevealDelay).
func (s *MemorySession) Flip(index int) (FlipOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return FlipOutcome{}, ErrSessionCompleted
	}
	if index < 0 || index >= len(s.cards) {
		return FlipOutcome{}, ErrInvalidMove
	}
	card := s.cards[index]
	if s.matched[card.ID] {
		return FlipOutcome{}, ErrInvalidMove
	}
	for _, i := range s.flipped {
		if i == index {
			return FlipOutcome{}, ErrInvalidMove
		}
	}

	if s.state == StateNotStarted {
		s.state = StateInProgress
		s.startedAt = s.now()
	}

	if len(s.flipped) == 0 {
		s.flipped = []int{index}
		return FlipOutcome{Card: card}, nil
	}

	first := s.cards[s.flipped[0]]
	s.flipped = nil
	s.moves++

	out := FlipOutcome{Card: card, Pair: &first}
	if first.Content == card.Content {
		out.Matched = true
		s.matched[first.ID] = true
		s.matched[card.ID] = true
		if len(s.matched) == len(s.cards) {
			s.complete()
			out.Completed = true
			r := s.result
			out.Result = &r
		}
	}
	return out, nil
}

func (s *MemorySession) complete() {
	s.state = StateCompleted
	s.result = Result{
		Score: memoryScore(s.moves, len(s.cards)),
		Moves: s.moves,
		Time:  int(s.now().Sub(s.startedAt).Seconds()),
	}
}

// Reset возвращает сессию к началу с той же раскладкой карт.
func (s *MemorySession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matched = make(map[int]bool)
	s.flipped = nil
	s.moves = 0
	s.state = StateNotStarted
	s.startedAt = time.Time{}
	s.result = Result{}
}

// memoryScore — оценка за игру на память: идеальные cards/2 ходов дают 100,
// каждый лишний ход снимает 100/cards очков, не ниже нуля.
func memoryScore(moves, cards int) int {
	if cards == 0 {
		return 0
	}
	perfect := cards / 2
	penalty := int(math.Floor(float64(moves-perfect) * (100.0 / float64(cards))))
	if penalty < 0 {
		penalty = 0
	}
	score := 100 - penalty
	if score < 0 {
		return 0
	}
	return score
}
