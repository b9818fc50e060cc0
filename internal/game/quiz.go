package game

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"tales-server/internal/models"
)

// QuizSession — сессия викторины. Порядок вопросов сохраняется, ответ на
// вопрос можно менять до завершения; ходами считаются отвеченные вопросы.
type QuizSession struct {
	mu sync.Mutex

	id     uuid.UUID
	gameID uuid.UUID

	questions []models.ChoiceQuestion
	answers   map[int]string
	current   int

	state     State
	startedAt time.Time
	result    Result

	now func() time.Time
}

func newQuizSession(id, gameID uuid.UUID, content *models.QuizContent, now func() time.Time) *QuizSession {
	questions := make([]models.ChoiceQuestion, len(content.Questions))
	copy(questions, content.Questions)
	return &QuizSession{
		id:        id,
		gameID:    gameID,
		questions: questions,
		answers:   make(map[int]string),
		state:     StateNotStarted,
		now:       now,
	}
}

func (s *QuizSession) ID() uuid.UUID         { return s.id }
func (s *QuizSession) GameID() uuid.UUID     { return s.gameID }
func (s *QuizSession) Type() models.GameType { return models.GameQuiz }

func (s *QuizSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions возвращает вопросы викторины.
func (s *QuizSession) Questions() []models.ChoiceQuestion { return s.questions }

// Current возвращает индекс текущего вопроса.
func (s *QuizSession) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Answers возвращает копию записанных ответов по id вопроса.
func (s *QuizSession) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.answers))
	for id, opt := range s.answers {
		out[id] = opt
	}
	return out
}

// Result возвращает итог после завершения.
func (s *QuizSession) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Answer записывает ответ на вопрос. Повторный ответ на тот же вопрос
// перезаписывает предыдущий и не добавляет хода.
func (s *QuizSession) Answer(questionID int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrSessionCompleted
	}
	var q *models.ChoiceQuestion
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			q = &s.questions[i]
			break
		}
	}
	if q == nil {
		return ErrInvalidMove
	}
	valid := false
	for _, opt := range q.Options {
		if opt == option {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidMove
	}

	if s.state == StateNotStarted {
		s.state = StateInProgress
		s.startedAt = s.now()
	}
	s.answers[questionID] = option
	return nil
}

// Next переходит к следующему вопросу. Переход возможен только после того,
// как на текущий вопрос записан ответ.
func (s *QuizSession) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrSessionCompleted
	}
	if s.current >= len(s.questions)-1 {
		return ErrInvalidMove
	}
	if _, answered := s.answers[s.questions[s.current].ID]; !answered {
		return ErrInvalidMove
	}
	s.current++
	return nil
}

// Prev возвращается к предыдущему вопросу.
func (s *QuizSession) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrSessionCompleted
	}
	if s.current <= 0 {
		return ErrInvalidMove
	}
	s.current--
	return nil
}

// Complete завершает викторину и подсчитывает итог. Неотвеченные вопросы
// засчитываются как неверные.
func (s *QuizSession) Complete() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return Result{}, ErrSessionCompleted
	}
	if s.state == StateNotStarted {
		s.startedAt = s.now()
	}

	correct := 0
	for _, q := range s.questions {
		if s.answers[q.ID] == q.Answer {
			correct++
		}
	}
	s.state = StateCompleted
	s.result = Result{
		Score: quizScore(correct, len(s.questions)),
		Moves: len(s.answers),
		Time:  int(s.now().Sub(s.startedAt).Seconds()),
	}
	return s.result, nil
}

// Reset возвращает сессию к началу, стирая ответы.
func (s *QuizSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = make(map[int]string)
	s.current = 0
	s.state = StateNotStarted
	s.startedAt = time.Time{}
	s.result = Result{}
}

// quizScore — доля верных ответов, округленная вниз до целого процента.
func quizScore(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(correct) / float64(total) * 100))
}
