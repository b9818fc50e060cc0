package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tales-server/internal/models"
)

// Manager хранит живые сессии игр в памяти процесса. Сессии истекают по TTL
// от последнего обращения и вычищаются лениво при доступе.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	ttl      time.Duration
	logger   *zap.Logger

	now   func() time.Time
	newID func() uuid.UUID
	rng   *rand.Rand
}

type entry struct {
	session  Session
	lastSeen time.Time
}

// NewManager создает менеджер сессий с заданным TTL.
func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*entry),
		ttl:      ttl,
		logger:   logger.Named("GameSessionManager"),
		now:      time.Now,
		newID:    uuid.New,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create создает сессию по игре, декодируя ее содержимое согласно типу.
func (m *Manager) Create(game models.Game) (Session, error) {
	payload, err := models.DecodeGameContent(game.Type, game.Content)
	if err != nil {
		return nil, err
	}
	if err := ValidateContent(payload); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	var session Session
	switch c := payload.(type) {
	case *models.MemoryContent:
		session = newMemorySession(id, game.ID, c, m.rng, m.now)
	case *models.OrderingContent:
		session = newOrderingSession(id, game.ID, c, m.rng, m.now)
	case *models.QuizContent:
		session = newQuizSession(id, game.ID, c, m.now)
	default:
		return nil, fmt.Errorf("неизвестный тип игры: %q", game.Type)
	}

	m.sweepLocked()
	m.sessions[id] = &entry{session: session, lastSeen: m.now()}
	m.logger.Debug("Сессия создана",
		zap.String("session_id", id.String()),
		zap.String("game_id", game.ID.String()),
		zap.String("type", string(game.Type)))
	return session, nil
}

// Get возвращает живую сессию и продлевает ее TTL.
func (m *Manager) Get(id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().Sub(e.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = m.now()
	return e.session, nil
}

// Delete удаляет сессию. Удаление несуществующей сессии — no-op.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len возвращает число живых сессий (включая еще не вычищенные истекшие).
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) sweepLocked() {
	cutoff := m.now().Add(-m.ttl)
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
