package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tales-server/internal/models"
)

func testGame(t *testing.T, gameType models.GameType, payload interface{}) models.Game {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return models.Game{
		ID:      uuid.New(),
		StoryID: uuid.New(),
		Type:    gameType,
		Content: data,
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	session, err := m.Create(testGame(t, models.GameQuiz, testQuizContent()))
	require.NoError(t, err)
	assert.Equal(t, models.GameQuiz, session.Type())
	assert.Equal(t, StateNotStarted, session.State())

	got, err := m.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CreateRejectsBrokenContent(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	_, err := m.Create(models.Game{
		ID:      uuid.New(),
		Type:    models.GameMemory,
		Content: json.RawMessage(`{"cards":`),
	})
	assert.Error(t, err)

	_, err = m.Create(testGame(t, models.GameMemory, models.MemoryContent{
		Cards: []models.MemoryCard{{ID: 1, Content: "الشمس"}},
	}))
	assert.Error(t, err, "нечетное число карт")

	_, err = m.Create(testGame(t, models.GameOrdering, models.OrderingContent{
		Events: []models.OrderingEvent{{ID: 1, Text: "حدث", Order: 1}},
	}))
	assert.Error(t, err, "одного события недостаточно")

	_, err = m.Create(testGame(t, models.GameQuiz, models.QuizContent{}))
	assert.Error(t, err, "викторина без вопросов")
}

// Содержимое с повторяющимися id до сессии доходить не должно: AI нередко
// опускает поле "id", и тогда все элементы декодируются в 0.
func TestManager_CreateRejectsDuplicateIDs(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	_, err := m.Create(testGame(t, models.GameOrdering, models.OrderingContent{
		Events: []models.OrderingEvent{
			{ID: 0, Text: "أولاً", Order: 1},
			{ID: 0, Text: "ثانياً", Order: 2},
		},
	}))
	assert.Error(t, err, "события с одинаковыми id неразличимы")

	_, err = m.Create(testGame(t, models.GameMemory, models.MemoryContent{
		Cards: []models.MemoryCard{
			{ID: 0, Content: "الشمس"}, {ID: 0, Content: "الشمس"},
			{ID: 0, Content: "القمر"}, {ID: 0, Content: "القمر"},
		},
	}))
	assert.Error(t, err, "карты с одинаковыми id делают игру незавершаемой")

	_, err = m.Create(testGame(t, models.GameMemory, models.MemoryContent{
		Cards: []models.MemoryCard{
			{ID: 1, Content: "الشمس"}, {ID: 2, Content: "القمر"},
			{ID: 3, Content: "النجوم"}, {ID: 4, Content: "الأرض"},
		},
	}))
	assert.Error(t, err, "карты без пары по содержимому")

	_, err = m.Create(testGame(t, models.GameQuiz, models.QuizContent{
		Questions: []models.ChoiceQuestion{
			{ID: 0, Text: "سؤال", Options: []string{"أ", "ب"}, Answer: "أ"},
			{ID: 0, Text: "سؤال آخر", Options: []string{"أ", "ب"}, Answer: "ب"},
		},
	}))
	assert.Error(t, err, "вопросы с одинаковыми id перезаписывают ответы друг друга")
}

func TestManager_SessionsExpire(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop())
	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	session, err := m.Create(testGame(t, models.GameQuiz, testQuizContent()))
	require.NoError(t, err)

	clock = clock.Add(30 * time.Second)
	_, err = m.Get(session.ID())
	require.NoError(t, err, "обращение продлевает TTL")

	clock = clock.Add(59 * time.Second)
	_, err = m.Get(session.ID())
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = m.Get(session.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	session, err := m.Create(testGame(t, models.GameMemory, testMemoryContent()))
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())

	m.Delete(session.ID())
	assert.Equal(t, 0, m.Len())

	// Повторное удаление — no-op.
	m.Delete(session.ID())
}
