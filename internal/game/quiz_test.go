package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tales-server/internal/models"
)

func testQuizContent() *models.QuizContent {
	return &models.QuizContent{
		Questions: []models.ChoiceQuestion{
			{ID: 1, Text: "من هو البطل؟", Options: []string{"أحمد", "علي"}, Answer: "أحمد"},
			{ID: 2, Text: "أين تدور الأحداث؟", Options: []string{"المدرسة", "المنزل"}, Answer: "المدرسة"},
			{ID: 3, Text: "ما الدرس المستفاد؟", Options: []string{"التعاون", "الصبر"}, Answer: "التعاون"},
			{ID: 4, Text: "متى وقعت الأحداث؟", Options: []string{"النهار", "الليل"}, Answer: "النهار"},
			{ID: 5, Text: "ماذا تعلم البطل؟", Options: []string{"الصداقة", "الوقت"}, Answer: "الصداقة"},
		},
	}
}

func newTestQuizSession(t *testing.T) *QuizSession {
	t.Helper()
	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return newQuizSession(uuid.New(), uuid.New(), testQuizContent(), func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
}

func TestQuizSession_AllCorrect(t *testing.T) {
	s := newTestQuizSession(t)

	require.NoError(t, s.Answer(1, "أحمد"))
	require.NoError(t, s.Answer(2, "المدرسة"))
	require.NoError(t, s.Answer(3, "التعاون"))
	require.NoError(t, s.Answer(4, "النهار"))
	require.NoError(t, s.Answer(5, "الصداقة"))

	res, err := s.Complete()
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 5, res.Moves)
	assert.Equal(t, StateCompleted, s.State())
}

func TestQuizSession_UnansweredCountAsWrong(t *testing.T) {
	s := newTestQuizSession(t)

	require.NoError(t, s.Answer(1, "أحمد"))
	require.NoError(t, s.Answer(2, "المنزل"))

	res, err := s.Complete()
	require.NoError(t, err)
	assert.Equal(t, 20, res.Score, "1 из 5 верно")
	assert.Equal(t, 2, res.Moves, "ходы считаются по отвеченным вопросам")
}

func TestQuizSession_ReansweringDoesNotAddMoves(t *testing.T) {
	s := newTestQuizSession(t)

	require.NoError(t, s.Answer(1, "علي"))
	require.NoError(t, s.Answer(1, "أحمد"))

	res, err := s.Complete()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moves)
	assert.Equal(t, 20, res.Score, "засчитан последний ответ")
}

func TestQuizSession_InvalidAnswers(t *testing.T) {
	s := newTestQuizSession(t)

	assert.ErrorIs(t, s.Answer(99, "أحمد"), ErrInvalidMove)
	assert.ErrorIs(t, s.Answer(1, "خيار غير موجود"), ErrInvalidMove)
	assert.Equal(t, StateNotStarted, s.State(), "недопустимый ход не запускает сессию")
}

func TestQuizSession_AnswersIsACopy(t *testing.T) {
	s := newTestQuizSession(t)
	require.NoError(t, s.Answer(1, "أحمد"))

	answers := s.Answers()
	answers[2] = "المنزل"
	assert.Len(t, s.Answers(), 1, "внешняя правка не меняет сессию")
}

func TestQuizSession_Navigation(t *testing.T) {
	s := newTestQuizSession(t)

	assert.ErrorIs(t, s.Prev(), ErrInvalidMove)
	assert.ErrorIs(t, s.Next(), ErrInvalidMove, "вперед только после ответа на текущий вопрос")

	require.NoError(t, s.Answer(1, "أحمد"))
	require.NoError(t, s.Next())
	require.NoError(t, s.Answer(2, "المدرسة"))
	require.NoError(t, s.Next())
	assert.Equal(t, 2, s.Current())
	require.NoError(t, s.Prev())
	assert.Equal(t, 1, s.Current())

	require.NoError(t, s.Next())
	require.NoError(t, s.Answer(3, "التعاون"))
	require.NoError(t, s.Next())
	require.NoError(t, s.Answer(4, "النهار"))
	require.NoError(t, s.Next())
	assert.Equal(t, 4, s.Current())
	assert.ErrorIs(t, s.Next(), ErrInvalidMove)
}

func TestQuizSession_CompleteTwice(t *testing.T) {
	s := newTestQuizSession(t)
	_, err := s.Complete()
	require.NoError(t, err)

	_, err = s.Complete()
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.ErrorIs(t, s.Answer(1, "أحمد"), ErrSessionCompleted)
}

func TestQuizSession_Reset(t *testing.T) {
	s := newTestQuizSession(t)
	require.NoError(t, s.Answer(1, "أحمد"))
	require.NoError(t, s.Next())

	s.Reset()
	assert.Equal(t, StateNotStarted, s.State())
	assert.Equal(t, 0, s.Current())
	assert.Empty(t, s.Answers())
}
