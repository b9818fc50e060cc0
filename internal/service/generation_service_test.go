package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tales-server/internal/mocks"
	"tales-server/internal/models"
	"tales-server/internal/service"
)

func newGenerator(t *testing.T) (*service.GenerationService, *mocks.MockAIClient) {
	t.Helper()
	mockAI := mocks.NewMockAIClient(t)
	return service.NewGenerationService(mockAI, zap.NewNop()), mockAI
}

func TestGenerateStory(t *testing.T) {
	gen, mockAI := newGenerator(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return("كان يا ما كان...", service.UsageInfo{}, nil).Once()

	text, err := gen.GenerateStory(context.Background(), "الفضاء", "أحمد", "6-8")
	require.NoError(t, err)
	assert.Equal(t, "كان يا ما كان...", text)
	mockAI.AssertExpectations(t)
}

func TestGenerateStory_ProviderError(t *testing.T) {
	gen, mockAI := newGenerator(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("connection refused")).Once()

	_, err := gen.GenerateStory(context.Background(), "الفضاء", "أحمد", "6-8")
	assert.Error(t, err)
}

func TestGenerateActivityContent_ExtractsJSONFromProse(t *testing.T) {
	gen, mockAI := newGenerator(t)
	answer := `بالتأكيد! إليك النشاط:
{"title":"اختر الإجابة","questions":[{"id":1,"text":"من هو البطل؟","options":["أحمد","علي"],"answer":"أحمد"}]}
أتمنى أن يعجبك.`
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return(answer, service.UsageInfo{}, nil).Once()

	content, err := gen.GenerateActivityContent(context.Background(), "نص القصة", models.ActivityMultipleChoice)
	require.NoError(t, err)

	var payload models.MultipleChoiceContent
	require.NoError(t, json.Unmarshal(content, &payload))
	assert.Equal(t, "اختر الإجابة", payload.Title)
	require.Len(t, payload.Questions, 1)
	assert.Equal(t, "أحمد", payload.Questions[0].Answer)
	assert.Empty(t, payload.Raw)
}

func TestGenerateActivityContent_FallbackKeepsRawText(t *testing.T) {
	gen, mockAI := newGenerator(t)
	answer := "النشاط: صل الكلمة بمعناها. الشمس - ضوء. القمر - ليل."
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return(answer, service.UsageInfo{}, nil).Once()

	content, err := gen.GenerateActivityContent(context.Background(), "نص القصة", models.ActivityMatching)
	require.NoError(t, err)

	var payload models.MatchingContent
	require.NoError(t, json.Unmarshal(content, &payload))
	assert.Empty(t, payload.Pairs)
	assert.Equal(t, answer, payload.Raw)
	assert.Contains(t, payload.Title, "نشاط")
}

func TestGenerateGameContent_FallsBackToDefault(t *testing.T) {
	gen, mockAI := newGenerator(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return("لم أفهم الطلب", service.UsageInfo{}, nil).Once()

	content, err := gen.GenerateGameContent(context.Background(), "نص القصة", models.GameMemory)
	require.NoError(t, err)

	var payload models.MemoryContent
	require.NoError(t, json.Unmarshal(content, &payload))
	assert.Equal(t, "لعبة الذاكرة", payload.Title)
	assert.Len(t, payload.Cards, 12)
}

func TestGenerateGameContent_RejectsUnplayablePayload(t *testing.T) {
	gen, mockAI := newGenerator(t)
	// JSON валиден, но для игры на память нужно четное число карт >= 4.
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"cards":[{"id":1,"content":"الشمس"}]}`, service.UsageInfo{}, nil).Once()

	content, err := gen.GenerateGameContent(context.Background(), "نص القصة", models.GameMemory)
	require.NoError(t, err)

	var payload models.MemoryContent
	require.NoError(t, json.Unmarshal(content, &payload))
	assert.Len(t, payload.Cards, 12, "ожидается содержимое по умолчанию")
}

func TestGenerateGameContent_RejectsEventsWithoutIDs(t *testing.T) {
	gen, mockAI := newGenerator(t)
	// AI опустил поле "id": все события декодируются в 0 и неразличимы.
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"events":[{"text":"أولاً","order":1},{"text":"ثانياً","order":2},{"text":"ثالثاً","order":3}]}`, service.UsageInfo{}, nil).Once()

	content, err := gen.GenerateGameContent(context.Background(), "نص القصة", models.GameOrdering)
	require.NoError(t, err)

	var payload models.OrderingContent
	require.NoError(t, json.Unmarshal(content, &payload))
	assert.Equal(t, "ترتيب الأحداث", payload.Title, "ожидается содержимое по умолчанию")
	assert.Len(t, payload.Events, 5)
}

func TestGenerateGameIdeas_TitleFromFirstLine(t *testing.T) {
	gen, mockAI := newGenerator(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything).
		Return("## لعبة البحث عن الكنز\nيقوم الأطفال بالبحث عن الكلمات المخبأة في النص.", service.UsageInfo{}, nil).Once()

	title, content, err := gen.GenerateGameIdeas(context.Background(), "نص القصة", "لعبة جماعية")
	require.NoError(t, err)
	assert.Equal(t, "لعبة البحث عن الكنز", title)
	assert.Equal(t, "يقوم الأطفال بالبحث عن الكلمات المخبأة في النص.", content)
}

func TestDefaultGameContent_AllTypesPlayable(t *testing.T) {
	var memory models.MemoryContent
	require.NoError(t, json.Unmarshal(service.DefaultGameContent(models.GameMemory), &memory))
	assert.Len(t, memory.Cards, 12)

	var ordering models.OrderingContent
	require.NoError(t, json.Unmarshal(service.DefaultGameContent(models.GameOrdering), &ordering))
	assert.Len(t, ordering.Events, 5)

	var quiz models.QuizContent
	require.NoError(t, json.Unmarshal(service.DefaultGameContent(models.GameQuiz), &quiz))
	assert.Len(t, quiz.Questions, 5)
}
