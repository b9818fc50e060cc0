package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tales-server/internal/models"
)

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestGradeActivity_Matching(t *testing.T) {
	content := mustJSON(t, models.MatchingContent{
		Pairs: []models.MatchingPair{
			{ID: 1, Left: "الشمس", Right: "ضوء"},
			{ID: 2, Left: "القمر", Right: "ليل"},
			{ID: 3, Left: "النجوم", Right: "سماء"},
			{ID: 4, Left: "الأرض", Right: "كوكب"},
		},
	})

	t.Run("all correct", func(t *testing.T) {
		score, err := GradeActivity(models.ActivityMatching, content, Answers{
			1: "ضوء", 2: "ليل", 3: "سماء", 4: "كوكب",
		})
		require.NoError(t, err)
		assert.Equal(t, 100, score)
	})

	t.Run("half correct", func(t *testing.T) {
		score, err := GradeActivity(models.ActivityMatching, content, Answers{
			1: "ضوء", 2: "سماء", 3: "ليل", 4: "كوكب",
		})
		require.NoError(t, err)
		assert.Equal(t, 50, score)
	})

	t.Run("unknown ids are ignored", func(t *testing.T) {
		score, err := GradeActivity(models.ActivityMatching, content, Answers{
			99: "ضوء",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, score)
	})
}

func TestGradeActivity_TrueFalse(t *testing.T) {
	content := mustJSON(t, models.TrueFalseContent{
		Questions: []models.TrueFalseQuestion{
			{ID: 1, Text: "البطل ذهب إلى المدرسة", Answer: true},
			{ID: 2, Text: "القصة تدور في الليل", Answer: false},
			{ID: 3, Text: "البطل قابل أصدقاءه", Answer: true},
		},
	})

	score, err := GradeActivity(models.ActivityTrueFalse, content, Answers{
		1: true, 2: true, 3: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 67, score, "2/3 округляется до 67")

	// Строковое значение вместо булевого не засчитывается.
	score, err = GradeActivity(models.ActivityTrueFalse, content, Answers{
		1: "true", 2: false, 3: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 67, score)
}

func TestGradeActivity_FillBlanks_CaseInsensitive(t *testing.T) {
	content := mustJSON(t, models.FillBlanksContent{
		Sentences: []models.FillBlankSentence{
			{ID: 1, Text: "ذهب البطل إلى ___", Answer: "School"},
			{ID: 2, Text: "استيقظ البطل في ___", Answer: "الصباح"},
		},
	})

	score, err := GradeActivity(models.ActivityFillBlanks, content, Answers{
		1: "school",
		2: "الصباح",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestGradeActivity_MultipleChoice(t *testing.T) {
	content := mustJSON(t, models.MultipleChoiceContent{
		Questions: []models.ChoiceQuestion{
			{ID: 1, Text: "من هو البطل؟", Options: []string{"أحمد", "علي"}, Answer: "أحمد"},
			{ID: 2, Text: "أين تدور الأحداث؟", Options: []string{"المدرسة", "المنزل"}, Answer: "المدرسة"},
		},
	})

	score, err := GradeActivity(models.ActivityMultipleChoice, content, Answers{
		1: "علي", 2: "المدرسة",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, score)
}

func TestGradeActivity_NoAnswers(t *testing.T) {
	content := mustJSON(t, models.MultipleChoiceContent{
		Questions: []models.ChoiceQuestion{
			{ID: 1, Text: "سؤال", Options: []string{"أ", "ب"}, Answer: "أ"},
		},
	})

	_, err := GradeActivity(models.ActivityMultipleChoice, content, Answers{})
	assert.ErrorIs(t, err, ErrNoAnswers)
}

func TestGradeActivity_DegradedContentWithoutQuestions(t *testing.T) {
	// Запасная нагрузка после неудачной генерации: только сырой текст.
	content := mustJSON(t, models.MultipleChoiceContent{Raw: "нет структурированных вопросов"})

	score, err := GradeActivity(models.ActivityMultipleChoice, content, Answers{1: "أ"})
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestGradeActivity_UnknownType(t *testing.T) {
	_, err := GradeActivity(models.ActivityType("crossword"), json.RawMessage(`{}`), Answers{1: "x"})
	assert.Error(t, err)
}
