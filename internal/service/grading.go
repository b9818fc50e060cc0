package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"tales-server/internal/models"
)

// Answers — ответы пользователя, ключ — id вопроса/пары/предложения.
// Значения приходят из JSON: строки для matching/fillblanks/multiplechoice,
// булевы для truefalse.
type Answers map[int]interface{}

// GradeActivity вычисляет процент правильных ответов для задания.
// Пустой набор вопросов дает 0, а не деление на ноль. Отправка без единого
// записанного ответа запрещена контрактом и возвращает ErrNoAnswers.
func GradeActivity(activityType models.ActivityType, content json.RawMessage, answers Answers) (int, error) {
	if len(answers) == 0 {
		return 0, ErrNoAnswers
	}

	payload, err := models.DecodeActivityContent(activityType, content)
	if err != nil {
		return 0, err
	}

	var correct, total int
	switch c := payload.(type) {
	case *models.MatchingContent:
		total = len(c.Pairs)
		for _, pair := range c.Pairs {
			if s, ok := answers[pair.ID].(string); ok && s == pair.Right {
				correct++
			}
		}
	case *models.TrueFalseContent:
		total = len(c.Questions)
		for _, q := range c.Questions {
			if b, ok := answers[q.ID].(bool); ok && b == q.Answer {
				correct++
			}
		}
	case *models.FillBlanksContent:
		total = len(c.Sentences)
		for _, s := range c.Sentences {
			if a, ok := answers[s.ID].(string); ok && strings.EqualFold(a, s.Answer) {
				correct++
			}
		}
	case *models.MultipleChoiceContent:
		total = len(c.Questions)
		for _, q := range c.Questions {
			if s, ok := answers[q.ID].(string); ok && s == q.Answer {
				correct++
			}
		}
	default:
		return 0, fmt.Errorf("неподдерживаемый тип задания: %q", activityType)
	}

	return percentScore(correct, total), nil
}

// percentScore округляет долю правильных ответов до целых процентов.
// total == 0 дает 0 (деградированное содержимое без вопросов).
func percentScore(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
