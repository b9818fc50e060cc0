package game

import (
	"fmt"

	"tales-server/internal/models"
)

// ValidateContent проверяет, что содержимое игры пригодно для сессии:
// элементов достаточно, id уникальны, карты образуют пары. Без уникальных id
// сессия не может ни отслеживать совпадения, ни отличить расстановку от
// канонической.
func ValidateContent(payload interface{}) error {
	switch c := payload.(type) {
	case *models.MemoryContent:
		if len(c.Cards) < 4 || len(c.Cards)%2 != 0 {
			return fmt.Errorf("некорректный набор карт: %d", len(c.Cards))
		}
		seen := make(map[int]bool, len(c.Cards))
		pairs := make(map[string]int, len(c.Cards)/2)
		for _, card := range c.Cards {
			if seen[card.ID] {
				return fmt.Errorf("повторяющийся id карты: %d", card.ID)
			}
			seen[card.ID] = true
			pairs[card.Content]++
		}
		for content, n := range pairs {
			if n != 2 {
				return fmt.Errorf("карта %q не образует пару", content)
			}
		}
		return nil
	case *models.OrderingContent:
		if len(c.Events) < 2 {
			return fmt.Errorf("недостаточно событий: %d", len(c.Events))
		}
		seen := make(map[int]bool, len(c.Events))
		for _, ev := range c.Events {
			if seen[ev.ID] {
				return fmt.Errorf("повторяющийся id события: %d", ev.ID)
			}
			seen[ev.ID] = true
		}
		return nil
	case *models.QuizContent:
		if len(c.Questions) == 0 {
			return fmt.Errorf("викторина без вопросов")
		}
		seen := make(map[int]bool, len(c.Questions))
		for _, q := range c.Questions {
			if seen[q.ID] {
				return fmt.Errorf("повторяющийся id вопроса: %d", q.ID)
			}
			seen[q.ID] = true
		}
		return nil
	}
	return fmt.Errorf("неизвестное содержимое игры: %T", payload)
}
