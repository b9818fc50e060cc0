package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tales-server/internal/game"
	"tales-server/internal/models"
)

// GenerationService оборачивает AI клиент доменными операциями генерации:
// текст сказки, структурированное содержимое заданий и игр, описания для
// генератора изображений.
type GenerationService struct {
	ai     AIClient
	logger *zap.Logger
}

// NewGenerationService создает сервис генерации.
func NewGenerationService(ai AIClient, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		ai:     ai,
		logger: logger.Named("GenerationService"),
	}
}

// GenerateStory генерирует текст сказки по теме, имени героя и возрастной
// группе.
func (s *GenerationService) GenerateStory(ctx context.Context, topic, heroName, ageGroup string) (string, error) {
	text, _, err := s.ai.GenerateText(ctx, []ChatMessage{
		{Role: RoleSystem, Content: storySystemPrompt},
		{Role: RoleUser, Content: storyUserPrompt(topic, heroName, ageGroup)},
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateActivityContent генерирует типизированное содержимое задания.
// Из ответа извлекается первый JSON-блок; если извлечь или разобрать его не
// удалось, операция не падает, а возвращает запасную нагрузку с сырым текстом
// (деградация вместо отказа).
func (s *GenerationService) GenerateActivityContent(ctx context.Context, storyContent string, activityType models.ActivityType) (json.RawMessage, error) {
	text, _, err := s.ai.GenerateText(ctx, []ChatMessage{
		{Role: RoleSystem, Content: activitySystemPrompt},
		{Role: RoleUser, Content: activityUserPrompt(storyContent, activityType)},
	})
	if err != nil {
		return nil, err
	}
	return s.parseActivityContent(text, activityType), nil
}

func (s *GenerationService) parseActivityContent(text string, activityType models.ActivityType) json.RawMessage {
	if block, ok := extractJSONBlock(text); ok {
		if payload, err := models.DecodeActivityContent(activityType, json.RawMessage(block)); err == nil {
			if data, err := json.Marshal(payload); err == nil {
				return data
			}
		} else {
			s.logger.Warn("JSON из ответа AI не соответствует типу задания",
				zap.String("type", string(activityType)), zap.Error(err))
		}
	} else {
		s.logger.Warn("Не удалось извлечь JSON из ответа AI",
			zap.String("type", string(activityType)))
	}
	return fallbackActivityContent(activityType, text)
}

// fallbackActivityContent — запасная нагрузка с сырым текстом вместо
// структурированных вопросов.
func fallbackActivityContent(activityType models.ActivityType, raw string) json.RawMessage {
	title := fmt.Sprintf("نشاط %s تعليمي", activityType)
	instructions := "أكمل النشاط التالي المرتبط بالقصة"
	var payload interface{}
	switch activityType {
	case models.ActivityMatching:
		payload = models.MatchingContent{Title: title, Instructions: instructions, Pairs: []models.MatchingPair{}, Raw: raw}
	case models.ActivityTrueFalse:
		payload = models.TrueFalseContent{Title: title, Instructions: instructions, Questions: []models.TrueFalseQuestion{}, Raw: raw}
	case models.ActivityFillBlanks:
		payload = models.FillBlanksContent{Title: title, Instructions: instructions, Sentences: []models.FillBlankSentence{}, Raw: raw}
	default:
		payload = models.MultipleChoiceContent{Title: title, Instructions: instructions, Questions: []models.ChoiceQuestion{}, Raw: raw}
	}
	data, _ := json.Marshal(payload)
	return data
}

// GenerateGameContent генерирует типизированное содержимое игры. При
// невозможности извлечь корректный JSON возвращается встроенное содержимое по
// умолчанию для данного типа: игра должна оставаться играбельной.
func (s *GenerationService) GenerateGameContent(ctx context.Context, storyContent string, gameType models.GameType) (json.RawMessage, error) {
	text, _, err := s.ai.GenerateText(ctx, []ChatMessage{
		{Role: RoleSystem, Content: activitySystemPrompt},
		{Role: RoleUser, Content: gameUserPrompt(storyContent, gameType)},
	})
	if err != nil {
		return nil, err
	}

	if block, ok := extractJSONBlock(text); ok {
		if payload, err := models.DecodeGameContent(gameType, json.RawMessage(block)); err == nil {
			if playable(payload) {
				if data, err := json.Marshal(payload); err == nil {
					return data, nil
				}
			}
		} else {
			s.logger.Warn("JSON из ответа AI не соответствует типу игры",
				zap.String("type", string(gameType)), zap.Error(err))
		}
	}
	s.logger.Warn("Используется содержимое игры по умолчанию", zap.String("type", string(gameType)))
	return DefaultGameContent(gameType), nil
}

// playable проверяет, что из содержимого можно собрать сессию: элементов
// достаточно, id уникальны, карты парные. Критерии те же, что и при создании
// сессии, чтобы непригодная игра не попала в хранилище.
func playable(payload interface{}) bool {
	return game.ValidateContent(payload) == nil
}

// GenerateGameIdeas генерирует свободный текст с идеей игры. Если первая
// строка короткая, она считается заголовком (ведущие '#' отбрасываются).
func (s *GenerationService) GenerateGameIdeas(ctx context.Context, storyContent, gameLabel string) (title, content string, err error) {
	text, _, err := s.ai.GenerateText(ctx, []ChatMessage{
		{Role: RoleSystem, Content: ideasSystemPrompt},
		{Role: RoleUser, Content: ideasUserPrompt(storyContent, gameLabel)},
	})
	if err != nil {
		return "", "", err
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && len(lines[0]) < 100 {
		title = strings.TrimSpace(strings.TrimLeft(lines[0], "# "))
		content = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		if content == "" {
			content = text
		}
		return title, content, nil
	}
	return "", text, nil
}

// GenerateImagePrompt генерирует английское описание сцены для генератора
// изображений.
func (s *GenerationService) GenerateImagePrompt(ctx context.Context, storyContent, scene string) (string, error) {
	text, _, err := s.ai.GenerateText(ctx, []ChatMessage{
		{Role: RoleSystem, Content: imagePromptSystemPrompt},
		{Role: RoleUser, Content: imagePromptUserPrompt(storyContent, scene)},
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateColoringPrompt генерирует английское описание контурного рисунка
// для раскраски.
func (s *GenerationService) GenerateColoringPrompt(ctx context.Context, storyContent, character string) (string, error) {
	text, _, err := s.ai.GenerateText(ctx, []ChatMessage{
		{Role: RoleSystem, Content: coloringSystemPrompt},
		{Role: RoleUser, Content: coloringUserPrompt(storyContent, character)},
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractJSONBlock находит первый JSON-объект в тексте: от первой '{' до
// последней '}' (жадное сопоставление, как в исходном клиенте).
func extractJSONBlock(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// DefaultGameContent возвращает встроенное содержимое игры по умолчанию.
func DefaultGameContent(gameType models.GameType) json.RawMessage {
	var payload interface{}
	switch gameType {
	case models.GameMemory:
		payload = models.MemoryContent{
			Title:        "لعبة الذاكرة",
			Instructions: "اقلب البطاقات لإيجاد الأزواج المتطابقة. حاول أن تتذكر مكان كل بطاقة لتتمكن من العثور على الأزواج بأقل عدد من المحاولات.",
			Cards: []models.MemoryCard{
				{ID: 1, Content: "الشمس"}, {ID: 2, Content: "الشمس"},
				{ID: 3, Content: "القمر"}, {ID: 4, Content: "القمر"},
				{ID: 5, Content: "النجوم"}, {ID: 6, Content: "النجوم"},
				{ID: 7, Content: "الأرض"}, {ID: 8, Content: "الأرض"},
				{ID: 9, Content: "المريخ"}, {ID: 10, Content: "المريخ"},
				{ID: 11, Content: "زحل"}, {ID: 12, Content: "زحل"},
			},
		}
	case models.GameOrdering:
		payload = models.OrderingContent{
			Title:        "ترتيب الأحداث",
			Instructions: "رتب الأحداث التالية حسب تسلسلها في القصة من البداية إلى النهاية. استخدم الأسهم لتحريك كل حدث إلى أعلى أو أسفل.",
			Events: []models.OrderingEvent{
				{ID: 1, Text: "استيقظ البطل في الصباح الباكر", Order: 1},
				{ID: 2, Text: "تناول البطل وجبة الإفطار", Order: 2},
				{ID: 3, Text: "ذهب البطل إلى المدرسة", Order: 3},
				{ID: 4, Text: "قابل البطل أصدقاءه في المدرسة", Order: 4},
				{ID: 5, Text: "عاد البطل إلى المنزل بعد انتهاء اليوم الدراسي", Order: 5},
			},
		}
	default: // quiz
		payload = models.QuizContent{
			Title:        "اختبار معلومات",
			Instructions: "أجب عن الأسئلة التالية المتعلقة بالقصة. اختر الإجابة الصحيحة من بين الخيارات المتاحة.",
			Questions: []models.ChoiceQuestion{
				{ID: 1, Text: "ما هو اسم البطل الرئيسي في القصة؟", Options: []string{"أحمد", "محمد", "علي", "خالد"}, Answer: "أحمد"},
				{ID: 2, Text: "أين تدور أحداث القصة؟", Options: []string{"المدرسة", "الحديقة", "المنزل", "المدينة"}, Answer: "المدرسة"},
				{ID: 3, Text: "ما هو الدرس المستفاد من القصة؟", Options: []string{"التعاون", "الصدق", "الصبر", "الشجاعة"}, Answer: "التعاون"},
				{ID: 4, Text: "متى وقعت أحداث القصة؟", Options: []string{"في الصباح", "في المساء", "خلال النهار", "في الليل"}, Answer: "خلال النهار"},
				{ID: 5, Text: "ماذا تعلم البطل في نهاية القصة؟", Options: []string{"أهمية مساعدة الآخرين", "أهمية الوقت", "أهمية الدراسة", "أهمية الصداقة"}, Answer: "أهمية الصداقة"},
			},
		}
	}
	data, _ := json.Marshal(payload)
	return data
}
