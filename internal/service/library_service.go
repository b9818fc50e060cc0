package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tales-server/internal/models"
	"tales-server/internal/repository"
)

// LibraryService — фасад библиотеки контента. Владеет обоими репозиториями и
// единственный отвечает за ссылочную целостность: проверяет родительские
// сущности при создании и централизует каскадное удаление.
type LibraryService struct {
	stories   repository.StoryRepository
	content   repository.ContentRepository
	generator *GenerationService
	images    ImageGenerator
	logger    *zap.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewLibraryService создает фасад библиотеки.
func NewLibraryService(
	stories repository.StoryRepository,
	content repository.ContentRepository,
	generator *GenerationService,
	images ImageGenerator,
	logger *zap.Logger,
) *LibraryService {
	return &LibraryService{
		stories:   stories,
		content:   content,
		generator: generator,
		images:    images,
		logger:    logger.Named("LibraryService"),
		now:       time.Now,
		newID:     uuid.New,
	}
}

// CreateStoryInput — параметры создания сказки. Если Content пуст, текст
// генерируется через AI по теме, имени героя и возрастной группе.
type CreateStoryInput struct {
	Title    string
	Content  string
	HeroName string
	Topic    string
	AgeGroup string
}

// CreateStory создает сказку: с готовым текстом или сгенерированным.
func (s *LibraryService) CreateStory(ctx context.Context, in CreateStoryInput) (models.Story, error) {
	content := in.Content
	if content == "" {
		generated, err := s.generator.GenerateStory(ctx, in.Topic, in.HeroName, in.AgeGroup)
		if err != nil {
			return models.Story{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		content = generated
	}

	title := in.Title
	if title == "" {
		title = fmt.Sprintf("قصة عن %s", in.Topic)
	}

	now := s.now()
	story := models.Story{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		HeroName:  in.HeroName,
		Topic:     in.Topic,
		AgeGroup:  in.AgeGroup,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.stories.Add(ctx, story)
	s.logger.Info("Сказка создана", zap.String("story_id", story.ID.String()))
	return story, nil
}

// GetStory возвращает сказку по id.
func (s *LibraryService) GetStory(ctx context.Context, id uuid.UUID) (models.Story, error) {
	story, ok := s.stories.GetByID(ctx, id)
	if !ok {
		return models.Story{}, ErrStoryNotFound
	}
	return story, nil
}

// ListStories возвращает все сказки.
func (s *LibraryService) ListStories(ctx context.Context) []models.Story {
	return s.stories.List(ctx)
}

// UpdateStory применяет частичное обновление сказки.
func (s *LibraryService) UpdateStory(ctx context.Context, id uuid.UUID, upd models.StoryUpdate) (models.Story, error) {
	if _, ok := s.stories.GetByID(ctx, id); !ok {
		return models.Story{}, ErrStoryNotFound
	}
	s.stories.Update(ctx, id, upd)
	story, _ := s.stories.GetByID(ctx, id)
	return story, nil
}

// DeleteStory удаляет сказку и каскадно весь ее контент: иллюстрации, задания,
// игры и раскраски. Каскад выполняется здесь, а не в репозиториях.
func (s *LibraryService) DeleteStory(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.stories.GetByID(ctx, id); !ok {
		return ErrStoryNotFound
	}
	s.content.DeleteStoryContent(ctx, id)
	s.stories.Delete(ctx, id)
	s.logger.Info("Сказка удалена вместе с контентом", zap.String("story_id", id.String()))
	return nil
}

// GetStoryContent возвращает весь контент сказки.
func (s *LibraryService) GetStoryContent(ctx context.Context, storyID uuid.UUID) (models.StoryContent, error) {
	if _, ok := s.stories.GetByID(ctx, storyID); !ok {
		return models.StoryContent{}, ErrStoryNotFound
	}
	return s.content.GetStoryContent(ctx, storyID), nil
}

// GenerateImagePrompt строит текстовый промпт иллюстрации по сцене, не
// создавая саму иллюстрацию.
func (s *LibraryService) GenerateImagePrompt(ctx context.Context, storyID uuid.UUID, scene string) (string, error) {
	story, ok := s.stories.GetByID(ctx, storyID)
	if !ok {
		return "", ErrStoryNotFound
	}
	prompt, err := s.generator.GenerateImagePrompt(ctx, story.Content, scene)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return prompt, nil
}

// CreateImage генерирует иллюстрацию для сказки: описание сцены превращается в
// промпт, промпт — в URL изображения.
func (s *LibraryService) CreateImage(ctx context.Context, storyID uuid.UUID, scene string) (models.Image, error) {
	story, ok := s.stories.GetByID(ctx, storyID)
	if !ok {
		return models.Image{}, ErrStoryNotFound
	}

	prompt, err := s.generator.GenerateImagePrompt(ctx, story.Content, scene)
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	url, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	img := models.Image{
		ID:        s.newID(),
		StoryID:   storyID,
		URL:       url,
		Prompt:    prompt,
		CreatedAt: s.now(),
	}
	s.content.AddImage(ctx, img)
	return img, nil
}

// DeleteImage удаляет иллюстрацию и каскадно ее раскраски.
func (s *LibraryService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.content.GetImage(ctx, id); !ok {
		return ErrImageNotFound
	}
	s.content.DeleteImage(ctx, id)
	return nil
}

// CreateActivity генерирует задание указанного типа по тексту сказки.
func (s *LibraryService) CreateActivity(ctx context.Context, storyID uuid.UUID, activityType models.ActivityType) (models.Activity, error) {
	story, ok := s.stories.GetByID(ctx, storyID)
	if !ok {
		return models.Activity{}, ErrStoryNotFound
	}

	content, err := s.generator.GenerateActivityContent(ctx, story.Content, activityType)
	if err != nil {
		return models.Activity{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	act := models.Activity{
		ID:        s.newID(),
		StoryID:   storyID,
		Title:     activityTitle(activityType, content),
		Type:      activityType,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.content.AddActivity(ctx, act)
	return act, nil
}

// RegenerateActivity генерирует содержимое задания заново. Идентификатор и
// привязка к сказке сохраняются.
func (s *LibraryService) RegenerateActivity(ctx context.Context, id uuid.UUID) (models.Activity, error) {
	act, ok := s.content.GetActivity(ctx, id)
	if !ok {
		return models.Activity{}, ErrActivityNotFound
	}
	story, ok := s.stories.GetByID(ctx, act.StoryID)
	if !ok {
		return models.Activity{}, ErrStoryNotFound
	}

	content, err := s.generator.GenerateActivityContent(ctx, story.Content, act.Type)
	if err != nil {
		return models.Activity{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	title := activityTitle(act.Type, content)
	s.content.UpdateActivity(ctx, id, repository.ActivityUpdate{Title: &title, Content: content})
	act, _ = s.content.GetActivity(ctx, id)
	return act, nil
}

// SubmitActivity проверяет ответы на задание и возвращает оценку 0..100.
func (s *LibraryService) SubmitActivity(ctx context.Context, id uuid.UUID, answers Answers) (int, error) {
	act, ok := s.content.GetActivity(ctx, id)
	if !ok {
		return 0, ErrActivityNotFound
	}
	return GradeActivity(act.Type, act.Content, answers)
}

// DeleteActivity удаляет задание.
func (s *LibraryService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.content.GetActivity(ctx, id); !ok {
		return ErrActivityNotFound
	}
	s.content.DeleteActivity(ctx, id)
	return nil
}

// CreateGame генерирует мини-игру указанного типа по тексту сказки.
func (s *LibraryService) CreateGame(ctx context.Context, storyID uuid.UUID, gameType models.GameType) (models.Game, error) {
	story, ok := s.stories.GetByID(ctx, storyID)
	if !ok {
		return models.Game{}, ErrStoryNotFound
	}

	content, err := s.generator.GenerateGameContent(ctx, story.Content, gameType)
	if err != nil {
		return models.Game{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	game := models.Game{
		ID:        s.newID(),
		StoryID:   storyID,
		Title:     gameTitle(gameType, content),
		Type:      gameType,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.content.AddGame(ctx, game)
	return game, nil
}

// GenerateGameIdea генерирует свободную текстовую идею игры по сказке, не
// сохраняя ее.
func (s *LibraryService) GenerateGameIdea(ctx context.Context, storyID uuid.UUID, label string) (title, content string, err error) {
	story, ok := s.stories.GetByID(ctx, storyID)
	if !ok {
		return "", "", ErrStoryNotFound
	}
	title, content, err = s.generator.GenerateGameIdeas(ctx, story.Content, label)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return title, content, nil
}

// GetGame возвращает игру по id.
func (s *LibraryService) GetGame(ctx context.Context, id uuid.UUID) (models.Game, error) {
	game, ok := s.content.GetGame(ctx, id)
	if !ok {
		return models.Game{}, ErrGameNotFound
	}
	return game, nil
}

// DeleteGame удаляет игру.
func (s *LibraryService) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.content.GetGame(ctx, id); !ok {
		return ErrGameNotFound
	}
	s.content.DeleteGame(ctx, id)
	return nil
}

// CreateColoringPage строит раскраску по существующей иллюстрации сказки:
// контурный URL выводится из URL иллюстрации.
func (s *LibraryService) CreateColoringPage(ctx context.Context, storyID, imageID uuid.UUID, title string) (models.ColoringPage, error) {
	if _, ok := s.stories.GetByID(ctx, storyID); !ok {
		return models.ColoringPage{}, ErrStoryNotFound
	}
	img, ok := s.content.GetImage(ctx, imageID)
	if !ok || img.StoryID != storyID {
		return models.ColoringPage{}, ErrImageNotFound
	}

	if title == "" {
		title = "صفحة تلوين"
	}
	page := models.ColoringPage{
		ID:          s.newID(),
		StoryID:     storyID,
		ImageID:     imageID,
		Title:       title,
		OutlineURL:  ColoringOutlineURL(img.URL),
		OriginalURL: img.URL,
		CreatedAt:   s.now(),
	}
	s.content.AddColoringPage(ctx, page)
	return page, nil
}

// GenerateColoringPage генерирует новую раскраску по описанию персонажа,
// без привязки к существующей иллюстрации: описание превращается в промпт
// контурного рисунка, промпт — в изображение.
func (s *LibraryService) GenerateColoringPage(ctx context.Context, storyID uuid.UUID, character, title string) (models.ColoringPage, error) {
	story, ok := s.stories.GetByID(ctx, storyID)
	if !ok {
		return models.ColoringPage{}, ErrStoryNotFound
	}
	prompt, err := s.generator.GenerateColoringPrompt(ctx, story.Content, character)
	if err != nil {
		return models.ColoringPage{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	url, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return models.ColoringPage{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if title == "" {
		title = "صفحة تلوين"
	}
	page := models.ColoringPage{
		ID:          s.newID(),
		StoryID:     storyID,
		Title:       title,
		OutlineURL:  ColoringOutlineURL(url),
		OriginalURL: url,
		CreatedAt:   s.now(),
	}
	s.content.AddColoringPage(ctx, page)
	return page, nil
}

// DeleteColoringPage удаляет раскраску.
func (s *LibraryService) DeleteColoringPage(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.content.GetColoringPage(ctx, id); !ok {
		return ErrColoringPageNotFound
	}
	s.content.DeleteColoringPage(ctx, id)
	return nil
}

// activityTitle берет заголовок из декодированной нагрузки, иначе подставляет
// заголовок по типу.
func activityTitle(t models.ActivityType, content json.RawMessage) string {
	if payload, err := models.DecodeActivityContent(t, content); err == nil {
		switch c := payload.(type) {
		case *models.MatchingContent:
			if c.Title != "" {
				return c.Title
			}
		case *models.TrueFalseContent:
			if c.Title != "" {
				return c.Title
			}
		case *models.FillBlanksContent:
			if c.Title != "" {
				return c.Title
			}
		case *models.MultipleChoiceContent:
			if c.Title != "" {
				return c.Title
			}
		}
	}
	return fmt.Sprintf("نشاط %s", t)
}

func gameTitle(t models.GameType, content json.RawMessage) string {
	if payload, err := models.DecodeGameContent(t, content); err == nil {
		switch c := payload.(type) {
		case *models.MemoryContent:
			if c.Title != "" {
				return c.Title
			}
		case *models.OrderingContent:
			if c.Title != "" {
				return c.Title
			}
		case *models.QuizContent:
			if c.Title != "" {
				return c.Title
			}
		}
	}
	switch t {
	case models.GameMemory:
		return "لعبة الذاكرة"
	case models.GameOrdering:
		return "ترتيب الأحداث"
	default:
		return "اختبار معلومات"
	}
}
