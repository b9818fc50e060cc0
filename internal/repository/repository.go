package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"tales-server/internal/models"
)

// StoryRepository — хранилище сказок (слот story-storage).
// Операции не возвращают ошибок для отсутствующих id: обновление и удаление
// несуществующей записи — тихий no-op. Ошибки сброса в долговременное
// хранилище логируются и не всплывают к вызывающему.
type StoryRepository interface {
	Add(ctx context.Context, story models.Story)
	Update(ctx context.Context, id uuid.UUID, upd models.StoryUpdate)
	Delete(ctx context.Context, id uuid.UUID)
	GetByID(ctx context.Context, id uuid.UUID) (models.Story, bool)
	List(ctx context.Context) []models.Story
}

// ActivityUpdate описывает частичное обновление задания.
type ActivityUpdate struct {
	Title   *string
	Content json.RawMessage
}

// ContentRepository — хранилище контента сказок: иллюстраций, заданий, игр и
// раскрасок (слот content-storage). Контракт ошибок тот же, что у
// StoryRepository.
type ContentRepository interface {
	AddImage(ctx context.Context, img models.Image)
	AddActivity(ctx context.Context, act models.Activity)
	AddGame(ctx context.Context, game models.Game)
	AddColoringPage(ctx context.Context, page models.ColoringPage)

	UpdateActivity(ctx context.Context, id uuid.UUID, upd ActivityUpdate)

	// DeleteImage удаляет иллюстрацию и каскадно все раскраски с ее imageId
	// в рамках одной операции.
	DeleteImage(ctx context.Context, id uuid.UUID)
	DeleteActivity(ctx context.Context, id uuid.UUID)
	DeleteGame(ctx context.Context, id uuid.UUID)
	DeleteColoringPage(ctx context.Context, id uuid.UUID)

	// DeleteStoryContent удаляет весь контент сказки. Вызывается фасадом при
	// удалении сказки — каскад централизован там.
	DeleteStoryContent(ctx context.Context, storyID uuid.UUID)

	GetImage(ctx context.Context, id uuid.UUID) (models.Image, bool)
	GetActivity(ctx context.Context, id uuid.UUID) (models.Activity, bool)
	GetGame(ctx context.Context, id uuid.UUID) (models.Game, bool)
	GetColoringPage(ctx context.Context, id uuid.UUID) (models.ColoringPage, bool)

	GetStoryContent(ctx context.Context, storyID uuid.UUID) models.StoryContent
}
