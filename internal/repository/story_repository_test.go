package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tales-server/internal/models"
)

func newTestStory(title string) models.Story {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return models.Story{
		ID:        uuid.New(),
		Title:     title,
		Content:   "كان يا ما كان...",
		HeroName:  "أحمد",
		Topic:     "الفضاء",
		AgeGroup:  "6-8",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStoryRepository_AddGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewStoryRepository(ctx, NewMemoryBackend(), zap.NewNop())

	story := newTestStory("قصة الفضاء")
	repo.Add(ctx, story)

	got, ok := repo.GetByID(ctx, story.ID)
	require.True(t, ok)
	assert.Equal(t, story, got)

	_, ok = repo.GetByID(ctx, uuid.New())
	assert.False(t, ok)

	assert.Len(t, repo.List(ctx), 1)
}

func TestStoryRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewStoryRepository(ctx, NewMemoryBackend(), zap.NewNop()).(*kvStoryRepository)
	updateTime := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return updateTime }

	story := newTestStory("قصة الفضاء")
	repo.Add(ctx, story)

	newTitle := "قصة النجوم"
	repo.Update(ctx, story.ID, models.StoryUpdate{Title: &newTitle})

	got, ok := repo.GetByID(ctx, story.ID)
	require.True(t, ok)
	assert.Equal(t, "قصة النجوم", got.Title)
	assert.Equal(t, "كان يا ما كان...", got.Content, "неуказанные поля не меняются")
	assert.Equal(t, updateTime, got.UpdatedAt)
	assert.Equal(t, story.CreatedAt, got.CreatedAt)
}

func TestStoryRepository_UpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	repo := NewStoryRepository(ctx, backend, zap.NewNop())

	title := "не важно"
	repo.Update(ctx, uuid.New(), models.StoryUpdate{Title: &title})

	_, err := backend.Load(ctx, StorySlot)
	assert.ErrorIs(t, err, ErrSlotNotFound, "пустое обновление не пишет слот")
}

func TestStoryRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewStoryRepository(ctx, NewMemoryBackend(), zap.NewNop())

	story := newTestStory("قصة")
	repo.Add(ctx, story)
	repo.Delete(ctx, story.ID)
	repo.Delete(ctx, story.ID)

	_, ok := repo.GetByID(ctx, story.ID)
	assert.False(t, ok)
	assert.Empty(t, repo.List(ctx))
}

func TestStoryRepository_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	repo := NewStoryRepository(ctx, backend, zap.NewNop())
	story := newTestStory("قصة الفضاء")
	repo.Add(ctx, story)

	// Новый репозиторий поверх того же бэкенда видит данные.
	reopened := NewStoryRepository(ctx, backend, zap.NewNop())
	got, ok := reopened.GetByID(ctx, story.ID)
	require.True(t, ok)
	assert.Equal(t, story.Title, got.Title)
}

func TestStoryRepository_CorruptSlotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, StorySlot, []byte("{broken")))

	repo := NewStoryRepository(ctx, backend, zap.NewNop())
	assert.Empty(t, repo.List(ctx))

	// Первая же мутация перезаписывает слот валидными данными.
	repo.Add(ctx, newTestStory("قصة"))
	reopened := NewStoryRepository(ctx, backend, zap.NewNop())
	assert.Len(t, reopened.List(ctx), 1)
}
