package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tales-server/internal/models"
)

// Compile-time check
var _ StoryRepository = (*kvStoryRepository)(nil)

// storySnapshot — сериализуемая форма слота story-storage.
type storySnapshot struct {
	Stories []models.Story `json:"stories"`
}

// kvStoryRepository держит коллекцию сказок в памяти и после каждой мутации
// перезаписывает слот целиком. Повреждение или отсутствие слота при старте
// дает пустую коллекцию, а не ошибку.
type kvStoryRepository struct {
	mu      sync.RWMutex
	stories []models.Story
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// NewStoryRepository создает репозиторий сказок и регидрирует его из слота
// story-storage.
func NewStoryRepository(ctx context.Context, backend Backend, logger *zap.Logger) StoryRepository {
	r := &kvStoryRepository{
		backend: backend,
		logger:  logger.Named("StoryRepo"),
		now:     time.Now,
	}
	r.rehydrate(ctx)
	return r
}

func (r *kvStoryRepository) rehydrate(ctx context.Context) {
	data, err := r.backend.Load(ctx, StorySlot)
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			r.logger.Warn("Не удалось прочитать слот, начинаем с пустой коллекции", zap.Error(err))
		}
		return
	}
	var snap storySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warn("Слот поврежден, начинаем с пустой коллекции", zap.Error(err))
		return
	}
	r.stories = snap.Stories
	r.logger.Info("Коллекция сказок загружена", zap.Int("count", len(r.stories)))
}

// flush сериализует текущую коллекцию и пишет слот целиком.
// Ошибка записи логируется и не возвращается: мутация в памяти уже применена.
func (r *kvStoryRepository) flush(ctx context.Context, snap storySnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Ошибка сериализации слота", zap.Error(err))
		return
	}
	if err := r.backend.Save(ctx, StorySlot, data); err != nil {
		r.logger.Error("Ошибка записи слота", zap.Error(err))
	}
}

func (r *kvStoryRepository) snapshotLocked() storySnapshot {
	cp := make([]models.Story, len(r.stories))
	copy(cp, r.stories)
	return storySnapshot{Stories: cp}
}

func (r *kvStoryRepository) Add(ctx context.Context, story models.Story) {
	r.mu.Lock()
	r.stories = append(r.stories, story)
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvStoryRepository) Update(ctx context.Context, id uuid.UUID, upd models.StoryUpdate) {
	r.mu.Lock()
	changed := false
	for i := range r.stories {
		if r.stories[i].ID != id {
			continue
		}
		s := &r.stories[i]
		if upd.Title != nil {
			s.Title = *upd.Title
		}
		if upd.Content != nil {
			s.Content = *upd.Content
		}
		if upd.HeroName != nil {
			s.HeroName = *upd.HeroName
		}
		if upd.Topic != nil {
			s.Topic = *upd.Topic
		}
		if upd.AgeGroup != nil {
			s.AgeGroup = *upd.AgeGroup
		}
		s.UpdatedAt = r.now()
		changed = true
		break
	}
	if !changed {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvStoryRepository) Delete(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	kept := r.stories[:0]
	removed := false
	for _, s := range r.stories {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	r.stories = kept
	if !removed {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvStoryRepository) GetByID(_ context.Context, id uuid.UUID) (models.Story, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stories {
		if s.ID == id {
			return s, true
		}
	}
	return models.Story{}, false
}

func (r *kvStoryRepository) List(_ context.Context) []models.Story {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make([]models.Story, len(r.stories))
	copy(cp, r.stories)
	return cp
}
