package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tales-server/internal/models"
)

// Compile-time check
var _ ContentRepository = (*kvContentRepository)(nil)

// contentSnapshot — сериализуемая форма слота content-storage. Четыре
// коллекции пишутся одним снимком, как у исходного контент-стора.
type contentSnapshot struct {
	Images        []models.Image        `json:"images"`
	Activities    []models.Activity     `json:"activities"`
	Games         []models.Game         `json:"games"`
	ColoringPages []models.ColoringPage `json:"coloringPages"`
}

type kvContentRepository struct {
	mu            sync.RWMutex
	images        []models.Image
	activities    []models.Activity
	games         []models.Game
	coloringPages []models.ColoringPage
	backend       Backend
	logger        *zap.Logger
}

// NewContentRepository создает репозиторий контента и регидрирует его из слота
// content-storage.
func NewContentRepository(ctx context.Context, backend Backend, logger *zap.Logger) ContentRepository {
	r := &kvContentRepository{
		backend: backend,
		logger:  logger.Named("ContentRepo"),
	}
	r.rehydrate(ctx)
	return r
}

func (r *kvContentRepository) rehydrate(ctx context.Context) {
	data, err := r.backend.Load(ctx, ContentSlot)
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			r.logger.Warn("Не удалось прочитать слот, начинаем с пустых коллекций", zap.Error(err))
		}
		return
	}
	var snap contentSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warn("Слот поврежден, начинаем с пустых коллекций", zap.Error(err))
		return
	}
	r.images = snap.Images
	r.activities = snap.Activities
	r.games = snap.Games
	r.coloringPages = snap.ColoringPages
	r.logger.Info("Коллекции контента загружены",
		zap.Int("images", len(r.images)),
		zap.Int("activities", len(r.activities)),
		zap.Int("games", len(r.games)),
		zap.Int("coloringPages", len(r.coloringPages)),
	)
}

func (r *kvContentRepository) snapshotLocked() contentSnapshot {
	snap := contentSnapshot{
		Images:        make([]models.Image, len(r.images)),
		Activities:    make([]models.Activity, len(r.activities)),
		Games:         make([]models.Game, len(r.games)),
		ColoringPages: make([]models.ColoringPage, len(r.coloringPages)),
	}
	copy(snap.Images, r.images)
	copy(snap.Activities, r.activities)
	copy(snap.Games, r.games)
	copy(snap.ColoringPages, r.coloringPages)
	return snap
}

// flush пишет слот целиком; ошибка записи логируется и не возвращается.
func (r *kvContentRepository) flush(ctx context.Context, snap contentSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Ошибка сериализации слота", zap.Error(err))
		return
	}
	if err := r.backend.Save(ctx, ContentSlot, data); err != nil {
		r.logger.Error("Ошибка записи слота", zap.Error(err))
	}
}

func (r *kvContentRepository) AddImage(ctx context.Context, img models.Image) {
	r.mu.Lock()
	r.images = append(r.images, img)
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) AddActivity(ctx context.Context, act models.Activity) {
	r.mu.Lock()
	r.activities = append(r.activities, act)
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) AddGame(ctx context.Context, game models.Game) {
	r.mu.Lock()
	r.games = append(r.games, game)
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) AddColoringPage(ctx context.Context, page models.ColoringPage) {
	r.mu.Lock()
	r.coloringPages = append(r.coloringPages, page)
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) UpdateActivity(ctx context.Context, id uuid.UUID, upd ActivityUpdate) {
	r.mu.Lock()
	changed := false
	for i := range r.activities {
		if r.activities[i].ID != id {
			continue
		}
		if upd.Title != nil {
			r.activities[i].Title = *upd.Title
		}
		if upd.Content != nil {
			r.activities[i].Content = upd.Content
		}
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

func (r *kvContentRepository) DeleteImage(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	keptImages := r.images[:0]
	removed := false
	for _, img := range r.images {
		if img.ID == id {
			removed = true
			continue
		}
		keptImages = append(keptImages, img)
	}
	r.images = keptImages
	if removed {
		// Каскад: раскраски, построенные по этой иллюстрации, удаляются в той
		// же операции.
		keptPages := r.coloringPages[:0]
		for _, page := range r.coloringPages {
			if page.ImageID == id {
				continue
			}
			keptPages = append(keptPages, page)
		}
		r.coloringPages = keptPages
	}
	if !removed {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) DeleteActivity(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	kept := r.activities[:0]
	removed := false
	for _, act := range r.activities {
		if act.ID == id {
			removed = true
			continue
		}
		kept = append(kept, act)
	}
	r.activities = kept
	if !removed {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) DeleteGame(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	kept := r.games[:0]
	removed := false
	for _, g := range r.games {
		if g.ID == id {
			removed = true
			continue
		}
		kept = append(kept, g)
	}
	r.games = kept
	if !removed {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) DeleteColoringPage(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	kept := r.coloringPages[:0]
	removed := false
	for _, page := range r.coloringPages {
		if page.ID == id {
			removed = true
			continue
		}
		kept = append(kept, page)
	}
	r.coloringPages = kept
	if !removed {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.flush(ctx, snap)
}

func (r *kvContentRepository) DeleteStoryContent(ctx context.Context, storyID uuid.UUID) {
	r.mu.Lock()
	removed := 0

	keptImages := r.images[:0]
	for _, img := range r.images {
		if img.StoryID == storyID {
			removed++
			continue
		}
		keptImages = append(keptImages, img)
	}
	r.images = keptImages

	keptActivities := r.activities[:0]
	for _, act := range r.activities {
		if act.StoryID == storyID {
			removed++
			continue
		}
		keptActivities = append(keptActivities, act)
	}
	r.activities = keptActivities

	keptGames := r.games[:0]
	for _, g := range r.games {
		if g.StoryID == storyID {
			removed++
			continue
		}
		keptGames = append(keptGames, g)
	}
	r.games = keptGames

	keptPages := r.coloringPages[:0]
	for _, page := range r.coloringPages {
		if page.StoryID == storyID {
			removed++
			continue
		}
		keptPages = append(keptPages, page)
	}
	r.coloringPages = keptPages

	if removed == 0 {
		r.mu.Unlock()
		return
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.logger.Info("Контент сказки удален каскадно",
		zap.String("story_id", storyID.String()),
		zap.Int("removed", removed),
	)
	r.flush(ctx, snap)
}

func (r *kvContentRepository) GetImage(_ context.Context, id uuid.UUID) (models.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, img := range r.images {
		if img.ID == id {
			return img, true
		}
	}
	return models.Image{}, false
}

func (r *kvContentRepository) GetActivity(_ context.Context, id uuid.UUID) (models.Activity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, act := range r.activities {
		if act.ID == id {
			return act, true
		}
	}
	return models.Activity{}, false
}

func (r *kvContentRepository) GetGame(_ context.Context, id uuid.UUID) (models.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.games {
		if g.ID == id {
			return g, true
		}
	}
	return models.Game{}, false
}

func (r *kvContentRepository) GetColoringPage(_ context.Context, id uuid.UUID) (models.ColoringPage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, page := range r.coloringPages {
		if page.ID == id {
			return page, true
		}
	}
	return models.ColoringPage{}, false
}

func (r *kvContentRepository) GetStoryContent(_ context.Context, storyID uuid.UUID) models.StoryContent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := models.StoryContent{
		Images:        []models.Image{},
		Activities:    []models.Activity{},
		Games:         []models.Game{},
		ColoringPages: []models.ColoringPage{},
	}
	for _, img := range r.images {
		if img.StoryID == storyID {
			result.Images = append(result.Images, img)
		}
	}
	for _, act := range r.activities {
		if act.StoryID == storyID {
			result.Activities = append(result.Activities, act)
		}
	}
	for _, g := range r.games {
		if g.StoryID == storyID {
			result.Games = append(result.Games, g)
		}
	}
	for _, page := range r.coloringPages {
		if page.StoryID == storyID {
			result.ColoringPages = append(result.ColoringPages, page)
		}
	}
	return result
}
