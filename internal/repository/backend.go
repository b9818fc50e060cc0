package repository

import (
	"context"
	"errors"
)

// Имена слотов долговременного хранилища. Каждый слот хранит полный
// JSON-снимок своей коллекции и перезаписывается целиком.
const (
	StorySlot   = "story-storage"
	ContentSlot = "content-storage"
)

// ErrSlotNotFound возвращается бэкендом, если слот еще ни разу не записывался.
var ErrSlotNotFound = errors.New("слот хранилища не найден")

// Backend — долговременное key-value хранилище для слотов репозиториев.
// Слот читается и пишется целиком, без частичных обновлений и миграций.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
