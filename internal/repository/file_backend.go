package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// fileBackend хранит каждый слот в отдельном JSON-файле внутри каталога данных.
// Запись атомарная: сначала во временный файл, затем rename.
type fileBackend struct {
	dir    string
	logger *zap.Logger
}

// NewFileBackend создает файловый бэкенд хранилища. Каталог создается при
// необходимости.
func NewFileBackend(dir string, logger *zap.Logger) (Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог данных %s: %w", dir, err)
	}
	return &fileBackend{
		dir:    dir,
		logger: logger.Named("FileBackend"),
	}, nil
}

func (b *fileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *fileBackend) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("ошибка чтения слота %s: %w", key, err)
	}
	return data, nil
}

func (b *fileBackend) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла для слота %s: %w", key, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи слота %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия временного файла слота %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, b.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка переименования слота %s: %w", key, err)
	}
	b.logger.Debug("Слот записан", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}
