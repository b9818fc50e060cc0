package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ImageGenerator генерирует URL изображения по текстовому описанию.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// demoImageURLs — подборка иллюстраций, из которой заглушечный генератор
// выбирает случайный URL.
var demoImageURLs = []string{
	"https://images.unsplash.com/photo-1551966775-a4ddc8df052b?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1629654297299-c8506221ca97?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1579547945413-497e1b99dac0?q=80&w=800&auto=format&fit=crop",
}

// coloringOutlineSuffix переводит исходный URL иллюстрации в контурный
// (ч/б) вариант для раскраски.
const coloringOutlineSuffix = "?q=80&w=800&auto=format&fit=crop&ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&fm=jpg&grayscale=true"

// placeholderImageGenerator имитирует внешний сервис генерации изображений:
// случайный URL из подборки с настраиваемой задержкой.
type placeholderImageGenerator struct {
	delay  time.Duration
	rng    *rand.Rand
	logger *zap.Logger
}

// NewPlaceholderImageGenerator создает заглушечный генератор изображений.
func NewPlaceholderImageGenerator(delay time.Duration, logger *zap.Logger) ImageGenerator {
	return &placeholderImageGenerator{
		delay:  delay,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger.Named("ImageGenerator"),
	}
}

func (g *placeholderImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	url := demoImageURLs[g.rng.Intn(len(demoImageURLs))]
	g.logger.Debug("Сгенерирован URL изображения", zap.String("url", url))
	return url, nil
}

// ColoringOutlineURL возвращает URL контурного варианта изображения.
func ColoringOutlineURL(imageURL string) string {
	base := imageURL
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return base + coloringOutlineSuffix
}
