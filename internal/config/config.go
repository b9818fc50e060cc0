package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервера сказок.
type Config struct {
	// Настройки HTTP сервера
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Настройки хранилища: file или redis
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"file"`
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`

	// Настройки AI: openai (совместимый API) или ollama
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat"`
	AIAPIKey     string        `envconfig:"AI_API_KEY" default:""`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`

	// Настройки генератора изображений (заглушка с задержкой)
	ImageDelay time.Duration `envconfig:"IMAGE_DELAY" default:"1500ms"`

	// Время жизни неактивной игровой сессии
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	return &cfg, nil
}
