package models

import (
	"time"

	"github.com/google/uuid"
)

// Story представляет сказку — корневую сущность библиотеки.
// Все остальные сущности ссылаются на нее через StoryID.
type Story struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	HeroName  string    `json:"heroName"`
	Topic     string    `json:"topic"`
	AgeGroup  string    `json:"ageGroup"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StoryUpdate описывает частичное обновление сказки.
// Указатели, чтобы отличить "не менять" от пустого значения.
type StoryUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	HeroName *string `json:"heroName,omitempty"`
	Topic    *string `json:"topic,omitempty"`
	AgeGroup *string `json:"ageGroup,omitempty"`
}
