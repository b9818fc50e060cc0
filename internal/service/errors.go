package service

import "errors"

var (
	// ErrStoryNotFound — родительская сказка не существует. Возвращается при
	// создании зависимого контента и при чтении отсутствующей сказки.
	ErrStoryNotFound = errors.New("сказка не найдена")
	// ErrImageNotFound — иллюстрация не существует (проверка при создании
	// раскраски).
	ErrImageNotFound = errors.New("иллюстрация не найдена")
	// ErrActivityNotFound — задание не существует.
	ErrActivityNotFound = errors.New("задание не найдено")
	// ErrGameNotFound — игра не существует.
	ErrGameNotFound = errors.New("игра не найдена")
	// ErrColoringPageNotFound — раскраска не существует.
	ErrColoringPageNotFound = errors.New("раскраска не найдена")
	// ErrNoAnswers — попытка отправить задание на проверку без единого ответа.
	ErrNoAnswers = errors.New("не записано ни одного ответа")
	// ErrGenerationFailed — провайдер генерации недоступен или вернул ошибку.
	ErrGenerationFailed = errors.New("ошибка генерации контента")
)
