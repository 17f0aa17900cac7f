package domain

import "errors"

var (
	// ErrNotFound запрошенная сущность отсутствует
	ErrNotFound = errors.New("not found")
	// ErrForbidden у пользователя нет прав на действие
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized пользователь не аутентифицирован
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")

	ErrAlreadyCollected = errors.New("already collected")
	ErrNotCollected     = errors.New("not collected")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrTagNotAttached   = errors.New("tag is not attached to photo")
)
