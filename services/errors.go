package services

import (
	"errors"
	"fmt"
)

// Общие классы ошибок, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Вход не проходит проверку формы/диапазонов
	ErrValidationFailed = errors.New("validation failed")

	// Операция недопустима в текущем состоянии сущности
	ErrPreconditionFailed = errors.New("operation not allowed in the current state")

	// Конфликт с существующими данными (дубликат, пересечение)
	ErrConflict = errors.New("conflict with existing state")

	// Ошибки авторизации
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)

// CapExceededError — превышение потолка зарплат. Несёт команду, проектную
// нагрузку и потолок; проходит errors.Is(err, ErrValidationFailed).
type CapExceededError struct {
	TeamID    int
	CapUsage  int64
	SalaryCap int64
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("team %d cap usage %d exceeds salary cap %d", e.TeamID, e.CapUsage, e.SalaryCap)
}

func (e *CapExceededError) Is(target error) bool {
	return target == ErrValidationFailed
}

// RosterLimitError — превышение лимита состава.
type RosterLimitError struct {
	TeamID int
	Size   int
	Limit  int
}

func (e *RosterLimitError) Error() string {
	return fmt.Sprintf("team %d roster size %d exceeds limit %d", e.TeamID, e.Size, e.Limit)
}

func (e *RosterLimitError) Is(target error) bool {
	return target == ErrValidationFailed
}
