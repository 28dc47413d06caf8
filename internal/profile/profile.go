package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Ошибки валидации профиля потребителя.
var (
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrUserNotFound      = errors.New("user not found")
	ErrProfileIncomplete = errors.New("user profile has no phone number")
)

// Consumer — нормализованный профиль потребителя.
type Consumer struct {
	ID           uuid.UUID
	DisplayName  string
	ContactPhone string
}

// Источник данных о профилях.
// В реале это обёртка над БД, в тестах — мок.
type Store interface {
	FindProfile(ctx context.Context, userID uuid.UUID) (*Consumer, error)
}

// ValidateConsumer:
//   - проверяет корректность идентификатора;
//   - вытаскивает профиль из хранилища;
//   - требует телефон на файле (бизнес-правило для создания брони);
//   - возвращает нормализованный результат или ошибку.
func ValidateConsumer(ctx context.Context, store Store, userID uuid.UUID) (*Consumer, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	c, err := store.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrUserNotFound
	}

	if c.ContactPhone == "" {
		return nil, ErrProfileIncomplete
	}

	return c, nil
}
