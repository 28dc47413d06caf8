package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/profile"
)

type UserRepository interface {
	// Найти пользователя по ID.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Создать пользователя.
	Create(ctx context.Context, user *model.User) error
	// Обновить контактные данные.
	UpdateContacts(ctx context.Context, id string, displayName, contactPhone string) (*model.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	// Оставляем ведущий '+' и цифры, форматирование отбрасываем.
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c == '+' && len(b) == 0 {
			b = append(b, c)
			continue
		}
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

func (r *GormUserRepository) UpdateContacts(ctx context.Context, id string, displayName, contactPhone string) (*model.User, error) {
	update := map[string]any{}
	if displayName != "" {
		update["display_name"] = displayName
	}
	if contactPhone != "" {
		update["contact_phone"] = normalizePhone(contactPhone)
	}
	if len(update) > 0 {
		err := r.db.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ?", id).
			Updates(update).Error
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// FindProfile реализует profile.Store поверх таблицы пользователей.
func (r *GormUserRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*profile.Consumer, error) {
	u, err := r.GetByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile.Consumer{
		ID:           u.ID,
		DisplayName:  u.DisplayName,
		ContactPhone: u.ContactPhone,
	}, nil
}
