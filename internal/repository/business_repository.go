package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
)

type BusinessRepository interface {
	// Найти бизнес по ID.
	GetByID(ctx context.Context, id string) (*model.Business, error)
	// Создать бизнес.
	Create(ctx context.Context, business *model.Business) error
}

type GormBusinessRepository struct {
	db *gorm.DB
}

func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

func (r *GormBusinessRepository) GetByID(ctx context.Context, id string) (*model.Business, error) {
	var b model.Business
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBusinessRepository) Create(ctx context.Context, business *model.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}
