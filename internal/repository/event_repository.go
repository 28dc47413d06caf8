package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
)

type EventRepository interface {
	// Записать событие аудита.
	Create(ctx context.Context, event *model.Event) error
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}
