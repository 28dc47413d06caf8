package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/schedule"
)

type TemplateRepository interface {
	// Шаблон вместе с исключениями.
	GetByID(ctx context.Context, id string) (*model.AvailabilityTemplate, error)
	// Создать шаблон; инварианты правила проверяются до записи.
	Create(ctx context.Context, tmpl *model.AvailabilityTemplate) error
	// Добавить блэкаут-диапазон к шаблону.
	AddException(ctx context.Context, exc *model.AvailabilityException) error
	// Обновить статус шаблона.
	UpdateStatus(ctx context.Context, id string, status model.TemplateStatus) error
}

type GormTemplateRepository struct {
	db *gorm.DB
}

func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) GetByID(ctx context.Context, id string) (*model.AvailabilityTemplate, error) {
	var t model.AvailabilityTemplate
	err := r.db.WithContext(ctx).
		Preload("Exceptions").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTemplateRepository) Create(ctx context.Context, tmpl *model.AvailabilityTemplate) error {
	// Генератор слотов рассчитывает на валидное правило,
	// поэтому инварианты держим на записи.
	err := schedule.ValidateRules(
		tmpl.DaysOfWeek,
		tmpl.StartTime,
		tmpl.EndTime,
		tmpl.SlotDurationMinutes,
		tmpl.Capacity,
	)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *GormTemplateRepository) AddException(ctx context.Context, exc *model.AvailabilityException) error {
	if err := schedule.ValidateExceptionRange(time.Time(exc.StartDate), time.Time(exc.EndDate)); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(exc).Error
}

func (r *GormTemplateRepository) UpdateStatus(ctx context.Context, id string, status model.TemplateStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.AvailabilityTemplate{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}
