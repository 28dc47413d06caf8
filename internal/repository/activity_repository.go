package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
)

type ActivityRepository interface {
	// Найти активность по ID.
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	// Активность вместе с бизнесом, шаблоном и его исключениями.
	GetWithRelations(ctx context.Context, id string) (*model.Activity, error)
	// Есть ли published-активности, ссылающиеся на шаблон.
	CountPublishedByTemplate(ctx context.Context, templateID string) (int64, error)
	// Создать активность.
	Create(ctx context.Context, activity *model.Activity) error
	// Обновить статус активности.
	UpdateStatus(ctx context.Context, id string, status model.ActivityStatus) error
}

type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	var a model.Activity
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormActivityRepository) GetWithRelations(ctx context.Context, id string) (*model.Activity, error) {
	var a model.Activity
	err := r.db.WithContext(ctx).
		Preload("Business").
		Preload("Template.Exceptions").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormActivityRepository) CountPublishedByTemplate(ctx context.Context, templateID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("availability_template_id = ?", templateID).
		Where("status = ?", model.ActivityStatusPublished).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *GormActivityRepository) UpdateStatus(ctx context.Context, id string, status model.ActivityStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}
