package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
)

type BookingRepository interface {
	// Создать новое бронирование.
	Create(ctx context.Context, booking *model.Booking) error
	// Получить бронирование по ID.
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// Перевести active-бронь в cancelled одним условным UPDATE.
	// false — бронь уже не active (конкурентная отмена или завершение).
	MarkCancelled(ctx context.Context, id string, cancelledAt time.Time, reason string) (bool, error)
	// Список бронирований пользователя с пагинацией, новые сверху.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Booking, int64, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) MarkCancelled(ctx context.Context, id string, cancelledAt time.Time, reason string) (bool, error) {
	update := map[string]any{
		"status":       model.BookingStatusCancelled,
		"cancelled_at": cancelledAt,
	}
	if reason != "" {
		update["cancel_reason"] = reason
	}
	// Предикат по статусу — сама защита от двойной отмены: два
	// конкурентных перехода не могут оба затронуть строку.
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, model.BookingStatusActive).
		Updates(update)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormBookingRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("user_id = ?", userID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
