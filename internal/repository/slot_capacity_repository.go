package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookvia/booking-platform/internal/model"
)

// ReserveOutcome — результат атомарной попытки резерва.
// При нехватке мест несёт фактический остаток для точного
// сообщения пользователю.
type ReserveOutcome struct {
	OK             bool
	RemainingSeats int
}

// SlotCapacityRepository — ledger вместимости слотов.
// Строка — единственный разделяемый мутабельный ресурс слота;
// меняется только через Reserve/Release и только в той же транзакции,
// что и соответствующая строка бронирования. Бизнес-пригодность слота
// (статус активности, активность шаблона) здесь не проверяется.
type SlotCapacityRepository interface {
	// Существующие строки по набору идентификаторов одним запросом.
	// Отсутствующая строка трактуется вызывающим как
	// "capacity = дефолт шаблона, занято 0".
	ResolveMany(ctx context.Context, ids []string) (map[string]model.SlotCapacity, error)
	// Атомарный get-or-insert + условный инкремент занятых мест.
	Reserve(ctx context.Context, id string, activityID uuid.UUID, slotStart time.Time, templateCapacity, seats int) (*ReserveOutcome, error)
	// Декремент занятых мест с полом в 0; no-op для отсутствующей строки.
	Release(ctx context.Context, id string, seats int) error
}

type GormSlotCapacityRepository struct {
	db *gorm.DB
}

func NewGormSlotCapacityRepository(db *gorm.DB) *GormSlotCapacityRepository {
	return &GormSlotCapacityRepository{db: db}
}

func (r *GormSlotCapacityRepository) ResolveMany(ctx context.Context, ids []string) (map[string]model.SlotCapacity, error) {
	result := make(map[string]model.SlotCapacity, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []model.SlotCapacity
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

func (r *GormSlotCapacityRepository) Reserve(
	ctx context.Context,
	id string,
	activityID uuid.UUID,
	slotStart time.Time,
	templateCapacity, seats int,
) (*ReserveOutcome, error) {
	// Ленивая материализация: строка заводится при первом резерве
	// с вместимостью из шаблона на этот момент.
	row := model.SlotCapacity{
		ID:          id,
		ActivityID:  activityID,
		SlotStart:   slotStart,
		Capacity:    templateCapacity,
		BookedSeats: 0,
		Status:      model.SlotCapacityStatusActive,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	// Условный инкремент одним стейтментом: два конкурентных резерва
	// на один идентификатор сериализуются на строке и не могут оба
	// пройти проверку остатка.
	res := r.db.WithContext(ctx).
		Model(&model.SlotCapacity{}).
		Where("id = ? AND status = ? AND capacity - booked_seats >= ?",
			id, model.SlotCapacityStatusActive, seats).
		Update("booked_seats", gorm.Expr("booked_seats + ?", seats))
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		var cur model.SlotCapacity
		if err := r.db.WithContext(ctx).First(&cur, "id = ?", id).Error; err != nil {
			return nil, err
		}
		remaining := cur.Capacity - cur.BookedSeats
		if remaining < 0 || cur.Status != model.SlotCapacityStatusActive {
			remaining = 0
		}
		return &ReserveOutcome{OK: false, RemainingSeats: remaining}, nil
	}

	return &ReserveOutcome{OK: true}, nil
}

func (r *GormSlotCapacityRepository) Release(ctx context.Context, id string, seats int) error {
	res := r.db.WithContext(ctx).
		Model(&model.SlotCapacity{}).
		Where("id = ? AND booked_seats >= ?", id, seats).
		Update("booked_seats", gorm.Expr("booked_seats - ?", seats))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Защитный пол: если учёт разошёлся, не уходим в минус.
	return r.db.WithContext(ctx).
		Model(&model.SlotCapacity{}).
		Where("id = ? AND booked_seats > 0", id).
		Update("booked_seats", 0).
		Error
}
