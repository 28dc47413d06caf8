package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/repository"
	"github.com/bookvia/booking-platform/internal/schedule"
)

// SlotAvailability — один слот в ответе резолвера.
type SlotAvailability struct {
	SlotID            string
	SlotStart         time.Time
	Available         bool
	RemainingCapacity int
	Capacity          int
}

// AvailabilityService отвечает на вопрос "какие слоты есть у активности
// на дату и сколько мест в каждом". Чистый читающий путь: ledger-строки
// здесь никогда не создаются, просмотр доступности не порождает записей.
type AvailabilityService struct {
	activityRepo repository.ActivityRepository
	ledger       repository.SlotCapacityRepository

	// Референсная таймзона процесса. Обязана совпадать с той,
	// что использует пишущий путь, иначе identity разъедутся.
	loc *time.Location

	now func() time.Time
	log *zap.Logger
}

func NewAvailabilityService(
	activityRepo repository.ActivityRepository,
	ledger repository.SlotCapacityRepository,
	loc *time.Location,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		activityRepo: activityRepo,
		ledger:       ledger,
		loc:          loc,
		now:          time.Now,
		log:          log,
	}
}

// GetAvailability возвращает слоты активности на дату, по возрастанию
// начала. partySize <= 0 означает "размер группы не задан".
// Дата строго раньше сегодняшней — пустой результат без ошибки.
func (s *AvailabilityService) GetAvailability(
	ctx context.Context,
	activityID string,
	date time.Time,
	partySize int,
) ([]SlotAvailability, error) {
	a, err := s.activityRepo.GetWithRelations(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	if err := checkEligibility(a); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	if schedule.BeforeDate(date.In(s.loc), now) {
		return []SlotAvailability{}, nil
	}

	rules, err := templateRules(a.Template)
	if err != nil {
		return nil, err
	}

	candidates := schedule.GenerateSlots(date, rules, now, s.loc)
	if len(candidates) == 0 {
		return []SlotAvailability{}, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, schedule.Identity(activityID, c.Start, s.loc))
	}

	// Один round-trip на все кандидаты.
	rows, err := s.ledger.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]SlotAvailability, 0, len(candidates))
	for i, c := range candidates {
		capacity := c.Capacity
		booked := 0
		status := model.SlotCapacityStatusActive

		// Отсутствующая строка — неявный дефолт, а не ошибка.
		if row, ok := rows[ids[i]]; ok {
			capacity = row.Capacity
			booked = row.BookedSeats
			status = row.Status
		}

		remaining := capacity - booked
		if remaining < 0 {
			remaining = 0
		}

		available := status == model.SlotCapacityStatusActive &&
			remaining > 0 &&
			(partySize <= 0 || remaining >= partySize)

		result = append(result, SlotAvailability{
			SlotID:            ids[i],
			SlotStart:         c.Start,
			Available:         available,
			RemainingCapacity: remaining,
			Capacity:          capacity,
		})
	}

	s.log.Debug("availability resolved",
		zap.String("activity_id", activityID),
		zap.Time("date", date),
		zap.Int("slots", len(result)),
	)

	return result, nil
}
