package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/pricing"
	"github.com/bookvia/booking-platform/internal/profile"
	"github.com/bookvia/booking-platform/internal/repository"
	"github.com/bookvia/booking-platform/internal/schedule"
)

// BookingService — транзакционный жизненный цикл бронирования.
// Дебет ledger и вставка брони — один атомарный юнит: частичное
// применение (дебет без брони или бронь без дебета) невозможно
// структурно, а не за счёт ретраев.
type BookingService struct {
	db *gorm.DB

	bookingRepo repository.BookingRepository
	profiles    profile.Store

	loc *time.Location
	now func() time.Time
	log *zap.Logger
}

func NewBookingService(
	db *gorm.DB,
	bookingRepo repository.BookingRepository,
	profiles profile.Store,
	loc *time.Location,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		profiles:    profiles,
		loc:         loc,
		now:         time.Now,
		log:         log,
	}
}

// CreateBookingInput — запрос на бронирование от уже авторизованного
// и провалидированного вызывающего.
type CreateBookingInput struct {
	UserID            uuid.UUID
	ActivityID        uuid.UUID
	SlotStart         time.Time
	ParticipantsCount int
	SelectionData     map[string]any
}

// CreateBooking выполняет переход requested → active.
// Предусловия проверяются жадно и до любых мутаций; внутри одной
// транзакции активность со связями перечитывается заново, место
// резервируется атомарно, снимки и строка брони пишутся до коммита.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if in.ParticipantsCount < 1 {
		return nil, precondition(CodePartySizeInvalid, "participants count must be at least 1")
	}

	// Гейт профиля: телефон на файле. Проверяется до входа в транзакцию.
	if _, err := profile.ValidateConsumer(ctx, s.profiles, in.UserID); err != nil {
		switch {
		case errors.Is(err, profile.ErrProfileIncomplete):
			return nil, precondition(CodeProfileIncomplete, "consumer profile has no phone number")
		case errors.Is(err, profile.ErrUserNotFound), errors.Is(err, profile.ErrInvalidUserID):
			return nil, ErrUserNotFound
		default:
			return nil, err
		}
	}

	now := s.now().In(s.loc)
	if !in.SlotStart.After(now) {
		return nil, precondition(CodeSlotInPast, "slot start must be in the future")
	}

	var created *model.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activities := repository.NewGormActivityRepository(tx)

		// Перечитываем свежие активность, бизнес и шаблон,
		// чтобы не действовать по устаревшему состоянию.
		a, err := activities.GetWithRelations(ctx, in.ActivityID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}
		if err := checkEligibility(a); err != nil {
			return err
		}

		rules, err := templateRules(a.Template)
		if err != nil {
			return err
		}

		// Запрошенное начало должно быть одним из кандидатов
		// генератора на эту дату: произвольный инстант не должен
		// открывать ledger-строки вне опубликованного расписания.
		if !isCandidateStart(in.SlotStart, rules, now, s.loc) {
			return precondition(CodeSlotOutOfSchedule, "slot start does not match the activity schedule")
		}

		identity := schedule.Identity(a.ID.String(), in.SlotStart, s.loc)

		ledger := repository.NewGormSlotCapacityRepository(tx)
		outcome, err := ledger.Reserve(ctx, identity, a.ID, in.SlotStart, rules.Capacity, in.ParticipantsCount)
		if err != nil {
			return err
		}
		if !outcome.OK {
			// Откатывает и созданную на этом шаге ledger-строку.
			return &CapacityConflictError{RemainingSeats: outcome.RemainingSeats}
		}

		quote := pricing.BuildQuote(pricing.Input{
			Packages:     pricing.ParsePackages(a.Pricing),
			PriceFrom:    a.PriceFrom,
			Participants: in.ParticipantsCount,
			Selection:    in.SelectionData,
		})

		booking := &model.Booking{
			ID:                uuid.New(),
			UserID:            in.UserID,
			BusinessID:        a.BusinessID,
			ActivityID:        a.ID,
			SlotStart:         in.SlotStart,
			ParticipantsCount: in.ParticipantsCount,
			Status:            model.BookingStatusActive,
		}
		if err := attachSnapshots(booking, a, in.SelectionData, quote); err != nil {
			return err
		}

		if err := repository.NewGormBookingRepository(tx).Create(ctx, booking); err != nil {
			return err
		}

		userID := in.UserID
		bookingID := booking.ID
		event := &model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeBookingCreated,
			UserID:    &userID,
			BookingID: &bookingID,
			Details:   fmt.Sprintf("slot %s, seats %d", identity, in.ParticipantsCount),
		}
		if err := repository.NewGormEventRepository(tx).Create(ctx, event); err != nil {
			return err
		}

		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", created.ID.String()),
		zap.String("activity_id", created.ActivityID.String()),
		zap.Time("slot_start", created.SlotStart),
		zap.Int("participants", created.ParticipantsCount),
	)

	return created, nil
}

// CancelBookingInput — запрос на отмену от владельца брони
// или от бизнес-актора.
type CancelBookingInput struct {
	BookingID   uuid.UUID
	ActorUserID uuid.UUID
	ByBusiness  bool
	Reason      string
}

// CancelBooking выполняет переход active → cancelled и кредитует ledger
// на исходное число участников. Identity пересчитывается из сохранённого
// SlotStart, не из текущих входов. Отмена уже отменённой брони — ошибка
// без повторного кредита; отсутствующая ledger-строка — no-op, отмена
// не должна застревать из-за несогласованности ledger.
func (s *BookingService) CancelBooking(ctx context.Context, in CancelBookingInput) (*model.Booking, error) {
	var cancelled *model.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)

		b, err := bookings.GetByID(ctx, in.BookingID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		switch b.Status {
		case model.BookingStatusCancelled:
			return ErrBookingAlreadyCancelled
		case model.BookingStatusCompleted:
			return ErrBookingCompleted
		}

		if !in.ByBusiness && b.UserID != in.ActorUserID {
			return ErrNotBookingOwner
		}

		now := s.now().In(s.loc)
		ok, err := bookings.MarkCancelled(ctx, b.ID.String(), now, in.Reason)
		if err != nil {
			return err
		}
		if !ok {
			// Конкурентный переход успел раньше: условный UPDATE
			// не затронул строку, кредит ledger не выполняется.
			cur, err := bookings.GetByID(ctx, b.ID.String())
			if err != nil {
				return err
			}
			if cur.Status == model.BookingStatusCompleted {
				return ErrBookingCompleted
			}
			return ErrBookingAlreadyCancelled
		}

		identity := schedule.Identity(b.ActivityID.String(), b.SlotStart, s.loc)
		ledger := repository.NewGormSlotCapacityRepository(tx)
		if err := ledger.Release(ctx, identity, b.ParticipantsCount); err != nil {
			return err
		}

		actorID := in.ActorUserID
		bookingID := b.ID
		event := &model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeBookingCancelled,
			UserID:    &actorID,
			BookingID: &bookingID,
			Details:   fmt.Sprintf("slot %s, seats %d returned", identity, b.ParticipantsCount),
		}
		if err := repository.NewGormEventRepository(tx).Create(ctx, event); err != nil {
			return err
		}

		b.Status = model.BookingStatusCancelled
		b.CancelledAt = &now
		if in.Reason != "" {
			b.CancelReason = in.Reason
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking cancelled",
		zap.String("booking_id", cancelled.ID.String()),
		zap.Int("participants", cancelled.ParticipantsCount),
	)

	return cancelled, nil
}

// QuoteBooking — превью цены для экрана выбора опций. Обязано считать
// ровно то же, что фиксируется в снимке при создании брони.
func (s *BookingService) QuoteBooking(
	ctx context.Context,
	activityID uuid.UUID,
	participants int,
	selection map[string]any,
) (*pricing.Quote, error) {
	if participants < 1 {
		return nil, precondition(CodePartySizeInvalid, "participants count must be at least 1")
	}

	a, err := repository.NewGormActivityRepository(s.db).GetWithRelations(ctx, activityID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	if err := checkEligibility(a); err != nil {
		return nil, err
	}

	quote := pricing.BuildQuote(pricing.Input{
		Packages:     pricing.ParsePackages(a.Pricing),
		PriceFrom:    a.PriceFrom,
		Participants: participants,
		Selection:    selection,
	})
	return &quote, nil
}

// ListBookings возвращает страницу бронирований пользователя,
// новые сверху. Отбор страницы выполняет SQL-запрос, не память процесса.
func (s *BookingService) ListBookings(ctx context.Context, userID uuid.UUID, page, pageSize int) (schedule.Page[model.Booking], error) {
	page, pageSize = schedule.NormalizePage(page, pageSize)

	items, total, err := s.bookingRepo.ListByUser(ctx, userID.String(), pageSize, (page-1)*pageSize)
	if err != nil {
		return schedule.Page[model.Booking]{}, err
	}
	return schedule.NewPage(items, page, pageSize, int(total)), nil
}

// isCandidateStart проверяет, что start совпадает с одним из кандидатов
// генератора для своей даты.
func isCandidateStart(start time.Time, rules schedule.Rules, now time.Time, loc *time.Location) bool {
	for _, c := range schedule.GenerateSlots(start, rules, now, loc) {
		if c.Start.Equal(start) {
			return true
		}
	}
	return false
}

// attachSnapshots фиксирует иммутабельные снимки на момент создания.
func attachSnapshots(b *model.Booking, a *model.Activity, selection map[string]any, quote pricing.Quote) error {
	activitySnap, err := json.Marshal(map[string]any{
		"id":         a.ID.String(),
		"type_id":    a.TypeID,
		"title":      a.Title,
		"price_from": a.PriceFrom,
	})
	if err != nil {
		return fmt.Errorf("activity snapshot: %w", err)
	}

	businessSnap, err := json.Marshal(map[string]any{
		"id":   a.Business.ID.String(),
		"name": a.Business.Name,
	})
	if err != nil {
		return fmt.Errorf("business snapshot: %w", err)
	}

	selectionSnap, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("selection snapshot: %w", err)
	}

	priceSnap, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("price snapshot: %w", err)
	}

	b.ActivitySnapshot = activitySnap
	b.BusinessSnapshot = businessSnap
	b.SelectionSnapshot = selectionSnap
	b.PriceSnapshot = priceSnap
	return nil
}
