package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/repository"
	"github.com/bookvia/booking-platform/internal/schedule"
)

func TestGetAvailabilityUnknownActivity(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	_, err := availability.GetAvailability(context.Background(), uuid.NewString(), monday, 0)
	if !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestGetAvailabilityPastDateIsEmpty(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	lastMonday := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	slots, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), lastMonday, 0)
	if err != nil {
		t.Fatalf("expected empty result without error, got %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots for a past date, got %d", len(slots))
	}
}

func TestGetAvailabilityOffScheduleWeekday(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	slots, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), tuesday, 0)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("template covers Mondays only, got %d slots on Tuesday", len(slots))
	}
}

// Резолв учитывает существующую ledger-строку, отсутствующие остаются
// на неявных дефолтах шаблона.
func TestGetAvailabilityMergesLedgerRow(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	tenAM := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	id := schedule.Identity(f.ActivityID.String(), tenAM, time.UTC)
	if err := db.Create(&model.SlotCapacity{
		ID:          id,
		ActivityID:  f.ActivityID,
		SlotStart:   tenAM,
		Capacity:    2,
		BookedSeats: 1,
		Status:      model.SlotCapacityStatusActive,
	}).Error; err != nil {
		t.Fatalf("seed ledger row: %v", err)
	}

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	slots, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), monday, 0)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.SlotStart.Equal(tenAM) {
			if s.RemainingCapacity != 1 || !s.Available {
				t.Errorf("10:00 slot: expected 1 remaining and available, got remaining=%d available=%v",
					s.RemainingCapacity, s.Available)
			}
		} else if s.RemainingCapacity != 2 {
			t.Errorf("untouched slot must default to template capacity, got %d", s.RemainingCapacity)
		}
	}
}

// Размер группы фильтрует доступность, но не искажает остаток.
func TestGetAvailabilityPartySizeFilter(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	tenAM := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	id := schedule.Identity(f.ActivityID.String(), tenAM, time.UTC)
	if err := db.Create(&model.SlotCapacity{
		ID:          id,
		ActivityID:  f.ActivityID,
		SlotStart:   tenAM,
		Capacity:    2,
		BookedSeats: 1,
		Status:      model.SlotCapacityStatusActive,
	}).Error; err != nil {
		t.Fatalf("seed ledger row: %v", err)
	}

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	slots, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), monday, 2)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	for _, s := range slots {
		if s.SlotStart.Equal(tenAM) {
			if s.Available {
				t.Error("slot with 1 remaining must not fit a party of 2")
			}
			if s.RemainingCapacity != 1 {
				t.Errorf("remaining must stay 1 regardless of party size, got %d", s.RemainingCapacity)
			}
		}
	}
}

func TestGetAvailabilityBlockedSlot(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	tenAM := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	id := schedule.Identity(f.ActivityID.String(), tenAM, time.UTC)
	if err := db.Create(&model.SlotCapacity{
		ID:         id,
		ActivityID: f.ActivityID,
		SlotStart:  tenAM,
		Capacity:   2,
		Status:     model.SlotCapacityStatusBlocked,
	}).Error; err != nil {
		t.Fatalf("seed blocked row: %v", err)
	}

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	slots, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), monday, 0)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	for _, s := range slots {
		if s.SlotStart.Equal(tenAM) && s.Available {
			t.Error("blocked slot must not be available")
		}
	}
}

// Дата из query-параметра разбирается в референсной таймзоне.
// В зоне западнее UTC день не должен съезжать на предыдущий.
func TestGetAvailabilityWestOfUTCReferenceZone(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)

	loc := time.FixedZone("UTC-4", -4*3600)
	availability := NewAvailabilityService(
		repository.NewGormActivityRepository(db),
		repository.NewGormSlotCapacityRepository(db),
		loc,
		zap.NewNop(),
	)
	availability.now = func() time.Time { return mondayMorning }

	// Ровно так дату строит HTTP-слой: понедельник как календарный
	// день в референсной зоне, не UTC-полночь.
	date, err := time.ParseInLocation("2006-01-02", "2025-06-02", loc)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	slots, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), date, 0)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 Monday slots in UTC-4, got %d", len(slots))
	}

	first := slots[0].SlotStart.In(loc)
	if first.Weekday() != time.Monday || first.Hour() != 9 {
		t.Fatalf("first slot = %v, want Monday 09:00 in the reference zone", first)
	}
}

func TestGetAvailabilityEligibilityGate(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	availability, _ := newServices(t, db, mondayMorning)

	if err := db.Model(&model.Activity{}).Where("id = ?", f.ActivityID).
		Update("status", model.ActivityStatusDraft).Error; err != nil {
		t.Fatalf("unpublish activity: %v", err)
	}

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	_, err := availability.GetAvailability(context.Background(), f.ActivityID.String(), monday, 0)

	var pre *PreconditionError
	if !errors.As(err, &pre) || pre.Code != CodeActivityNotPublished {
		t.Fatalf("expected activity_not_published precondition, got %v", err)
	}
}
