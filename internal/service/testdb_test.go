package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/repository"
)

// newTestDB opens an in-memory sqlite DB with a schema matching the
// core models (sqlite-friendly, no uuid/now defaults).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			display_name TEXT,
			contact_phone TEXT,
			email TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE businesses (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			contact_phone TEXT,
			contact_email TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE availability_templates (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			days_of_week TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			slot_duration_minutes INTEGER NOT NULL,
			capacity INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE availability_exceptions (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			reason TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE activities (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			type_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL,
			config TEXT,
			pricing TEXT,
			price_from REAL,
			availability_template_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE slot_capacities (
			id TEXT PRIMARY KEY,
			activity_id TEXT NOT NULL,
			slot_start DATETIME NOT NULL,
			capacity INTEGER NOT NULL,
			booked_seats INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE bookings (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			business_id TEXT NOT NULL,
			activity_id TEXT NOT NULL,
			slot_start DATETIME NOT NULL,
			participants_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			cancelled_at DATETIME,
			cancel_reason TEXT,
			activity_snapshot TEXT,
			business_snapshot TEXT,
			selection_snapshot TEXT,
			price_snapshot TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			created_at DATETIME,
			user_id TEXT,
			booking_id TEXT,
			details TEXT
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// fixture — seeded entities shared by the availability/booking tests.
type fixture struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	TemplateID uuid.UUID
	ActivityID uuid.UUID
}

// seedFixture creates an active business with a published activity on a
// Monday 09:00-11:00 template, hourly slots, capacity 2 per slot.
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		TemplateID: uuid.New(),
		ActivityID: uuid.New(),
	}

	if err := db.Create(&model.User{
		ID:           f.UserID,
		DisplayName:  "consumer",
		ContactPhone: "+79990001122",
	}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&model.Business{
		ID:     f.BusinessID,
		Name:   "wine cellar",
		Status: model.BusinessStatusActive,
	}).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}
	if err := db.Create(&model.AvailabilityTemplate{
		ID:                  f.TemplateID,
		BusinessID:          f.BusinessID,
		DaysOfWeek:          datatypes.NewJSONSlice([]int{1}),
		StartTime:           "09:00",
		EndTime:             "11:00",
		SlotDurationMinutes: 60,
		Capacity:            2,
		Status:              model.TemplateStatusActive,
	}).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	templateID := f.TemplateID
	priceFrom := 25.0
	if err := db.Create(&model.Activity{
		ID:                     f.ActivityID,
		BusinessID:             f.BusinessID,
		TypeID:                 "tasting",
		Title:                  "cellar tasting",
		Status:                 model.ActivityStatusPublished,
		Pricing:                datatypes.JSON(`{"packages":[{"code":"vip","title":"VIP","price":40}]}`),
		PriceFrom:              &priceFrom,
		AvailabilityTemplateID: &templateID,
	}).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}

	return f
}

// mondayMorning — fixed "now": Monday 2025-06-02, 08:00 UTC.
var mondayMorning = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newServices(t *testing.T, db *gorm.DB, now time.Time) (*AvailabilityService, *BookingService) {
	t.Helper()

	availability := NewAvailabilityService(
		repository.NewGormActivityRepository(db),
		repository.NewGormSlotCapacityRepository(db),
		time.UTC,
		zap.NewNop(),
	)
	availability.now = func() time.Time { return now }

	booking := NewBookingService(
		db,
		repository.NewGormBookingRepository(db),
		repository.NewGormUserRepository(db),
		time.UTC,
		zap.NewNop(),
	)
	booking.now = func() time.Time { return now }

	return availability, booking
}
