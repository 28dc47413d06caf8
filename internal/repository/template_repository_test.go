package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/schedule"
)

func newTemplateDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
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
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func validTemplate() *model.AvailabilityTemplate {
	return &model.AvailabilityTemplate{
		ID:                  uuid.New(),
		BusinessID:          uuid.New(),
		DaysOfWeek:          datatypes.NewJSONSlice([]int{1, 3, 5}),
		StartTime:           "09:00",
		EndTime:             "18:00",
		SlotDurationMinutes: 60,
		Capacity:            4,
		Status:              model.TemplateStatusActive,
	}
}

func TestTemplateCreate_ValidatesBeforeWrite(t *testing.T) {
	db := newTemplateDB(t)
	repo := NewGormTemplateRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, validTemplate()); err != nil {
		t.Fatalf("create valid template: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(tmpl *model.AvailabilityTemplate)
		wantErr error
	}{
		{
			name:    "no weekdays",
			mutate:  func(tmpl *model.AvailabilityTemplate) { tmpl.DaysOfWeek = datatypes.NewJSONSlice([]int{}) },
			wantErr: schedule.ErrEmptyWeekdays,
		},
		{
			name:    "weekday out of range",
			mutate:  func(tmpl *model.AvailabilityTemplate) { tmpl.DaysOfWeek = datatypes.NewJSONSlice([]int{8}) },
			wantErr: schedule.ErrInvalidWeekday,
		},
		{
			name: "window end before start",
			mutate: func(tmpl *model.AvailabilityTemplate) {
				tmpl.StartTime = "18:00"
				tmpl.EndTime = "09:00"
			},
			wantErr: schedule.ErrInvalidWindow,
		},
		{
			name:    "zero duration",
			mutate:  func(tmpl *model.AvailabilityTemplate) { tmpl.SlotDurationMinutes = 0 },
			wantErr: schedule.ErrInvalidDuration,
		},
		{
			name:    "zero capacity",
			mutate:  func(tmpl *model.AvailabilityTemplate) { tmpl.Capacity = 0 },
			wantErr: schedule.ErrInvalidCapacity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmpl := validTemplate()
			tc.mutate(tmpl)

			err := repo.Create(ctx, tmpl)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			var n int64
			if err := db.Model(&model.AvailabilityTemplate{}).
				Where("id = ?", tmpl.ID).Count(&n).Error; err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != 0 {
				t.Fatal("invalid template must not be persisted")
			}
		})
	}
}

func TestTemplateAddException(t *testing.T) {
	db := newTemplateDB(t)
	repo := NewGormTemplateRepository(db)
	ctx := context.Background()

	tmpl := validTemplate()
	if err := repo.Create(ctx, tmpl); err != nil {
		t.Fatalf("create template: %v", err)
	}

	// Диапазон задом наперёд отклоняется до записи.
	err := repo.AddException(ctx, &model.AvailabilityException{
		ID:         uuid.New(),
		TemplateID: tmpl.ID,
		StartDate:  datatypes.Date(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)),
		EndDate:    datatypes.Date(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
	})
	if !errors.Is(err, schedule.ErrInvalidExceptRange) {
		t.Fatalf("expected ErrInvalidExceptRange, got %v", err)
	}

	if err := repo.AddException(ctx, &model.AvailabilityException{
		ID:         uuid.New(),
		TemplateID: tmpl.ID,
		StartDate:  datatypes.Date(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:    datatypes.Date(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)),
		Reason:     "trade fair",
	}); err != nil {
		t.Fatalf("add exception: %v", err)
	}

	got, err := repo.GetByID(ctx, tmpl.ID.String())
	if err != nil {
		t.Fatalf("reload template: %v", err)
	}
	if len(got.Exceptions) != 1 {
		t.Fatalf("expected 1 exception preloaded, got %d", len(got.Exceptions))
	}
}
