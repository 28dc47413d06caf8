package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Статус шаблона доступности.
type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusInactive TemplateStatus = "inactive"
)

// availability_templates — недельное правило доступности бизнеса.
// Дни недели по ISO: 1 = понедельник ... 7 = воскресенье.
// Окно времени суток [StartTime, EndTime) хранится как "HH:MM" без даты.
type AvailabilityTemplate struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`

	DaysOfWeek datatypes.JSONSlice[int] `gorm:"not null"`

	StartTime string `gorm:"type:varchar(5);not null"`
	EndTime   string `gorm:"type:varchar(5);not null"`

	// Длительность слота в минутах, > 0.
	SlotDurationMinutes int `gorm:"not null"`

	// Вместимость слота по умолчанию, >= 1. Копируется в ledger-строку
	// при первой материализации и дальше живёт своей жизнью.
	Capacity int `gorm:"not null"`

	Status TemplateStatus `gorm:"type:varchar(32);not null;default:'active';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля.
	Business   *Business               `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Exceptions []AvailabilityException `gorm:"foreignKey:TemplateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// availability_exceptions — закрытый диапазон дат [StartDate, EndDate],
// в который слоты не генерируются независимо от дней недели.
type AvailabilityException struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TemplateID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate datatypes.Date `gorm:"type:date;not null"`
	EndDate   datatypes.Date `gorm:"type:date;not null"`

	Reason string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Template *AvailabilityTemplate `gorm:"foreignKey:TemplateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
