package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Статус активности.
type ActivityStatus string

const (
	ActivityStatusDraft     ActivityStatus = "draft"
	ActivityStatusPublished ActivityStatus = "published"
	ActivityStatusInactive  ActivityStatus = "inactive"
)

// activities — бронируемый продукт бизнеса.
// Ссылается максимум на один шаблон доступности; для резолва слотов
// и бронирования пригодны только published-активности с active-шаблоном.
type Activity struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Тип активности определяет стратегию ценообразования (flat / packages).
	TypeID string `gorm:"type:varchar(64);not null;index"`

	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	Status ActivityStatus `gorm:"type:varchar(32);not null;default:'draft';index"`

	// Произвольная конфигурация типа активности (JSONB в Postgres).
	Config datatypes.JSON `gorm:"type:jsonb"`

	// Конфигурация пакетов/опций ценообразования.
	Pricing datatypes.JSON `gorm:"type:jsonb"`

	// Базовая цена за человека; может отсутствовать.
	PriceFrom *float64 `gorm:"type:numeric"`

	AvailabilityTemplateID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля.
	Business *Business             `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Template *AvailabilityTemplate `gorm:"foreignKey:AvailabilityTemplateID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
