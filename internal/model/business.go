package model

import (
	"time"

	"github.com/google/uuid"
)

// Статус бизнеса.
type BusinessStatus string

const (
	BusinessStatusActive   BusinessStatus = "active"
	BusinessStatusInactive BusinessStatus = "inactive"
)

// businesses — владелец активностей и шаблонов доступности.
type Business struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Name string `gorm:"type:varchar(255);not null"`

	Status BusinessStatus `gorm:"type:varchar(32);not null;default:'active';index"`

	ContactPhone string `gorm:"type:varchar(32)"`
	ContactEmail string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля (опционально, удобно для Preload).
	Activities []Activity             `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Templates  []AvailabilityTemplate `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
