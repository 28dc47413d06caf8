package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Статус бронирования. cancelled и completed — терминальные.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookings — бронирование одного потребителя на конкретный слот.
// Снимки активности/бизнеса/выбора/цены фиксируются в момент создания,
// чтобы последующие правки сущностей не меняли "чек" задним числом.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;index"`

	SlotStart time.Time `gorm:"type:timestamp with time zone;not null;index"`

	ParticipantsCount int `gorm:"not null"`

	Status BookingStatus `gorm:"type:varchar(32);not null;index"`

	CancelledAt  *time.Time `gorm:"type:timestamp with time zone"`
	CancelReason string     `gorm:"type:text"`

	// Иммутабельные снимки на момент создания.
	ActivitySnapshot  datatypes.JSON `gorm:"type:jsonb"`
	BusinessSnapshot  datatypes.JSON `gorm:"type:jsonb"`
	SelectionSnapshot datatypes.JSON `gorm:"type:jsonb"`
	PriceSnapshot     datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля.
	User     *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Business *Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Activity *Activity `gorm:"foreignKey:ActivityID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
