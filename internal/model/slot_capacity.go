package model

import (
	"time"

	"github.com/google/uuid"
)

// Статус ledger-строки слота. Зарезервировано под ручную блокировку.
type SlotCapacityStatus string

const (
	SlotCapacityStatusActive  SlotCapacityStatus = "active"
	SlotCapacityStatusBlocked SlotCapacityStatus = "blocked"
)

// slot_capacities — лениво материализуемый счётчик мест на один слот.
// Первичный ключ — детерминированный slot identity
// (см. schedule.Identity). Строка создаётся при первом резерве;
// отсутствующая строка означает "capacity = дефолт шаблона, занято 0".
// Строки никогда не удаляются: полностью возвращённый слот просто
// возвращается к BookedSeats = 0.
type SlotCapacity struct {
	ID string `gorm:"type:varchar(128);primaryKey"`

	ActivityID uuid.UUID `gorm:"type:uuid;not null;index"`

	SlotStart time.Time `gorm:"type:timestamp with time zone;not null;index"`

	Capacity    int `gorm:"not null"`
	BookedSeats int `gorm:"not null;default:0"`

	Status SlotCapacityStatus `gorm:"type:varchar(32);not null;default:'active'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}
