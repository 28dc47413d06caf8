package model

import (
	"time"

	"github.com/google/uuid"
)

// users — профиль потребителя. Аутентификация живёт снаружи ядра;
// здесь профиль нужен только как владелец бронирований и источник
// телефона для гейта создания брони.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	DisplayName  string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(32)"`
	Email        string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля (опционально).
	Bookings []Booking `gorm:"foreignKey:UserID"`
}
