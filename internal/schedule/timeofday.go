package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay — время суток без даты ("09:00"), в котором шаблон
// хранит границы окна. Таймзоны здесь нет: она подставляется
// при генерации слотов.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay разбирает строку вида "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Minutes — минуты от полуночи.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before сравнивает два времени суток.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// On привязывает время суток к календарной дате в таймзоне loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
