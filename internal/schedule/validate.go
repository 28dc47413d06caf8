package schedule

import (
	"errors"
	"time"
)

// Ошибки валидации шаблона. Генератор предполагает уже валидное
// правило, поэтому все проверки выполняются на записи шаблона.
var (
	ErrEmptyWeekdays      = errors.New("template: days of week must not be empty")
	ErrInvalidWeekday     = errors.New("template: weekday must be in 1..7")
	ErrInvalidWindow      = errors.New("template: start time must be before end time")
	ErrInvalidDuration    = errors.New("template: slot duration must be positive")
	ErrInvalidCapacity    = errors.New("template: capacity must be at least 1")
	ErrInvalidExceptRange = errors.New("template exception: start date must not be after end date")
)

// ValidateRules проверяет инварианты недельного правила:
// непустой набор ISO-дней, окно startTime < endTime, длительность > 0,
// вместимость >= 1.
func ValidateRules(daysOfWeek []int, start, end string, durationMinutes, capacity int) error {
	if len(daysOfWeek) == 0 {
		return ErrEmptyWeekdays
	}
	for _, d := range daysOfWeek {
		if d < 1 || d > 7 {
			return ErrInvalidWeekday
		}
	}

	from, err := ParseTimeOfDay(start)
	if err != nil {
		return err
	}
	to, err := ParseTimeOfDay(end)
	if err != nil {
		return err
	}
	if !from.Before(to) {
		return ErrInvalidWindow
	}

	if durationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if capacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// ValidateExceptionRange проверяет инвариант startDate <= endDate.
func ValidateExceptionRange(start, end time.Time) error {
	if dateKey(start) > dateKey(end) {
		return ErrInvalidExceptRange
	}
	return nil
}
