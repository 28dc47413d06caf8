package service

import (
	"errors"
	"fmt"
)

// NotFound-семейство: сущность по ссылке не существует.
// Терминальны для вызывающего, внутри не ретраятся.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrTemplateNotFound = errors.New("availability template not found")
)

// Терминальные состояния бронирования и владение.
var (
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingCompleted        = errors.New("booking is completed")
	ErrNotBookingOwner         = errors.New("booking belongs to another user")
)

// Стабильные коды нарушенных предусловий. По коду вызывающий
// рендерит конкретную подсказку, а не общую ошибку.
const (
	CodeActivityNotPublished = "activity_not_published"
	CodeBusinessInactive     = "business_inactive"
	CodeTemplateMissing      = "template_missing"
	CodeTemplateInactive     = "template_inactive"
	CodeSlotInPast           = "slot_in_past"
	CodeSlotOutOfSchedule    = "slot_out_of_schedule"
	CodeProfileIncomplete    = "profile_incomplete"
	CodePartySizeInvalid     = "party_size_invalid"
	CodeTemplateInUse        = "template_in_use"
)

// PreconditionError — нарушенное предусловие доменной операции.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed (%s): %s", e.Code, e.Message)
}

func precondition(code, message string) *PreconditionError {
	return &PreconditionError{Code: code, Message: message}
}

// CapacityConflictError — в момент атомарной проверки мест не хватило.
// Всегда несёт наблюдённый остаток; автоматически не ретраится.
type CapacityConflictError struct {
	RemainingSeats int
}

func (e *CapacityConflictError) Error() string {
	return fmt.Sprintf("not enough seats: %d remaining", e.RemainingSeats)
}
