package service

import (
	"fmt"
	"time"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/schedule"
)

// checkEligibility прогоняет цепочку предусловий в фиксированном
// порядке: активность published, бизнес active, шаблон привязан,
// шаблон active. Существование активности проверяется раньше,
// на стадии загрузки.
func checkEligibility(a *model.Activity) error {
	if a.Status != model.ActivityStatusPublished {
		return precondition(CodeActivityNotPublished, "activity is not published")
	}
	if a.Business == nil || a.Business.Status != model.BusinessStatusActive {
		return precondition(CodeBusinessInactive, "owning business is not active")
	}
	if a.AvailabilityTemplateID == nil || a.Template == nil {
		return precondition(CodeTemplateMissing, "activity has no availability template")
	}
	if a.Template.Status != model.TemplateStatusActive {
		return precondition(CodeTemplateInactive, "availability template is not active")
	}
	return nil
}

// templateRules переводит модель шаблона в чистое правило генератора.
// Парсинг окна не должен падать: инварианты держатся на записи шаблона.
func templateRules(t *model.AvailabilityTemplate) (schedule.Rules, error) {
	start, err := schedule.ParseTimeOfDay(t.StartTime)
	if err != nil {
		return schedule.Rules{}, fmt.Errorf("template %s start time: %w", t.ID, err)
	}
	end, err := schedule.ParseTimeOfDay(t.EndTime)
	if err != nil {
		return schedule.Rules{}, fmt.Errorf("template %s end time: %w", t.ID, err)
	}

	exceptions := make([]schedule.DateRange, 0, len(t.Exceptions))
	for _, exc := range t.Exceptions {
		exceptions = append(exceptions, schedule.DateRange{
			Start: time.Time(exc.StartDate),
			End:   time.Time(exc.EndDate),
		})
	}

	return schedule.Rules{
		DaysOfWeek:   t.DaysOfWeek,
		Start:        start,
		End:          end,
		SlotDuration: time.Duration(t.SlotDurationMinutes) * time.Minute,
		Capacity:     t.Capacity,
		Exceptions:   exceptions,
	}, nil
}
