package schedule

import (
	"fmt"
	"time"
)

// Slot — кандидат слота, выведенный из шаблона для конкретной даты.
type Slot struct {
	Start    time.Time
	Capacity int
}

// DateRange — закрытый диапазон календарных дат [Start, End].
// Сравнение идёт по компонентам даты, таймзона значений не важна.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains сообщает, попадает ли календарная дата day в диапазон.
func (r DateRange) Contains(day time.Time) bool {
	d := dateKey(day)
	return d >= dateKey(r.Start) && d <= dateKey(r.End)
}

// Rules — предварительно валидированное недельное правило шаблона.
// Наполняется из model.AvailabilityTemplate на стороне сервисов.
type Rules struct {
	// ISO-дни недели: 1 = понедельник ... 7 = воскресенье.
	DaysOfWeek []int

	// Окно времени суток [Start, End).
	Start TimeOfDay
	End   TimeOfDay

	SlotDuration time.Duration

	// Вместимость слота по умолчанию.
	Capacity int

	// Блэкауты целыми днями.
	Exceptions []DateRange
}

// GenerateSlots разворачивает правило в кандидатов слотов на одну дату.
// Вычисляется заново при каждом вызове — это дёшево и всегда отражает
// актуальный шаблон.
//
//   - день недели не входит в правило — пустой результат;
//   - дата пересекает любой блэкаут — пустой результат (целый день);
//   - шаг от Start с длительностью SlotDuration; хвост, вылезающий за
//     End, отбрасывается, а не обрезается;
//   - если date — «сегодня» в loc, кандидаты не строго позже now
//     отбрасываются.
func GenerateSlots(date time.Time, r Rules, now time.Time, loc *time.Location) []Slot {
	day := date.In(loc)

	if !containsISOWeekday(r.DaysOfWeek, ISOWeekday(day)) {
		return nil
	}
	for _, ex := range r.Exceptions {
		if ex.Contains(day) {
			return nil
		}
	}

	windowStart := r.Start.On(day, loc)
	windowEnd := r.End.On(day, loc)

	sameDay := dateKey(day) == dateKey(now.In(loc))

	var slots []Slot
	for cur := windowStart; !cur.Add(r.SlotDuration).After(windowEnd); cur = cur.Add(r.SlotDuration) {
		if sameDay && !cur.After(now) {
			continue
		}
		slots = append(slots, Slot{Start: cur, Capacity: r.Capacity})
	}
	return slots
}

// Identity возвращает детерминированный ключ слота для пары
// (активность, гражданское начало слота) в референсной таймзоне loc.
// Читающий и пишущий пути обязаны использовать один и тот же loc,
// иначе учёт вместимости расщепится на дубли ledger-строк.
// Смена референсной таймзоны — ломающая миграция ключей.
func Identity(activityID string, slotStart time.Time, loc *time.Location) string {
	t := slotStart.In(loc)
	return fmt.Sprintf("%s_%s_%s", activityID, t.Format("2006-01-02"), t.Format("1504"))
}

// ISOWeekday — день недели по ISO-8601: 1 = понедельник ... 7 = воскресенье.
func ISOWeekday(t time.Time) int {
	w := int(t.Weekday())
	if w == 0 {
		return 7
	}
	return w
}

func containsISOWeekday(list []int, w int) bool {
	for _, d := range list {
		if d == w {
			return true
		}
	}
	return false
}

// BeforeDate сравнивает календарные даты, игнорируя время суток.
func BeforeDate(a, b time.Time) bool {
	return dateKey(a) < dateKey(b)
}

// dateKey сворачивает дату в сравнимое целое YYYYMMDD.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
