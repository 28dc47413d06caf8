package schedule

// DefaultPageSize — размер страницы по умолчанию.
const DefaultPageSize = 20

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items    []T
	Page     int // номер страницы (с 1)
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int
}

// NormalizePage приводит номер страницы и её размер к валидным
// значениям; из них вызывающий считает limit/offset для хранилища.
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// NewPage собирает страницу из уже отобранных хранилищем элементов
// и общего количества. Отбор по limit/offset живёт в SQL-запросе,
// здесь только метаданные конверта.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	page, pageSize = NormalizePage(page, pageSize)
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasNext:  page*pageSize < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
