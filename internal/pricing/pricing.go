package pricing

import "encoding/json"

// Стратегия ценообразования. Выбирается явно, без динамического
// прощупывания полей: package → flat → none.
type Strategy string

const (
	StrategyPackage Strategy = "package"
	StrategyFlat    Strategy = "flat"
	StrategyNone    Strategy = "none"
)

// PackageOption — выбираемый пакет с ценой за человека
// из конфигурации ценообразования активности.
type PackageOption struct {
	Code  string  `json:"code"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// Input — всё, от чего зависит расчёт цены. Функция расчёта чистая:
// одинаковый Input обязан давать одинаковый Quote и на превью,
// и в зафиксированном снимке брони.
type Input struct {
	Packages     []PackageOption
	PriceFrom    *float64
	Participants int
	Selection    map[string]any
}

// Quote — результат расчёта; сериализуется в price-снимок брони.
type Quote struct {
	Strategy     Strategy `json:"strategy"`
	UnitPrice    float64  `json:"unit_price"`
	Participants int      `json:"participants"`
	Total        float64  `json:"total"`
	PackageCode  string   `json:"package_code,omitempty"`
	PackageTitle string   `json:"package_title,omitempty"`
}

// ParsePackages разбирает блоб pricing-конфигурации активности.
// Пустой или некорректный блоб означает отсутствие пакетов.
func ParsePackages(raw []byte) []PackageOption {
	if len(raw) == 0 {
		return nil
	}
	var cfg struct {
		Packages []PackageOption `json:"packages"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil
	}
	return cfg.Packages
}

// BuildQuote считает цену по цепочке фолбэков:
//   - пакет, совпавший с выбором по code или title: цена за человека
//     умножается на количество участников;
//   - иначе flat: PriceFrom * участники;
//   - иначе нулевой снимок.
func BuildQuote(in Input) Quote {
	q := Quote{Strategy: StrategyNone, Participants: in.Participants}

	if pkg := matchPackage(in.Packages, in.Selection); pkg != nil {
		q.Strategy = StrategyPackage
		q.UnitPrice = pkg.Price
		q.Total = pkg.Price * float64(in.Participants)
		q.PackageCode = pkg.Code
		q.PackageTitle = pkg.Title
		return q
	}

	if in.PriceFrom != nil {
		q.Strategy = StrategyFlat
		q.UnitPrice = *in.PriceFrom
		q.Total = *in.PriceFrom * float64(in.Participants)
		return q
	}

	return q
}

// matchPackage ищет пакет по выбору пользователя: сперва по code,
// затем по title. Отсутствие совпадения — не ошибка, а переход
// к следующей стратегии.
func matchPackage(pkgs []PackageOption, sel map[string]any) *PackageOption {
	if len(pkgs) == 0 || sel == nil {
		return nil
	}

	code, _ := sel["package_code"].(string)
	title, _ := sel["package_title"].(string)

	if code != "" {
		for i := range pkgs {
			if pkgs[i].Code == code {
				return &pkgs[i]
			}
		}
	}
	if title != "" {
		for i := range pkgs {
			if pkgs[i].Title == title {
				return &pkgs[i]
			}
		}
	}
	return nil
}
