package pricing

import "github.com/m04kA/CourtBookingService/internal/domain"

// Quote результат расчёта стоимости бронирования
type Quote struct {
	FreeSlots int
	PaidSlots int
	Total     int // SEK
}

// Method способ оплаты, который следует из расчёта
func (q Quote) Method() domain.PaymentMethod {
	if q.PaidSlots == 0 {
		return domain.PaymentFree
	}
	return domain.PaymentStripe
}

// UnitPrice цена одного оплачиваемого слота с учётом скидки
func (q Quote) UnitPrice() int {
	if q.PaidSlots == 0 {
		return 0
	}
	return q.Total / q.PaidSlots
}

// Calculator считает стоимость без ввода-вывода
type Calculator struct {
	hourlyPrice          int
	youthDiscountPercent int
}

func NewCalculator(settings domain.CourtSettings) *Calculator {
	return &Calculator{
		hourlyPrice:          settings.HourlyPrice,
		youthDiscountPercent: settings.YouthDiscountPercent,
	}
}

// Calculate распределяет slots между бесплатной квотой и оплатой.
// Скидка для молодёжи применяется только к оплачиваемым слотам.
func (c *Calculator) Calculate(slots, quotaRemaining int, youth bool) Quote {
	if slots < 0 {
		slots = 0
	}
	if quotaRemaining < 0 {
		quotaRemaining = 0
	}

	free := min(slots, quotaRemaining)
	paid := slots - free

	unit := c.hourlyPrice
	if youth {
		unit = c.hourlyPrice * (100 - c.youthDiscountPercent) / 100
	}

	return Quote{
		FreeSlots: free,
		PaidSlots: paid,
		Total:     paid * unit,
	}
}
