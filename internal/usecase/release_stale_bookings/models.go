package release_stale_bookings

import "time"

// Config параметры очистки
type Config struct {
	PendingTTL time.Duration // сколько бронь может ждать оплату
	BatchSize  uint64
}

// Response итог одного прохода
type Response struct {
	Found    int
	Released int
	Skipped  int // успели оплатить или отменить
	Failed   int
}
