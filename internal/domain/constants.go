package domain

// Default court settings
const (
	DefaultCourts               = 2
	DefaultOpenHour             = 6
	DefaultCloseHour            = 20
	DefaultSlotDurationMinutes  = 60
	DefaultHourlyPrice          = 80 // SEK
	DefaultYouthDiscountPercent = 50
	DefaultYearlyAllowance      = 10
	DefaultMaxSlotsPerBooking   = 14
	DefaultTimezone             = "Europe/Stockholm"
)

// Business validation constants
const (
	CancellationTokenBytes = 32
	MaxNameLength          = 100
	MaxPhoneLength         = 32
	MaxEmailLength         = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BusySlotStatuses статусы, при которых ячейка корта занята
var BusySlotStatuses = []SlotStatus{
	SlotPending,
	SlotBooked,
}
