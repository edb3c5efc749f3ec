package domain

import (
	"fmt"
	"time"
)

// CourtSettings immutable court and pricing settings shared by the engine
type CourtSettings struct {
	Courts               int
	OpenHour             int
	CloseHour            int
	SlotDuration         time.Duration
	HourlyPrice          int
	YouthDiscountPercent int
	YearlyAllowance      int
	MaxSlotsPerBooking   int
	Location             *time.Location
}

// DefaultCourtSettings two courts, 06:00-20:00, one hour cells, 80 SEK
func DefaultCourtSettings() CourtSettings {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return CourtSettings{
		Courts:               DefaultCourts,
		OpenHour:             DefaultOpenHour,
		CloseHour:            DefaultCloseHour,
		SlotDuration:         DefaultSlotDurationMinutes * time.Minute,
		HourlyPrice:          DefaultHourlyPrice,
		YouthDiscountPercent: DefaultYouthDiscountPercent,
		YearlyAllowance:      DefaultYearlyAllowance,
		MaxSlotsPerBooking:   DefaultMaxSlotsPerBooking,
		Location:             loc,
	}
}

// Validate checks internal consistency
func (s CourtSettings) Validate() error {
	switch {
	case s.Courts < 1:
		return fmt.Errorf("courts must be positive, got %d", s.Courts)
	case s.OpenHour < 0 || s.CloseHour > 24 || s.CloseHour <= s.OpenHour:
		return fmt.Errorf("invalid opening hours %d-%d", s.OpenHour, s.CloseHour)
	case s.SlotDuration <= 0:
		return fmt.Errorf("slot duration must be positive")
	case s.HourlyPrice <= 0:
		return fmt.Errorf("hourly price must be positive")
	case s.YouthDiscountPercent < 0 || s.YouthDiscountPercent > 100:
		return fmt.Errorf("youth discount must be within 0-100")
	case s.YearlyAllowance < 0:
		return fmt.Errorf("yearly allowance must not be negative")
	case s.MaxSlotsPerBooking < 1:
		return fmt.Errorf("max slots per booking must be positive")
	case s.Location == nil:
		return fmt.Errorf("location is required")
	}
	return nil
}

// ValidCourt returns true for court numbers 1..Courts
func (s CourtSettings) ValidCourt(n int) bool {
	return n >= 1 && n <= s.Courts
}

// DayBounds returns opening and closing time of the given calendar day in the court timezone
func (s CourtSettings) DayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	open := time.Date(y, m, d, s.OpenHour, 0, 0, 0, s.Location)
	closing := time.Date(y, m, d, s.CloseHour, 0, 0, 0, s.Location)
	return open, closing
}

// DayGrid returns consecutive cells tiling the opening window of the day
func (s CourtSettings) DayGrid(date time.Time, court int) []SlotSpec {
	open, closing := s.DayBounds(date)

	cells := make([]SlotSpec, 0, int(closing.Sub(open)/s.SlotDuration))
	for start := open; !start.Add(s.SlotDuration).After(closing); start = start.Add(s.SlotDuration) {
		cells = append(cells, SlotSpec{
			CourtNumber: court,
			Start:       start,
			End:         start.Add(s.SlotDuration),
		})
	}
	return cells
}

// IsGridCell returns true if the spec is exactly one cell of its day grid
func (s CourtSettings) IsGridCell(spec SlotSpec) bool {
	if !s.ValidCourt(spec.CourtNumber) || !spec.End.Equal(spec.Start.Add(s.SlotDuration)) {
		return false
	}

	local := spec.Start.In(s.Location)
	open, closing := s.DayBounds(local)
	offset := local.Sub(open)

	return offset >= 0 && offset%s.SlotDuration == 0 && !spec.End.After(closing)
}
