package domain

import "time"

// SlotStatus represents the state of a court time cell
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotPending   SlotStatus = "pending"
	SlotBooked    SlotStatus = "booked"
)

// IsValid returns true for known statuses
func (s SlotStatus) IsValid() bool {
	return s == SlotAvailable || s == SlotPending || s == SlotBooked
}

// Slot is a persisted one-hour cell on a court.
// Rows are never deleted, a released slot goes back to available.
type Slot struct {
	ID          int64
	CourtNumber int
	Start       time.Time
	End         time.Time
	Status      SlotStatus
	BookingID   *string // NULL when available
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsBusy returns true if the slot is held by a booking
func (s *Slot) IsBusy() bool {
	return s.Status == SlotPending || s.Status == SlotBooked
}

// Spec returns the physical cell of the slot
func (s *Slot) Spec() SlotSpec {
	return SlotSpec{CourtNumber: s.CourtNumber, Start: s.Start, End: s.End}
}

// SlotSpec identifies a physical (court, start, end) cell
type SlotSpec struct {
	CourtNumber int
	Start       time.Time
	End         time.Time
}

// Overlaps returns true if the cell intersects [start, end).
// Cells that only touch at the boundary do not overlap.
func (s SlotSpec) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}

// Same returns true if both specs describe the same cell
func (s SlotSpec) Same(o SlotSpec) bool {
	return s.CourtNumber == o.CourtNumber && s.Start.Equal(o.Start) && s.End.Equal(o.End)
}

// GridCell is one entry of the daily availability grid
type GridCell struct {
	CourtNumber int
	Start       time.Time
	End         time.Time
	Available   bool
	Past        bool
}
