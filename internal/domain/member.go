package domain

import (
	"strings"
	"time"
)

// Member is a club member with a yearly free-slot allowance
type Member struct {
	ID          int64
	Email       string
	YearlySlots []YearlySlots
	CreatedAt   time.Time
}

// YearlySlots slots charged to the allowance in one calendar year
type YearlySlots struct {
	Year      int
	UsedSlots []int64
}

// UsedIn returns the number of slots used in the given year
func (m *Member) UsedIn(year int) int {
	for _, ys := range m.YearlySlots {
		if ys.Year == year {
			return len(ys.UsedSlots)
		}
	}
	return 0
}

// Quota остаток бесплатных слотов участника
type Quota struct {
	IsMember       bool
	SlotsRemaining int
}

// NormalizeEmail trims and lower-cases an email used as a member key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
