package create_booking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, settings domain.CourtSettings) error {
	if len(req.Slots) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}
	if len(req.Slots) > settings.MaxSlotsPerBooking {
		return fmt.Errorf("%w: at most %d slots per booking", ErrInvalidInput, settings.MaxSlotsPerBooking)
	}

	name := strings.TrimSpace(req.User.Name)
	if name == "" || len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is required (max %d characters)", ErrInvalidInput, domain.MaxNameLength)
	}

	email := domain.NormalizeEmail(req.User.Email)
	if email == "" || len(email) > domain.MaxEmailLength || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}

	phone := strings.TrimSpace(req.User.Phone)
	if phone == "" || len(phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: phone is required (max %d characters)", ErrInvalidInput, domain.MaxPhoneLength)
	}

	for i, spec := range req.Slots {
		if !settings.IsGridCell(spec) {
			return fmt.Errorf("%w: slot %d (court %d, %s) is not a bookable cell",
				ErrInvalidSlot, i, spec.CourtNumber, spec.Start.Format(time.RFC3339))
		}
		for _, other := range req.Slots[:i] {
			if spec.Same(other) {
				return fmt.Errorf("%w: slot %d is requested twice", ErrInvalidSlot, i)
			}
		}
	}

	return nil
}

// validateNotPast проверяет, что ни один слот ещё не начался
func validateNotPast(specs []domain.SlotSpec, now time.Time) error {
	for _, spec := range specs {
		if !spec.Start.After(now) {
			return fmt.Errorf("%w: slot on court %d starts at %s",
				ErrSlotInPast, spec.CourtNumber, spec.Start.Format(time.RFC3339))
		}
	}
	return nil
}

// sortedSpecs копия слотов по времени и номеру корта.
// Единый порядок резервирования исключает взаимные блокировки между параллельными бронированиями.
func sortedSpecs(specs []domain.SlotSpec) []domain.SlotSpec {
	sorted := make([]domain.SlotSpec, len(specs))
	copy(sorted, specs)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].CourtNumber < sorted[j].CourtNumber
	})
	return sorted
}
