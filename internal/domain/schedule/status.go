package schedule

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ===============================
// Slot Status
// ===============================

type Status string

const (
	StatusAvailable   Status = "available"
	StatusBooked      Status = "booked"
	StatusUnavailable Status = "unavailable"
	StatusCompleted   Status = "completed"
	StatusExpired     Status = "expired"
)

// ExpirableStatuses may be flipped to expired once the slot time has passed.
var ExpirableStatuses = []Status{StatusAvailable, StatusUnavailable}

// PurgeableStatuses may be deleted by retention.
var PurgeableStatuses = []Status{StatusExpired, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusUnavailable, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

func Strings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// ===============================
// Transitions
// ===============================

func CanClaim(slot *models.Schedule) error {
	if Status(slot.Status) != StatusAvailable || slot.ReservationID != nil {
		return httperr.ErrConflict("slot_unavailable", "slot is no longer available")
	}
	return nil
}

// Claim links the slot to a reservation. Walk-ins go straight to completed.
func Claim(slot *models.Schedule, reservationID uint, walkIn bool, now time.Time) error {
	if err := CanClaim(slot); err != nil {
		return err
	}

	id := reservationID
	slot.ReservationID = &id
	if walkIn {
		slot.Status = string(StatusCompleted)
		slot.CompletedAt = &now
		return nil
	}
	slot.Status = string(StatusBooked)
	return nil
}

// Release returns a booked slot to availability. It reports false when the
// slot no longer belongs to the reservation or has moved past booked.
func Release(slot *models.Schedule, reservationID uint) bool {
	if Status(slot.Status) != StatusBooked {
		return false
	}
	if slot.ReservationID == nil || *slot.ReservationID != reservationID {
		return false
	}
	slot.Status = string(StatusAvailable)
	slot.ReservationID = nil
	return true
}

func Complete(slot *models.Schedule, reservationID uint, now time.Time) bool {
	if Status(slot.Status) != StatusBooked {
		return false
	}
	if slot.ReservationID == nil || *slot.ReservationID != reservationID {
		return false
	}
	slot.Status = string(StatusCompleted)
	slot.CompletedAt = &now
	return true
}

// Toggle switches a slot between available and unavailable. Booked,
// completed and expired slots are frozen.
func Toggle(slot *models.Schedule, to Status, actorID uint, reason string, now time.Time) error {
	if to != StatusAvailable && to != StatusUnavailable {
		return httperr.ErrValidation("invalid_status", "status must be available or unavailable")
	}

	from := Status(slot.Status)
	if from != StatusAvailable && from != StatusUnavailable {
		return httperr.ErrTransition("slot", string(from), string(to))
	}

	slot.Status = string(to)
	slot.ModifiedByID = &actorID
	slot.ModifiedAt = &now
	slot.ModifyReason = reason
	return nil
}
