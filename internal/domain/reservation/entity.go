package reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const ReasonPaymentTimeout = "payment timeout"

// ===============================
// Domain Actions
// ===============================

func Confirm(r *models.Reservation, actorID *uint, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusConfirmed); err != nil {
		return err
	}

	r.Status = string(StatusConfirmed)
	r.ConfirmedByID = actorID
	r.ConfirmedAt = &now
	return nil
}

func Start(r *models.Reservation, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusInProgress); err != nil {
		return err
	}

	r.Status = string(StatusInProgress)
	r.StartedAt = &now
	return nil
}

func Complete(r *models.Reservation, actorID *uint, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusCompleted); err != nil {
		return err
	}

	r.Status = string(StatusCompleted)
	r.CompletedByID = actorID
	r.CompletedAt = &now
	return nil
}

func Cancel(r *models.Reservation, actorID *uint, reason string, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusCancelled); err != nil {
		return err
	}

	r.Status = string(StatusCancelled)
	r.CancelledByID = actorID
	r.CancelledAt = &now
	r.CancellationReason = reason
	return nil
}

// CompleteWalkIn stamps a freshly built walk-in reservation as settled at the counter.
func CompleteWalkIn(r *models.Reservation, cashierID uint, paymentMethod string, now time.Time) {
	id := cashierID
	r.Status = string(StatusCompleted)
	r.IsWalkIn = true
	r.PaymentMethod = paymentMethod
	r.ConfirmedByID = &id
	r.ConfirmedAt = &now
	r.CompletedByID = &id
	r.CompletedAt = &now
}

// ===============================
// Validation
// ===============================

// ValidateContact checks the contact snapshot. Email is only optional for walk-ins.
func ValidateContact(name, phone, email string, walkIn bool) error {
	if strings.TrimSpace(name) == "" {
		return httperr.ErrValidation("invalid_name", "customer name is required")
	}
	if !phonePattern.MatchString(phone) {
		return httperr.ErrValidation("invalid_phone", "phone must contain 8 to 15 digits")
	}
	if !walkIn && strings.TrimSpace(email) == "" {
		return httperr.ErrValidation("invalid_email", "email is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return httperr.ErrValidation("invalid_email", "email is malformed")
	}
	return nil
}

func FormatCode(seq int64) string {
	return fmt.Sprintf("RSV-%06d", seq)
}
