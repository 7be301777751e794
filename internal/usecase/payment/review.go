package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

func loadPendingPayment(ctx context.Context, repo booking.Repository, id uint, to string) (*models.Payment, error) {
	pay, err := repo.GetPayment(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("payment_not_found", "payment does not exist")
		}
		return nil, err
	}
	if pay.Status != models.PaymentPending {
		return nil, httperr.ErrTransition("payment", pay.Status, to)
	}
	return pay, nil
}

// ======================================================
// Verify
// ======================================================

type VerifyPayment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewVerifyPayment(repo booking.Repository, audit *audit.Dispatcher, clock timezone.Clock) *VerifyPayment {
	return &VerifyPayment{repo: repo, audit: audit, clock: clock}
}

// Execute accepts the payment and confirms its reservation together.
func (uc *VerifyPayment) Execute(ctx context.Context, paymentID uint, actor booking.Actor) (*models.Payment, error) {
	now := uc.clock.Now()

	var pay *models.Payment
	err := uc.repo.Transaction(ctx, func(tx booking.Repository) error {
		var err error
		if pay, err = loadPendingPayment(ctx, tx, paymentID, models.PaymentVerified); err != nil {
			return err
		}

		res, err := loadReservation(ctx, tx, pay.ReservationID)
		if err != nil {
			return err
		}
		if err := domain.Confirm(res, actor.Ref(), now); err != nil {
			return err
		}
		if err := saveReservation(ctx, tx, res); err != nil {
			return err
		}

		pay.Status = models.PaymentVerified
		pay.VerifiedByID = actor.Ref()
		pay.VerifiedAt = &now
		return tx.SavePayment(ctx, pay)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.Ref(),
		Action:   "payment_verified",
		Entity:   "payment",
		EntityID: &pay.ID,
		Metadata: map[string]any{"reservation_id": pay.ReservationID},
	})

	return pay, nil
}

// ======================================================
// Reject
// ======================================================

type RejectPayment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewRejectPayment(repo booking.Repository, audit *audit.Dispatcher, clock timezone.Clock) *RejectPayment {
	return &RejectPayment{repo: repo, audit: audit, clock: clock}
}

// Execute rejects the proof. The reservation stays pending so the customer
// can upload a new proof or staff can cancel it.
func (uc *RejectPayment) Execute(
	ctx context.Context,
	paymentID uint,
	actor booking.Actor,
	reason string,
) (*models.Payment, error) {

	if strings.TrimSpace(reason) == "" {
		return nil, httperr.ErrValidation("invalid_reason", "rejection reason is required")
	}

	now := uc.clock.Now()

	var pay *models.Payment
	err := uc.repo.Transaction(ctx, func(tx booking.Repository) error {
		var err error
		if pay, err = loadPendingPayment(ctx, tx, paymentID, models.PaymentRejected); err != nil {
			return err
		}

		pay.Status = models.PaymentRejected
		pay.RejectionReason = reason
		pay.VerifiedByID = actor.Ref()
		pay.VerifiedAt = &now
		return tx.SavePayment(ctx, pay)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.Ref(),
		Action:   "payment_rejected",
		Entity:   "payment",
		EntityID: &pay.ID,
		Metadata: map[string]string{"reason": reason},
	})

	return pay, nil
}
