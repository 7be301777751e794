package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	slots "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

var errReservationModified = httperr.ErrConflict(
	"reservation_modified",
	"reservation was modified concurrently, reload and retry",
)

func load(ctx context.Context, repo booking.Repository, id uint) (*models.Reservation, error) {
	res, err := repo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("reservation_not_found", "reservation does not exist")
		}
		return nil, err
	}
	return res, nil
}

func save(ctx context.Context, repo booking.Repository, res *models.Reservation) error {
	ok, err := repo.UpdateReservation(ctx, res)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if !ok {
		return errReservationModified
	}
	return nil
}

// ======================================================
// Confirm
// ======================================================

type ConfirmReservation struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewConfirmReservation(repo booking.Repository, audit *audit.Dispatcher, clock timezone.Clock) *ConfirmReservation {
	return &ConfirmReservation{repo: repo, audit: audit, clock: clock}
}

func (uc *ConfirmReservation) Execute(ctx context.Context, id uint, actor booking.Actor) (*models.Reservation, error) {
	res, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(res, actor.Ref(), uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := save(ctx, uc.repo, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.Ref(),
		Action:   "reservation_confirmed",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}

// ======================================================
// Start
// ======================================================

type StartReservation struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewStartReservation(repo booking.Repository, audit *audit.Dispatcher, clock timezone.Clock) *StartReservation {
	return &StartReservation{repo: repo, audit: audit, clock: clock}
}

func (uc *StartReservation) Execute(ctx context.Context, id uint, actor booking.Actor) (*models.Reservation, error) {
	res, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Start(res, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := save(ctx, uc.repo, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.Ref(),
		Action:   "reservation_started",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}

// ======================================================
// Complete
// ======================================================

type CompleteReservation struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCompleteReservation(repo booking.Repository, audit *audit.Dispatcher, clock timezone.Clock) *CompleteReservation {
	return &CompleteReservation{repo: repo, audit: audit, clock: clock}
}

// Execute completes the reservation and, when the slot is still booked by
// it, marks the slot completed in the same transaction.
func (uc *CompleteReservation) Execute(ctx context.Context, id uint, actor booking.Actor) (*models.Reservation, error) {
	now := uc.clock.Now()

	var res *models.Reservation
	err := uc.repo.Transaction(ctx, func(tx booking.Repository) error {
		var err error
		if res, err = load(ctx, tx, id); err != nil {
			return err
		}

		if err := domain.Complete(res, actor.Ref(), now); err != nil {
			return err
		}
		if err := save(ctx, tx, res); err != nil {
			return err
		}

		return settleSlot(ctx, tx, res, func(slot *models.Schedule) bool {
			return slots.Complete(slot, res.ID, now)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.Ref(),
		Action:   "reservation_completed",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}

// ======================================================
// Cancel
// ======================================================

type CancelReservation struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCancelReservation(repo booking.Repository, audit *audit.Dispatcher, clock timezone.Clock) *CancelReservation {
	return &CancelReservation{repo: repo, audit: audit, clock: clock}
}

func (uc *CancelReservation) Execute(
	ctx context.Context,
	id uint,
	actor booking.Actor,
	reason string,
) (*models.Reservation, error) {

	var res *models.Reservation
	err := uc.repo.Transaction(ctx, func(tx booking.Repository) error {
		var err error
		if res, err = load(ctx, tx, id); err != nil {
			return err
		}

		if actor.IsCustomer() && !ownedBy(res, actor) {
			return httperr.ErrNotFound("reservation_not_found", "reservation does not exist")
		}

		return CancelAndRelease(ctx, tx, res, actor.Ref(), reason, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.Ref(),
		Action:   "reservation_cancelled",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]string{"reason": reason},
	})

	return res, nil
}

// CancelAndRelease cancels res and hands its slot back to availability when
// the slot is still booked by it. Must run inside a transaction.
func CancelAndRelease(
	ctx context.Context,
	tx booking.Repository,
	res *models.Reservation,
	actorID *uint,
	reason string,
	now time.Time,
) error {

	if err := domain.Cancel(res, actorID, reason, now); err != nil {
		return err
	}
	if err := save(ctx, tx, res); err != nil {
		return err
	}

	return settleSlot(ctx, tx, res, func(slot *models.Schedule) bool {
		return slots.Release(slot, res.ID)
	})
}

// settleSlot applies mutate to the reservation's slot and writes it back
// conditionally. A slot that is gone or no longer held by the reservation
// is left untouched.
func settleSlot(
	ctx context.Context,
	tx booking.Repository,
	res *models.Reservation,
	mutate func(slot *models.Schedule) bool,
) error {

	slot, err := tx.GetSlot(ctx, res.ScheduleID)
	if errors.Is(err, booking.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !mutate(slot) {
		return nil
	}

	ok, err := tx.UpdateSlot(ctx, slot)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	if !ok {
		return httperr.ErrConflict("slot_modified", "slot was modified concurrently, reload and retry")
	}
	return nil
}

func ownedBy(res *models.Reservation, actor booking.Actor) bool {
	return res.CustomerID != nil && *res.CustomerID == actor.ID
}
