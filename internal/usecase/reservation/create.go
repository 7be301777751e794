package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	slots "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Actor booking.Actor

	// Contact snapshot. For customers, blank fields are filled from the account.
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PackageID     uint
	BarberID      uint
	SlotID        uint
	PaymentMethod string
	Notes         string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCreateReservation(
	repo booking.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CreateReservation {
	return &CreateReservation{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// Contact snapshot
	// --------------------------------------------------
	var customerID *uint
	if in.Actor.IsCustomer() {
		user, err := uc.repo.GetUser(ctx, in.Actor.ID)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				return nil, httperr.ErrNotFound("customer_not_found", "customer account does not exist")
			}
			return nil, err
		}
		customerID = &user.ID
		in.CustomerName = firstNonEmpty(in.CustomerName, user.Name)
		in.CustomerPhone = firstNonEmpty(in.CustomerPhone, user.Phone)
		in.CustomerEmail = firstNonEmpty(in.CustomerEmail, user.Email)
	}

	if err := domain.ValidateContact(in.CustomerName, in.CustomerPhone, in.CustomerEmail, false); err != nil {
		return nil, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentTransfer
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, httperr.ErrValidation("invalid_payment_method", "unsupported payment method")
	}

	draft := &models.Reservation{
		CustomerID:    customerID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CreatedByID:   in.Actor.Ref(),
		CreatedByRole: in.Actor.Role,
		Notes:         in.Notes,
		Status:        string(domain.StatusPending),
		PaymentMethod: method,
	}

	res, err := book(ctx, uc.repo, uc.clock, draft, in.PackageID, in.BarberID, in.SlotID, false)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.Ref(),
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"code": res.Code, "slot_id": res.ScheduleID},
	})

	return res, nil
}

// book validates the catalog references and then, in one transaction,
// inserts the reservation and claims the slot. A lost claim rolls the
// reservation back and surfaces as Conflict.
func book(
	ctx context.Context,
	repo booking.Repository,
	clock timezone.Clock,
	draft *models.Reservation,
	packageID, barberID, slotID uint,
	walkIn bool,
) (*models.Reservation, error) {

	pkg, err := repo.GetPackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("package_not_found", "package does not exist")
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, httperr.ErrInvalidState("package_inactive", "package is not active")
	}

	barber, err := repo.GetBarber(ctx, barberID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("barber_not_found", "barber does not exist")
		}
		return nil, err
	}
	if !barber.IsActive {
		return nil, httperr.ErrInvalidState("barber_inactive", "barber is not active")
	}

	now := clock.Now()

	err = repo.Transaction(ctx, func(tx booking.Repository) error {
		slot, err := tx.GetSlot(ctx, slotID)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				return httperr.ErrNotFound("slot_not_found", "slot does not exist")
			}
			return err
		}
		if slot.BarberID != barber.ID {
			return httperr.ErrInvalidState("slot_barber_mismatch", "slot does not belong to the barber")
		}
		if err := slots.CanClaim(slot); err != nil {
			return err
		}
		if !walkIn && !slot.ScheduledTime.After(now) {
			return httperr.ErrInvalidState("slot_in_past", "slot time has already passed")
		}

		seq, err := tx.NextReservationSeq(ctx)
		if err != nil {
			return fmt.Errorf("reservation sequence: %w", err)
		}

		draft.Code = domain.FormatCode(seq)
		draft.PackageID = pkg.ID
		draft.BarberID = barber.ID
		draft.ScheduleID = slot.ID
		draft.SlotDate = slot.Date
		draft.SlotTime = slot.TimeSlot
		draft.TotalPrice = pkg.Price
		draft.CreatedAt = now

		if err := tx.CreateReservation(ctx, draft); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		if err := slots.Claim(slot, draft.ID, walkIn, now); err != nil {
			return err
		}

		ok, err := tx.UpdateSlot(ctx, slot)
		if err != nil {
			return fmt.Errorf("claim slot: %w", err)
		}
		if !ok {
			return errSlotTaken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return draft, nil
}

var errSlotTaken = httperr.ErrConflict("slot_unavailable", "slot is no longer available")

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
