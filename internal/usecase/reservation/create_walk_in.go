package reservation

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type WalkInInput struct {
	Cashier booking.Actor

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PackageID     uint
	BarberID      uint
	SlotID        uint
	PaymentMethod string
	Notes         string
}

// CreateWalkIn books a slot for a customer standing at the counter. Payment
// is settled on the spot so the reservation is born completed.
type CreateWalkIn struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCreateWalkIn(
	repo booking.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CreateWalkIn {
	return &CreateWalkIn{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CreateWalkIn) Execute(
	ctx context.Context,
	in WalkInInput,
) (*models.Reservation, error) {

	if !in.Cashier.IsStaff() {
		return nil, httperr.ErrForbidden("walk-ins are registered by staff")
	}

	if err := domain.ValidateContact(in.CustomerName, in.CustomerPhone, in.CustomerEmail, true); err != nil {
		return nil, err
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return nil, httperr.ErrValidation("invalid_payment_method", "unsupported payment method")
	}

	draft := &models.Reservation{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CreatedByID:   in.Cashier.Ref(),
		CreatedByRole: in.Cashier.Role,
		Notes:         in.Notes,
	}
	domain.CompleteWalkIn(draft, in.Cashier.ID, in.PaymentMethod, uc.clock.Now())

	res, err := book(ctx, uc.repo, uc.clock, draft, in.PackageID, in.BarberID, in.SlotID, true)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Cashier.Ref(),
		Action:   "walk_in_created",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"code": res.Code, "payment_method": res.PaymentMethod},
	})

	return res, nil
}
