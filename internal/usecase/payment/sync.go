package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	gateway "github.com/BruksfildServices01/barbershop-booking/internal/payment"
)

// SyncFromGateway pulls the status of a gateway-backed payment and applies
// it through the same verify/reject paths a cashier uses.
type SyncFromGateway struct {
	repo    booking.Repository
	gateway gateway.Gateway
	verify  *VerifyPayment
	reject  *RejectPayment
}

func NewSyncFromGateway(
	repo booking.Repository,
	gw gateway.Gateway,
	verify *VerifyPayment,
	reject *RejectPayment,
) *SyncFromGateway {
	return &SyncFromGateway{
		repo:    repo,
		gateway: gw,
		verify:  verify,
		reject:  reject,
	}
}

func (uc *SyncFromGateway) Execute(ctx context.Context, paymentID uint, actor booking.Actor) (*models.Payment, error) {
	pay, err := uc.repo.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("payment_not_found", "payment does not exist")
		}
		return nil, err
	}
	if pay.ExternalID == "" {
		return nil, httperr.ErrValidation("no_external_payment", "payment is not linked to the gateway")
	}
	if pay.Status != models.PaymentPending {
		return pay, nil
	}

	status, err := uc.gateway.Status(ctx, pay.ExternalID)
	switch {
	case errors.Is(err, gateway.ErrNotConfigured):
		return nil, httperr.ErrInvalidState("gateway_disabled", "payment gateway is not configured")
	case errors.Is(err, gateway.ErrUnavailable):
		return nil, httperr.ErrConflict("gateway_unavailable", "payment gateway is temporarily unavailable")
	case err != nil:
		return nil, err
	}

	switch status {
	case gateway.StatusApproved:
		return uc.verify.Execute(ctx, pay.ID, actor)
	case gateway.StatusRejected, gateway.StatusCancelled, gateway.StatusRefunded:
		return uc.reject.Execute(ctx, pay.ID, actor, fmt.Sprintf("gateway: %s", status))
	default:
		return pay, nil
	}
}
