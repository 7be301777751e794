package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type UploadProofInput struct {
	ReservationID uint
	Actor         booking.Actor
	Image         []byte

	// ExternalID optionally links the proof to a gateway payment.
	ExternalID string
}

type UploadProof struct {
	repo     booking.Repository
	uploader storage.Uploader
	audit    *audit.Dispatcher
	clock    timezone.Clock
}

func NewUploadProof(
	repo booking.Repository,
	uploader storage.Uploader,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *UploadProof {
	return &UploadProof{
		repo:     repo,
		uploader: uploader,
		audit:    audit,
		clock:    clock,
	}
}

// Execute stores the proof image and marks the reservation as paid-pending
// review. Once the proof timestamp is written the payment-timeout sweep no
// longer selects the reservation.
func (uc *UploadProof) Execute(
	ctx context.Context,
	in UploadProofInput,
) (*models.Payment, error) {

	// --------------------------------------------------
	// Reservation
	// --------------------------------------------------
	res, err := loadReservation(ctx, uc.repo, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if in.Actor.IsCustomer() && (res.CustomerID == nil || *res.CustomerID != in.Actor.ID) {
		return nil, httperr.ErrNotFound("reservation_not_found", "reservation does not exist")
	}
	if err := requirePending(res); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Image
	// --------------------------------------------------
	normalized, err := storage.NormalizeImage(in.Image)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return nil, httperr.ErrValidation("invalid_image", "proof must be a jpeg, png or webp image")
		}
		return nil, err
	}

	key := fmt.Sprintf("payment-proofs/%s/%s.webp", res.Code, uuid.NewString())
	url, err := uc.uploader.Upload(ctx, key, normalized, storage.ContentTypeWebP)
	if err != nil {
		return nil, fmt.Errorf("upload proof: %w", err)
	}

	// --------------------------------------------------
	// Records
	// --------------------------------------------------
	now := uc.clock.Now()
	var pay *models.Payment

	err = uc.repo.Transaction(ctx, func(tx booking.Repository) error {
		res, err := loadReservation(ctx, tx, in.ReservationID)
		if err != nil {
			return err
		}
		if err := requirePending(res); err != nil {
			return err
		}

		res.PaymentProofAt = &now
		if err := saveReservation(ctx, tx, res); err != nil {
			return err
		}

		pay, err = tx.GetPaymentByReservation(ctx, res.ID)
		if errors.Is(err, booking.ErrNotFound) {
			pay = &models.Payment{ReservationID: res.ID}
		} else if err != nil {
			return err
		}

		pay.Amount = res.TotalPrice
		pay.Method = res.PaymentMethod
		pay.Status = models.PaymentPending
		pay.ProofURL = url
		pay.ProofKey = key
		pay.RejectionReason = ""
		pay.VerifiedByID = nil
		pay.VerifiedAt = nil
		if in.ExternalID != "" {
			pay.ExternalID = in.ExternalID
		}

		return tx.SavePayment(ctx, pay)
	})
	if err != nil {
		if delErr := uc.uploader.Delete(ctx, key); delErr != nil {
			slog.Warn("orphan proof not removed", "key", key, "error", delErr)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.Ref(),
		Action:   "payment_proof_uploaded",
		Entity:   "payment",
		EntityID: &pay.ID,
		Metadata: map[string]any{"reservation_id": pay.ReservationID},
	})

	return pay, nil
}

func requirePending(res *models.Reservation) error {
	if res.Status != string(domain.StatusPending) {
		return httperr.ErrInvalidState(
			"reservation_not_pending",
			fmt.Sprintf("cannot attach payment to a %s reservation", res.Status),
		)
	}
	return nil
}

func loadReservation(ctx context.Context, repo booking.Repository, id uint) (*models.Reservation, error) {
	res, err := repo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("reservation_not_found", "reservation does not exist")
		}
		return nil, err
	}
	return res, nil
}

func saveReservation(ctx context.Context, repo booking.Repository, res *models.Reservation) error {
	ok, err := repo.UpdateReservation(ctx, res)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if !ok {
		return httperr.ErrConflict("reservation_modified", "reservation was modified concurrently, reload and retry")
	}
	return nil
}
