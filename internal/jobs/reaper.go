package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	reservationuc "github.com/BruksfildServices01/barbershop-booking/internal/usecase/reservation"
)

const (
	DefaultRetentionDays  = 30
	DefaultPaymentTimeout = 10 * time.Minute
)

type ReaperConfig struct {
	RetentionDays  int
	PaymentTimeout time.Duration
}

// Reaper owns the time driven sweeps over slots and reservations.
type Reaper struct {
	repo   booking.Repository
	audit  *audit.Dispatcher
	clock  timezone.Clock
	cfg    ReaperConfig
	logger *slog.Logger
}

func NewReaper(
	repo booking.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	cfg ReaperConfig,
	logger *slog.Logger,
) *Reaper {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = DefaultPaymentTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reaper{
		repo:   repo,
		audit:  audit,
		clock:  clock,
		cfg:    cfg,
		logger: logger.With("component", "reaper"),
	}
}

// ExpireSlots flips available and unavailable slots whose time has passed
// to expired. Booked and completed slots are never touched.
func (r *Reaper) ExpireSlots(ctx context.Context) (int64, error) {
	n, err := r.repo.ExpireSlots(ctx, r.clock.Now())
	if err != nil {
		return 0, err
	}

	r.logger.Info("expire sweep", "expired", n)
	return n, nil
}

// PurgeSlots deletes expired and completed slots dated before the
// retention window.
func (r *Reaper) PurgeSlots(ctx context.Context) (int64, error) {
	cutoff := timezone.DateOf(r.clock.Now().AddDate(0, 0, -r.cfg.RetentionDays), r.clock.Loc)

	n, err := r.repo.DeleteSlots(ctx, cutoff, schedule.Strings(schedule.PurgeableStatuses))
	if err != nil {
		return 0, err
	}

	r.logger.Info("retention sweep", "before", cutoff, "deleted", n)
	return n, nil
}

var errNoLongerDue = errors.New("reservation no longer due")

// CancelUnpaid cancels pending reservations that carry no payment proof
// after the payment window and frees their slots. Each reservation is
// handled in its own transaction; a reservation that changed underneath
// (proof uploaded, confirmed, cancelled) is skipped.
func (r *Reaper) CancelUnpaid(ctx context.Context) (int, error) {
	now := r.clock.Now()
	cutoff := now.Add(-r.cfg.PaymentTimeout)

	due, err := r.repo.ListUnpaidPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, candidate := range due {
		if ctx.Err() != nil {
			break
		}

		err := r.repo.Transaction(ctx, func(tx booking.Repository) error {
			res, err := tx.GetReservation(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if res.Status != string(domain.StatusPending) ||
				res.PaymentProofAt != nil ||
				!res.CreatedAt.Before(cutoff) {
				return errNoLongerDue
			}

			return reservationuc.CancelAndRelease(ctx, tx, res, nil, domain.ReasonPaymentTimeout, now)
		})

		switch {
		case err == nil:
			cancelled++
			id := candidate.ID
			r.audit.Dispatch(audit.Event{
				Action:   "reservation_payment_timeout",
				Entity:   "reservation",
				EntityID: &id,
				Metadata: map[string]string{"code": candidate.Code},
			})
		case errors.Is(err, errNoLongerDue), httperr.IsKind(err, httperr.KindConflict):
			r.logger.Debug("payment timeout skipped", "reservation_id", candidate.ID)
		default:
			r.logger.Error("payment timeout failed", "reservation_id", candidate.ID, "error", err)
		}
	}

	if len(due) > 0 {
		r.logger.Info("payment timeout sweep", "due", len(due), "cancelled", cancelled)
	}
	return cancelled, ctx.Err()
}
