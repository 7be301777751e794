package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const reservationSequence = "reservation_code"

// NextReservationSeq bumps a counter row atomically; the upsert takes a row
// lock so concurrent bookings never share a number.
func (r *BookingGormRepository) NextReservationSeq(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, reservationSequence).Scan(&value).Error

	return value, err
}

func (r *BookingGormRepository) CreateReservation(ctx context.Context, res *models.Reservation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(res).Error)
}

func (r *BookingGormRepository) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *BookingGormRepository) ListReservations(
	ctx context.Context,
	f booking.ReservationFilter,
) ([]models.Reservation, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Reservation{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != "" {
		q = q.Where("slot_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("slot_date <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var list []models.Reservation
	if err := q.
		Order("created_at DESC, id DESC").
		Offset(f.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *BookingGormRepository) UpdateReservation(ctx context.Context, res *models.Reservation) (bool, error) {
	now := time.Now()

	out := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND version = ?", res.ID, res.Version).
		Updates(map[string]any{
			"status":              res.Status,
			"payment_method":      res.PaymentMethod,
			"is_walk_in":          res.IsWalkIn,
			"notes":               res.Notes,
			"payment_proof_at":    res.PaymentProofAt,
			"confirmed_by_id":     res.ConfirmedByID,
			"confirmed_at":        res.ConfirmedAt,
			"started_at":          res.StartedAt,
			"completed_by_id":     res.CompletedByID,
			"completed_at":        res.CompletedAt,
			"cancelled_by_id":     res.CancelledByID,
			"cancelled_at":        res.CancelledAt,
			"cancellation_reason": res.CancellationReason,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          now,
		})

	if out.Error != nil {
		return false, out.Error
	}
	if out.RowsAffected == 0 {
		return false, nil
	}

	res.Version++
	res.UpdatedAt = now
	return true, nil
}

func (r *BookingGormRepository) ListUnpaidPending(
	ctx context.Context,
	createdBefore time.Time,
) ([]models.Reservation, error) {

	var list []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND payment_proof_at IS NULL AND created_at < ?",
			string(reservation.StatusPending), createdBefore).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BookingGormRepository) SummarizeReservations(
	ctx context.Context,
	from, to string,
) ([]booking.StatusSummary, error) {

	var out []booking.StatusSummary
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("slot_date >= ? AND slot_date <= ?", from, to).
		Group("status").
		Order("status ASC").
		Scan(&out).Error

	return out, err
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *BookingGormRepository) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *BookingGormRepository) GetPaymentByReservation(
	ctx context.Context,
	reservationID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *BookingGormRepository) SavePayment(ctx context.Context, p *models.Payment) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}
