package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const slotInsertBatch = 500

func (r *BookingGormRepository) GetSlot(ctx context.Context, id uint) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *BookingGormRepository) ListSlots(
	ctx context.Context,
	f booking.SlotFilter,
) ([]models.Schedule, error) {

	q := r.db.WithContext(ctx).Model(&models.Schedule{})

	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var slots []models.Schedule
	if err := q.
		Order("date ASC, time_slot ASC, barber_id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *BookingGormRepository) ExistingSlotKeys(
	ctx context.Context,
	barberIDs []uint,
	from, to string,
) (map[schedule.Key]struct{}, error) {

	var rows []models.Schedule
	if err := r.db.WithContext(ctx).
		Select("barber_id", "date", "time_slot").
		Where("barber_id IN ? AND date >= ? AND date <= ?", barberIDs, from, to).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	keys := make(map[schedule.Key]struct{}, len(rows))
	for i := range rows {
		keys[schedule.KeyOf(&rows[i])] = struct{}{}
	}
	return keys, nil
}

func (r *BookingGormRepository) CreateSlot(ctx context.Context, s *models.Schedule) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error)
}

// InsertSlots relies on the natural-key unique index so that two
// concurrent generators never produce the same slot twice.
func (r *BookingGormRepository) InsertSlots(
	ctx context.Context,
	slots []models.Schedule,
) (int, error) {

	if len(slots) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "barber_id"},
				{Name: "date"},
				{Name: "time_slot"},
			},
			DoNothing: true,
		}).
		CreateInBatches(&slots, slotInsertBatch)

	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *BookingGormRepository) UpdateSlot(ctx context.Context, s *models.Schedule) (bool, error) {
	now := time.Now()

	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"status":         s.Status,
			"reservation_id": s.ReservationID,
			"completed_at":   s.CompletedAt,
			"modified_by_id": s.ModifiedByID,
			"modified_at":    s.ModifiedAt,
			"modify_reason":  s.ModifyReason,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	s.Version++
	s.UpdatedAt = now
	return true, nil
}

func (r *BookingGormRepository) ExpireSlots(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("status IN ? AND scheduled_time < ?",
			schedule.Strings(schedule.ExpirableStatuses), before).
		Updates(map[string]any{
			"status":     string(schedule.StatusExpired),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})

	return res.RowsAffected, res.Error
}

func (r *BookingGormRepository) DeleteSlots(
	ctx context.Context,
	dateBefore string,
	statuses []string,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("date < ? AND status IN ?", dateBefore, statuses).
		Delete(&models.Schedule{})

	return res.RowsAffected, res.Error
}
