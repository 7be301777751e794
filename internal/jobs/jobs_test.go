package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-booking/internal/lock"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/reservation"
	scheduleuc "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

type harness struct {
	store  *memory.Store
	now    time.Time
	clock  timezone.Clock
	barber *models.Barber
	pkg    *models.Package
	reaper *Reaper
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	ctx := context.Background()

	h := &harness{store: memory.New(), now: now}
	h.clock = timezone.ClockFunc(now.Location(), func() time.Time { return h.now })

	h.barber = &models.Barber{Name: "Budi", IsActive: true}
	require.NoError(t, h.store.SaveBarber(ctx, h.barber))
	h.pkg = &models.Package{Name: "Haircut", Price: 50000, IsActive: true}
	require.NoError(t, h.store.SavePackage(ctx, h.pkg))

	h.reaper = NewReaper(h.store, nil, h.clock, ReaperConfig{}, nil)
	return h
}

func jakarta(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, timezone.Location("Asia/Jakarta"))
}

func (h *harness) seedSlot(t *testing.T, date, label, status string) models.Schedule {
	t.Helper()

	at, err := timezone.At(date, label, h.clock.Loc)
	require.NoError(t, err)

	s := models.Schedule{
		BarberID:      h.barber.ID,
		Date:          date,
		TimeSlot:      label,
		ScheduledTime: at,
		Status:        status,
		Version:       1,
	}
	require.NoError(t, h.store.CreateSlot(context.Background(), &s))
	return s
}

func (h *harness) book(t *testing.T, slotID uint) *models.Reservation {
	t.Helper()
	res, err := reservation.NewCreateReservation(h.store, nil, h.clock).Execute(context.Background(), reservation.CreateInput{
		Actor:         booking.Actor{ID: 1, Role: models.RoleCashier},
		CustomerName:  "Citra",
		CustomerPhone: "081234567890",
		CustomerEmail: "citra@example.com",
		PackageID:     h.pkg.ID,
		BarberID:      h.barber.ID,
		SlotID:        slotID,
	})
	require.NoError(t, err)
	return res
}

func TestCancelUnpaidFreesSlot(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	unpaidSlot := h.seedSlot(t, "2024-01-01", "11:00", "available")
	paidSlot := h.seedSlot(t, "2024-01-01", "12:00", "available")

	unpaid := h.book(t, unpaidSlot.ID)
	paid := h.book(t, paidSlot.ID)

	proofAt := h.now.Add(2 * time.Minute)
	paid.PaymentProofAt = &proofAt
	ok, err := h.store.UpdateReservation(ctx, paid)
	require.NoError(t, err)
	require.True(t, ok)

	h.now = h.now.Add(11 * time.Minute)

	n, err := h.reaper.CancelUnpaid(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := h.store.GetReservation(ctx, unpaid.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, "payment timeout", got.CancellationReason)
	assert.Nil(t, got.CancelledByID)

	slot, err := h.store.GetSlot(ctx, unpaidSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, "available", slot.Status)
	assert.Nil(t, slot.ReservationID)

	kept, err := h.store.GetReservation(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", kept.Status)

	slot, err = h.store.GetSlot(ctx, paidSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, "booked", slot.Status)

	// second run has nothing left to do
	n, err = h.reaper.CancelUnpaid(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCancelUnpaidRespectsWindow(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	res := h.book(t, h.seedSlot(t, "2024-01-01", "11:00", "available").ID)

	h.now = h.now.Add(9 * time.Minute)
	n, err := h.reaper.CancelUnpaid(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := h.store.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
}

func TestCancelUnpaidSkipsConfirmed(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	res := h.book(t, h.seedSlot(t, "2024-01-01", "11:00", "available").ID)
	_, err := reservation.NewConfirmReservation(h.store, nil, h.clock).Execute(ctx, res.ID, booking.Actor{ID: 1, Role: models.RoleCashier})
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour)
	n, err := h.reaper.CancelUnpaid(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpireSlots(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 2, 12, 0))
	ctx := context.Background()

	pastAvailable := h.seedSlot(t, "2024-01-01", "11:00", "available")
	pastUnavailable := h.seedSlot(t, "2024-01-01", "12:00", "unavailable")
	pastBooked := h.seedSlot(t, "2024-01-01", "13:00", "booked")
	pastCompleted := h.seedSlot(t, "2024-01-01", "14:00", "completed")
	future := h.seedSlot(t, "2024-01-02", "13:00", "available")

	n, err := h.reaper.ExpireSlots(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	want := map[uint]string{
		pastAvailable.ID:   "expired",
		pastUnavailable.ID: "expired",
		pastBooked.ID:      "booked",
		pastCompleted.ID:   "completed",
		future.ID:          "available",
	}
	for id, status := range want {
		s, err := h.store.GetSlot(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, s.Status, "slot %d", id)
	}

	n, err = h.reaper.ExpireSlots(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurgeSlotsKeepsLiveData(t *testing.T) {
	h := newHarness(t, jakarta(2024, 3, 1, 12, 0))
	ctx := context.Background()

	// 2024-01-30 is 31 days before 2024-03-01, 2024-01-31 is 30 days before
	oldExpired := h.seedSlot(t, "2024-01-30", "11:00", "expired")
	oldCompleted := h.seedSlot(t, "2024-01-30", "12:00", "completed")
	oldBooked := h.seedSlot(t, "2024-01-30", "13:00", "booked")
	oldAvailable := h.seedSlot(t, "2024-01-30", "14:00", "available")
	borderline := h.seedSlot(t, "2024-01-31", "11:00", "expired")

	n, err := h.reaper.PurgeSlots(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, id := range []uint{oldExpired.ID, oldCompleted.ID} {
		_, err := h.store.GetSlot(ctx, id)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	}
	for _, id := range []uint{oldBooked.ID, oldAvailable.ID, borderline.ID} {
		_, err := h.store.GetSlot(ctx, id)
		assert.NoError(t, err)
	}
}

func TestNextMonthRange(t *testing.T) {
	first, last := NextMonthRange(jakarta(2024, 1, 31, 23, 0))
	assert.Equal(t, "2024-02-01", first)
	assert.Equal(t, "2024-02-29", last)

	first, last = NextMonthRange(jakarta(2024, 12, 5, 1, 0))
	assert.Equal(t, "2025-01-01", first)
	assert.Equal(t, "2025-01-31", last)
}

func TestRegeneratorIsIdempotent(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 15, 1, 0))
	ctx := context.Background()

	regen := NewRegenerator(scheduleuc.NewGenerateSlots(h.store, nil, h.clock), h.clock)

	n, err := regen.NextMonth(ctx)
	require.NoError(t, err)
	// February 2024: 17 Mon-Thu, 4 Fri, 4 Sat, 4 Sun
	assert.Equal(t, 17*13+4*11+4*13+4*9, n)

	n, err = regen.NextMonth(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSchedulerRunSkipsWhenLocked(t *testing.T) {
	locker := lock.NewLocal()
	s := NewScheduler(time.UTC, locker, nil)

	release, err := locker.Acquire(context.Background(), "job:sweep", time.Minute)
	require.NoError(t, err)

	calls := 0
	job := func(context.Context) error {
		calls++
		return nil
	}

	s.run("sweep", time.Second, job)
	assert.Zero(t, calls)

	release()
	s.run("sweep", time.Second, job)
	assert.Equal(t, 1, calls)

	// failures are swallowed and the lock is released
	s.run("sweep", time.Second, func(context.Context) error { return errors.New("boom") })
	s.run("sweep", time.Second, job)
	assert.Equal(t, 2, calls)
}

func TestRegisterAllRejectsBadSpec(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 15, 1, 0))
	s := NewScheduler(h.clock.Loc, nil, nil)
	regen := NewRegenerator(scheduleuc.NewGenerateSlots(h.store, nil, h.clock), h.clock)

	err := RegisterAll(s, Specs{
		Expire:         "0 */6 * * *",
		Retention:      "30 3 * * *",
		Regenerate:     "not a spec",
		PaymentTimeout: "@every 1m",
	}, h.reaper, regen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regenerate_slots")

	err = RegisterAll(NewScheduler(h.clock.Loc, nil, nil), Specs{
		Expire:         "0 */6 * * *",
		Retention:      "30 3 * * *",
		Regenerate:     "0 1 * * *",
		PaymentTimeout: "@every 1m",
	}, h.reaper, regen)
	assert.NoError(t, err)
}

// racingRepo lets a test act between the sweep's candidate query and its
// per-row transaction.
type racingRepo struct {
	booking.Repository
	afterList  func()
	staleWrite bool
}

func (r *racingRepo) ListUnpaidPending(ctx context.Context, createdBefore time.Time) ([]models.Reservation, error) {
	due, err := r.Repository.ListUnpaidPending(ctx, createdBefore)
	if err == nil && r.afterList != nil {
		r.afterList()
	}
	return due, err
}

func (r *racingRepo) Transaction(ctx context.Context, fn func(tx booking.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx booking.Repository) error {
		return fn(&racingRepo{Repository: tx, staleWrite: r.staleWrite})
	})
}

func (r *racingRepo) UpdateReservation(ctx context.Context, res *models.Reservation) (bool, error) {
	if r.staleWrite {
		return false, nil
	}
	return r.Repository.UpdateReservation(ctx, res)
}

func TestCancelUnpaidSkipsProofAttachedMidSweep(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	slot := h.seedSlot(t, "2024-01-01", "11:00", "available")
	res := h.book(t, slot.ID)

	h.now = h.now.Add(11 * time.Minute)

	repo := &racingRepo{Repository: h.store, afterList: func() {
		fresh, err := h.store.GetReservation(ctx, res.ID)
		require.NoError(t, err)
		proofAt := h.now
		fresh.PaymentProofAt = &proofAt
		ok, err := h.store.UpdateReservation(ctx, fresh)
		require.NoError(t, err)
		require.True(t, ok)
	}}

	n, err := NewReaper(repo, nil, h.clock, ReaperConfig{}, nil).CancelUnpaid(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := h.store.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.NotNil(t, got.PaymentProofAt)

	s, err := h.store.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "booked", s.Status)
}

func TestCancelUnpaidSkipsLostUpdate(t *testing.T) {
	h := newHarness(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	slot := h.seedSlot(t, "2024-01-01", "11:00", "available")
	res := h.book(t, slot.ID)

	h.now = h.now.Add(11 * time.Minute)

	repo := &racingRepo{Repository: h.store, staleWrite: true}
	n, err := NewReaper(repo, nil, h.clock, ReaperConfig{}, nil).CancelUnpaid(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := h.store.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)

	s, err := h.store.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "booked", s.Status)
}
