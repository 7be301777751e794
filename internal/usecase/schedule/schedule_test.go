package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

var admin = booking.Actor{ID: 1, Role: models.RoleAdmin}

func setup(t *testing.T, now time.Time) (*memory.Store, timezone.Clock, *models.Barber) {
	t.Helper()

	store := memory.New()
	clock := timezone.ClockFunc(now.Location(), func() time.Time { return now })

	barber := &models.Barber{Name: "Budi", IsActive: true}
	require.NoError(t, store.SaveBarber(context.Background(), barber))

	return store, clock, barber
}

func jakarta(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, timezone.Location("Asia/Jakarta"))
}

func labels(slots []models.Schedule) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.TimeSlot
	}
	return out
}

func TestGenerateHappyPath(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2023, 12, 31, 10, 0))
	ctx := context.Background()

	uc := schedule.NewGenerateSlots(store, nil, clock)
	n, err := uc.Execute(ctx, schedule.GenerateSlotsInput{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-02",
		BarberID:  &barber.ID,
	})
	require.NoError(t, err)
	// Monday + Tuesday, 13 slots each
	assert.Equal(t, 26, n)

	monday, err := store.ListSlots(ctx, booking.SlotFilter{BarberID: &barber.ID, Date: "2024-01-01"})
	require.NoError(t, err)
	require.NotEmpty(t, monday)
	assert.Equal(t, "11:00", monday[0].TimeSlot)
	assert.Equal(t, "available", monday[0].Status)
	assert.True(t, monday[0].IsDefaultSlot)
	assert.Equal(t, int(time.Monday), monday[0].DayOfWeek)
}

func TestGenerateIsIdempotent(t *testing.T) {
	store, clock, _ := setup(t, jakarta(2023, 12, 31, 10, 0))
	ctx := context.Background()

	uc := schedule.NewGenerateSlots(store, nil, clock)
	in := schedule.GenerateSlotsInput{StartDate: "2024-01-01", EndDate: "2024-01-07"}

	first, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, first)

	second, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Zero(t, second)

	all, err := store.ListSlots(ctx, booking.SlotFilter{})
	require.NoError(t, err)
	assert.Len(t, all, first)

	seen := map[domain.Key]bool{}
	for i := range all {
		key := domain.KeyOf(&all[i])
		assert.False(t, seen[key], "duplicate %v", key)
		seen[key] = true
	}
}

func TestGenerateFridayHours(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	_, err := schedule.NewGenerateSlots(store, nil, clock).Execute(ctx, schedule.GenerateSlotsInput{
		StartDate: "2024-01-05",
		EndDate:   "2024-01-06",
	})
	require.NoError(t, err)

	friday, err := store.ListSlots(ctx, booking.SlotFilter{BarberID: &barber.ID, Date: "2024-01-05"})
	require.NoError(t, err)

	got := labels(friday)
	require.NotEmpty(t, got)
	assert.Equal(t, "13:00", got[0])
	assert.Equal(t, "23:00", got[len(got)-1])
	for _, l := range got {
		assert.GreaterOrEqual(t, l, "13:00")
	}
}

func TestGenerateSkipsPastSlotsToday(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2024, 1, 1, 14, 30))
	ctx := context.Background()

	_, err := schedule.NewGenerateSlots(store, nil, clock).Execute(ctx, schedule.GenerateSlotsInput{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-02",
	})
	require.NoError(t, err)

	today, err := store.ListSlots(ctx, booking.SlotFilter{BarberID: &barber.ID, Date: "2024-01-01"})
	require.NoError(t, err)
	require.NotEmpty(t, today)
	assert.Equal(t, "15:00", today[0].TimeSlot)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2023, 12, 31, 10, 0))
	ctx := context.Background()
	uc := schedule.NewGenerateSlots(store, nil, clock)

	_, err := uc.Execute(ctx, schedule.GenerateSlotsInput{StartDate: "2024-01-02", EndDate: "2024-01-02"})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidRange))

	_, err = uc.Execute(ctx, schedule.GenerateSlotsInput{StartDate: "2024-01-03", EndDate: "2024-01-02"})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidRange))

	_, err = uc.Execute(ctx, schedule.GenerateSlotsInput{StartDate: "01/01/2024", EndDate: "2024-01-02"})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	missing := uint(404)
	_, err = uc.Execute(ctx, schedule.GenerateSlotsInput{StartDate: "2024-01-01", EndDate: "2024-01-02", BarberID: &missing})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	barber.IsActive = false
	require.NoError(t, store.SaveBarber(ctx, barber))
	_, err = uc.Execute(ctx, schedule.GenerateSlotsInput{StartDate: "2024-01-01", EndDate: "2024-01-02", BarberID: &barber.ID})
	assert.True(t, httperr.IsBusiness(err, "barber_inactive"))
}

func TestGenerateIgnoresInactiveBarbers(t *testing.T) {
	store, clock, _ := setup(t, jakarta(2023, 12, 31, 10, 0))
	ctx := context.Background()

	retired := &models.Barber{Name: "Eko", IsActive: false}
	require.NoError(t, store.SaveBarber(ctx, retired))

	_, err := schedule.NewGenerateSlots(store, nil, clock).Execute(ctx, schedule.GenerateSlotsInput{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-02",
	})
	require.NoError(t, err)

	slots, err := store.ListSlots(ctx, booking.SlotFilter{BarberID: &retired.ID})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestCreateSlot(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2023, 12, 31, 10, 0))
	ctx := context.Background()
	uc := schedule.NewCreateSlot(store, nil, clock)

	slot, err := uc.Execute(ctx, schedule.CreateSlotInput{
		BarberID: barber.ID,
		Date:     "2024-01-01",
		TimeSlot: "09:00",
		Actor:    admin,
	})
	require.NoError(t, err)
	assert.False(t, slot.IsDefaultSlot)
	assert.Equal(t, "available", slot.Status)

	_, err = uc.Execute(ctx, schedule.CreateSlotInput{
		BarberID: barber.ID,
		Date:     "2024-01-01",
		TimeSlot: "09:00",
		Actor:    admin,
	})
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	_, err = uc.Execute(ctx, schedule.CreateSlotInput{
		BarberID: barber.ID,
		Date:     "2023-12-30",
		TimeSlot: "09:00",
		Actor:    admin,
	})
	assert.True(t, httperr.IsBusiness(err, "slot_in_past"))
}

func TestToggleSlot(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2023, 12, 31, 10, 0))
	ctx := context.Background()

	slot, err := schedule.NewCreateSlot(store, nil, clock).Execute(ctx, schedule.CreateSlotInput{
		BarberID: barber.ID, Date: "2024-01-01", TimeSlot: "11:00", Actor: admin,
	})
	require.NoError(t, err)

	uc := schedule.NewToggleSlot(store, nil, clock)

	off, err := uc.Execute(ctx, schedule.ToggleSlotInput{SlotID: slot.ID, Status: "unavailable", Reason: "sick", Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, "unavailable", off.Status)
	assert.Equal(t, "sick", off.ModifyReason)
	require.NotNil(t, off.ModifiedByID)

	_, err = uc.Execute(ctx, schedule.ToggleSlotInput{SlotID: slot.ID, Status: "booked", Actor: admin})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	// simulate a booking landing on the slot
	current, err := store.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	current.Status = "booked"
	ok, err := store.UpdateSlot(ctx, current)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = uc.Execute(ctx, schedule.ToggleSlotInput{SlotID: slot.ID, Status: "unavailable", Actor: admin})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))

	_, err = uc.Execute(ctx, schedule.ToggleSlotInput{SlotID: 12345, Status: "available", Actor: admin})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestListAvailability(t *testing.T) {
	store, clock, barber := setup(t, jakarta(2024, 1, 1, 9, 0))
	ctx := context.Background()

	_, err := schedule.NewGenerateSlots(store, nil, clock).Execute(ctx, schedule.GenerateSlotsInput{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-02",
	})
	require.NoError(t, err)

	slots, err := store.ListSlots(ctx, booking.SlotFilter{BarberID: &barber.ID, Date: "2024-01-01"})
	require.NoError(t, err)
	_, err = schedule.NewToggleSlot(store, nil, clock).Execute(ctx, schedule.ToggleSlotInput{
		SlotID: slots[0].ID, Status: "unavailable", Actor: admin,
	})
	require.NoError(t, err)

	uc := schedule.NewListAvailability(store, clock)

	everything, err := uc.Execute(ctx, schedule.ListAvailabilityInput{BarberID: barber.ID, Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Len(t, everything, 13)

	bookable, err := uc.Execute(ctx, schedule.ListAvailabilityInput{BarberID: barber.ID, Date: "2024-01-01", OnlyBookable: true})
	require.NoError(t, err)
	assert.Len(t, bookable, 12)
	assert.Equal(t, "12:00", bookable[0].TimeSlot)

	_, err = uc.Execute(ctx, schedule.ListAvailabilityInput{BarberID: 404, Date: "2024-01-01"})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}
