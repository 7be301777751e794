package payment_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	gateway "github.com/BruksfildServices01/barbershop-booking/internal/payment"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/payment"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/reservation"
	scheduleuc "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

type recordingUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (u *recordingUploader) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = body
	return "https://cdn.test/" + key, nil
}

func (u *recordingUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

type fixedGateway struct{ status string }

func (g fixedGateway) Status(context.Context, string) (string, error) { return g.status, nil }

type env struct {
	store    *memory.Store
	clock    timezone.Clock
	uploader *recordingUploader
	customer booking.Actor
	cashier  booking.Actor
	res      *models.Reservation
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	loc := timezone.Location("Asia/Jakarta")
	now := time.Date(2023, 12, 31, 10, 0, 0, 0, loc)
	e := &env{
		store:    memory.New(),
		clock:    timezone.ClockFunc(loc, func() time.Time { return now }),
		uploader: &recordingUploader{},
		cashier:  booking.Actor{ID: 50, Role: models.RoleCashier},
	}

	barber := &models.Barber{Name: "Budi", IsActive: true}
	require.NoError(t, e.store.SaveBarber(ctx, barber))
	pkg := &models.Package{Name: "Haircut", Price: 50000, IsActive: true}
	require.NoError(t, e.store.SavePackage(ctx, pkg))
	user := &models.User{Name: "Citra", Email: "citra@example.com", Phone: "081234567890", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, e.store.CreateUser(ctx, user))
	e.customer = booking.Actor{ID: user.ID, Role: models.RoleCustomer}

	_, err := scheduleuc.NewGenerateSlots(e.store, nil, e.clock).Execute(ctx, scheduleuc.GenerateSlotsInput{
		StartDate: "2024-01-01", EndDate: "2024-01-02",
	})
	require.NoError(t, err)

	slots, err := e.store.ListSlots(ctx, booking.SlotFilter{Date: "2024-01-01"})
	require.NoError(t, err)

	e.res, err = reservation.NewCreateReservation(e.store, nil, e.clock).Execute(ctx, reservation.CreateInput{
		Actor:     e.customer,
		PackageID: pkg.ID,
		BarberID:  barber.ID,
		SlotID:    slots[0].ID,
	})
	require.NoError(t, err)

	return e
}

func proofImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))
	return buf.Bytes()
}

func (e *env) upload(t *testing.T, externalID string) *models.Payment {
	t.Helper()
	pay, err := payment.NewUploadProof(e.store, e.uploader, nil, e.clock).Execute(context.Background(), payment.UploadProofInput{
		ReservationID: e.res.ID,
		Actor:         e.customer,
		Image:         proofImage(t),
		ExternalID:    externalID,
	})
	require.NoError(t, err)
	return pay
}

func TestUploadProofMarksReservation(t *testing.T) {
	e := newEnv(t)

	pay := e.upload(t, "")
	assert.Equal(t, models.PaymentPending, pay.Status)
	assert.EqualValues(t, 50000, pay.Amount)
	assert.Contains(t, pay.ProofURL, "https://cdn.test/payment-proofs/RSV-000001/")
	assert.Len(t, e.uploader.objects, 1)

	res, err := e.store.GetReservation(context.Background(), e.res.ID)
	require.NoError(t, err)
	require.NotNil(t, res.PaymentProofAt)
	assert.Equal(t, "pending", res.Status)
}

func TestUploadProofRejectsOtherCustomersAndBadImages(t *testing.T) {
	e := newEnv(t)
	uc := payment.NewUploadProof(e.store, e.uploader, nil, e.clock)

	_, err := uc.Execute(context.Background(), payment.UploadProofInput{
		ReservationID: e.res.ID,
		Actor:         booking.Actor{ID: 999, Role: models.RoleCustomer},
		Image:         proofImage(t),
	})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	_, err = uc.Execute(context.Background(), payment.UploadProofInput{
		ReservationID: e.res.ID,
		Actor:         e.customer,
		Image:         []byte("nope"),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_image"))
	assert.Empty(t, e.uploader.objects)
}

func TestUploadProofRequiresPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := reservation.NewCancelReservation(e.store, nil, e.clock).Execute(ctx, e.res.ID, e.customer, "oops")
	require.NoError(t, err)

	_, err = payment.NewUploadProof(e.store, e.uploader, nil, e.clock).Execute(ctx, payment.UploadProofInput{
		ReservationID: e.res.ID,
		Actor:         e.customer,
		Image:         proofImage(t),
	})
	assert.True(t, httperr.IsBusiness(err, "reservation_not_pending"))
}

func TestVerifyConfirmsReservation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pay := e.upload(t, "")

	verified, err := payment.NewVerifyPayment(e.store, nil, e.clock).Execute(ctx, pay.ID, e.cashier)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentVerified, verified.Status)
	require.NotNil(t, verified.VerifiedByID)

	res, err := e.store.GetReservation(ctx, e.res.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", res.Status)

	_, err = payment.NewVerifyPayment(e.store, nil, e.clock).Execute(ctx, pay.ID, e.cashier)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))
}

func TestRejectKeepsReservationPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pay := e.upload(t, "")

	_, err := payment.NewRejectPayment(e.store, nil, e.clock).Execute(ctx, pay.ID, e.cashier, "")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	rejected, err := payment.NewRejectPayment(e.store, nil, e.clock).Execute(ctx, pay.ID, e.cashier, "blurry")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, rejected.Status)

	res, err := e.store.GetReservation(ctx, e.res.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status)

	// a fresh proof reopens the same payment record
	again := e.upload(t, "")
	assert.Equal(t, pay.ID, again.ID)
	assert.Equal(t, models.PaymentPending, again.Status)
	assert.Empty(t, again.RejectionReason)
}

func TestSyncFromGateway(t *testing.T) {
	cases := []struct {
		status     string
		payment    string
		reservStat string
	}{
		{gateway.StatusApproved, models.PaymentVerified, "confirmed"},
		{gateway.StatusRejected, models.PaymentRejected, "pending"},
		{gateway.StatusPending, models.PaymentPending, "pending"},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()
			pay := e.upload(t, "123456")

			verify := payment.NewVerifyPayment(e.store, nil, e.clock)
			reject := payment.NewRejectPayment(e.store, nil, e.clock)
			uc := payment.NewSyncFromGateway(e.store, fixedGateway{status: tc.status}, verify, reject)

			out, err := uc.Execute(ctx, pay.ID, e.cashier)
			require.NoError(t, err)
			assert.Equal(t, tc.payment, out.Status)

			res, err := e.store.GetReservation(ctx, e.res.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.reservStat, res.Status)
		})
	}
}

func TestSyncRequiresExternalID(t *testing.T) {
	e := newEnv(t)
	pay := e.upload(t, "")

	uc := payment.NewSyncFromGateway(e.store, gateway.Disabled{},
		payment.NewVerifyPayment(e.store, nil, e.clock),
		payment.NewRejectPayment(e.store, nil, e.clock))

	_, err := uc.Execute(context.Background(), pay.ID, e.cashier)
	assert.True(t, httperr.IsBusiness(err, "no_external_payment"))
}
