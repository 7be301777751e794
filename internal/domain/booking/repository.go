package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert hits a unique key.
var ErrDuplicate = errors.New("duplicate key")

type SlotFilter struct {
	BarberID *uint
	Date     string
	From     string
	To       string
	Status   string
}

type ReservationFilter struct {
	CustomerID *uint
	BarberID   *uint
	Status     string
	From       string
	To         string
	Limit      int
	Offset     int
}

type StatusSummary struct {
	Status  string `json:"status"`
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

// Repository is the persistence contract of the booking core. Single-row
// writes on schedules and reservations are versioned compare-and-set: they
// report false when the row changed since it was read.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Directory --------
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	ListBarbers(ctx context.Context, onlyActive bool) ([]models.Barber, error)
	SaveBarber(ctx context.Context, b *models.Barber) error

	GetPackage(ctx context.Context, id uint) (*models.Package, error)
	ListPackages(ctx context.Context, onlyActive bool) ([]models.Package, error)
	SavePackage(ctx context.Context, p *models.Package) error

	// -------- Schedule --------
	GetSlot(ctx context.Context, id uint) (*models.Schedule, error)
	ListSlots(ctx context.Context, f SlotFilter) ([]models.Schedule, error)
	ExistingSlotKeys(ctx context.Context, barberIDs []uint, from, to string) (map[schedule.Key]struct{}, error)
	CreateSlot(ctx context.Context, s *models.Schedule) error
	// InsertSlots inserts in bulk, skipping rows whose natural key already
	// exists, and returns how many rows were actually written.
	InsertSlots(ctx context.Context, slots []models.Schedule) (int, error)
	UpdateSlot(ctx context.Context, s *models.Schedule) (bool, error)
	ExpireSlots(ctx context.Context, before time.Time) (int64, error)
	DeleteSlots(ctx context.Context, dateBefore string, statuses []string) (int64, error)

	// -------- Reservation --------
	NextReservationSeq(ctx context.Context) (int64, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error)
	UpdateReservation(ctx context.Context, r *models.Reservation) (bool, error)
	// ListUnpaidPending returns pending reservations created before cutoff
	// that carry no payment proof.
	ListUnpaidPending(ctx context.Context, createdBefore time.Time) ([]models.Reservation, error)
	SummarizeReservations(ctx context.Context, from, to string) ([]StatusSummary, error)

	// -------- Payment --------
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	GetPaymentByReservation(ctx context.Context, reservationID uint) (*models.Payment, error)
	SavePayment(ctx context.Context, p *models.Payment) error

	// -------- Audit --------
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, action, entity string, limit, offset int) ([]models.AuditLog, int64, error)
}
