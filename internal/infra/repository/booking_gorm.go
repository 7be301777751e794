package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const pgUniqueViolation = "23505"

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx booking.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// translate maps driver errors onto the booking sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return booking.ErrDuplicate
	}
	return err
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *BookingGormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *BookingGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

// --------------------------------------------------
// Barbers / Packages
// --------------------------------------------------

func (r *BookingGormRepository) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBarbers(ctx context.Context, onlyActive bool) ([]models.Barber, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var barbers []models.Barber
	if err := q.Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *BookingGormRepository) SaveBarber(ctx context.Context, b *models.Barber) error {
	return translate(r.db.WithContext(ctx).Save(b).Error)
}

func (r *BookingGormRepository) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	var p models.Package
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *BookingGormRepository) ListPackages(ctx context.Context, onlyActive bool) ([]models.Package, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var pkgs []models.Package
	if err := q.Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *BookingGormRepository) SavePackage(ctx context.Context, p *models.Package) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *BookingGormRepository) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *BookingGormRepository) ListAuditLogs(
	ctx context.Context,
	action, entity string,
	limit, offset int,
) ([]models.AuditLog, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
