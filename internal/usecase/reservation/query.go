package reservation

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxPage keeps (page-1)*size inside int range on every platform.
	maxPage = 1_000_000
)

type GetReservation struct {
	repo booking.Repository
}

func NewGetReservation(repo booking.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

// Execute hides other customers' reservations behind NotFound.
func (uc *GetReservation) Execute(ctx context.Context, id uint, viewer booking.Actor) (*models.Reservation, error) {
	res, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if viewer.IsCustomer() && !ownedBy(res, viewer) {
		return nil, httperr.ErrNotFound("reservation_not_found", "reservation does not exist")
	}
	return res, nil
}

type ListInput struct {
	Viewer   booking.Actor
	Status   string
	BarberID *uint
	From     string
	To       string
	Page     int
	PageSize int
}

type ListResult struct {
	Items    []models.Reservation
	Total    int64
	Page     int
	PageSize int
}

type ListReservations struct {
	repo booking.Repository
}

func NewListReservations(repo booking.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

// Execute lists reservation history newest first. Customers only ever see
// their own.
func (uc *ListReservations) Execute(ctx context.Context, in ListInput) (*ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return nil, httperr.ErrValidation("invalid_page", "page is out of range")
	}
	size := in.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filter := booking.ReservationFilter{
		BarberID: in.BarberID,
		Status:   in.Status,
		From:     in.From,
		To:       in.To,
		Limit:    size,
		Offset:   (page - 1) * size,
	}
	if in.Viewer.IsCustomer() {
		id := in.Viewer.ID
		filter.CustomerID = &id
	}

	items, total, err := uc.repo.ListReservations(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: size,
	}, nil
}
