package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GenerateSlotsInput struct {
	StartDate string
	EndDate   string

	// BarberID scopes generation to one barber; nil means every active barber.
	BarberID *uint
	Actor    booking.Actor
}

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewGenerateSlots(
	repo booking.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *GenerateSlots {
	return &GenerateSlots{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

// Execute materialises the weekly calendar over [StartDate, EndDate] and
// returns how many slots were actually inserted. Re-running it over the
// same range inserts nothing.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) (int, error) {

	loc := uc.clock.Loc

	// --------------------------------------------------
	// Range
	// --------------------------------------------------
	start, err := timezone.ParseDate(in.StartDate, loc)
	if err != nil {
		return 0, httperr.ErrValidation("invalid_date", "start_date must be YYYY-MM-DD")
	}
	end, err := timezone.ParseDate(in.EndDate, loc)
	if err != nil {
		return 0, httperr.ErrValidation("invalid_date", "end_date must be YYYY-MM-DD")
	}
	if !start.Before(end) {
		return 0, httperr.ErrInvalidRange("invalid_range", "start_date must be before end_date")
	}

	// --------------------------------------------------
	// Barbers in scope
	// --------------------------------------------------
	barberIDs, err := uc.barbersInScope(ctx, in.BarberID)
	if err != nil {
		return 0, err
	}
	if len(barberIDs) == 0 {
		return 0, nil
	}

	// --------------------------------------------------
	// Stage + insert
	// --------------------------------------------------
	existing, err := uc.repo.ExistingSlotKeys(ctx, barberIDs, in.StartDate, in.EndDate)
	if err != nil {
		return 0, fmt.Errorf("load existing slots: %w", err)
	}

	staged, err := domain.Plan(
		barberIDs,
		domain.Dates(start, end, loc),
		existing,
		uc.clock.Now(),
		loc,
	)
	if err != nil {
		return 0, err
	}

	created, err := uc.repo.InsertSlots(ctx, staged)
	if err != nil {
		return 0, fmt.Errorf("insert slots: %w", err)
	}

	slog.Info("slots generated",
		"start", in.StartDate,
		"end", in.EndDate,
		"barbers", len(barberIDs),
		"staged", len(staged),
		"created", created,
	)

	uc.audit.Dispatch(audit.Event{
		UserID: in.Actor.Ref(),
		Action: "slots_generated",
		Entity: "schedule",
		Metadata: map[string]any{
			"start_date": in.StartDate,
			"end_date":   in.EndDate,
			"barber_id":  in.BarberID,
			"created":    created,
		},
	})

	return created, nil
}

func (uc *GenerateSlots) barbersInScope(ctx context.Context, barberID *uint) ([]uint, error) {
	if barberID != nil {
		barber, err := uc.repo.GetBarber(ctx, *barberID)
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("barber_not_found", "barber does not exist")
		}
		if err != nil {
			return nil, err
		}
		if !barber.IsActive {
			return nil, httperr.ErrInvalidState("barber_inactive", "barber is not active")
		}
		return []uint{barber.ID}, nil
	}

	barbers, err := uc.repo.ListBarbers(ctx, true)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(barbers))
	for i, b := range barbers {
		ids[i] = b.ID
	}
	return ids, nil
}
