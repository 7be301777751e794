package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func (s *Store) NextReservationSeq(ctx context.Context) (int64, error) {
	defer s.lock()()

	s.st.reservationSeq++
	return s.st.reservationSeq, nil
}

func (s *Store) CreateReservation(ctx context.Context, r *models.Reservation) error {
	defer s.lock()()

	for _, existing := range s.st.reservations {
		if existing.Code == r.Code {
			return booking.ErrDuplicate
		}
	}

	r.ID = s.st.nextID("reservations")
	if r.Version == 0 {
		r.Version = 1
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	s.st.reservations[r.ID] = *r
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	defer s.lock()()

	r, ok := s.st.reservations[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListReservations(ctx context.Context, f booking.ReservationFilter) ([]models.Reservation, int64, error) {
	defer s.lock()()

	var matched []models.Reservation
	for _, r := range s.st.reservations {
		if f.CustomerID != nil && (r.CustomerID == nil || *r.CustomerID != *f.CustomerID) {
			continue
		}
		if f.BarberID != nil && r.BarberID != *f.BarberID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.From != "" && r.SlotDate < f.From {
			continue
		}
		if f.To != "" && r.SlotDate > f.To {
			continue
		}
		matched = append(matched, r)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, f.Limit, f.Offset), int64(len(matched)), nil
}

func (s *Store) UpdateReservation(ctx context.Context, r *models.Reservation) (bool, error) {
	defer s.lock()()

	current, ok := s.st.reservations[r.ID]
	if !ok || current.Version != r.Version {
		return false, nil
	}

	// total price and code are fixed at booking time
	r.TotalPrice = current.TotalPrice
	r.Code = current.Code
	r.CreatedAt = current.CreatedAt

	r.Version++
	r.UpdatedAt = time.Now()
	s.st.reservations[r.ID] = *r
	return true, nil
}

func (s *Store) ListUnpaidPending(ctx context.Context, createdBefore time.Time) ([]models.Reservation, error) {
	defer s.lock()()

	var out []models.Reservation
	for _, r := range s.st.reservations {
		if r.Status != string(reservation.StatusPending) || r.PaymentProofAt != nil {
			continue
		}
		if !r.CreatedAt.Before(createdBefore) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SummarizeReservations(ctx context.Context, from, to string) ([]booking.StatusSummary, error) {
	defer s.lock()()

	byStatus := map[string]*booking.StatusSummary{}
	for _, r := range s.st.reservations {
		if r.SlotDate < from || r.SlotDate > to {
			continue
		}
		sum, ok := byStatus[r.Status]
		if !ok {
			sum = &booking.StatusSummary{Status: r.Status}
			byStatus[r.Status] = sum
		}
		sum.Count++
		sum.Revenue += r.TotalPrice
	}

	out := make([]booking.StatusSummary, 0, len(byStatus))
	for _, sum := range byStatus {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (s *Store) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	defer s.lock()()

	p, ok := s.st.payments[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetPaymentByReservation(ctx context.Context, reservationID uint) (*models.Payment, error) {
	defer s.lock()()

	for _, p := range s.st.payments {
		if p.ReservationID == reservationID {
			return &p, nil
		}
	}
	return nil, booking.ErrNotFound
}

func (s *Store) SavePayment(ctx context.Context, p *models.Payment) error {
	defer s.lock()()

	if p.ID == 0 {
		for _, existing := range s.st.payments {
			if existing.ReservationID == p.ReservationID {
				return booking.ErrDuplicate
			}
		}
		p.ID = s.st.nextID("payments")
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.st.payments[p.ID] = *p
	return nil
}
