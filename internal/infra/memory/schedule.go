package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func (s *Store) GetSlot(ctx context.Context, id uint) (*models.Schedule, error) {
	defer s.lock()()

	slot, ok := s.st.slots[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &slot, nil
}

func (s *Store) ListSlots(ctx context.Context, f booking.SlotFilter) ([]models.Schedule, error) {
	defer s.lock()()

	out := make([]models.Schedule, 0)
	for _, slot := range s.st.slots {
		if f.BarberID != nil && slot.BarberID != *f.BarberID {
			continue
		}
		if f.Date != "" && slot.Date != f.Date {
			continue
		}
		if f.From != "" && slot.Date < f.From {
			continue
		}
		if f.To != "" && slot.Date > f.To {
			continue
		}
		if f.Status != "" && slot.Status != f.Status {
			continue
		}
		out = append(out, slot)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].BarberID < out[j].BarberID
	})
	return out, nil
}

func (s *Store) ExistingSlotKeys(ctx context.Context, barberIDs []uint, from, to string) (map[schedule.Key]struct{}, error) {
	defer s.lock()()

	wanted := make(map[uint]bool, len(barberIDs))
	for _, id := range barberIDs {
		wanted[id] = true
	}

	out := map[schedule.Key]struct{}{}
	for key := range s.st.slotKeys {
		if wanted[key.BarberID] && key.Date >= from && key.Date <= to {
			out[key] = struct{}{}
		}
	}
	return out, nil
}

func (s *Store) insertSlot(slot *models.Schedule) bool {
	key := schedule.KeyOf(slot)
	if _, exists := s.st.slotKeys[key]; exists {
		return false
	}

	slot.ID = s.st.nextID("schedules")
	if slot.Version == 0 {
		slot.Version = 1
	}
	stamp(&slot.CreatedAt, &slot.UpdatedAt)
	s.st.slots[slot.ID] = *slot
	s.st.slotKeys[key] = slot.ID
	return true
}

func (s *Store) CreateSlot(ctx context.Context, slot *models.Schedule) error {
	defer s.lock()()

	if !s.insertSlot(slot) {
		return booking.ErrDuplicate
	}
	return nil
}

func (s *Store) InsertSlots(ctx context.Context, slots []models.Schedule) (int, error) {
	defer s.lock()()

	inserted := 0
	for i := range slots {
		if s.insertSlot(&slots[i]) {
			inserted++
		}
	}
	return inserted, nil
}

func (s *Store) UpdateSlot(ctx context.Context, slot *models.Schedule) (bool, error) {
	defer s.lock()()

	current, ok := s.st.slots[slot.ID]
	if !ok || current.Version != slot.Version {
		return false, nil
	}

	slot.Version++
	slot.UpdatedAt = time.Now()
	s.st.slots[slot.ID] = *slot
	return true, nil
}

func (s *Store) ExpireSlots(ctx context.Context, before time.Time) (int64, error) {
	defer s.lock()()

	expirable := map[string]bool{}
	for _, st := range schedule.ExpirableStatuses {
		expirable[string(st)] = true
	}

	var n int64
	for id, slot := range s.st.slots {
		if !expirable[slot.Status] || !slot.ScheduledTime.Before(before) {
			continue
		}
		slot.Status = string(schedule.StatusExpired)
		slot.Version++
		slot.UpdatedAt = time.Now()
		s.st.slots[id] = slot
		n++
	}
	return n, nil
}

func (s *Store) DeleteSlots(ctx context.Context, dateBefore string, statuses []string) (int64, error) {
	defer s.lock()()

	allowed := map[string]bool{}
	for _, st := range statuses {
		allowed[st] = true
	}

	var n int64
	for id, slot := range s.st.slots {
		if !allowed[slot.Status] || slot.Date >= dateBefore {
			continue
		}
		delete(s.st.slots, id)
		delete(s.st.slotKeys, schedule.KeyOf(&slot))
		n++
	}
	return n, nil
}
