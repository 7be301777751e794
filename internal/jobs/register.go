package jobs

import (
	"context"
	"fmt"
	"time"
)

type Specs struct {
	Expire         string
	Retention      string
	Regenerate     string
	PaymentTimeout string
}

// RegisterAll wires the sweeps and the regeneration job onto s.
func RegisterAll(s *Scheduler, specs Specs, reaper *Reaper, regen *Regenerator) error {
	jobs := []struct {
		name    string
		spec    string
		timeout time.Duration
		fn      func(ctx context.Context) error
	}{
		{"expire_slots", specs.Expire, 5 * time.Minute, func(ctx context.Context) error {
			_, err := reaper.ExpireSlots(ctx)
			return err
		}},
		{"purge_slots", specs.Retention, 10 * time.Minute, func(ctx context.Context) error {
			_, err := reaper.PurgeSlots(ctx)
			return err
		}},
		{"regenerate_slots", specs.Regenerate, 15 * time.Minute, func(ctx context.Context) error {
			_, err := regen.NextMonth(ctx)
			return err
		}},
		{"payment_timeout", specs.PaymentTimeout, 50 * time.Second, func(ctx context.Context) error {
			_, err := reaper.CancelUnpaid(ctx)
			return err
		}},
	}

	for _, j := range jobs {
		if err := s.Register(j.name, j.spec, j.timeout, j.fn); err != nil {
			return fmt.Errorf("register %s (%q): %w", j.name, j.spec, err)
		}
	}
	return nil
}
