package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func TestTransactionRollsBackOnCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Transaction(ctx, func(tx booking.Repository) error {
		if err := tx.SaveBarber(ctx, &models.Barber{Name: "Budi", IsActive: true}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	barbers, err := s.ListBarbers(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, barbers)
}

func TestTransactionCommits(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx booking.Repository) error {
		return tx.SaveBarber(ctx, &models.Barber{Name: "Budi", IsActive: true})
	})
	require.NoError(t, err)

	barbers, err := s.ListBarbers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, barbers, 1)
}

func TestPageBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, page(items, 2, 2))
	assert.Equal(t, []int{5}, page(items, 2, 4))
	assert.Empty(t, page(items, 2, 5))
	assert.Empty(t, page(items, 2, -16))
	assert.Equal(t, items, page(items, 0, 0))
}
