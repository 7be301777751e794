package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/memory"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	store := memory.New()
	d := audit.NewDispatcher(audit.New(store))

	id := uint(7)
	d.Dispatch(audit.Event{
		UserID:   &id,
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &id,
		Metadata: map[string]string{"code": "RSV-000001"},
	})
	d.Close()

	logs, total, err := store.ListAuditLogs(context.Background(), "reservation_created", "", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "reservation", logs[0].Entity)
	assert.JSONEq(t, `{"code":"RSV-000001"}`, logs[0].Metadata)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *audit.Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "x"})
		d.Close()
	})
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	store := memory.New()
	d := audit.NewDispatcher(audit.New(store))
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "late_event"})
		d.Close()
	})

	_, total, err := store.ListAuditLogs(context.Background(), "late_event", "", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}
