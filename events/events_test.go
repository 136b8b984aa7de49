package events

import (
	"context"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestMemoryRecordsEvents(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	check.Equal(t, 0, len(m.Events()))

	first := InstanceCreated{EventID: "e1", Instance: "auction-1", Creator: "alice", CreatedAt: time.Now().UTC()}
	second := InstanceCreated{EventID: "e2", Instance: "auction-2", Creator: "bob", CreatedAt: time.Now().UTC()}
	assert.NoError(t, m.PublishInstanceCreated(ctx, first))
	assert.NoError(t, m.PublishInstanceCreated(ctx, second))

	got := m.Events()
	assert.Equal(t, 2, len(got))
	check.Equal(t, first, got[0])
	check.Equal(t, second, got[1])

	// Events returns a copy; mutating it does not touch the recorder.
	got[0].EventID = "mutated"
	check.Equal(t, "e1", m.Events()[0].EventID)
}
