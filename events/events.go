// Package events carries the creation events the registry emits so off-core
// observers (deploy and test tooling) can discover auction instances without
// polling.
package events

import (
	"context"
	"sync"
	"time"
)

// InstanceCreated is published on every successful instance creation.
type InstanceCreated struct {
	EventID   string    `json:"event_id"`
	Instance  string    `json:"instance"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher delivers instance-creation events. Publish failures never fail
// the creation itself; the registry logs and continues.
type Publisher interface {
	PublishInstanceCreated(ctx context.Context, event InstanceCreated) error
}

// Memory is an in-process publisher that records every event. It backs tests
// and deployments without a broker.
type Memory struct {
	mu     sync.Mutex
	events []InstanceCreated
}

var _ Publisher = (*Memory)(nil)

// NewMemory returns an empty in-process publisher.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) PublishInstanceCreated(ctx context.Context, event InstanceCreated) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of every recorded event in publication order.
func (m *Memory) Events() []InstanceCreated {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]InstanceCreated, len(m.events))
	copy(out, m.events)
	return out
}
