package viewmodel

import (
	"context"
	"sync"
)

// Phase of one logical action in a Mutator.
type Phase int

const (
	Idle Phase = iota
	Submitting
)

// String returns the phase name.
func (p Phase) String() string {
	if p == Submitting {
		return "submitting"
	}
	return "idle"
}

// Mutator runs create/update/delete calls and refreshes the dependent views
// only when the call succeeds. An action that is already Submitting rejects
// further attempts instead of queueing them.
type Mutator struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewMutator returns a Mutator with every action idle.
func NewMutator() *Mutator {
	return &Mutator{inflight: make(map[string]struct{})}
}

// Phase reports whether action is currently in flight.
func (m *Mutator) Phase(action string) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inflight[action]; ok {
		return Submitting
	}
	return Idle
}

// Run executes mutate under action. On success every reload runs in order;
// on failure the error is returned and no reload happens.
func (m *Mutator) Run(ctx context.Context, action string, mutate func(context.Context) error, reloads ...func(context.Context)) error {
	if !m.acquire(action) {
		return ErrBusy
	}
	if err := m.runHeld(ctx, action, mutate); err != nil {
		return err
	}
	for _, reload := range reloads {
		reload(ctx)
	}
	return nil
}

// Toggle negates current and runs it as a normal update.
func (m *Mutator) Toggle(ctx context.Context, action string, current bool, update func(context.Context, bool) error, reloads ...func(context.Context)) error {
	next := !current
	return m.Run(ctx, action, func(ctx context.Context) error {
		return update(ctx, next)
	}, reloads...)
}

// runHeld releases action even when mutate panics.
func (m *Mutator) runHeld(ctx context.Context, action string, mutate func(context.Context) error) error {
	defer m.release(action)
	return mutate(ctx)
}

func (m *Mutator) acquire(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inflight[action]; ok {
		return false
	}
	m.inflight[action] = struct{}{}
	return true
}

func (m *Mutator) release(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, action)
}
