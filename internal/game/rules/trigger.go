package rules

import "sync"

// Hook reacts to an event on behalf of a power held by the event's subject.
// Handle receives the power's amount at the time the hook fires.
type Hook[C any] struct {
	Power     string
	EventType EventType
	Condition func(Event) bool
	Handle    func(ctx C, evt *Event, amount int)
}

// Lookup reports the current amount of a power on the subject, and whether it is held.
type Lookup func(id string) (int, bool)

// Registry stores hooks indexed by event type and power id.
type Registry[C any] struct {
	mu    sync.RWMutex
	hooks map[EventType]map[string][]Hook[C]
}

// NewRegistry creates an empty hook registry.
func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		hooks: make(map[EventType]map[string][]Hook[C]),
	}
}

// Register adds a hook to the registry.
func (r *Registry[C]) Register(hook Hook[C]) {
	if hook.Handle == nil || hook.Power == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	byPower, ok := r.hooks[hook.EventType]
	if !ok {
		byPower = make(map[string][]Hook[C])
		r.hooks[hook.EventType] = byPower
	}
	byPower[hook.Power] = append(byPower[hook.Power], hook)
}

// Handles reports whether any hook is registered for the event type and power.
func (r *Registry[C]) Handles(eventType EventType, power string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[eventType][power]) > 0
}

// Fire runs the hooks for each power in ids, in order. A power removed by an
// earlier hook is skipped, and a cancelled event stops further hooks.
// Returns the number of hooks that ran.
func (r *Registry[C]) Fire(ctx C, ids []string, lookup Lookup, evt *Event) int {
	r.mu.RLock()
	byPower := r.hooks[evt.Type]
	r.mu.RUnlock()
	if len(byPower) == 0 {
		return 0
	}

	fired := 0
	for _, id := range ids {
		hooks := byPower[id]
		if len(hooks) == 0 {
			continue
		}
		for _, hook := range hooks {
			amount, held := lookup(id)
			if !held {
				break
			}
			if hook.Condition != nil && !hook.Condition(*evt) {
				continue
			}
			hook.Handle(ctx, evt, amount)
			fired++
			if evt.Cancelled {
				return fired
			}
		}
	}
	return fired
}
