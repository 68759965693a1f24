package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counterCtx struct {
	calls []string
}

func TestRegistry_FireInPowerOrder(t *testing.T) {
	registry := NewRegistry[*counterCtx]()
	for _, power := range []string{"A", "B", "C"} {
		power := power
		registry.Register(Hook[*counterCtx]{
			Power:     power,
			EventType: EventDamageDealt,
			Handle: func(ctx *counterCtx, evt *Event, amount int) {
				ctx.calls = append(ctx.calls, power)
			},
		})
	}

	held := map[string]int{"A": 1, "C": 2}
	ctx := &counterCtx{}
	evt := NewEventWithAmount(EventDamageDealt, 0, 5)
	fired := registry.Fire(ctx, []string{"C", "B", "A"}, func(id string) (int, bool) {
		n, ok := held[id]
		return n, ok
	}, &evt)

	assert.Equal(t, 2, fired)
	assert.Equal(t, []string{"C", "A"}, ctx.calls)
}

func TestRegistry_ConditionAndEventType(t *testing.T) {
	registry := NewRegistry[*counterCtx]()
	registry.Register(Hook[*counterCtx]{
		Power:     "Angry",
		EventType: EventDamageDealt,
		Condition: func(e Event) bool { return e.Unblocked() > 0 },
		Handle: func(ctx *counterCtx, evt *Event, amount int) {
			ctx.calls = append(ctx.calls, "angry")
		},
	})

	lookup := func(string) (int, bool) { return 1, true }
	ctx := &counterCtx{}

	blocked := Event{Type: EventDamageDealt, Amount: 4, Blocked: 4}
	registry.Fire(ctx, []string{"Angry"}, lookup, &blocked)
	assert.Empty(t, ctx.calls)

	played := NewEvent(EventCardPlayed, 0)
	registry.Fire(ctx, []string{"Angry"}, lookup, &played)
	assert.Empty(t, ctx.calls)

	hit := Event{Type: EventDamageDealt, Amount: 6, Blocked: 2}
	registry.Fire(ctx, []string{"Angry"}, lookup, &hit)
	assert.Equal(t, []string{"angry"}, ctx.calls)
	assert.True(t, registry.Handles(EventDamageDealt, "Angry"))
	assert.False(t, registry.Handles(EventCardPlayed, "Angry"))
}

func TestRegistry_CancelStopsFiring(t *testing.T) {
	registry := NewRegistry[*counterCtx]()
	registry.Register(Hook[*counterCtx]{
		Power:     "Artifact",
		EventType: EventDebuffApplying,
		Handle: func(ctx *counterCtx, evt *Event, amount int) {
			ctx.calls = append(ctx.calls, "artifact")
			evt.Cancelled = true
		},
	})
	registry.Register(Hook[*counterCtx]{
		Power:     "Other",
		EventType: EventDebuffApplying,
		Handle: func(ctx *counterCtx, evt *Event, amount int) {
			ctx.calls = append(ctx.calls, "other")
		},
	})

	ctx := &counterCtx{}
	evt := NewEvent(EventDebuffApplying, 0)
	registry.Fire(ctx, []string{"Artifact", "Other"}, func(string) (int, bool) { return 1, true }, &evt)

	assert.True(t, evt.Cancelled)
	assert.Equal(t, []string{"artifact"}, ctx.calls)
}
