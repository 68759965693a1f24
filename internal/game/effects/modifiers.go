package effects

import (
	"sync"

	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"go.uber.org/zap"
)

// InvincibleFraction caps a single hit on an Invincible monster, in percent of max HP.
const InvincibleFraction = 15

// Hit is a single instance of damage on its way to a monster, after the
// attacker's strength, weak, vulnerable and relic adjustments.
type Hit struct {
	Target int
	Amount int
	Attack bool
}

// DamageModifier adjusts a hit based on the defender's state.
// Each modifier gets one opportunity per hit.
type DamageModifier interface {
	// ID returns the unique identifier for this modifier
	ID() string

	// Applies returns true if this modifier cares about the hit
	Applies(st *state.CombatState, hit Hit) bool

	// Modify returns the adjusted hit
	Modify(st *state.CombatState, hit Hit) Hit
}

// ModifierChain applies damage modifiers to hits in registration order.
type ModifierChain struct {
	mu        sync.RWMutex
	modifiers []DamageModifier
	logger    *zap.Logger
}

// NewModifierChain creates a chain holding the default defender modifiers.
func NewModifierChain(logger *zap.Logger) *ModifierChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ModifierChain{logger: logger}
	for _, m := range DefaultModifiers() {
		c.Add(m)
	}
	return c
}

// DefaultModifiers returns the built-in defender modifiers in application order.
func DefaultModifiers() []DamageModifier {
	return []DamageModifier{
		&powerModifier{id: "flight", power: powers.Flight, modify: func(m *state.Monster, n int) int {
			return n / 2
		}},
		&powerModifier{id: "intangible", power: powers.Intangible, modify: func(m *state.Monster, n int) int {
			return min(n, 1)
		}},
		&powerModifier{id: "invincible", power: powers.Invincible, modify: func(m *state.Monster, n int) int {
			return min(n, m.MaxHP*InvincibleFraction/100)
		}},
	}
}

// Add appends a modifier to the chain. A modifier with an existing ID replaces it.
func (c *ModifierChain) Add(m DamageModifier) {
	if m == nil {
		c.logger.Warn("attempted to add nil damage modifier")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.modifiers {
		if existing.ID() == m.ID() {
			c.modifiers[i] = m
			return
		}
	}
	c.modifiers = append(c.modifiers, m)
	c.logger.Debug("added damage modifier", zap.String("modifier_id", m.ID()))
}

// Remove drops the modifier with the given ID.
func (c *ModifierChain) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.modifiers {
		if existing.ID() == id {
			c.modifiers = append(c.modifiers[:i:i], c.modifiers[i+1:]...)
			return
		}
	}
}

// Modifiers returns the modifiers in application order.
func (c *ModifierChain) Modifiers() []DamageModifier {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]DamageModifier, len(c.modifiers))
	copy(out, c.modifiers)
	return out
}

// Apply runs the hit through every applicable modifier. The amount never goes below zero.
func (c *ModifierChain) Apply(st *state.CombatState, hit Hit) Hit {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.modifiers {
		if hit.Amount <= 0 {
			break
		}
		if !m.Applies(st, hit) {
			continue
		}
		hit = m.Modify(st, hit)
	}
	if hit.Amount < 0 {
		hit.Amount = 0
	}
	return hit
}

// powerModifier adjusts hits on monsters holding a power.
type powerModifier struct {
	id     string
	power  string
	modify func(m *state.Monster, amount int) int
}

func (p *powerModifier) ID() string {
	return p.id
}

func (p *powerModifier) Applies(st *state.CombatState, hit Hit) bool {
	m := st.Monster(hit.Target)
	return m != nil && m.Powers.Has(p.power) && m.Powers.Amount(p.power) > 0
}

func (p *powerModifier) Modify(st *state.CombatState, hit Hit) Hit {
	hit.Amount = p.modify(st.Monster(hit.Target), hit.Amount)
	return hit
}
