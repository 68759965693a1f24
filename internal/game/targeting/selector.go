package targeting

import "github.com/spirecomm/ironclad-planner/internal/game/state"

// Position picks between several living instances of a priority monster.
type Position string

const (
	// PositionLeftmost picks the instance with the lowest index.
	PositionLeftmost Position = "leftmost"
	// PositionWeakest picks the instance with the least HP plus block.
	PositionWeakest Position = "weakest"
)

// Priority names a monster that is always targeted first while alive.
type Priority struct {
	Name     string   `mapstructure:"name"`
	Position Position `mapstructure:"position"`
}

// DefaultPriorities lists monsters whose kill order is forced by their mechanics.
var DefaultPriorities = []Priority{
	{Name: "Sentry", Position: PositionLeftmost},
	{Name: "Gremlin Wizard", Position: PositionWeakest},
}

// Selector picks which monster a targeted card should hit.
type Selector struct {
	priorities []Priority
}

// NewSelector creates a selector. A nil list uses DefaultPriorities.
func NewSelector(priorities []Priority) *Selector {
	if priorities == nil {
		priorities = DefaultPriorities
	}
	cp := make([]Priority, len(priorities))
	copy(cp, priorities)
	return &Selector{priorities: cp}
}

// Select returns the monster index to target, or false if no monster is alive.
// Rules in order: a lone survivor, a priority monster, the most fragile
// attacker, the most fragile monster.
func (s *Selector) Select(st *state.CombatState) (int, bool) {
	living := 0
	only := state.NoTarget
	bestAttacker, bestAny := state.NoTarget, state.NoTarget

	for i := range st.Monsters {
		m := &st.Monsters[i]
		if !m.Alive() {
			continue
		}
		living++
		only = i
		if bestAny == state.NoTarget || fragility(m) < fragility(&st.Monsters[bestAny]) {
			bestAny = i
		}
		if m.Attacking() && (bestAttacker == state.NoTarget || fragility(m) < fragility(&st.Monsters[bestAttacker])) {
			bestAttacker = i
		}
	}

	switch {
	case living == 0:
		return state.NoTarget, false
	case living == 1:
		return only, true
	}

	for _, p := range s.priorities {
		if idx, ok := s.pick(st, p); ok {
			return idx, true
		}
	}

	if bestAttacker != state.NoTarget {
		return bestAttacker, true
	}
	return bestAny, true
}

func (s *Selector) pick(st *state.CombatState, p Priority) (int, bool) {
	chosen := state.NoTarget
	for i := range st.Monsters {
		m := &st.Monsters[i]
		if !m.Alive() || m.Name != p.Name {
			continue
		}
		if chosen == state.NoTarget {
			chosen = i
			if p.Position != PositionWeakest {
				break
			}
			continue
		}
		if fragility(m) < fragility(&st.Monsters[chosen]) {
			chosen = i
		}
	}
	return chosen, chosen != state.NoTarget
}

func fragility(m *state.Monster) int {
	return m.CurrentHP + m.Block
}
