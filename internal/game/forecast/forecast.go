// Package forecast estimates the damage the player takes at the end of the turn.
package forecast

import (
	"math"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
)

const (
	orichalcumBlock       = 6
	monsterWeakMultiplier = 0.75
	vulnerableMultiplier  = 1.5
	oddMushroomMultiplier = 1.25
	toriiThreshold        = 5
)

// Forecaster computes incoming damage for a combat state.
type Forecaster struct {
	table *cards.Table
}

// NewForecaster creates a forecaster. The table supplies end-of-turn damage
// for cards left in hand; a nil table ignores them.
func NewForecaster(table *cards.Table) *Forecaster {
	return &Forecaster{table: table}
}

// Forecast returns the damage the player is expected to take before their
// next turn, net of current block. Negative values mean the player is over-blocked.
func (f *Forecaster) Forecast(st *state.CombatState) int {
	p := &st.Player
	incoming := -p.Block
	if p.Block == 0 && st.HasRelic(state.RelicOrichalcum) {
		incoming -= orichalcumBlock
	}
	incoming -= p.Powers.Amount(powers.PlatedArmor)
	incoming -= p.Powers.Amount(powers.Metallicize)

	for i := range st.Monsters {
		m := &st.Monsters[i]
		if !m.Alive() || !m.Attacking() {
			continue
		}
		incoming += f.mitigate(st, f.PerHit(st, m)) * m.MoveHits
	}

	for _, c := range st.Hand {
		if def, ok := f.table.Lookup(c.Name); ok {
			incoming += def.EndTurnDamage
		}
	}
	incoming += p.Powers.Amount(powers.Constricted)
	incoming += st.PendingDamage
	return incoming
}

// PerHit returns the unmitigated damage of one hit of the monster's attack.
// Monsters with a known base damage are recomputed so strength and weak
// changes made this turn are reflected.
func (f *Forecaster) PerHit(st *state.CombatState, m *state.Monster) int {
	if m.MoveBaseDamage <= 0 {
		return m.MoveAdjustedDamage
	}
	dmg := float64(m.MoveBaseDamage + m.Powers.Amount(powers.Strength))
	if dmg < 0 {
		return 0
	}
	if m.Powers.Amount(powers.Weakened) > 0 {
		dmg = math.Floor(dmg * monsterWeakMultiplier)
	}
	if st.Player.Powers.Amount(powers.Vulnerable) > 0 {
		if st.HasRelic(state.RelicOddMushroom) {
			dmg = math.Floor(dmg * oddMushroomMultiplier)
		} else {
			dmg = math.Floor(dmg * vulnerableMultiplier)
		}
	}
	return int(dmg)
}

func (f *Forecaster) mitigate(st *state.CombatState, dmg int) int {
	if dmg <= 0 {
		return 0
	}
	p := &st.Player
	if p.Powers.Amount(powers.IntangiblePlayer) > 0 || p.Powers.Amount(powers.Intangible) > 0 {
		dmg = 1
	}
	if st.HasRelic(state.RelicTorii) && dmg <= toriiThreshold {
		dmg = max(1, dmg/2)
	}
	if st.HasRelic(state.RelicTungstenRod) {
		dmg--
	}
	return max(0, dmg)
}
