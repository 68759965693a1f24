// Package eval scores combat states for the planner.
package eval

import (
	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/forecast"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
)

// Sentinel scores. They are finite so scores stay totally ordered.
const (
	DeadScore = -1e9
	WinScore  = 1e9
)

// Evaluator scores states with a fixed set of weights.
type Evaluator struct {
	weights    Weights
	forecaster *forecast.Forecaster
	table      *cards.Table

	killReward map[string]bool
	engine     map[string]bool
}

// NewEvaluator creates an evaluator. The table tells exhausting cards apart
// from cards exhausted by other effects.
func NewEvaluator(weights Weights, forecaster *forecast.Forecaster, table *cards.Table) *Evaluator {
	if forecaster == nil {
		forecaster = forecast.NewForecaster(table)
	}
	return &Evaluator{
		weights:    weights,
		forecaster: forecaster,
		table:      table,
		killReward: toSet(weights.KillRewardCards),
		engine:     toSet(weights.EnginePowers),
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Weights returns the evaluator's weights.
func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Forecaster returns the forecaster the evaluator uses.
func (e *Evaluator) Forecaster() *forecast.Forecaster {
	return e.forecaster
}

// Evaluate scores st. Higher is better for the player.
func (e *Evaluator) Evaluate(st *state.CombatState) float64 {
	if st.Player.CurrentHP <= 0 {
		return DeadScore
	}
	if st.AllMonstersDead() {
		return WinScore
	}

	incoming := e.forecaster.Forecast(st)
	hpAfter := st.Player.CurrentHP - max(incoming, 0)
	if hpAfter <= 0 {
		return DeadScore
	}

	w := e.weights
	score := 0.0
	punished := false

	p := &st.Player
	score += w.Strength * float64(p.Powers.Amount(powers.Strength))
	score += w.Dexterity * float64(p.Powers.Amount(powers.Dexterity))
	score += w.PlayerVulnerable * float64(p.Powers.Amount(powers.Vulnerable))
	score += w.PlayerWeak * float64(p.Powers.Amount(powers.Weakened))
	score += w.PlayerFrail * float64(p.Powers.Amount(powers.Frail))

	for i := range st.Monsters {
		m := &st.Monsters[i]
		if m.CurrentHP <= 0 || m.Gone {
			score += w.Kill
			continue
		}
		if m.PunishesSkills() {
			punished = true
		}
		score += w.MonsterStrength * float64(m.Powers.Amount(powers.Strength))
		score += w.MonsterWeak * float64(m.Powers.Amount(powers.Weakened))
		score += w.MonsterVulnerable * float64(m.Powers.Amount(powers.Vulnerable))
	}

	score += w.DamageDealt * float64(st.DamageDealt)
	score += w.HP * float64(hpAfter)
	score += w.CardsDrawn * float64(st.CardsDrawn)

	if !punished {
		switch {
		case incoming > w.IncomingThreshold:
			score += w.Incoming * float64(incoming)
		case incoming < -w.OverBlockAllowance:
			score += w.OverBlock * float64(-incoming-w.OverBlockAllowance)
		}
	} else {
		score += w.PunishedSkill * float64(st.PlayedCount(cards.TypeSkill))
	}

	score += e.exhaustScore(st)
	score += w.JunkInDeck * float64(junkCount(st))
	score += e.engineScore(st)
	return score
}

func (e *Evaluator) exhaustScore(st *state.CombatState) float64 {
	w := e.weights
	score := 0.0
	for _, c := range st.ExhaustPile {
		switch {
		case c.IsJunk():
			score += w.ExhaustedJunk
		case e.killReward[c.Name]:
			if st.Kills[c.Name] > 0 {
				score += w.KillRewardBonus
			} else {
				score += w.KillRewardPenalty
			}
		case c.Type == cards.TypeAttack || c.Type == cards.TypePower:
			if !e.exhaustsItself(c) {
				score += w.ExhaustedValuable
			}
		}
	}
	return score
}

func (e *Evaluator) exhaustsItself(c cards.Card) bool {
	if c.Exhausts {
		return true
	}
	def, ok := e.table.Lookup(c.Name)
	return ok && def.Exhaust
}

func (e *Evaluator) engineScore(st *state.CombatState) float64 {
	n := 0
	for _, id := range st.Player.Powers.IDs() {
		if e.engine[id] {
			n++
		}
	}
	score := e.weights.EnginePower * float64(n)
	if st.RoomType == state.RoomElite || st.RoomType == state.RoomBoss {
		score *= e.weights.HighStakesMultiplier
	}
	return score
}

func junkCount(st *state.CombatState) int {
	n := 0
	for _, pile := range [][]cards.Card{st.Hand, st.DrawPile, st.DiscardPile} {
		for _, c := range pile {
			if c.IsJunk() {
				n++
			}
		}
	}
	return n
}
