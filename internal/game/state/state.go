package state

import (
	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
)

// NoTarget is the target index of untargeted plays.
const NoTarget = -1

// Room types that raise the stakes of a fight.
const (
	RoomMonster = "MonsterRoom"
	RoomElite   = "MonsterRoomElite"
	RoomBoss    = "MonsterRoomBoss"
)

// Player holds the player's combat stats.
type Player struct {
	CurrentHP int
	MaxHP     int
	Block     int
	Energy    int
	Powers    powers.Set
}

// Monster is a single enemy and the forecast of its next move.
type Monster struct {
	Name               string
	ID                 string
	CurrentHP          int
	MaxHP              int
	Block              int
	Powers             powers.Set
	Gone               bool
	HalfDead           bool
	Intent             string
	MoveBaseDamage     int
	MoveAdjustedDamage int
	MoveHits           int
}

// Alive reports whether the monster can still act or be targeted.
func (m *Monster) Alive() bool {
	return m.CurrentHP > 0 && !m.Gone && !m.HalfDead
}

// Attacking reports whether the monster intends to deal damage.
func (m *Monster) Attacking() bool {
	return m.MoveAdjustedDamage > 0 && m.MoveHits > 0
}

// PunishesSkills reports whether the monster grows stronger when skills are played.
func (m *Monster) PunishesSkills() bool {
	return m.Name == "Gremlin Nob" || m.ID == "GremlinNob" || m.Powers.Has(powers.Enrage)
}

// StopAttacking clears the monster's damage forecast.
func (m *Monster) StopAttacking() {
	m.MoveBaseDamage = 0
	m.MoveAdjustedDamage = 0
}

// Relic is a permanent player modifier.
type Relic struct {
	ID      string
	Name    string
	Counter int
}

// CombatState is the unit of simulation. Use Clone before mutating a state
// that other branches can observe.
type CombatState struct {
	Player   Player
	Monsters []Monster
	Relics   []Relic

	Hand        []cards.Card
	DrawPile    []cards.Card
	DiscardPile []cards.Card
	ExhaustPile []cards.Card
	Played      []cards.Card

	Turn     int
	RoomType string

	CardsDrawn    int
	DamageDealt   int
	PendingDamage int
	EnergySpent   int
	Kills         map[string]int
	Sequence      int
}

// Clone returns a deep copy of the state.
func (s *CombatState) Clone() *CombatState {
	cp := *s
	cp.Player.Powers = s.Player.Powers.Clone()
	cp.Monsters = make([]Monster, len(s.Monsters))
	for i := range s.Monsters {
		cp.Monsters[i] = s.Monsters[i]
		cp.Monsters[i].Powers = s.Monsters[i].Powers.Clone()
	}
	cp.Relics = clonePile(s.Relics)
	cp.Hand = clonePile(s.Hand)
	cp.DrawPile = clonePile(s.DrawPile)
	cp.DiscardPile = clonePile(s.DiscardPile)
	cp.ExhaustPile = clonePile(s.ExhaustPile)
	cp.Played = clonePile(s.Played)
	if s.Kills != nil {
		cp.Kills = make(map[string]int, len(s.Kills))
		for k, v := range s.Kills {
			cp.Kills[k] = v
		}
	}
	return &cp
}

func clonePile[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Monster returns the monster at index i, or nil if out of range.
func (s *CombatState) Monster(i int) *Monster {
	if i < 0 || i >= len(s.Monsters) {
		return nil
	}
	return &s.Monsters[i]
}

// LivingMonsters returns the indexes of monsters that are alive.
func (s *CombatState) LivingMonsters() []int {
	var idx []int
	for i := range s.Monsters {
		if s.Monsters[i].Alive() {
			idx = append(idx, i)
		}
	}
	return idx
}

// AllMonstersDead reports whether no monster remains alive.
func (s *CombatState) AllMonstersDead() bool {
	for i := range s.Monsters {
		if s.Monsters[i].Alive() {
			return false
		}
	}
	return true
}

// HasRelic returns true if the player owns the relic.
func (s *CombatState) HasRelic(id string) bool {
	return s.relicIndex(id) >= 0
}

// RelicCounter returns the relic's counter, or -1 if the relic is not owned.
func (s *CombatState) RelicCounter(id string) int {
	if i := s.relicIndex(id); i >= 0 {
		return s.Relics[i].Counter
	}
	return -1
}

// SetRelicCounter updates the relic's counter if it is owned.
func (s *CombatState) SetRelicCounter(id string, counter int) {
	if i := s.relicIndex(id); i >= 0 {
		s.Relics[i].Counter = counter
	}
}

func (s *CombatState) relicIndex(id string) int {
	for i := range s.Relics {
		if s.Relics[i].ID == id || s.Relics[i].Name == id {
			return i
		}
	}
	return -1
}

// CardCount returns the number of cards across the four piles.
func (s *CombatState) CardCount() int {
	return len(s.Hand) + len(s.DrawPile) + len(s.DiscardPile) + len(s.ExhaustPile)
}

// RecordKill credits a killing blow to the named card.
func (s *CombatState) RecordKill(card string) {
	if s.Kills == nil {
		s.Kills = make(map[string]int)
	}
	s.Kills[card]++
}

// PlayedCount returns how many cards of the given type were played this branch.
func (s *CombatState) PlayedCount(t cards.CardType) int {
	n := 0
	for _, c := range s.Played {
		if c.Type == t {
			n++
		}
	}
	return n
}
