package gametest

import (
	"testing"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
)

// Table returns the embedded card table, failing the test if it does not load.
func Table(t testing.TB) *cards.Table {
	t.Helper()
	table, err := cards.Default()
	if err != nil {
		t.Fatalf("failed to load card table: %v", err)
	}
	return table
}

// Attack creates a targeted attack card instance.
func Attack(uuid, name string, cost int) cards.Card {
	return cards.Card{UUID: uuid, ID: name, Name: name, Type: cards.TypeAttack, Cost: cost, HasTarget: true, IsPlayable: true}
}

// AoeAttack creates an untargeted attack card instance.
func AoeAttack(uuid, name string, cost int) cards.Card {
	return cards.Card{UUID: uuid, ID: name, Name: name, Type: cards.TypeAttack, Cost: cost, IsPlayable: true}
}

// Skill creates an untargeted skill card instance.
func Skill(uuid, name string, cost int) cards.Card {
	return cards.Card{UUID: uuid, ID: name, Name: name, Type: cards.TypeSkill, Cost: cost, IsPlayable: true}
}

// Power creates a power card instance.
func Power(uuid, name string, cost int) cards.Card {
	return cards.Card{UUID: uuid, ID: name, Name: name, Type: cards.TypePower, Cost: cost, IsPlayable: true}
}

// Status creates an unplayable status card instance.
func Status(uuid, name string) cards.Card {
	return cards.Card{UUID: uuid, ID: name, Name: name, Type: cards.TypeStatus, Cost: cards.CostUnplayable}
}

// Curse creates an unplayable curse card instance.
func Curse(uuid, name string) cards.Card {
	return cards.Card{UUID: uuid, ID: name, Name: name, Type: cards.TypeCurse, Cost: cards.CostUnplayable}
}

// MonsterSpec defines the properties of a test monster.
type MonsterSpec struct {
	Name   string
	HP     int
	MaxHP  int
	Block  int
	Damage int
	Hits   int
	Powers []powers.Power
}

// Builder assembles combat states for tests.
type Builder struct {
	st *state.CombatState
}

// NewState starts a state with an 80/80 HP player holding 3 energy on turn 1.
func NewState() *Builder {
	return &Builder{st: &state.CombatState{
		Player:   state.Player{CurrentHP: 80, MaxHP: 80, Energy: 3},
		Turn:     1,
		RoomType: state.RoomMonster,
	}}
}

func (b *Builder) Energy(n int) *Builder {
	b.st.Player.Energy = n
	return b
}

func (b *Builder) HP(current, max int) *Builder {
	b.st.Player.CurrentHP = current
	b.st.Player.MaxHP = max
	return b
}

func (b *Builder) Block(n int) *Builder {
	b.st.Player.Block = n
	return b
}

func (b *Builder) PlayerPower(id string, amount int) *Builder {
	b.st.Player.Powers.Set(id, amount)
	return b
}

func (b *Builder) Turn(n int) *Builder {
	b.st.Turn = n
	return b
}

func (b *Builder) Room(room string) *Builder {
	b.st.RoomType = room
	return b
}

func (b *Builder) Relic(id string, counter int) *Builder {
	b.st.Relics = append(b.st.Relics, state.Relic{ID: id, Name: id, Counter: counter})
	return b
}

// Monster adds a monster. MaxHP defaults to HP and Hits to 1 when Damage is set.
func (b *Builder) Monster(m MonsterSpec) *Builder {
	maxHP := m.MaxHP
	if maxHP == 0 {
		maxHP = m.HP
	}
	hits := m.Hits
	if hits == 0 && m.Damage > 0 {
		hits = 1
	}
	b.st.Monsters = append(b.st.Monsters, state.Monster{
		Name:               m.Name,
		ID:                 m.Name,
		CurrentHP:          m.HP,
		MaxHP:              maxHP,
		Block:              m.Block,
		Powers:             powers.NewSet(m.Powers...),
		MoveAdjustedDamage: m.Damage,
		MoveHits:           hits,
	})
	return b
}

func (b *Builder) Hand(cs ...cards.Card) *Builder {
	b.st.Hand = append(b.st.Hand, cs...)
	return b
}

func (b *Builder) Draw(cs ...cards.Card) *Builder {
	b.st.DrawPile = append(b.st.DrawPile, cs...)
	return b
}

func (b *Builder) Discard(cs ...cards.Card) *Builder {
	b.st.DiscardPile = append(b.st.DiscardPile, cs...)
	return b
}

func (b *Builder) Exhausted(cs ...cards.Card) *Builder {
	b.st.ExhaustPile = append(b.st.ExhaustPile, cs...)
	return b
}

// Build returns the assembled state.
func (b *Builder) Build() *state.CombatState {
	return b.st
}
