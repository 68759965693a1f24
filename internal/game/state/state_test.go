package state

import (
	"testing"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *CombatState {
	return &CombatState{
		Player: Player{
			CurrentHP: 70,
			MaxHP:     80,
			Energy:    3,
			Powers:    powers.NewSet(powers.Power{ID: powers.Strength, Amount: 2}),
		},
		Monsters: []Monster{
			{Name: "Jaw Worm", CurrentHP: 40, MaxHP: 44, MoveAdjustedDamage: 11, MoveHits: 1,
				Powers: powers.NewSet(powers.Power{ID: powers.Vulnerable, Amount: 1})},
			{Name: "Louse", CurrentHP: 0, MaxHP: 12},
		},
		Relics: []Relic{{ID: RelicPenNib, Name: RelicPenNib, Counter: 4}},
		Hand: []cards.Card{
			{UUID: "s1", Name: "Strike", Type: cards.TypeAttack, Cost: 1},
			{UUID: "d1", Name: "Defend", Type: cards.TypeSkill, Cost: 1},
		},
		DrawPile:    []cards.Card{{UUID: "b1", Name: "Bash", Type: cards.TypeAttack, Cost: 2}},
		DiscardPile: []cards.Card{{UUID: "w1", Name: "Wound", Type: cards.TypeStatus, Cost: -2}},
		Turn:        2,
		RoomType:    RoomMonster,
	}
}

func TestCombatState_CloneIsIndependent(t *testing.T) {
	st := sampleState()
	st.RecordKill("Strike")
	cp := st.Clone()

	cp.Player.CurrentHP = 1
	cp.Player.Powers.Add(powers.Strength, 5)
	cp.Monsters[0].CurrentHP = -3
	cp.Monsters[0].Powers.Delete(powers.Vulnerable)
	cp.Hand[0].Name = "Changed"
	cp.Hand = cp.Hand[:1]
	cp.Relics[0].Counter = 9
	cp.Kills["Strike"] = 10

	assert.Equal(t, 70, st.Player.CurrentHP)
	assert.Equal(t, 2, st.Player.Powers.Amount(powers.Strength))
	assert.Equal(t, 40, st.Monsters[0].CurrentHP)
	assert.True(t, st.Monsters[0].Powers.Has(powers.Vulnerable))
	assert.Equal(t, "Strike", st.Hand[0].Name)
	assert.Len(t, st.Hand, 2)
	assert.Equal(t, 4, st.RelicCounter(RelicPenNib))
	assert.Equal(t, 1, st.Kills["Strike"])
}

func TestCombatState_ChecksumDeterministic(t *testing.T) {
	a := sampleState()
	b := sampleState()
	require.Equal(t, a.Checksum(), b.Checksum())
	assert.Equal(t, a.Checksum(), a.Clone().Checksum())

	b.Monsters[0].Block = 1
	assert.NotEqual(t, a.Checksum(), b.Checksum())

	c := sampleState()
	c.Hand[0], c.Hand[1] = c.Hand[1], c.Hand[0]
	assert.NotEqual(t, a.Checksum(), c.Checksum(), "pile order is significant")
}

func TestCombatState_Monsters(t *testing.T) {
	st := sampleState()
	assert.Equal(t, []int{0}, st.LivingMonsters())
	assert.False(t, st.AllMonstersDead())
	assert.True(t, st.Monsters[0].Attacking())
	assert.Nil(t, st.Monster(5))

	st.Monsters[0].HalfDead = true
	assert.True(t, st.AllMonstersDead())

	m := st.Monster(0)
	m.StopAttacking()
	assert.False(t, st.Monsters[0].Attacking())
}

func TestCombatState_Relics(t *testing.T) {
	st := sampleState()
	assert.True(t, st.HasRelic(RelicPenNib))
	assert.False(t, st.HasRelic(RelicTorii))
	assert.Equal(t, -1, st.RelicCounter(RelicTorii))

	st.SetRelicCounter(RelicPenNib, 9)
	assert.Equal(t, PenNibTrigger, st.RelicCounter(RelicPenNib))
}

func TestCombatState_Counts(t *testing.T) {
	st := sampleState()
	assert.Equal(t, 4, st.CardCount())

	st.Played = append(st.Played, st.Hand[0], st.Hand[1])
	assert.Equal(t, 1, st.PlayedCount(cards.TypeSkill))
	assert.Equal(t, 1, st.PlayedCount(cards.TypeAttack))
	assert.Contains(t, st.Summary(), "hp=70/80")
}
