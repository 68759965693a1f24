package snapshot

import (
	"strings"
	"testing"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const combatMessage = `{
  "available_commands": ["play", "end", "key", "click", "wait", "state"],
  "ready_for_command": true,
  "in_game": true,
  "game_state": {
    "room_phase": "COMBAT",
    "room_type": "MonsterRoomElite",
    "floor": 6,
    "relics": [{"id": "Burning Blood", "name": "Burning Blood", "counter": -1},
               {"id": "Pen Nib", "name": "Pen Nib", "counter": 7}],
    "combat_state": {
      "turn": 2,
      "player": {
        "current_hp": 61, "max_hp": 80, "block": 3, "energy": 3,
        "powers": [{"id": "Strength", "name": "Strength", "amount": 2}]
      },
      "monsters": [{
        "name": "Gremlin Nob", "id": "GremlinNob",
        "current_hp": 70, "max_hp": 82, "block": 0,
        "intent": "ATTACK", "half_dead": false, "is_gone": false,
        "move_base_damage": 14, "move_adjusted_damage": 14, "move_hits": 1,
        "powers": [{"id": "Anger", "name": "Enrage", "amount": 2}]
      }],
      "hand": [
        {"uuid": "a1", "id": "Strike_R", "name": "Strike", "type": "ATTACK", "cost": 1,
         "upgrades": 0, "has_target": true, "is_playable": true, "exhausts": false, "ethereal": false},
        {"uuid": "a2", "id": "Bash", "name": "Bash+", "type": "ATTACK", "cost": 2,
         "upgrades": 1, "has_target": true, "is_playable": true}
      ],
      "draw_pile": [{"uuid": "d1", "id": "Defend_R", "name": "Defend", "type": "SKILL", "cost": 1}],
      "discard_pile": [],
      "exhaust_pile": [{"uuid": "x1", "id": "Slimed", "name": "Slimed", "type": "STATUS", "cost": 1, "exhausts": true}]
    }
  }
}`

func TestDecode_FullMessage(t *testing.T) {
	st, err := Decode(strings.NewReader(combatMessage))
	require.NoError(t, err)

	assert.Equal(t, 61, st.Player.CurrentHP)
	assert.Equal(t, 80, st.Player.MaxHP)
	assert.Equal(t, 3, st.Player.Block)
	assert.Equal(t, 3, st.Player.Energy)
	assert.Equal(t, 2, st.Player.Powers.Amount(powers.Strength))
	assert.Equal(t, 2, st.Turn)
	assert.Equal(t, "MonsterRoomElite", st.RoomType)

	require.Len(t, st.Monsters, 1)
	m := st.Monsters[0]
	assert.Equal(t, "Gremlin Nob", m.Name)
	assert.Equal(t, 14, m.MoveAdjustedDamage)
	assert.True(t, m.Alive())
	assert.True(t, m.PunishesSkills())

	require.Len(t, st.Hand, 2)
	assert.Equal(t, "a2", st.Hand[1].UUID)
	assert.Equal(t, "Bash+", st.Hand[1].Name)
	assert.Equal(t, cards.TypeAttack, st.Hand[1].Type)
	assert.Equal(t, 1, st.Hand[1].Upgrades)
	assert.True(t, st.Hand[1].HasTarget)
	assert.Len(t, st.DrawPile, 1)
	assert.Empty(t, st.DiscardPile)
	require.Len(t, st.ExhaustPile, 1)
	assert.True(t, st.ExhaustPile[0].IsJunk())

	require.Len(t, st.Relics, 2)
	assert.Equal(t, 7, st.Relics[1].Counter)
}

func TestDecode_BareGameState(t *testing.T) {
	in := `{"room_phase": "COMBAT", "combat_state": {
	  "player": {"current_hp": 10, "max_hp": 80, "energy": 1},
	  "monsters": [{"name": "Cultist", "current_hp": 0, "max_hp": 50, "is_gone": true}],
	  "hand": []}}`

	st, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 10, st.Player.CurrentHP)
	require.Len(t, st.Monsters, 1)
	assert.False(t, st.Monsters[0].Alive())
	assert.Empty(t, st.Hand)
}

func TestDecode_BareCombatState(t *testing.T) {
	in := `{"turn": 1, "room_type": "MonsterRoomBoss",
	  "relics": [{"id": "Akabeko", "name": "Akabeko", "counter": -1}],
	  "player": {"current_hp": 50, "max_hp": 80, "energy": 3},
	  "monsters": [{"name": "Hexaghost", "current_hp": 250, "max_hp": 250}],
	  "hand": [{"uuid": "s1", "name": "Strike", "type": "ATTACK", "cost": 1, "is_playable": true}]}`

	st, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 50, st.Player.CurrentHP)
	assert.Equal(t, 1, st.Turn)
	assert.Equal(t, "MonsterRoomBoss", st.RoomType)
	require.Len(t, st.Relics, 1)
	assert.Equal(t, "Akabeko", st.Relics[0].ID)
	require.Len(t, st.Hand, 1)
	assert.True(t, st.Hand[0].IsPlayable)
}

func TestDecode_PowerNameFallback(t *testing.T) {
	in := `{"room_phase": "COMBAT", "combat_state": {
	  "player": {"current_hp": 10, "max_hp": 80, "powers": [{"name": "Strength", "amount": 3}]}}}`

	st, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, st.Player.Powers.Amount(powers.Strength))
}

func TestDecode_PowersWithoutAmount(t *testing.T) {
	in := `{"room_phase": "COMBAT", "combat_state": {
	  "player": {"current_hp": 60, "max_hp": 80, "energy": 3,
	    "powers": [{"id": "Barricade", "amount": -1}, {"id": "Strength", "amount": -1}]},
	  "monsters": [{"name": "Acid Slime (L)", "id": "AcidSlime_L", "current_hp": 65, "max_hp": 65,
	    "powers": [{"id": "Split", "name": "Split", "amount": -1}]}]}}`

	st, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, st.Monsters, 1)
	assert.True(t, st.Monsters[0].Powers.Has(powers.Split))
	assert.True(t, st.Player.Powers.Has(powers.Barricade))
	assert.Equal(t, -1, st.Player.Powers.Amount(powers.Strength))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"map screen", `{"game_state": {"room_phase": "COMPLETE", "room_type": "MonsterRoom"}}`, ErrNotInCombat},
		{"event room", `{"game_state": {"room_phase": "EVENT", "combat_state": {}}}`, ErrNotInCombat},
		{"main menu", `{"available_commands": ["start"], "in_game": false}`, ErrNotInCombat},
		{"truncated", `{"game_state": {"room_phase": "COMB`, ErrMalformedSnapshot},
		{"wrong type", `{"room_phase": "COMBAT", "combat_state": {"turn": "two"}}`, ErrMalformedSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
