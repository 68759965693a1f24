// Package snapshot converts CommunicationMod game state JSON into combat states.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
)

var (
	// ErrNotInCombat is returned for snapshots taken outside a fight.
	ErrNotInCombat = errors.New("snapshot is not in combat")
	// ErrMalformedSnapshot is returned when the JSON cannot be read.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

type message struct {
	GameState         *gameState `json:"game_state"`
	AvailableCommands []string   `json:"available_commands"`
	InGame            bool       `json:"in_game"`
}

type gameState struct {
	RoomPhase   string       `json:"room_phase"`
	RoomType    string       `json:"room_type"`
	Relics      []relicJSON  `json:"relics"`
	CombatState *combatState `json:"combat_state"`
}

// bareCombat is a combat_state object with the run's relics beside it.
type bareCombat struct {
	combatState
	Player   *playerJSON `json:"player"`
	Relics   []relicJSON `json:"relics"`
	RoomType string      `json:"room_type"`
}

type combatState struct {
	Player      playerJSON    `json:"player"`
	Monsters    []monsterJSON `json:"monsters"`
	Hand        []cardJSON    `json:"hand"`
	DrawPile    []cardJSON    `json:"draw_pile"`
	DiscardPile []cardJSON    `json:"discard_pile"`
	ExhaustPile []cardJSON    `json:"exhaust_pile"`
	Turn        int           `json:"turn"`
}

type playerJSON struct {
	CurrentHP int         `json:"current_hp"`
	MaxHP     int         `json:"max_hp"`
	Block     int         `json:"block"`
	Energy    int         `json:"energy"`
	Powers    []powerJSON `json:"powers"`
}

type monsterJSON struct {
	Name               string      `json:"name"`
	ID                 string      `json:"id"`
	CurrentHP          int         `json:"current_hp"`
	MaxHP              int         `json:"max_hp"`
	Block              int         `json:"block"`
	Intent             string      `json:"intent"`
	HalfDead           bool        `json:"half_dead"`
	IsGone             bool        `json:"is_gone"`
	MoveBaseDamage     int         `json:"move_base_damage"`
	MoveAdjustedDamage int         `json:"move_adjusted_damage"`
	MoveHits           int         `json:"move_hits"`
	Powers             []powerJSON `json:"powers"`
}

type powerJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type relicJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Counter int    `json:"counter"`
}

type cardJSON struct {
	UUID       string `json:"uuid"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Cost       int    `json:"cost"`
	Upgrades   int    `json:"upgrades"`
	HasTarget  bool   `json:"has_target"`
	IsPlayable bool   `json:"is_playable"`
	Exhausts   bool   `json:"exhausts"`
	Ethereal   bool   `json:"ethereal"`
}

// Decode reads one snapshot. The full CommunicationMod message, a bare
// game_state object and a bare combat_state object are accepted.
func Decode(r io.Reader) (*state.CombatState, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	gs := msg.GameState
	if gs == nil {
		gs = &gameState{}
		if err := json.Unmarshal(raw, gs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
	}
	if gs.CombatState == nil && gs.RoomPhase == "" {
		var bc bareCombat
		if err := json.Unmarshal(raw, &bc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		if bc.Player != nil {
			bc.combatState.Player = *bc.Player
			gs = &gameState{RoomType: bc.RoomType, Relics: bc.Relics, CombatState: &bc.combatState}
		}
	}
	if gs.CombatState == nil || (gs.RoomPhase != "" && gs.RoomPhase != "COMBAT") {
		return nil, ErrNotInCombat
	}
	return gs.toState(), nil
}

func (gs *gameState) toState() *state.CombatState {
	cs := gs.CombatState
	st := &state.CombatState{
		Player: state.Player{
			CurrentHP: cs.Player.CurrentHP,
			MaxHP:     cs.Player.MaxHP,
			Block:     cs.Player.Block,
			Energy:    cs.Player.Energy,
			Powers:    toPowers(cs.Player.Powers),
		},
		Hand:        toCards(cs.Hand),
		DrawPile:    toCards(cs.DrawPile),
		DiscardPile: toCards(cs.DiscardPile),
		ExhaustPile: toCards(cs.ExhaustPile),
		Turn:        cs.Turn,
		RoomType:    gs.RoomType,
	}
	for _, m := range cs.Monsters {
		st.Monsters = append(st.Monsters, state.Monster{
			Name:               m.Name,
			ID:                 m.ID,
			CurrentHP:          m.CurrentHP,
			MaxHP:              m.MaxHP,
			Block:              m.Block,
			Powers:             toPowers(m.Powers),
			Gone:               m.IsGone,
			HalfDead:           m.HalfDead,
			Intent:             m.Intent,
			MoveBaseDamage:     m.MoveBaseDamage,
			MoveAdjustedDamage: m.MoveAdjustedDamage,
			MoveHits:           m.MoveHits,
		})
	}
	for _, r := range gs.Relics {
		st.Relics = append(st.Relics, state.Relic{ID: r.ID, Name: r.Name, Counter: r.Counter})
	}
	return st
}

// noAmount is what the game reports for powers without a stack count, e.g. Split.
const noAmount = -1

func toPowers(in []powerJSON) powers.Set {
	var set powers.Set
	for _, p := range in {
		id := p.ID
		if id == "" {
			id = p.Name
		}
		amount := p.Amount
		if amount == noAmount && !powers.IsSigned(id) {
			amount = 1
		}
		set.Set(id, amount)
	}
	return set
}

func toCards(in []cardJSON) []cards.Card {
	if len(in) == 0 {
		return nil
	}
	out := make([]cards.Card, 0, len(in))
	for _, c := range in {
		out = append(out, cards.Card{
			UUID:       c.UUID,
			ID:         c.ID,
			Name:       c.Name,
			Type:       cards.CardType(c.Type),
			Cost:       c.Cost,
			Upgrades:   c.Upgrades,
			HasTarget:  c.HasTarget,
			IsPlayable: c.IsPlayable,
			Exhausts:   c.Exhausts,
			Ethereal:   c.Ethereal,
		})
	}
	return out
}
