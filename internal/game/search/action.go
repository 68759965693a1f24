package search

import (
	"fmt"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
)

// Action is the single move handed back to the game: play a card or end the turn.
type Action struct {
	EndTurn bool
	Card    cards.Card
	Target  int
}

// EndTurnAction returns the end-turn action.
func EndTurnAction() Action {
	return Action{EndTurn: true, Target: state.NoTarget}
}

// PlayCardAction returns an action playing card at target.
func PlayCardAction(card cards.Card, target int) Action {
	return Action{Card: card, Target: target}
}

func (a Action) String() string {
	if a.EndTurn {
		return "end turn"
	}
	if a.Target == state.NoTarget {
		return fmt.Sprintf("play %s", a.Card.Name)
	}
	return fmt.Sprintf("play %s -> %d", a.Card.Name, a.Target)
}

// Decision is the outcome of one search.
type Decision struct {
	Action Action
	// Line lists the card names of the best sequence, first card first.
	Line []string
	// State is the simulated state at the end of the best sequence.
	State *state.CombatState
	Score float64
	// PassScore is the score of ending the turn without playing.
	PassScore float64
	Nodes     int64
	CacheHits int64
	Truncated bool
}
