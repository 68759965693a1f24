package effects

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/rules"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"github.com/spirecomm/ironclad-planner/internal/game/targeting"
	"go.uber.org/zap"
)

// maxPlayDepth bounds recursive plays from play_top effects.
const maxPlayDepth = 8

// cardNamespace seeds the ids of cards created during simulation.
var cardNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ironclad-planner/cards"))

// Resolver turns a card play into a new combat state.
// It is safe for concurrent use; it never mutates the states it is given.
type Resolver struct {
	table     *cards.Table
	selector  *targeting.Selector
	hooks     *rules.Registry[*resolution]
	modifiers *ModifierChain
	logger    *zap.Logger
}

// NewResolver creates a resolver over the given card table.
// A nil selector uses the default target priorities.
func NewResolver(table *cards.Table, selector *targeting.Selector, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if selector == nil {
		selector = targeting.NewSelector(nil)
	}
	r := &Resolver{
		table:     table,
		selector:  selector,
		hooks:     rules.NewRegistry[*resolution](),
		modifiers: NewModifierChain(logger),
		logger:    logger,
	}
	registerMonsterHooks(r.hooks)
	registerPlayerHooks(r.hooks)
	return r
}

// Table returns the card table the resolver reads.
func (r *Resolver) Table() *cards.Table {
	return r.table
}

// Modifiers returns the damage modifier chain applied to every hit.
func (r *Resolver) Modifiers() *ModifierChain {
	return r.modifiers
}

// EffectiveCost returns the energy playing the card would cost in st.
func (r *Resolver) EffectiveCost(st *state.CombatState, card cards.Card) int {
	if card.Type == cards.TypeSkill && st.Player.Powers.Has(powers.Corruption) {
		return 0
	}
	if card.IsX() {
		return st.Player.Energy
	}
	return card.Cost
}

// NeedsTarget reports whether the card must be played at a monster.
func (r *Resolver) NeedsTarget(card cards.Card) bool {
	if card.HasTarget {
		return true
	}
	def, ok := r.table.Lookup(card.Name)
	return ok && def.Target
}

// Resolve plays the card with the given uuid from hand at target and returns
// the resulting state. The input state is never modified. Rejections return
// the input state with ErrNotPlayable or ErrInvalidTarget; data errors return
// ErrMalformedCardData and are logged.
func (r *Resolver) Resolve(st *state.CombatState, cardUUID string, target int) (*state.CombatState, error) {
	idx := cards.Find(st.Hand, cardUUID)
	if idx < 0 {
		return st, fmt.Errorf("%w: card %s is not in hand", ErrNotPlayable, cardUUID)
	}
	card := st.Hand[idx]

	def, ok := r.table.Lookup(card.Name)
	if !ok {
		err := &cards.ValidationError{Card: card.Name, Reason: "no definition in card table"}
		r.logMalformed(st, card, target, err)
		return st, err
	}
	if err := def.Validate(); err != nil {
		r.logMalformed(st, card, target, err)
		return st, err
	}
	if def.Unplayable || card.Cost == cards.CostUnplayable {
		return st, fmt.Errorf("%w: %s is unplayable", ErrNotPlayable, card.Name)
	}

	cost := r.EffectiveCost(st, card)
	if cost > st.Player.Energy {
		return st, fmt.Errorf("%w: %s costs %d with %d energy", ErrNotPlayable, card.Name, cost, st.Player.Energy)
	}

	if def.Target || card.HasTarget {
		if err := targeting.Validate(st, target); err != nil {
			return st, fmt.Errorf("%s: %w", card.Name, err)
		}
	} else {
		target = state.NoTarget
	}

	next := st.Clone()
	next.Hand = cards.Remove(next.Hand, idx)
	next.Played = append(next.Played, card)

	res := newResolution(r, next, card, def, target, 0)
	if card.IsX() {
		res.x = cost
	}
	if err := res.run(); err != nil {
		r.logMalformed(st, card, target, err)
		return st, err
	}

	next.Player.Energy -= cost
	next.EnergySpent += cost
	res.route()

	r.logger.Debug("resolved card",
		zap.String("card", card.Name),
		zap.String("card_uuid", card.UUID),
		zap.Int("target", target),
		zap.Int("cost", cost),
		zap.Int("energy", next.Player.Energy),
	)
	return next, nil
}

func (r *Resolver) logMalformed(st *state.CombatState, card cards.Card, target int, err error) {
	if !errors.Is(err, ErrMalformedCardData) {
		return
	}
	r.logger.Error("malformed card data",
		zap.String("card", card.Name),
		zap.String("card_uuid", card.UUID),
		zap.Int("target", target),
		zap.String("state_checksum", st.Checksum()),
		zap.String("state", st.Summary()),
		zap.Error(err),
	)
}

// newCardID derives a deterministic id for a card created from parent.
func newCardID(st *state.CombatState, parent string) string {
	st.Sequence++
	return uuid.NewSHA1(cardNamespace, []byte(fmt.Sprintf("%s|%d", parent, st.Sequence))).String()
}
