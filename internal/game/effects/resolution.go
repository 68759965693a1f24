package effects

import (
	"math"
	"strings"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/rules"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"go.uber.org/zap"
)

const (
	weakMultiplier       = 0.75
	frailMultiplier      = 0.75
	vulnerableMultiplier = 1.5
	paperPhrogMultiplier = 1.75
	akabekoBonus         = 8
	maxHandSize          = 10
)

// resolution carries the working state of one card play.
type resolution struct {
	r      *Resolver
	st     *state.CombatState
	card   cards.Card
	def    cards.Definition
	target int
	depth  int

	x           int
	exhausted   int
	exhaustSelf bool
	penNib      bool
	akabeko     bool
	killed      map[int]bool
}

func newResolution(r *Resolver, st *state.CombatState, card cards.Card, def cards.Definition, target, depth int) *resolution {
	return &resolution{
		r:      r,
		st:     st,
		card:   card,
		def:    def,
		target: target,
		depth:  depth,
		killed: make(map[int]bool),
	}
}

// run applies the card. Damage effects resolve before block, and the rest
// follow in declared order.
func (res *resolution) run() error {
	res.triggerRelics()
	res.firePlayer(rules.EventCardPlayed, 0)

	passes := 1
	if res.card.Type == cards.TypeAttack && res.st.Player.Powers.Amount(powers.DoubleTap) > 0 {
		res.st.Player.Powers.Remove(powers.DoubleTap, 1)
		passes = 2
	}

	for pass := 0; pass < passes; pass++ {
		// Exhaust counts are per pass; a repeated Fiend Fire finds an empty hand.
		res.exhausted = 0
		for _, phase := range []cards.Phase{cards.PhaseDamage, cards.PhaseBlock, cards.PhaseSecondary} {
			if phase == cards.PhaseBlock {
				res.fireMonstersCardPlayed()
			}
			for _, e := range res.def.Effects {
				if e.Phase() != phase {
					continue
				}
				if err := res.apply(e, res.target); err != nil {
					return err
				}
			}
		}
	}

	if res.card.Type == cards.TypeSkill && res.st.Player.Powers.Has(powers.Corruption) {
		res.exhaustSelf = true
	}
	return nil
}

// route moves the played card to its destination pile.
// Powers leave play once resolved.
func (res *resolution) route() {
	switch {
	case res.card.Type == cards.TypePower:
	case res.card.Exhausts || res.def.Exhaust || res.exhaustSelf:
		res.exhaust(res.card)
	default:
		res.st.DiscardPile = append(res.st.DiscardPile, res.card)
	}
}

func (res *resolution) triggerRelics() {
	if res.card.Type != cards.TypeAttack {
		return
	}
	st := res.st
	if counter := st.RelicCounter(state.RelicPenNib); counter >= 0 {
		if counter >= state.PenNibTrigger {
			res.penNib = true
			st.SetRelicCounter(state.RelicPenNib, 0)
		} else {
			st.SetRelicCounter(state.RelicPenNib, counter+1)
		}
	}
	if st.HasRelic(state.RelicAkabeko) && st.Turn <= 1 && st.PlayedCount(cards.TypeAttack) == 1 {
		res.akabeko = true
	}
}

func (res *resolution) apply(e cards.Effect, target int) error {
	st := res.st
	switch e.Kind {
	case cards.KindDamage:
		return res.attack(target, e.N()+e.PerStrike*res.strikeCount(), e.StrengthMultiplier)
	case cards.KindBlockDamage:
		return res.attack(target, st.Player.Block, 0)
	case cards.KindBlock:
		res.gainBlock(e.N())
	case cards.KindApplyPower:
		return res.applyPower(e, target)
	case cards.KindMultiplyPower:
		amount := st.Player.Powers.Amount(e.Power)
		st.Player.Powers.Set(e.Power, amount * *e.Factor)
	case cards.KindDraw:
		res.draw(e.N())
	case cards.KindGainEnergy:
		st.Player.Energy += e.N()
	case cards.KindLoseHP:
		res.loseHP(e.N())
	case cards.KindHeal:
		st.Player.CurrentHP = min(st.Player.MaxHP, st.Player.CurrentHP+e.N())
	case cards.KindGainMaxHP:
		st.Player.MaxHP += e.N()
		st.Player.CurrentHP += e.N()
	case cards.KindQueueDamage:
		st.PendingDamage += e.N()
	case cards.KindExhaust:
		res.exhaustScope(e)
	case cards.KindCopyCard:
		res.copyCard(e.N())
	case cards.KindAddCard:
		res.addCard(e.Card, e.N(), e.Pile)
	case cards.KindPlayTop:
		return res.playTop(e.Pile)
	case cards.KindMultiplyBlock:
		st.Player.Block *= *e.Factor
	case cards.KindAoe:
		for _, idx := range st.LivingMonsters() {
			for _, sub := range e.Then {
				if !st.Monsters[idx].Alive() {
					break
				}
				if err := res.apply(sub, idx); err != nil {
					return err
				}
			}
		}
	case cards.KindRepeat:
		for i := 0; i < res.times(e); i++ {
			for _, sub := range e.Then {
				if err := res.apply(sub, target); err != nil {
					return err
				}
			}
		}
	case cards.KindConditional:
		if !res.holds(e.When, target) {
			return nil
		}
		for _, sub := range e.Then {
			if err := res.apply(sub, target); err != nil {
				return err
			}
		}
	default:
		return &cards.ValidationError{Card: res.card.Name, Reason: "unrecognized effect kind " + string(e.Kind)}
	}
	return nil
}

func (res *resolution) times(e cards.Effect) int {
	switch e.TimesFrom {
	case cards.TimesFromEnergy:
		return res.x
	case cards.TimesFromExhausted:
		return res.exhausted
	}
	if e.Times == nil {
		return 0
	}
	return *e.Times
}

func (res *resolution) holds(p cards.Predicate, target int) bool {
	m := res.st.Monster(target)
	switch p {
	case cards.WhenTargetVulnerable:
		return m != nil && m.Powers.Amount(powers.Vulnerable) > 0
	case cards.WhenTargetAttacking:
		return m != nil && m.Alive() && m.Attacking()
	case cards.WhenTargetKilled:
		return res.killed[target]
	case cards.WhenStrengthPositive:
		return res.st.Player.Powers.Amount(powers.Strength) > 0
	}
	return false
}

// strikeCount counts cards named like Strike in the player's deck, this card included.
func (res *resolution) strikeCount() int {
	n := 0
	for _, pile := range [][]cards.Card{res.st.Hand, res.st.DrawPile, res.st.DiscardPile} {
		for _, c := range pile {
			if strings.Contains(c.Name, "Strike") {
				n++
			}
		}
	}
	if strings.Contains(res.card.Name, "Strike") {
		n++
	}
	return n
}

// attackDamage applies the attacker-side adjustments to a base damage value.
func (res *resolution) attackDamage(base, strengthMultiplier, target int) int {
	st := res.st
	mult := max(1, strengthMultiplier)
	dmg := float64(base + st.Player.Powers.Amount(powers.Strength)*mult)
	if dmg < 0 {
		dmg = 0
	}
	if st.Player.Powers.Amount(powers.Weakened) > 0 {
		dmg = math.Floor(dmg * weakMultiplier)
	}
	if m := st.Monster(target); m != nil && m.Powers.Amount(powers.Vulnerable) > 0 {
		if st.HasRelic(state.RelicPaperPhrog) {
			dmg = math.Floor(dmg * paperPhrogMultiplier)
		} else {
			dmg = math.Floor(dmg * vulnerableMultiplier)
		}
	}
	if res.penNib {
		dmg *= 2
	}
	if res.akabeko {
		dmg += akabekoBonus
	}
	return int(dmg)
}

func (res *resolution) attack(target, base, strengthMultiplier int) error {
	m := res.st.Monster(target)
	if m == nil {
		return &cards.ValidationError{Card: res.card.Name, Reason: "damage effect resolved without a target"}
	}
	if !m.Alive() {
		return nil
	}
	res.hit(target, res.attackDamage(base, strengthMultiplier, target), res.card.Type == cards.TypeAttack)
	return nil
}

// hit deals amount to a monster: modifiers, then block, then HP, then the
// monster's reactive powers.
func (res *resolution) hit(target, amount int, attack bool) {
	st := res.st
	m := &st.Monsters[target]
	h := res.r.modifiers.Apply(st, Hit{Target: target, Amount: amount, Attack: attack})

	blocked := min(m.Block, h.Amount)
	m.Block -= blocked
	unblocked := h.Amount - blocked
	if unblocked > 0 && m.Powers.Amount(powers.Buffer) > 0 {
		m.Powers.Remove(powers.Buffer, 1)
		blocked, unblocked = h.Amount, 0
	}

	before := m.CurrentHP
	m.CurrentHP -= unblocked
	st.DamageDealt += unblocked

	evt := rules.NewEventWithAmount(rules.EventDamageDealt, target, h.Amount)
	evt.Blocked = blocked
	evt.Attack = attack
	evt.CardName = res.card.Name
	evt.CardType = string(res.card.Type)
	evt.Killed = before > 0 && m.CurrentHP <= 0
	res.fireMonster(target, &evt)

	if before > 0 && m.CurrentHP <= 0 {
		res.killed[target] = true
		st.RecordKill(res.card.Name)
	}
}

// damagePlayer applies reflected damage to the player, block first.
func (res *resolution) damagePlayer(amount int) {
	if amount <= 0 {
		return
	}
	p := &res.st.Player
	blocked := min(p.Block, amount)
	p.Block -= blocked
	p.CurrentHP -= amount - blocked
}

func (res *resolution) loseHP(amount int) {
	if amount <= 0 {
		return
	}
	res.st.Player.CurrentHP -= amount
	res.firePlayer(rules.EventHPLost, amount)
}

// gainBlock adds card block: dexterity first, then frail.
func (res *resolution) gainBlock(base int) {
	p := &res.st.Player
	b := float64(base + p.Powers.Amount(powers.Dexterity))
	if p.Powers.Amount(powers.Frail) > 0 {
		b = math.Floor(b * frailMultiplier)
	}
	res.addBlock(max(0, int(b)))
}

// addBlock adds block that dexterity and frail do not touch.
func (res *resolution) addBlock(amount int) {
	if amount <= 0 {
		return
	}
	res.st.Player.Block += amount
	res.firePlayer(rules.EventBlockGained, amount)
}

func (res *resolution) applyPower(e cards.Effect, target int) error {
	switch e.TargetScope() {
	case cards.ScopeSelf:
		res.st.Player.Powers.Add(e.Power, e.N())
	case cards.ScopeAllEnemies:
		for _, idx := range res.st.LivingMonsters() {
			res.applyToMonster(idx, e.Power, e.N())
		}
	default:
		m := res.st.Monster(target)
		if m == nil {
			return &cards.ValidationError{Card: res.card.Name, Reason: "apply_power resolved without a target"}
		}
		if m.Alive() {
			res.applyToMonster(target, e.Power, e.N())
		}
	}
	return nil
}

func (res *resolution) applyToMonster(idx int, power string, amount int) {
	m := &res.st.Monsters[idx]
	if powers.IsDebuff(power, amount) {
		evt := rules.NewEventWithAmount(rules.EventDebuffApplying, idx, amount)
		evt.Power = power
		res.fireMonster(idx, &evt)
		if evt.Cancelled {
			return
		}
	}
	m.Powers.Add(power, amount)
}

// draw moves cards from the top of the draw pile into hand. An empty draw
// pile is refilled from the discard pile in discard order.
func (res *resolution) draw(n int) {
	st := res.st
	if st.Player.Powers.Has(powers.NoDraw) {
		return
	}
	for i := 0; i < n; i++ {
		if len(st.DrawPile) == 0 {
			if len(st.DiscardPile) == 0 {
				return
			}
			st.DrawPile, st.DiscardPile = st.DiscardPile, nil
		}
		c := st.DrawPile[0]
		st.DrawPile = st.DrawPile[1:]
		st.CardsDrawn++
		if len(st.Hand) >= maxHandSize {
			st.DiscardPile = append(st.DiscardPile, c)
			continue
		}
		st.Hand = append(st.Hand, c)
		evt := rules.NewEvent(rules.EventCardDrawn, rules.PlayerSubject)
		evt.CardName = c.Name
		evt.CardType = string(c.Type)
		res.r.hooks.Fire(res, st.Player.Powers.IDs(), res.playerLookup, &evt)
	}
}

func (res *resolution) exhaust(c cards.Card) {
	res.st.ExhaustPile = append(res.st.ExhaustPile, c)
	res.exhausted++
	evt := rules.NewEvent(rules.EventCardExhausted, rules.PlayerSubject)
	evt.CardName = c.Name
	evt.CardType = string(c.Type)
	res.r.hooks.Fire(res, res.st.Player.Powers.IDs(), res.playerLookup, &evt)
}

func (res *resolution) exhaustScope(e cards.Effect) {
	st := res.st
	var chosen []cards.Card
	switch e.Scope {
	case cards.ScopeSelf:
		res.exhaustSelf = true
		return
	case cards.ScopeHand:
		chosen, st.Hand = st.Hand, nil
	case cards.ScopeNonAttacks:
		var keep []cards.Card
		for _, c := range st.Hand {
			if c.Type == cards.TypeAttack {
				keep = append(keep, c)
			} else {
				chosen = append(chosen, c)
			}
		}
		st.Hand = keep
	case cards.ScopeChoice:
		if len(st.Hand) == 0 {
			return
		}
		pick := 0
		for i, c := range st.Hand {
			if c.IsJunk() {
				pick = i
				break
			}
		}
		chosen = []cards.Card{st.Hand[pick]}
		st.Hand = cards.Remove(st.Hand, pick)
	}
	for _, c := range chosen {
		res.exhaust(c)
		if e.BlockPerCard > 0 {
			res.gainBlock(e.BlockPerCard)
		}
	}
}

// copyCard copies the first attack or power in hand.
func (res *resolution) copyCard(n int) {
	st := res.st
	for _, c := range st.Hand {
		if c.Type != cards.TypeAttack && c.Type != cards.TypePower {
			continue
		}
		for i := 0; i < n && len(st.Hand) < maxHandSize; i++ {
			cp := c
			cp.UUID = newCardID(st, c.UUID)
			st.Hand = append(st.Hand, cp)
		}
		return
	}
}

func (res *resolution) addCard(name string, n int, pile cards.Pile) {
	st := res.st
	for i := 0; i < n; i++ {
		c := res.r.table.NewCard(name, newCardID(st, res.card.UUID))
		switch pile {
		case cards.PileHand:
			if len(st.Hand) < maxHandSize {
				st.Hand = append(st.Hand, c)
			} else {
				st.DiscardPile = append(st.DiscardPile, c)
			}
		case cards.PileDraw:
			st.DrawPile = append(st.DrawPile, c)
		default:
			st.DiscardPile = append(st.DiscardPile, c)
		}
	}
}

// playTop plays the top card of a pile for free, then exhausts it.
func (res *resolution) playTop(pile cards.Pile) error {
	st := res.st
	if res.depth >= maxPlayDepth {
		return nil
	}

	var c cards.Card
	switch pile {
	case cards.PileDiscard:
		if len(st.DiscardPile) == 0 {
			return nil
		}
		last := len(st.DiscardPile) - 1
		c = st.DiscardPile[last]
		st.DiscardPile = st.DiscardPile[:last:last]
	default:
		if len(st.DrawPile) == 0 {
			st.DrawPile, st.DiscardPile = st.DiscardPile, nil
		}
		if len(st.DrawPile) == 0 {
			return nil
		}
		c = st.DrawPile[0]
		st.DrawPile = st.DrawPile[1:]
	}

	def, ok := res.r.table.Lookup(c.Name)
	if !ok || def.Unplayable || c.Cost == cards.CostUnplayable {
		res.r.logger.Debug("top card cannot be played, exhausting it",
			zap.String("card", c.Name), zap.Bool("known", ok))
		res.exhaust(c)
		return nil
	}
	if err := def.Validate(); err != nil {
		return err
	}

	target := state.NoTarget
	if def.Target || c.HasTarget {
		idx, found := res.r.selector.Select(st)
		if !found {
			res.exhaust(c)
			return nil
		}
		target = idx
	}

	st.Played = append(st.Played, c)
	sub := newResolution(res.r, st, c, def, target, res.depth+1)
	if c.IsX() {
		sub.x = st.Player.Energy
	}
	if err := sub.run(); err != nil {
		return err
	}
	if c.Type != cards.TypePower {
		sub.exhaust(c)
	}
	res.exhausted += sub.exhausted
	return nil
}

func (res *resolution) playerLookup(id string) (int, bool) {
	return res.st.Player.Powers.Amount(id), res.st.Player.Powers.Has(id)
}

func (res *resolution) firePlayer(eventType rules.EventType, amount int) {
	evt := rules.NewEventWithAmount(eventType, rules.PlayerSubject, amount)
	evt.CardName = res.card.Name
	evt.CardType = string(res.card.Type)
	evt.Attack = res.card.Type == cards.TypeAttack
	res.r.hooks.Fire(res, res.st.Player.Powers.IDs(), res.playerLookup, &evt)
}

func (res *resolution) fireMonster(idx int, evt *rules.Event) {
	m := &res.st.Monsters[idx]
	lookup := func(id string) (int, bool) {
		return m.Powers.Amount(id), m.Powers.Has(id)
	}
	res.r.hooks.Fire(res, m.Powers.IDs(), lookup, evt)
}

// fireMonstersCardPlayed lets living monsters react to the card itself.
func (res *resolution) fireMonstersCardPlayed() {
	for _, idx := range res.st.LivingMonsters() {
		evt := rules.NewEvent(rules.EventCardPlayed, idx)
		evt.CardName = res.card.Name
		evt.CardType = string(res.card.Type)
		evt.Attack = res.card.Type == cards.TypeAttack
		res.fireMonster(idx, &evt)
	}
}
