package cards

import "fmt"

// Kind tags a card effect variant.
type Kind string

const (
	KindDamage        Kind = "damage"
	KindBlock         Kind = "block"
	KindBlockDamage   Kind = "block_damage"
	KindApplyPower    Kind = "apply_power"
	KindMultiplyPower Kind = "multiply_power"
	KindDraw          Kind = "draw"
	KindGainEnergy    Kind = "gain_energy"
	KindLoseHP        Kind = "lose_hp"
	KindHeal          Kind = "heal"
	KindGainMaxHP     Kind = "gain_max_hp"
	KindQueueDamage   Kind = "queue_damage"
	KindExhaust       Kind = "exhaust"
	KindCopyCard      Kind = "copy_card"
	KindAddCard       Kind = "add_card"
	KindPlayTop       Kind = "play_top"
	KindMultiplyBlock Kind = "multiply_block"
	KindAoe           Kind = "aoe"
	KindRepeat        Kind = "repeat"
	KindConditional   Kind = "conditional"
)

// Scope selects who an effect applies to.
type Scope string

const (
	ScopeTarget     Scope = "target"
	ScopeSelf       Scope = "self"
	ScopeAllEnemies Scope = "all_enemies"

	// Exhaust scopes
	ScopeHand       Scope = "hand"
	ScopeNonAttacks Scope = "non_attacks"
	ScopeChoice     Scope = "choice"
)

// Pile names a card pile.
type Pile string

const (
	PileHand    Pile = "hand"
	PileDraw    Pile = "draw"
	PileDiscard Pile = "discard"
)

// Predicate names the condition of a conditional effect.
type Predicate string

const (
	WhenTargetVulnerable Predicate = "target_vulnerable"
	WhenTargetAttacking  Predicate = "target_attacking"
	WhenTargetKilled     Predicate = "target_killed"
	WhenStrengthPositive Predicate = "strength_positive"
)

// Count sources for repeat effects.
const (
	TimesFromEnergy    = "energy"
	TimesFromExhausted = "exhausted"
)

// Phase is the resolution step an effect belongs to.
type Phase int

const (
	PhaseDamage Phase = iota
	PhaseBlock
	PhaseSecondary
)

// Effect is one entry of a card's ordered effect list.
// Which fields are meaningful depends on Kind; Validate enforces it.
type Effect struct {
	Kind               Kind      `yaml:"kind"`
	Amount             *int      `yaml:"amount,omitempty"`
	Power              string    `yaml:"power,omitempty"`
	Scope              Scope     `yaml:"scope,omitempty"`
	StrengthMultiplier int       `yaml:"strength_multiplier,omitempty"`
	PerStrike          int       `yaml:"per_strike,omitempty"`
	BlockPerCard       int       `yaml:"block_per_card,omitempty"`
	Factor             *int      `yaml:"factor,omitempty"`
	Times              *int      `yaml:"times,omitempty"`
	TimesFrom          string    `yaml:"times_from,omitempty"`
	Card               string    `yaml:"card,omitempty"`
	Pile               Pile      `yaml:"pile,omitempty"`
	When               Predicate `yaml:"when,omitempty"`
	Then               []Effect  `yaml:"then,omitempty"`
}

// N returns the effect's amount, or 0 when unset.
func (e Effect) N() int {
	if e.Amount == nil {
		return 0
	}
	return *e.Amount
}

// TargetScope returns the scope, defaulting to the selected target.
func (e Effect) TargetScope() Scope {
	if e.Scope == "" {
		return ScopeTarget
	}
	return e.Scope
}

// Phase classifies the effect into the damage, block or secondary step.
// Aoe and repeat bodies that deal damage run with the damage step, except a
// repeat counted from exhausted cards, which must follow the exhaust it reads.
func (e Effect) Phase() Phase {
	switch e.Kind {
	case KindDamage, KindBlockDamage:
		return PhaseDamage
	case KindBlock:
		return PhaseBlock
	case KindRepeat:
		if e.TimesFrom == TimesFromExhausted {
			return PhaseSecondary
		}
		fallthrough
	case KindAoe:
		for _, sub := range e.Then {
			if sub.Phase() == PhaseDamage {
				return PhaseDamage
			}
		}
	}
	return PhaseSecondary
}

// DealsDamage reports whether the effect or its body deals damage.
func (e Effect) DealsDamage() bool {
	if e.Kind == KindDamage || e.Kind == KindBlockDamage {
		return true
	}
	for _, sub := range e.Then {
		if sub.DealsDamage() {
			return true
		}
	}
	return false
}

// NeedsTarget reports whether the effect reads the selected target outside an aoe body.
func (e Effect) NeedsTarget() bool {
	switch e.Kind {
	case KindDamage, KindBlockDamage:
		return true
	case KindApplyPower:
		return e.TargetScope() == ScopeTarget
	case KindAoe:
		return false
	case KindConditional:
		if e.When == WhenTargetVulnerable || e.When == WhenTargetAttacking || e.When == WhenTargetKilled {
			return true
		}
	}
	for _, sub := range e.Then {
		if sub.NeedsTarget() {
			return true
		}
	}
	return false
}

// Validate checks that the effect carries the data its kind requires.
func (e Effect) Validate(card, path string) error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Card: card, Path: path, Reason: fmt.Sprintf(format, args...)}
	}
	needAmount := func() error {
		if e.Amount == nil {
			return fail("%s requires amount", e.Kind)
		}
		if *e.Amount < 0 {
			return fail("%s amount must not be negative", e.Kind)
		}
		return nil
	}

	switch e.Kind {
	case KindDamage, KindBlock, KindDraw, KindGainEnergy, KindLoseHP, KindHeal,
		KindGainMaxHP, KindQueueDamage, KindCopyCard:
		return needAmount()
	case KindBlockDamage:
		return nil
	case KindApplyPower:
		if e.Power == "" {
			return fail("apply_power requires power")
		}
		if e.Amount == nil {
			return fail("apply_power requires amount")
		}
		switch e.TargetScope() {
		case ScopeTarget, ScopeSelf, ScopeAllEnemies:
		default:
			return fail("bad scope %q", e.Scope)
		}
		return nil
	case KindMultiplyPower:
		if e.Power == "" {
			return fail("multiply_power requires power")
		}
		if e.Factor == nil {
			return fail("multiply_power requires factor")
		}
		return nil
	case KindMultiplyBlock:
		if e.Factor == nil {
			return fail("multiply_block requires factor")
		}
		return nil
	case KindExhaust:
		switch e.Scope {
		case ScopeSelf, ScopeHand, ScopeNonAttacks, ScopeChoice:
		default:
			return fail("bad exhaust scope %q", e.Scope)
		}
		return nil
	case KindAddCard:
		if e.Card == "" {
			return fail("add_card requires card")
		}
		switch e.Pile {
		case PileHand, PileDraw, PileDiscard:
		default:
			return fail("bad pile %q", e.Pile)
		}
		return needAmount()
	case KindPlayTop:
		if e.Pile != PileDraw && e.Pile != PileDiscard {
			return fail("bad pile %q", e.Pile)
		}
		return nil
	case KindAoe:
		return e.validateBody(card, path)
	case KindRepeat:
		if e.Times == nil && e.TimesFrom == "" {
			return fail("repeat requires times or times_from")
		}
		if e.TimesFrom != "" && e.TimesFrom != TimesFromEnergy && e.TimesFrom != TimesFromExhausted {
			return fail("bad times_from %q", e.TimesFrom)
		}
		return e.validateBody(card, path)
	case KindConditional:
		switch e.When {
		case WhenTargetVulnerable, WhenTargetAttacking, WhenTargetKilled, WhenStrengthPositive:
		case "":
			return fail("conditional requires when")
		default:
			return fail("unknown predicate %q", e.When)
		}
		return e.validateBody(card, path)
	case "":
		return fail("missing kind")
	default:
		return fail("unknown kind %q", e.Kind)
	}
}

func (e Effect) validateBody(card, path string) error {
	if len(e.Then) == 0 {
		return &ValidationError{Card: card, Path: path, Reason: fmt.Sprintf("%s requires a body", e.Kind)}
	}
	for i, sub := range e.Then {
		if err := sub.Validate(card, fmt.Sprintf("%s.then[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Int returns a pointer to n.
func Int(n int) *int {
	return &n
}

// Damage deals n damage to the target.
func Damage(n int) Effect {
	return Effect{Kind: KindDamage, Amount: Int(n)}
}

// Block gains n block.
func Block(n int) Effect {
	return Effect{Kind: KindBlock, Amount: Int(n)}
}

// Apply applies n stacks of a power within scope.
func Apply(power string, n int, scope Scope) Effect {
	return Effect{Kind: KindApplyPower, Power: power, Amount: Int(n), Scope: scope}
}

// Draw draws n cards.
func Draw(n int) Effect {
	return Effect{Kind: KindDraw, Amount: Int(n)}
}

// GainEnergy gains n energy.
func GainEnergy(n int) Effect {
	return Effect{Kind: KindGainEnergy, Amount: Int(n)}
}

// LoseHP loses n HP.
func LoseHP(n int) Effect {
	return Effect{Kind: KindLoseHP, Amount: Int(n)}
}

// ExhaustCards exhausts cards within scope.
func ExhaustCards(scope Scope) Effect {
	return Effect{Kind: KindExhaust, Scope: scope}
}

// AddCard adds n copies of the named card to pile.
func AddCard(name string, n int, pile Pile) Effect {
	return Effect{Kind: KindAddCard, Card: name, Amount: Int(n), Pile: pile}
}

// AllEnemies runs body against every living monster.
func AllEnemies(body ...Effect) Effect {
	return Effect{Kind: KindAoe, Then: body}
}

// Repeat runs body n times.
func Repeat(n int, body ...Effect) Effect {
	return Effect{Kind: KindRepeat, Times: Int(n), Then: body}
}

// RepeatFrom runs body a number of times read from source.
func RepeatFrom(source string, body ...Effect) Effect {
	return Effect{Kind: KindRepeat, TimesFrom: source, Then: body}
}

// When runs body if the predicate holds.
func When(p Predicate, body ...Effect) Effect {
	return Effect{Kind: KindConditional, When: p, Then: body}
}
