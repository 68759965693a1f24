package cards

// CardType is the game's card category.
type CardType string

const (
	TypeAttack CardType = "ATTACK"
	TypeSkill  CardType = "SKILL"
	TypePower  CardType = "POWER"
	TypeStatus CardType = "STATUS"
	TypeCurse  CardType = "CURSE"
)

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	switch t {
	case TypeAttack, TypeSkill, TypePower, TypeStatus, TypeCurse:
		return true
	}
	return false
}

const (
	// CostX marks a card that spends all remaining energy.
	CostX = -1
	// CostUnplayable marks a card that can never be played.
	CostUnplayable = -2
)

// Card is a single card instance. UUID is stable across clones so a search
// prefix can refer to this exact card; Name is the effect table key.
type Card struct {
	UUID       string
	ID         string
	Name       string
	Type       CardType
	Cost       int
	Upgrades   int
	HasTarget  bool
	IsPlayable bool
	Exhausts   bool
	Ethereal   bool
}

// IsX returns true for X-cost cards.
func (c Card) IsX() bool {
	return c.Cost == CostX
}

// IsJunk returns true for status and curse cards.
func (c Card) IsJunk() bool {
	return c.Type == TypeStatus || c.Type == TypeCurse
}

// Find returns the index of the card with the given uuid, or -1.
func Find(pile []Card, uuid string) int {
	for i := range pile {
		if pile[i].UUID == uuid {
			return i
		}
	}
	return -1
}

// Remove returns pile without the card at index i. The input slice is not modified.
func Remove(pile []Card, i int) []Card {
	out := make([]Card, 0, len(pile)-1)
	out = append(out, pile[:i]...)
	return append(out, pile[i+1:]...)
}
