package powers

// Power ids as reported by the game.
const (
	// Stat modifiers
	Strength  = "Strength"
	Dexterity = "Dexterity"
	Focus     = "Focus"

	// Debuffs
	Vulnerable  = "Vulnerable"
	Weakened    = "Weakened"
	Frail       = "Frail"
	Constricted = "Constricted"

	// Monster reactive powers
	Artifact    = "Artifact"
	CurlUp      = "Curl Up"
	Angry       = "Angry"
	Enrage      = "Anger"
	Thorns      = "Thorns"
	SharpHide   = "Sharp Hide"
	Malleable   = "Malleable"
	PlatedArmor = "Plated Armor"
	Invincible  = "Invincible"
	Split       = "Split"
	ModeShift   = "Mode Shift"
	Flight      = "Flight"
	Buffer      = "Buffer"
	Intangible  = "Intangible"

	// Player powers
	IntangiblePlayer = "IntangiblePlayer"
	Metallicize      = "Metallicize"
	Barricade        = "Barricade"
	Corruption       = "Corruption"
	DarkEmbrace      = "Dark Embrace"
	FeelNoPain       = "Feel No Pain"
	Rage             = "Rage"
	Juggernaut       = "Juggernaut"
	Rupture          = "Rupture"
	DoubleTap        = "Double Tap"
	DemonForm        = "Demon Form"
	Brutality        = "Brutality"
	Combust          = "Combust"
	Evolve           = "Evolve"
	FireBreathing    = "Fire Breathing"
	NoDraw           = "No Draw"
)

// persistent powers stay on their owner when their amount reaches zero.
var persistent = map[string]bool{
	Barricade:  true,
	Corruption: true,
	ModeShift:  true,
	Flight:     true,
}

// signed powers may carry a negative amount.
var signed = map[string]bool{
	Strength:  true,
	Dexterity: true,
	Focus:     true,
}

// debuffs are the applications Artifact can negate.
var debuffs = map[string]bool{
	Vulnerable:  true,
	Weakened:    true,
	Frail:       true,
	Constricted: true,
}

// IsPersistent reports whether the power survives at zero.
func IsPersistent(id string) bool {
	return persistent[id]
}

// IsSigned reports whether the power may go negative.
func IsSigned(id string) bool {
	return signed[id]
}

// IsDebuff reports whether applying amount of id to a creature is a debuff.
// Negative stat changes count as debuffs.
func IsDebuff(id string, amount int) bool {
	if debuffs[id] {
		return true
	}
	return signed[id] && amount < 0
}
