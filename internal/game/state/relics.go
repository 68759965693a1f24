package state

// Relic ids as reported by the game.
const (
	RelicPaperPhrog  = "Paper Frog"
	RelicPenNib      = "Pen Nib"
	RelicAkabeko     = "Akabeko"
	RelicOrichalcum  = "Orichalcum"
	RelicOddMushroom = "Odd Mushroom"
	RelicTorii       = "Torii"
	RelicTungstenRod = "TungstenRod"
)

// PenNibTrigger is the Pen Nib counter value at which the next attack doubles.
const PenNibTrigger = 9
