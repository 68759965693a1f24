package rules

// EventType indicates the category of a resolution event.
type EventType string

const (
	// EventCardPlayed fires once a card has left the hand, before its effects run.
	EventCardPlayed EventType = "CARD_PLAYED"
	// EventDamageDealt fires after a single hit has been applied to its subject.
	EventDamageDealt EventType = "DAMAGE_DEALT"
	// EventDebuffApplying fires before a debuff lands; hooks may cancel it.
	EventDebuffApplying EventType = "DEBUFF_APPLYING"
	// EventBlockGained fires after the player gains block from a card.
	EventBlockGained EventType = "BLOCK_GAINED"
	// EventCardExhausted fires once per card moved to the exhaust pile.
	EventCardExhausted EventType = "CARD_EXHAUSTED"
	// EventHPLost fires when the player loses HP to a card effect.
	EventHPLost EventType = "HP_LOST"
	// EventCardDrawn fires once per card that reaches the hand from the draw pile.
	EventCardDrawn EventType = "CARD_DRAWN"
)

// PlayerSubject is the Subject value addressing the player.
const PlayerSubject = -1

// Event describes something that happened during resolution.
// Subject is the creature whose powers react to it.
type Event struct {
	Type      EventType
	Subject   int
	Source    int
	Amount    int
	Blocked   int
	Power     string
	CardName  string
	CardType  string
	Attack    bool
	Killed    bool
	Cancelled bool
}

// NewEvent creates an event addressed to subject.
func NewEvent(eventType EventType, subject int) Event {
	return Event{
		Type:    eventType,
		Subject: subject,
		Source:  PlayerSubject,
	}
}

// NewEventWithAmount creates an event with an amount.
func NewEventWithAmount(eventType EventType, subject, amount int) Event {
	evt := NewEvent(eventType, subject)
	evt.Amount = amount
	return evt
}

// Unblocked returns the part of the amount that got through block.
func (e Event) Unblocked() int {
	if e.Amount <= e.Blocked {
		return 0
	}
	return e.Amount - e.Blocked
}
