package effects

import (
	"errors"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/targeting"
)

var (
	// ErrNotPlayable is returned when a card is absent from hand, unplayable or too expensive.
	ErrNotPlayable = errors.New("card not playable")
	// ErrInvalidTarget is returned when a targeted card has no living target.
	ErrInvalidTarget = targeting.ErrInvalidTarget
	// ErrMalformedCardData is returned when a card's effects cannot be interpreted.
	ErrMalformedCardData = cards.ErrMalformedCardData
)

// IsRejection reports whether err is a local rejection that voids a search branch
// rather than aborting the decision.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNotPlayable) || errors.Is(err, ErrInvalidTarget)
}
