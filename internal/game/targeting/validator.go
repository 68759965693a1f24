package targeting

import (
	"errors"
	"fmt"

	"github.com/spirecomm/ironclad-planner/internal/game/state"
)

// ErrInvalidTarget is returned when a target is missing, dead or out of range.
var ErrInvalidTarget = errors.New("invalid target")

// Validate checks that idx references a living monster in st.
func Validate(st *state.CombatState, idx int) error {
	if idx == state.NoTarget {
		return fmt.Errorf("%w: card requires a target", ErrInvalidTarget)
	}
	m := st.Monster(idx)
	if m == nil {
		return fmt.Errorf("%w: monster %d out of range (%d monsters)", ErrInvalidTarget, idx, len(st.Monsters))
	}
	if m.Gone || m.HalfDead {
		return fmt.Errorf("%w: monster %d (%s) is not in play", ErrInvalidTarget, idx, m.Name)
	}
	if m.CurrentHP <= 0 {
		return fmt.Errorf("%w: monster %d (%s) is dead", ErrInvalidTarget, idx, m.Name)
	}
	return nil
}
