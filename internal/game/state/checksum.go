package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
)

// Checksum computes a deterministic fingerprint of the state.
// Two states with the same checksum are indistinguishable to the engine.
func (s *CombatState) Checksum() string {
	sum := sha256.Sum256(s.canonical())
	return hex.EncodeToString(sum[:])
}

// Summary returns a short human readable description for logs.
func (s *CombatState) Summary() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "hp=%d/%d block=%d energy=%d hand=%d draw=%d discard=%d exhaust=%d",
		s.Player.CurrentHP, s.Player.MaxHP, s.Player.Block, s.Player.Energy,
		len(s.Hand), len(s.DrawPile), len(s.DiscardPile), len(s.ExhaustPile))
	for i := range s.Monsters {
		m := &s.Monsters[i]
		fmt.Fprintf(&buf, " [%d %s hp=%d block=%d]", i, m.Name, m.CurrentHP, m.Block)
	}
	return buf.String()
}

// canonical renders every field that affects simulation. Map entries are
// sorted; pile order is significant and kept.
func (s *CombatState) canonical() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "STATE:%d|%s|%d|%d|%d|%d|%d\n",
		s.Turn, s.RoomType, s.CardsDrawn, s.DamageDealt, s.PendingDamage, s.EnergySpent, s.Sequence)

	p := s.Player
	fmt.Fprintf(&buf, "PLAYER:%d|%d|%d|%d\n", p.CurrentHP, p.MaxHP, p.Block, p.Energy)
	writePowers(&buf, p.Powers)

	for i := range s.Monsters {
		m := &s.Monsters[i]
		fmt.Fprintf(&buf, "MONSTER:%d|%s|%s|%d|%d|%d|%t|%t|%s|%d|%d|%d\n",
			i, m.Name, m.ID, m.CurrentHP, m.MaxHP, m.Block, m.Gone, m.HalfDead,
			m.Intent, m.MoveBaseDamage, m.MoveAdjustedDamage, m.MoveHits)
		writePowers(&buf, m.Powers)
	}

	for _, r := range s.Relics {
		fmt.Fprintf(&buf, "RELIC:%s|%d\n", r.ID, r.Counter)
	}

	writePile(&buf, "HAND", s.Hand)
	writePile(&buf, "DRAW", s.DrawPile)
	writePile(&buf, "DISCARD", s.DiscardPile)
	writePile(&buf, "EXHAUST", s.ExhaustPile)
	writePile(&buf, "PLAYED", s.Played)

	names := make([]string, 0, len(s.Kills))
	for name := range s.Kills {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&buf, "KILL:%s|%d\n", name, s.Kills[name])
	}

	return buf.Bytes()
}

func writePowers(buf *bytes.Buffer, set powers.Set) {
	for _, p := range set.Powers {
		fmt.Fprintf(buf, "  POWER:%s|%d\n", p.ID, p.Amount)
	}
}

func writePile(buf *bytes.Buffer, name string, pile []cards.Card) {
	for _, c := range pile {
		fmt.Fprintf(buf, "%s:%s|%s|%s|%d|%t|%t\n", name, c.UUID, c.Name, c.Type, c.Cost, c.Exhausts, c.IsPlayable)
	}
}
