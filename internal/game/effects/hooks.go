package effects

import (
	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/rules"
)

type hook = rules.Hook[*resolution]

func unblockedHit(e rules.Event) bool {
	return e.Unblocked() > 0
}

func registerMonsterHooks(reg *rules.Registry[*resolution]) {
	for _, h := range []hook{
		{
			Power:     powers.CurlUp,
			EventType: rules.EventDamageDealt,
			Condition: unblockedHit,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				m := res.st.Monster(evt.Subject)
				m.Block += amount
				m.Powers.Delete(powers.CurlUp)
			},
		},
		{
			Power:     powers.Angry,
			EventType: rules.EventDamageDealt,
			Condition: unblockedHit,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.st.Monster(evt.Subject).Powers.Add(powers.Strength, amount)
			},
		},
		{
			Power:     powers.Thorns,
			EventType: rules.EventDamageDealt,
			Condition: func(e rules.Event) bool { return e.Attack },
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.damagePlayer(amount)
			},
		},
		{
			Power:     powers.Malleable,
			EventType: rules.EventDamageDealt,
			Condition: unblockedHit,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				m := res.st.Monster(evt.Subject)
				m.Block += amount
				m.Powers.Add(powers.Malleable, 1)
			},
		},
		{
			Power:     powers.PlatedArmor,
			EventType: rules.EventDamageDealt,
			Condition: unblockedHit,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.st.Monster(evt.Subject).Powers.Remove(powers.PlatedArmor, 1)
			},
		},
		{
			Power:     powers.ModeShift,
			EventType: rules.EventDamageDealt,
			Condition: unblockedHit,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				m := res.st.Monster(evt.Subject)
				if m.Powers.Add(powers.ModeShift, -evt.Unblocked()) <= 0 {
					m.StopAttacking()
				}
			},
		},
		{
			Power:     powers.Flight,
			EventType: rules.EventDamageDealt,
			Condition: unblockedHit,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				m := res.st.Monster(evt.Subject)
				if m.Powers.Add(powers.Flight, -1) <= 0 {
					m.StopAttacking()
				}
			},
		},
		{
			Power:     powers.Split,
			EventType: rules.EventDamageDealt,
			Condition: func(e rules.Event) bool { return e.Killed },
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				m := res.st.Monster(evt.Subject)
				before := m.CurrentHP + evt.Unblocked()
				m.CurrentHP = max(1, before/2)
				m.Powers.Delete(powers.Split)
			},
		},
		{
			Power:     powers.Enrage,
			EventType: rules.EventCardPlayed,
			Condition: func(e rules.Event) bool { return e.CardType == string(cards.TypeSkill) },
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.st.Monster(evt.Subject).Powers.Add(powers.Strength, amount)
			},
		},
		{
			Power:     powers.SharpHide,
			EventType: rules.EventCardPlayed,
			Condition: func(e rules.Event) bool { return e.Attack },
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.damagePlayer(amount)
			},
		},
		{
			Power:     powers.Artifact,
			EventType: rules.EventDebuffApplying,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.st.Monster(evt.Subject).Powers.Remove(powers.Artifact, 1)
				evt.Cancelled = true
			},
		},
	} {
		reg.Register(h)
	}
}

func registerPlayerHooks(reg *rules.Registry[*resolution]) {
	for _, h := range []hook{
		{
			Power:     powers.Rage,
			EventType: rules.EventCardPlayed,
			Condition: func(e rules.Event) bool { return e.Attack },
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.addBlock(amount)
			},
		},
		{
			Power:     powers.DarkEmbrace,
			EventType: rules.EventCardExhausted,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.draw(amount)
			},
		},
		{
			Power:     powers.FeelNoPain,
			EventType: rules.EventCardExhausted,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.addBlock(amount)
			},
		},
		{
			Power:     powers.Evolve,
			EventType: rules.EventCardDrawn,
			Condition: func(e rules.Event) bool { return e.CardType == string(cards.TypeStatus) },
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.draw(amount)
			},
		},
		{
			Power:     powers.FireBreathing,
			EventType: rules.EventCardDrawn,
			Condition: func(e rules.Event) bool {
				return e.CardType == string(cards.TypeStatus) || e.CardType == string(cards.TypeCurse)
			},
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				for _, idx := range res.st.LivingMonsters() {
					res.hit(idx, amount, false)
				}
			},
		},
		{
			Power:     powers.Juggernaut,
			EventType: rules.EventBlockGained,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				if living := res.st.LivingMonsters(); len(living) > 0 {
					res.hit(living[0], amount, false)
				}
			},
		},
		{
			Power:     powers.Rupture,
			EventType: rules.EventHPLost,
			Handle: func(res *resolution, evt *rules.Event, amount int) {
				res.st.Player.Powers.Add(powers.Strength, amount)
			},
		},
	} {
		reg.Register(h)
	}
}
