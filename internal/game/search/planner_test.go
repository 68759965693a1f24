package search

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/effects"
	"github.com/spirecomm/ironclad-planner/internal/game/eval"
	"github.com/spirecomm/ironclad-planner/internal/game/gametest"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestPlanner(t *testing.T, cfg Config, logger *zap.Logger) *Planner {
	t.Helper()
	if logger == nil {
		logger = zaptest.NewLogger(t)
	}
	table := gametest.Table(t)
	resolver := effects.NewResolver(table, nil, logger)
	evaluator := eval.NewEvaluator(eval.DefaultWeights(), nil, table)
	return NewPlanner(resolver, evaluator, nil, cfg, logger)
}

func untimed() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	cfg.MaxNodes = 0
	return cfg
}

func TestPlanner_NoEnergyEndsTurn(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Energy(0).
		Monster(gametest.MonsterSpec{Name: "Cultist", HP: 10}).
		Hand(gametest.Attack("s1", "Strike", 1)).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, d.Action.EndTurn)
	assert.Same(t, st, d.State)
	assert.Equal(t, d.PassScore, d.Score)
}

func TestPlanner_EmptyHandEndsTurn(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Cultist", HP: 10}).
		Hand(gametest.Status("w1", "Wound"), gametest.Curse("r1", "Regret")).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, d.Action.EndTurn)
	assert.Zero(t, d.Nodes)
}

func TestPlanner_TwoStrikesKill(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Energy(2).
		Monster(gametest.MonsterSpec{Name: "Cultist", HP: 10, Damage: 6}).
		Hand(gametest.Attack("s1", "Strike", 1), gametest.Attack("s2", "Strike", 1)).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	require.False(t, d.Action.EndTurn)
	assert.Equal(t, "s1", d.Action.Card.UUID)
	assert.Equal(t, 0, d.Action.Target)
	assert.Equal(t, []string{"Strike", "Strike"}, d.Line)
	assert.Equal(t, eval.WinScore, d.Score)
	assert.LessOrEqual(t, d.State.Monsters[0].CurrentHP, 0)
	assert.Equal(t, 10, st.Monsters[0].CurrentHP, "search never touches the input")
}

func TestPlanner_DuplicateCardsShareCache(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 100}).
		Hand(
			gametest.Attack("s1", "Strike", 1),
			gametest.Attack("s2", "Strike", 1),
			gametest.Attack("s3", "Strike", 1),
		).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Nodes)
	assert.Equal(t, int64(1), d.CacheHits)
	assert.Equal(t, []string{"Strike", "Strike", "Strike"}, d.Line)
	assert.Equal(t, 82, d.State.Monsters[0].CurrentHP)
}

func TestWalker_MemoMarksVisitedPrefixes(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 100}).
		Hand(gametest.Attack("s1", "Strike", 1), gametest.Attack("s2", "Strike", 1)).
		Build()

	var nodes, hits atomic.Int64
	memo := NewCache[visited]()
	w := &walker{
		p:        p,
		ctx:      context.Background(),
		playable: p.Playable(st),
		memo:     memo,
		nodes:    &nodes,
		hits:     &hits,
		root:     st.Hand[0],
	}

	require.NoError(t, w.play(st, "", st.Hand[0], nil))
	require.NoError(t, w.play(st, "", st.Hand[1], nil))

	assert.Equal(t, 2, memo.Len())
	assert.Equal(t, int64(2), nodes.Load())
	assert.Equal(t, int64(1), hits.Load())
	_, ok := memo.Get("/Strike:1:0/Strike:1:0")
	assert.True(t, ok)
	assert.Equal(t, []string{"Strike", "Strike"}, w.best.line)
}

func TestPlanner_PrefersSpendingEnergyOnTies(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Louse", HP: 5}).
		Hand(gametest.Attack("s1", "Strike", 1), gametest.Attack("b1", "Bash", 2)).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, eval.WinScore, d.Score)
	assert.Equal(t, "b1", d.Action.Card.UUID)
}

func TestPlanner_EndsTurnWhenPlayingHurts(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 40}).
		Hand(gametest.Skill("b1", "Bloodletting", 0)).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, d.Action.EndTurn)
	assert.Equal(t, int64(1), d.Nodes)
}

func TestPlanner_Playable(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)

	t.Run("block skipped without danger", func(t *testing.T) {
		st := gametest.NewState().
			Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 40}).
			Hand(gametest.Skill("d1", "Defend", 1), gametest.Skill("s1", "Shrug It Off", 1)).
			Build()
		assert.Equal(t, map[string]bool{"s1": true}, p.Playable(st))

		st.Monsters[0].MoveAdjustedDamage = 11
		st.Monsters[0].MoveHits = 1
		assert.Equal(t, map[string]bool{"d1": true, "s1": true}, p.Playable(st))
	})

	t.Run("skills skipped against gremlin nob", func(t *testing.T) {
		st := gametest.NewState().
			Monster(gametest.MonsterSpec{Name: "Gremlin Nob", HP: 82, Damage: 14}).
			Hand(gametest.Skill("d1", "Defend", 1), gametest.Attack("a1", "Strike", 1), gametest.Power("i1", "Inflame", 1)).
			Build()
		assert.Equal(t, map[string]bool{"a1": true, "i1": true}, p.Playable(st))
	})

	t.Run("limit break needs strength", func(t *testing.T) {
		st := gametest.NewState().
			Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 40}).
			Hand(gametest.Skill("l1", "Limit Break", 1)).
			Build()
		assert.Empty(t, p.Playable(st))
		st.Player.Powers.Set(powers.Strength, 2)
		assert.True(t, p.Playable(st)["l1"])
	})

	t.Run("targeted cards need a living monster", func(t *testing.T) {
		st := gametest.NewState().
			Monster(gametest.MonsterSpec{Name: "Louse", HP: 0}).
			Hand(gametest.Attack("a1", "Strike", 1), gametest.Skill("f1", "Flex", 0)).
			Build()
		assert.Equal(t, map[string]bool{"f1": true}, p.Playable(st))
	})

	t.Run("snapshot unplayable only counts when affordable", func(t *testing.T) {
		clash := gametest.Attack("c1", "Bash", 2)
		clash.IsPlayable = false
		st := gametest.NewState().
			Energy(2).
			Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 40}).
			Hand(clash).
			Build()
		assert.Empty(t, p.Playable(st))

		st.Player.Energy = 1
		assert.True(t, p.Playable(st)["c1"])
	})
}

func TestPlanner_NodeBudgetTruncates(t *testing.T) {
	cfg := untimed()
	cfg.MaxNodes = 2
	cfg.Workers = 1
	p := newTestPlanner(t, cfg, nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 100}).
		Hand(
			gametest.Attack("s1", "Strike", 1),
			gametest.Attack("b1", "Bash", 2),
			gametest.Attack("h1", "Headbutt", 1),
		).
		Build()

	d, err := p.Decide(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, d.Truncated)
	assert.False(t, d.Action.EndTurn)
	assert.LessOrEqual(t, d.Nodes, cfg.MaxNodes+int64(cfg.Workers)*3)
}

func TestPlanner_CancelledContextTruncates(t *testing.T) {
	p := newTestPlanner(t, untimed(), nil)
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 100}).
		Hand(gametest.Attack("s1", "Strike", 1)).
		Build()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d, err := p.Decide(ctx, st)
	require.NoError(t, err)
	assert.True(t, d.Truncated)
	assert.True(t, d.Action.EndTurn)
}

func TestPlanner_DeterministicAcrossWorkers(t *testing.T) {
	build := func() *state.CombatState {
		return gametest.NewState().
			Energy(3).
			Monster(gametest.MonsterSpec{Name: "Louse", HP: 12, Damage: 6}).
			Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 40, Damage: 11}).
			Hand(
				gametest.Attack("s1", "Strike", 1),
				gametest.Skill("d1", "Defend", 1),
				gametest.Attack("b1", "Bash", 2),
				gametest.AoeAttack("c1", "Cleave", 1),
				gametest.Skill("f1", "Flex", 0),
				gametest.Attack("s2", "Strike", 1),
			).
			Draw(gametest.Skill("d2", "Defend", 1)).
			Build()
	}

	var decisions []Decision
	for _, workers := range []int{1, 2, 8} {
		cfg := untimed()
		cfg.Workers = workers
		d, err := newTestPlanner(t, cfg, nil).Decide(context.Background(), build())
		require.NoError(t, err)
		decisions = append(decisions, d)
	}

	first := decisions[0]
	require.False(t, first.Action.EndTurn)
	for _, d := range decisions[1:] {
		assert.Equal(t, first.Action.Card.UUID, d.Action.Card.UUID)
		assert.Equal(t, first.Action.Target, d.Action.Target)
		assert.Equal(t, first.Line, d.Line)
		assert.Equal(t, first.Score, d.Score)
		assert.Equal(t, first.Nodes, d.Nodes)
		assert.Equal(t, first.CacheHits, d.CacheHits)
		assert.Equal(t, first.State.Checksum(), d.State.Checksum())
	}
}

func TestPlanner_MalformedCardAborts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := newTestPlanner(t, untimed(), zap.New(core))
	st := gametest.NewState().
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 40}).
		Hand(gametest.Attack("s1", "Strike", 1), gametest.Attack("x1", "Swift Strike", 0)).
		Build()

	_, err := p.Decide(context.Background(), st)
	require.ErrorIs(t, err, cards.ErrMalformedCardData)
	assert.NotEmpty(t, logs.FilterMessage("malformed card data").All())
	assert.NotEmpty(t, logs.FilterMessage("search aborted").All())
}

func TestCache_PutGet(t *testing.T) {
	c := NewCache[int]()
	assert.True(t, c.Put("a", 1))
	assert.False(t, c.Put("a", 2))
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "end turn", EndTurnAction().String())
	assert.Equal(t, "play Strike -> 1", PlayCardAction(gametest.Attack("s1", "Strike", 1), 1).String())
	assert.Equal(t, "play Flex", PlayCardAction(gametest.Skill("f1", "Flex", 0), state.NoTarget).String())
}
