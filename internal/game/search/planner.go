// Package search picks the next card to play by exhaustive search over
// ordered card sequences.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/effects"
	"github.com/spirecomm/ironclad-planner/internal/game/eval"
	"github.com/spirecomm/ironclad-planner/internal/game/powers"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"github.com/spirecomm/ironclad-planner/internal/game/targeting"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const limitBreak = "Limit Break"

// errBudget stops a walk once the node or time budget is spent.
var errBudget = errors.New("search budget exhausted")

// Planner searches card sequences for the best first play.
type Planner struct {
	resolver  *effects.Resolver
	evaluator *eval.Evaluator
	selector  *targeting.Selector
	cfg       Config
	logger    *zap.Logger
}

// NewPlanner creates a planner. A nil selector uses the default target priorities.
func NewPlanner(resolver *effects.Resolver, evaluator *eval.Evaluator, selector *targeting.Selector, cfg Config, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if selector == nil {
		selector = targeting.NewSelector(nil)
	}
	return &Planner{
		resolver:  resolver,
		evaluator: evaluator,
		selector:  selector,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// Config returns the planner's effective configuration.
func (p *Planner) Config() Config {
	return p.cfg
}

// visited marks a prefix already expanded. An identical prefix always yields
// an identical subtree, so only presence is recorded.
type visited struct{}

// candidate is the best sequence found in one root subtree.
type candidate struct {
	found  bool
	card   cards.Card
	target int
	line   []string
	state  *state.CombatState
	score  float64
}

// better reports whether c beats o: higher score, then more energy spent.
func (c candidate) better(o candidate) bool {
	if !o.found {
		return c.found
	}
	if !c.found {
		return false
	}
	if c.score != o.score {
		return c.score > o.score
	}
	return c.state.EnergySpent > o.state.EnergySpent
}

// Decide searches from st and returns the first action of the best sequence.
// It returns an error only for malformed card data or a nil state; a spent
// budget returns the best result so far with Truncated set.
func (p *Planner) Decide(ctx context.Context, st *state.CombatState) (Decision, error) {
	if st == nil {
		return Decision{}, errors.New("decide: nil state")
	}
	start := time.Now()
	passScore := p.evaluator.Evaluate(st)

	playable := p.Playable(st)
	roots := dedupeRoots(st.Hand, playable)
	if len(roots) == 0 {
		p.logger.Debug("no playable cards, ending turn", zap.Int("hand", len(st.Hand)))
		return Decision{Action: EndTurnAction(), State: st, Score: passScore, PassScore: passScore}, nil
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	var (
		nodes     atomic.Int64
		hits      atomic.Int64
		truncated atomic.Bool
	)
	memo := NewCache[visited]()
	results := make([]candidate, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, root := range roots {
		g.Go(func() error {
			w := &walker{
				p:        p,
				ctx:      gctx,
				playable: playable,
				memo:     memo,
				nodes:    &nodes,
				hits:     &hits,
				root:     root,
			}
			err := w.play(st, "", root, nil)
			if errors.Is(err, errBudget) {
				truncated.Store(true)
				err = nil
			}
			results[i] = w.best
			return err
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error("search aborted", zap.Error(err), zap.String("state_checksum", st.Checksum()))
		return Decision{}, fmt.Errorf("decide: %w", err)
	}

	var best candidate
	for _, c := range results {
		if c.better(best) {
			best = c
		}
	}

	d := Decision{
		PassScore: passScore,
		Nodes:     nodes.Load(),
		CacheHits: hits.Load(),
		Truncated: truncated.Load(),
	}
	if !best.found || best.score < passScore {
		d.Action = EndTurnAction()
		d.State = st
		d.Score = passScore
	} else {
		d.Action = PlayCardAction(best.card, best.target)
		d.Line = best.line
		d.State = best.state
		d.Score = best.score
	}

	p.logger.Info("decision",
		zap.Stringer("action", d.Action),
		zap.Strings("line", d.Line),
		zap.Float64("score", d.Score),
		zap.Float64("pass_score", d.PassScore),
		zap.Int64("nodes", d.Nodes),
		zap.Int64("cache_hits", d.CacheHits),
		zap.Int("memo_entries", memo.Len()),
		zap.Bool("truncated", d.Truncated),
		zap.Duration("elapsed", time.Since(start)),
	)
	return d, nil
}

// Playable returns the uuids of the hand cards the search may play.
func (p *Planner) Playable(st *state.CombatState) map[string]bool {
	punished := false
	for i := range st.Monsters {
		if st.Monsters[i].Alive() && st.Monsters[i].PunishesSkills() {
			punished = true
			break
		}
	}
	noTargets := len(st.LivingMonsters()) == 0
	defensive := p.evaluator.Forecaster().Forecast(st) > p.cfg.DefensiveThreshold
	strength := st.Player.Powers.Amount(powers.Strength)
	table := p.resolver.Table()

	out := make(map[string]bool, len(st.Hand))
	for _, c := range st.Hand {
		def, ok := table.Lookup(c.Name)
		if !ok {
			if c.IsPlayable && c.Cost != cards.CostUnplayable {
				// Resolving it reports the missing definition as malformed.
				out[c.UUID] = true
				continue
			}
			p.logger.Warn("unplayable card missing from card table",
				zap.String("card", c.Name), zap.String("card_uuid", c.UUID))
			continue
		}
		switch {
		case def.Unplayable || c.Cost == cards.CostUnplayable:
		case !c.IsPlayable && p.resolver.EffectiveCost(st, c) <= st.Player.Energy:
		case noTargets && p.resolver.NeedsTarget(c):
		case punished && c.Type == cards.TypeSkill:
		case !punished && !defensive && def.BlockOnly():
		case c.Name == limitBreak && strength <= 0:
		default:
			out[c.UUID] = true
		}
	}
	return out
}

// dedupeRoots keeps the first hand card of each name and cost.
func dedupeRoots(hand []cards.Card, playable map[string]bool) []cards.Card {
	seen := make(map[string]bool, len(hand))
	var roots []cards.Card
	for _, c := range hand {
		if !playable[c.UUID] {
			continue
		}
		k := c.Name + ":" + strconv.Itoa(c.Cost)
		if seen[k] {
			continue
		}
		seen[k] = true
		roots = append(roots, c)
	}
	return roots
}

// walker explores one root subtree depth first.
type walker struct {
	p        *Planner
	ctx      context.Context
	playable map[string]bool
	memo     *Cache[visited]
	nodes    *atomic.Int64
	hits     *atomic.Int64

	root       cards.Card
	rootTarget int
	best       candidate
}

func (w *walker) spend() error {
	n := w.nodes.Add(1)
	if limit := w.p.cfg.MaxNodes; limit > 0 && n > limit {
		return errBudget
	}
	if w.ctx.Err() != nil {
		return errBudget
	}
	return nil
}

func (w *walker) play(parent *state.CombatState, parentKey string, card cards.Card, line []string) error {
	target := state.NoTarget
	if w.p.resolver.NeedsTarget(card) {
		idx, ok := w.p.selector.Select(parent)
		if !ok {
			return nil
		}
		target = idx
	}

	key := parentKey + "/" + card.Name + ":" + strconv.Itoa(card.Cost) + ":" + strconv.Itoa(target)
	if _, ok := w.memo.Get(key); ok {
		w.hits.Add(1)
		return nil
	}
	if err := w.spend(); err != nil {
		return err
	}

	next, err := w.p.resolver.Resolve(parent, card.UUID, target)
	if err != nil {
		if effects.IsRejection(err) {
			w.memo.Put(key, visited{})
			return nil
		}
		return err
	}

	if len(line) == 0 {
		w.rootTarget = target
	}
	score := w.p.evaluator.Evaluate(next)
	w.memo.Put(key, visited{})

	line = append(line[:len(line):len(line)], card.Name)
	c := candidate{found: true, card: w.root, target: w.rootTarget, line: line, state: next, score: score}
	if c.better(w.best) {
		w.best = c
	}

	if len(line) >= w.p.cfg.MaxDepth || score == eval.WinScore || next.Player.CurrentHP <= 0 {
		return nil
	}
	for _, c := range next.Hand {
		if !w.playable[c.UUID] {
			continue
		}
		if err := w.play(next, key, c, line); err != nil {
			return err
		}
	}
	return nil
}
