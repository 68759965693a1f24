package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spirecomm/ironclad-planner/internal/config"
	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/game/effects"
	"github.com/spirecomm/ironclad-planner/internal/game/eval"
	"github.com/spirecomm/ironclad-planner/internal/game/forecast"
	"github.com/spirecomm/ironclad-planner/internal/game/replay"
	"github.com/spirecomm/ironclad-planner/internal/game/search"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"github.com/spirecomm/ironclad-planner/internal/snapshot"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxSnapshotLine = 4 << 20

var (
	configPath   = flag.String("config", "", "path to configuration file")
	snapshotPath = flag.String("snapshot", "-", "snapshot file, or - for stdin")
	cardsPath    = flag.String("cards", "", "card table file, overrides cards.path")
	serve        = flag.Bool("serve", false, "read one snapshot per line from stdin until EOF")
	combatID     = flag.String("combat", "", "combat id to append decisions to when replay is enabled")
	replayID     = flag.String("replay", "", "print the saved decision log of this combat id and exit")
	replayEntry  = flag.Int("entry", -1, "with -replay, print only this entry index")
	version      = "dev" // set via ldflags during build
)

// output is the action written to stdout.
type output struct {
	Action  string   `json:"action"`
	Card    string   `json:"card,omitempty"`
	Name    string   `json:"name,omitempty"`
	Target  *int     `json:"target,omitempty"`
	Command string   `json:"command"`
	Line    []string `json:"line,omitempty"`
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *cardsPath != "" {
		cfg.Cards.Path = *cardsPath
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting ironclad planner",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("planner failed", zap.Error(err))
	}
	logger.Info("ironclad planner stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if *replayID != "" {
		l, err := replay.NewRecorder(logger.Named("replay"), cfg.Replay.Dir).Load(*replayID)
		if err != nil {
			return fmt.Errorf("load decision log: %w", err)
		}
		return dumpReplay(os.Stdout, l, *replayEntry)
	}

	table, err := loadTable(cfg.Cards.Path)
	if err != nil {
		return fmt.Errorf("load card table: %w", err)
	}
	logger.Info("card table loaded", zap.Int("cards", table.Len()))

	selector := cfg.Selector()
	resolver := effects.NewResolver(table, selector, logger.Named("resolver"))
	evaluator := eval.NewEvaluator(cfg.Weights, forecast.NewForecaster(table), table)
	planner := search.NewPlanner(resolver, evaluator, selector, cfg.Search, logger.Named("search"))
	logger.Info("planner initialized",
		zap.Int("max_depth", planner.Config().MaxDepth),
		zap.Int64("max_nodes", planner.Config().MaxNodes),
		zap.Duration("timeout", planner.Config().Timeout),
		zap.Int("workers", planner.Config().Workers),
	)

	var (
		recorder  *replay.Recorder
		decisions *replay.Log
	)
	if cfg.Replay.Enabled {
		recorder = replay.NewRecorder(logger.Named("replay"), cfg.Replay.Dir)
		decisions, err = recorder.Resume(*combatID)
		if err != nil {
			return fmt.Errorf("open decision log: %w", err)
		}
		defer func() {
			if err := recorder.Save(decisions.CombatID); err != nil {
				logger.Error("failed to save decision log", zap.Error(err))
			}
		}()
	}

	decide := func(raw io.Reader) error {
		st, err := snapshot.Decode(raw)
		if err != nil {
			return err
		}
		d, err := planner.Decide(ctx, st)
		if err != nil {
			return err
		}
		if recorder != nil {
			recorder.Record(decisions.CombatID, st, d)
		}
		return writeDecision(os.Stdout, st, d)
	}

	if !*serve {
		in, closeIn, err := openSnapshot(*snapshotPath)
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer closeIn()
		return decide(in)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64<<10), maxSnapshotLine)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		err := decide(bytes.NewReader(line))
		switch {
		case errors.Is(err, snapshot.ErrNotInCombat):
			logger.Debug("skipping snapshot outside combat")
		case err != nil:
			logger.Error("failed to decide", zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read snapshots: %w", err)
	}
	return nil
}

func loadTable(path string) (*cards.Table, error) {
	if path == "" {
		return cards.Default()
	}
	return cards.LoadFile(path)
}

func openSnapshot(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// writeDecision prints the decision as one JSON line. The command field is
// the CommunicationMod text command, with a 1-based hand index.
func writeDecision(w io.Writer, st *state.CombatState, d search.Decision) error {
	out := output{Action: "end", Command: "end"}
	if !d.Action.EndTurn {
		out = output{
			Action: "play",
			Card:   d.Action.Card.UUID,
			Name:   d.Action.Card.Name,
			Line:   d.Line,
		}
		out.Command = "play " + strconv.Itoa(cards.Find(st.Hand, d.Action.Card.UUID)+1)
		if d.Action.Target != state.NoTarget {
			target := d.Action.Target
			out.Target = &target
			out.Command += " " + strconv.Itoa(target)
		}
	}
	return json.NewEncoder(w).Encode(out)
}

// dumpReplay prints the log's entries as JSON lines, or only the entry at
// index when it is not negative.
func dumpReplay(w io.Writer, l *replay.Log, index int) error {
	enc := json.NewEncoder(w)
	if index >= 0 {
		e, ok := l.At(index)
		if !ok {
			return fmt.Errorf("decision log %s has %d entries, no entry %d", l.CombatID, l.Size(), index)
		}
		return enc.Encode(e)
	}
	l.Start()
	for e, ok := l.Next(); ok; e, ok = l.Next() {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// initLogger initializes the zap logger based on configuration.
// Console output goes to stderr so stdout carries only decisions.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
