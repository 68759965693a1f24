// Package replay records planner decisions so a fight can be stepped through afterwards.
package replay

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spirecomm/ironclad-planner/internal/game/search"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"go.uber.org/zap"
)

const formatVersion = 1

// Entry is one recorded decision and the snapshot it was made from.
type Entry struct {
	Turn      int       `json:"turn"`
	Checksum  string    `json:"checksum"`
	Summary   string    `json:"summary"`
	EndTurn   bool      `json:"end_turn"`
	Card      string    `json:"card,omitempty"`
	CardUUID  string    `json:"card_uuid,omitempty"`
	Target    int       `json:"target"`
	Line      []string  `json:"line,omitempty"`
	Score     float64   `json:"score"`
	PassScore float64   `json:"pass_score"`
	Nodes     int64     `json:"nodes"`
	CacheHits int64     `json:"cache_hits"`
	Truncated bool      `json:"truncated"`
	Recorded  time.Time `json:"recorded"`
}

// NewEntry captures a decision made from st.
func NewEntry(st *state.CombatState, d search.Decision) Entry {
	e := Entry{
		Turn:      st.Turn,
		Checksum:  st.Checksum(),
		Summary:   st.Summary(),
		EndTurn:   d.Action.EndTurn,
		Target:    d.Action.Target,
		Line:      append([]string(nil), d.Line...),
		Score:     d.Score,
		PassScore: d.PassScore,
		Nodes:     d.Nodes,
		CacheHits: d.CacheHits,
		Truncated: d.Truncated,
		Recorded:  time.Now(),
	}
	if !d.Action.EndTurn {
		e.Card = d.Action.Card.Name
		e.CardUUID = d.Action.Card.UUID
	}
	return e
}

// Log is the ordered decision history of one combat.
type Log struct {
	CombatID string
	Entries  []Entry
	cursor   int
	mu       sync.RWMutex
}

// NewLog creates an empty log. An empty id gets a random one.
func NewLog(combatID string) *Log {
	if combatID == "" {
		combatID = uuid.NewString()
	}
	return &Log{CombatID: combatID}
}

// Record appends an entry.
func (l *Log) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, e)
}

// Start rewinds playback to the first entry.
func (l *Log) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cursor = 0
}

// Next returns the entry at the cursor and advances it.
func (l *Log) Next() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor >= len(l.Entries) {
		return Entry{}, false
	}
	e := l.Entries[l.cursor]
	l.cursor++
	return e, true
}

// Size returns the number of entries.
func (l *Log) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.Entries)
}

// At returns the entry at index.
func (l *Log) At(index int) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.Entries) {
		return Entry{}, false
	}
	return l.Entries[index], true
}

type header struct {
	CombatID   string
	Saved      time.Time
	Version    int
	EntryCount int
}

func fileName(directory, combatID string) string {
	return filepath.Join(directory, combatID+".replay")
}

// SaveToFile writes the log to <directory>/<combat id>.replay as gzipped gob.
func (l *Log) SaveToFile(directory string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	f, err := os.Create(fileName(directory, l.CombatID))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	enc := gob.NewEncoder(zw)
	h := header{CombatID: l.CombatID, Saved: time.Now(), Version: formatVersion, EntryCount: len(l.Entries)}
	if err := enc.Encode(&h); err != nil {
		return fmt.Errorf("encode replay header: %w", err)
	}
	for i := range l.Entries {
		if err := enc.Encode(&l.Entries[i]); err != nil {
			return fmt.Errorf("encode replay entry %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush replay file: %w", err)
	}
	return nil
}

// LoadFromFile reads a log written by SaveToFile.
func LoadFromFile(directory, combatID string) (*Log, error) {
	f, err := os.Open(fileName(directory, combatID))
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open replay stream: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("decode replay header: %w", err)
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", h.Version)
	}

	l := NewLog(h.CombatID)
	l.Entries = make([]Entry, 0, h.EntryCount)
	for i := 0; i < h.EntryCount; i++ {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode replay entry %d: %w", i, err)
		}
		l.Entries = append(l.Entries, e)
	}
	return l, nil
}

// Recorder keeps the logs of running combats and persists them on demand.
type Recorder struct {
	logger *zap.Logger
	dir    string
	mu     sync.RWMutex
	logs   map[string]*Log
}

// NewRecorder creates a recorder saving into dir.
func NewRecorder(logger *zap.Logger, dir string) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger, dir: dir, logs: make(map[string]*Log)}
}

// Begin starts a log for the combat, replacing any existing one.
func (r *Recorder) Begin(combatID string) *Log {
	l := NewLog(combatID)
	r.mu.Lock()
	r.logs[l.CombatID] = l
	r.mu.Unlock()
	r.logger.Info("started decision log", zap.String("combat_id", l.CombatID))
	return l
}

// Resume continues the combat's saved log, or begins a new one if none exists.
func (r *Recorder) Resume(combatID string) (*Log, error) {
	if combatID == "" {
		return r.Begin(""), nil
	}
	l, err := LoadFromFile(r.dir, combatID)
	if errors.Is(err, os.ErrNotExist) {
		return r.Begin(combatID), nil
	}
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.logs[combatID] = l
	r.mu.Unlock()
	r.logger.Info("resumed decision log", zap.String("combat_id", combatID), zap.Int("entries", l.Size()))
	return l, nil
}

// Record appends a decision to the combat's log. Unknown combats are ignored.
func (r *Recorder) Record(combatID string, st *state.CombatState, d search.Decision) {
	r.mu.RLock()
	l := r.logs[combatID]
	r.mu.RUnlock()
	if l == nil {
		return
	}
	l.Record(NewEntry(st, d))
	r.logger.Debug("recorded decision",
		zap.String("combat_id", combatID),
		zap.Int("entries", l.Size()),
	)
}

// Log returns the combat's log.
func (r *Recorder) Log(combatID string) (*Log, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[combatID]
	return l, ok
}

// Save writes the combat's log to disk and forgets it.
func (r *Recorder) Save(combatID string) error {
	r.mu.Lock()
	l, ok := r.logs[combatID]
	delete(r.logs, combatID)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("no decision log for combat %s", combatID)
	}

	if err := l.SaveToFile(r.dir); err != nil {
		return err
	}
	r.logger.Info("saved decision log",
		zap.String("combat_id", combatID),
		zap.Int("entries", l.Size()),
		zap.String("directory", r.dir),
	)
	return nil
}

// Load reads a saved log from the recorder's directory.
func (r *Recorder) Load(combatID string) (*Log, error) {
	l, err := LoadFromFile(r.dir, combatID)
	if err != nil {
		return nil, err
	}
	r.logger.Info("loaded decision log", zap.String("combat_id", combatID), zap.Int("entries", l.Size()))
	return l, nil
}
