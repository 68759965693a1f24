package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spirecomm/ironclad-planner/internal/game/gametest"
	"github.com/spirecomm/ironclad-planner/internal/game/search"
	"github.com/spirecomm/ironclad-planner/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sampleState() *state.CombatState {
	return gametest.NewState().
		Turn(3).
		Monster(gametest.MonsterSpec{Name: "Jaw Worm", HP: 30, Damage: 11}).
		Hand(gametest.Attack("s1", "Strike", 1)).
		Build()
}

func TestNewEntry(t *testing.T) {
	st := sampleState()
	play := search.Decision{
		Action:    search.PlayCardAction(st.Hand[0], 0),
		Line:      []string{"Strike"},
		Score:     120,
		PassScore: 80,
		Nodes:     4,
	}

	e := NewEntry(st, play)
	assert.Equal(t, 3, e.Turn)
	assert.Equal(t, st.Checksum(), e.Checksum)
	assert.Equal(t, "Strike", e.Card)
	assert.Equal(t, "s1", e.CardUUID)
	assert.False(t, e.EndTurn)
	assert.Equal(t, int64(4), e.Nodes)

	end := NewEntry(st, search.Decision{Action: search.EndTurnAction()})
	assert.True(t, end.EndTurn)
	assert.Empty(t, end.Card)
	assert.Equal(t, state.NoTarget, end.Target)
}

func TestLog_Navigation(t *testing.T) {
	l := NewLog("combat-1")
	for turn := 1; turn <= 3; turn++ {
		l.Record(Entry{Turn: turn})
	}
	require.Equal(t, 3, l.Size())

	e, ok := l.Next()
	require.True(t, ok)
	assert.Equal(t, 1, e.Turn)
	e, _ = l.Next()
	assert.Equal(t, 2, e.Turn)

	l.Start()
	for i := 0; i < 3; i++ {
		_, ok = l.Next()
		assert.True(t, ok)
	}
	_, ok = l.Next()
	assert.False(t, ok)

	e, ok = l.At(2)
	require.True(t, ok)
	assert.Equal(t, 3, e.Turn)
	_, ok = l.At(5)
	assert.False(t, ok)
	assert.NotEmpty(t, NewLog("").CombatID)
}

func TestLog_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	st := sampleState()
	l := NewLog("combat-7")
	l.Record(NewEntry(st, search.Decision{Action: search.PlayCardAction(st.Hand[0], 0), Line: []string{"Strike"}, Score: 10}))
	l.Record(NewEntry(st, search.Decision{Action: search.EndTurnAction(), Truncated: true}))

	require.NoError(t, l.SaveToFile(dir))
	_, err := os.Stat(filepath.Join(dir, "combat-7.replay"))
	require.NoError(t, err)

	loaded, err := LoadFromFile(dir, "combat-7")
	require.NoError(t, err)
	assert.Equal(t, "combat-7", loaded.CombatID)
	require.Equal(t, 2, loaded.Size())
	assert.Equal(t, []string{"Strike"}, loaded.Entries[0].Line)
	assert.Equal(t, st.Checksum(), loaded.Entries[0].Checksum)
	assert.True(t, loaded.Entries[1].Truncated)

	_, err = LoadFromFile(dir, "missing")
	assert.Error(t, err)
}

func TestRecorder_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(zaptest.NewLogger(t), dir)
	st := sampleState()

	r.Record("unknown", st, search.Decision{Action: search.EndTurnAction()})
	_, ok := r.Log("unknown")
	assert.False(t, ok)

	l := r.Begin("combat-9")
	r.Record(l.CombatID, st, search.Decision{Action: search.EndTurnAction()})
	assert.Equal(t, 1, l.Size())

	require.NoError(t, r.Save("combat-9"))
	_, ok = r.Log("combat-9")
	assert.False(t, ok)
	assert.Error(t, r.Save("combat-9"))

	loaded, err := r.Load("combat-9")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Size())
}

func TestRecorder_Resume(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(zaptest.NewLogger(t), dir)
	st := sampleState()

	l, err := r.Resume("combat-3")
	require.NoError(t, err)
	assert.Equal(t, 0, l.Size())
	r.Record("combat-3", st, search.Decision{Action: search.EndTurnAction()})
	require.NoError(t, r.Save("combat-3"))

	l, err = r.Resume("combat-3")
	require.NoError(t, err)
	r.Record("combat-3", st, search.Decision{Action: search.EndTurnAction()})
	assert.Equal(t, 2, l.Size())

	fresh, err := r.Resume("")
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.CombatID)
}
