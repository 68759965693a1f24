package cards

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/ironclad.yaml
var defaultTable []byte

// Definition is the static description of a card: what playing it does.
type Definition struct {
	Name          string   `yaml:"name"`
	Type          CardType `yaml:"type"`
	Cost          int      `yaml:"cost"`
	Target        bool     `yaml:"target,omitempty"`
	Exhaust       bool     `yaml:"exhaust,omitempty"`
	Ethereal      bool     `yaml:"ethereal,omitempty"`
	Unplayable    bool     `yaml:"unplayable,omitempty"`
	EndTurnDamage int      `yaml:"end_turn_damage,omitempty"`
	Effects       []Effect `yaml:"effects,omitempty"`
}

// Validate checks the definition and every effect in it.
func (d Definition) Validate() error {
	if d.Name == "" {
		return &ValidationError{Reason: "missing name"}
	}
	if !d.Type.Valid() {
		return &ValidationError{Card: d.Name, Reason: fmt.Sprintf("unknown type %q", d.Type)}
	}
	for i, e := range d.Effects {
		path := fmt.Sprintf("effects[%d]", i)
		if err := e.Validate(d.Name, path); err != nil {
			return err
		}
		if !d.Target && e.NeedsTarget() {
			return &ValidationError{Card: d.Name, Path: path, Reason: fmt.Sprintf("%s needs a target but the card is untargeted", e.Kind)}
		}
	}
	return nil
}

// BlockOnly returns true for cards whose only effect is gaining block.
func (d Definition) BlockOnly() bool {
	if len(d.Effects) == 0 {
		return false
	}
	for _, e := range d.Effects {
		if e.Kind != KindBlock {
			return false
		}
	}
	return true
}

// Table maps card names to definitions. It is read-only after construction
// and safe for concurrent use.
type Table struct {
	defs map[string]Definition
}

type tableFile struct {
	Cards []Definition `yaml:"cards"`
}

// NewTable validates the definitions and builds a table.
func NewTable(defs ...Definition) (*Table, error) {
	t := &Table{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.defs[d.Name]; dup {
			return nil, &ValidationError{Card: d.Name, Reason: "duplicate definition"}
		}
		t.defs[d.Name] = d
	}
	return t, nil
}

// MustTable is NewTable that panics on error, for tests and static data.
func MustTable(defs ...Definition) *Table {
	t, err := NewTable(defs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Decode reads a YAML card table. Unknown keys are rejected.
func Decode(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file tableFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable()
		}
		return nil, fmt.Errorf("%w: decode card table: %v", ErrMalformedCardData, err)
	}
	return NewTable(file.Cards...)
}

// LoadFile reads a YAML card table from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card table: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Default returns the embedded Ironclad card table.
func Default() (*Table, error) {
	return Decode(bytes.NewReader(defaultTable))
}

// Lookup returns the definition for name.
func (t *Table) Lookup(name string) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	d, ok := t.defs[name]
	return d, ok
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}

// Names returns the card names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Len())
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCard builds a card instance of the named definition.
// Unknown names produce an unplayable status card.
func (t *Table) NewCard(name, uuid string) Card {
	d, ok := t.Lookup(name)
	if !ok {
		return Card{UUID: uuid, ID: name, Name: name, Type: TypeStatus, Cost: CostUnplayable}
	}
	cost := d.Cost
	if d.Unplayable {
		cost = CostUnplayable
	}
	return Card{
		UUID:       uuid,
		ID:         name,
		Name:       name,
		Type:       d.Type,
		Cost:       cost,
		HasTarget:  d.Target,
		IsPlayable: !d.Unplayable,
		Exhausts:   d.Exhaust,
		Ethereal:   d.Ethereal,
	}
}
