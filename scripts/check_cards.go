package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spirecomm/ironclad-planner/internal/game/cards"
	"github.com/spirecomm/ironclad-planner/internal/snapshot"
)

// Validates a card table and, given a snapshot, reports cards the table lacks.
//
//	go run ./scripts internal/game/cards/data/ironclad.yaml [snapshot.json]
func main() {
	tablePath := "internal/game/cards/data/ironclad.yaml"
	if len(os.Args) > 1 {
		tablePath = os.Args[1]
	}

	absPath, err := filepath.Abs(tablePath)
	if err != nil {
		log.Fatalf("Failed to get absolute path: %v", err)
	}

	fmt.Println("=== Card Table Check ===")
	fmt.Printf("Table file: %s\n", absPath)

	table, err := cards.LoadFile(absPath)
	if err != nil {
		log.Fatalf("Card table is invalid: %v", err)
	}
	fmt.Printf("✓ %d definitions are valid\n", table.Len())

	byType := make(map[cards.CardType]int)
	var missingUpgrade []string
	for _, name := range table.Names() {
		def, _ := table.Lookup(name)
		byType[def.Type]++
		if strings.HasSuffix(name, "+") || def.Type == cards.TypeStatus || def.Type == cards.TypeCurse {
			continue
		}
		if _, ok := table.Lookup(name + "+"); !ok {
			missingUpgrade = append(missingUpgrade, name)
		}
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-8s %d\n", t, byType[cards.CardType(t)])
	}
	for _, name := range missingUpgrade {
		log.Printf("Warning: %s has no upgraded definition", name)
	}

	if len(os.Args) < 3 {
		return
	}

	f, err := os.Open(os.Args[2])
	if err != nil {
		log.Fatalf("Failed to open snapshot: %v", err)
	}
	defer f.Close()

	st, err := snapshot.Decode(f)
	if err != nil {
		log.Fatalf("Failed to decode snapshot: %v", err)
	}

	missing := make(map[string]bool)
	for _, pile := range [][]cards.Card{st.Hand, st.DrawPile, st.DiscardPile, st.ExhaustPile} {
		for _, c := range pile {
			if _, ok := table.Lookup(c.Name); !ok {
				missing[c.Name] = true
			}
		}
	}
	if len(missing) == 0 {
		fmt.Println("✓ Every card in the snapshot has a definition")
		return
	}
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("✗ %d cards have no definition: %s\n", len(names), strings.Join(names, ", "))
	os.Exit(1)
}
