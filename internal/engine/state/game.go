package state

import (
	"fmt"
	"slices"
	"strings"
)

// GameState is a point-in-time copy of a game session.
type GameState struct {
	level     int
	health    int
	position  string
	inventory []string
}

// NewGameState creates a fully specified game snapshot.
// The inventory is copied; later changes to the argument do not leak in.
func NewGameState(level, health int, position string, inventory ...string) GameState {
	return GameState{
		level:     level,
		health:    health,
		position:  position,
		inventory: cloneStrings(inventory),
	}
}

// Level returns the current level.
func (s GameState) Level() int { return s.level }

// Health returns the remaining health.
func (s GameState) Health() int { return s.health }

// Position returns the named location.
func (s GameState) Position() string { return s.position }

// Inventory returns a copy of the carried items.
func (s GameState) Inventory() []string { return cloneStrings(s.inventory) }

// GameOverrides lists the fields to replace when deriving.
// Nil pointers keep the receiver's value. A nil Inventory keeps the
// receiver's items; a non-nil one, even empty, replaces them.
type GameOverrides struct {
	Level     *int
	Health    *int
	Position  *string
	Inventory []string
}

// IsEmpty returns true if no field is overridden.
func (o GameOverrides) IsEmpty() bool {
	return o.Level == nil && o.Health == nil && o.Position == nil && o.Inventory == nil
}

// Derive returns a copy of s with the given overrides applied.
// The result shares no backing storage with s or o.
func (s GameState) Derive(o GameOverrides) GameState {
	next := GameState{
		level:     s.level,
		health:    s.health,
		position:  s.position,
		inventory: cloneStrings(s.inventory),
	}
	if o.Level != nil {
		next.level = *o.Level
	}
	if o.Health != nil {
		next.health = *o.Health
	}
	if o.Position != nil {
		next.position = *o.Position
	}
	if o.Inventory != nil {
		next.inventory = cloneStrings(o.Inventory)
	}
	return next
}

// Equal reports whether two snapshots hold the same field values.
func (s GameState) Equal(other GameState) bool {
	return s.level == other.level &&
		s.health == other.health &&
		s.position == other.position &&
		slices.Equal(s.inventory, other.inventory)
}

// String returns a single-line description for logs and displays.
func (s GameState) String() string {
	return fmt.Sprintf("level=%d health=%d position=%q inventory=[%s]",
		s.level, s.health, s.position, strings.Join(s.inventory, ", "))
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
