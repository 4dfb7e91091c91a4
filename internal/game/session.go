package game

import (
	"time"

	"github.com/google/uuid"
)

// NewGame wraps a board in a new session owned by owner.
func NewGame(owner string, b *Board) *Game {
	now := time.Now().UTC()
	return &Game{
		ID:        uuid.NewString(),
		Owner:     owner,
		Board:     b,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Restart deals a fresh board of the same size, keeping the session ID.
func (g *Game) Restart(opts Options) error {
	b, err := NewWithOptions(g.Board.GridSize, opts)
	if err != nil {
		return err
	}
	g.Board = b
	g.Touch()
	return nil
}

// Tap forwards to the board and bumps UpdatedAt when something changed.
func (g *Game) Tap(index int) (Outcome, error) {
	out, err := g.Board.Tap(index)
	if err == nil && out != OutcomeIgnored {
		g.Touch()
	}
	return out, err
}

// Touch records a modification.
func (g *Game) Touch() { g.UpdatedAt = time.Now().UTC() }

// Clone returns a deep copy of the session.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g
	out.Board = g.Board.Clone()
	return &out
}
