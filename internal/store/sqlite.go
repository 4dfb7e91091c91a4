package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/findpair/internal/game"
)

// sqliteStore persists games in the games table (see internal/db migrations).
// The board is stored as JSON; owner/grid_size/won are kept as columns for queries.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by a migrated database.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Save(ctx context.Context, g *game.Game) error {
	state, err := json.Marshal(g.Board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	var daily any
	if g.Daily != "" {
		daily = g.Daily
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO games (id, owner, daily, grid_size, won, state, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            owner=excluded.owner,
            daily=excluded.daily,
            grid_size=excluded.grid_size,
            won=excluded.won,
            state=excluded.state,
            updated_at=excluded.updated_at`,
		g.ID, g.Owner, daily, g.Board.GridSize, g.Board.Won, string(state),
		g.CreatedAt.UTC().Format(time.RFC3339Nano), g.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*game.Game, error) {
	var (
		g                game.Game
		daily            sql.NullString
		state            string
		created, updated string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner, daily, state, created_at, updated_at FROM games WHERE id=?`, id,
	).Scan(&g.ID, &g.Owner, &daily, &state, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	g.Daily = daily.String
	g.Board = &game.Board{}
	if err := json.Unmarshal([]byte(state), g.Board); err != nil {
		return nil, fmt.Errorf("unmarshal board %s: %w", id, err)
	}
	g.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	g.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &g, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}
