// internal/httpserver/routes_game.go
//
// HTTP routes for regular games:
//   - GET  /game/sizes   → grid sizes offered to clients
//   - POST /game/new     → deal a new board
//   - GET  /game/{id}    → current board
//   - POST /game/tap     → apply one card tap
//   - POST /game/restart → re-deal a board of the same size under the same ID
//
// Taps on one game are serialized with a keyed mutex so Get→Tap→Save never
// interleaves for the same ID.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/findpair/internal/auth"
	"github.com/robalobadob/findpair/internal/daily"
	"github.com/robalobadob/findpair/internal/game"
	"github.com/robalobadob/findpair/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/game/sizes", s.handleSizes)
	r.Post("/game/new", s.handleNewGame)
	r.Get("/game/{id}", s.handleGetGame)
	r.Post("/game/tap", s.handleTap)
	r.Post("/game/restart", s.handleRestart)
}

// ------------------------------- views -------------------------------------

// cardView is one card as shown to the client; hidden symbols are omitted.
type cardView struct {
	Index    int    `json:"index"`
	Symbol   string `json:"symbol,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// boardView is the client-facing game state.
type boardView struct {
	GameID    string     `json:"gameId"`
	GridSize  int        `json:"gridSize"`
	Cards     []cardView `json:"cards"`
	Selection []int      `json:"selection"`
	Won       bool       `json:"won"`
	Matched   int        `json:"matched"` // matched pairs
	Pairs     int        `json:"pairs"`
	Daily     string     `json:"daily,omitempty"`
}

func newBoardView(g *game.Game) boardView {
	b := g.Board
	cards := make([]cardView, len(b.Cards))
	for i, c := range b.Cards {
		cv := cardView{Index: c.Index, Revealed: c.Revealed, Matched: c.Matched}
		if c.Revealed || c.Matched {
			cv.Symbol = c.Symbol
		}
		cards[i] = cv
	}
	return boardView{
		GameID:    g.ID,
		GridSize:  b.GridSize,
		Cards:     cards,
		Selection: append([]int{}, b.Selection...),
		Won:       b.Won,
		Matched:   b.MatchedCount() / 2,
		Pairs:     b.PairCount(),
		Daily:     g.Daily,
	}
}

// ------------------------------ handlers -----------------------------------

// handleSizes lists the grid sizes clients may request.
func (s *Server) handleSizes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]int{"sizes": s.opts.GridSizes})
}

// newGameReq is the payload for POST /game/new and /daily/new.
type newGameReq struct {
	GridSize int `json:"gridSize"` // optional; defaults to the first offered size
}

// decodeGridSize reads an optional newGameReq and validates the size.
// Writes the error response and returns false on failure.
func (s *Server) decodeGridSize(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return 0, false
	}
	if req.GridSize == 0 {
		req.GridSize = s.opts.GridSizes[0]
	}
	if !slices.Contains(s.opts.GridSizes, req.GridSize) {
		writeError(w, http.StatusBadRequest, "unsupported_size")
		return 0, false
	}
	return req.GridSize, true
}

// handleNewGame deals a board and stores it under a fresh game ID.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	size, ok := s.decodeGridSize(w, r)
	if !ok {
		return
	}
	b, err := game.NewWithOptions(size, game.Options{Alphabet: s.opts.Alphabet})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument")
		return
	}
	g := game.NewGame(s.ownerForNew(w, r), b)
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", g.ID).Int("gridSize", size).Msg("game started")
	writeJSON(w, http.StatusOK, newBoardView(g))
}

// handleGetGame returns the current board for its owner.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadOwned(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newBoardView(g))
}

// tapReq/Res payloads for POST /game/tap.
type tapReq struct {
	GameID string `json:"gameId"`
	Index  *int   `json:"index"`
}
type tapRes struct {
	Outcome game.Outcome `json:"outcome"`
	Board   boardView    `json:"board"`
}

// handleTap applies a single card tap and persists the result.
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	var req tapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "invalid_argument")
		return
	}

	unlock := s.locks.Lock(req.GameID)
	defer unlock()

	g, ok := s.loadOwned(w, r, req.GameID)
	if !ok {
		return
	}
	out, err := g.Tap(*req.Index)
	if errors.Is(err, game.ErrInvalidArgument) {
		writeError(w, http.StatusBadRequest, "invalid_argument")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", g.ID).Msg("tap")
		writeError(w, http.StatusInternalServerError, "tap_failed")
		return
	}
	if out != game.OutcomeIgnored {
		if err := s.store.Save(r.Context(), g); err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("gameId", g.ID).Msg("save game")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
	}
	if out == game.OutcomeWon {
		hlog.FromRequest(r).Info().Str("gameId", g.ID).Int("gridSize", g.Board.GridSize).Msg("game won")
	}
	writeJSON(w, http.StatusOK, tapRes{Outcome: out, Board: newBoardView(g)})
}

// restartReq is the payload for POST /game/restart.
type restartReq struct {
	GameID string `json:"gameId"`
}

// handleRestart re-deals the board. Daily games get their daily layout back.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	unlock := s.locks.Lock(req.GameID)
	defer unlock()

	g, ok := s.loadOwned(w, r, req.GameID)
	if !ok {
		return
	}
	opts := game.Options{Alphabet: s.opts.Alphabet}
	if g.Daily != "" {
		if day, err := time.Parse("2006-01-02", g.Daily); err == nil {
			opts.Rand = daily.Rand(day, s.opts.DailySalt)
		}
	}
	if err := g.Restart(opts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", g.ID).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newBoardView(g))
}

// ------------------------------ ownership ----------------------------------

const anonCookieName = "findpair_anon"

// ownerKeys returns the owner keys the request can act as.
func (s *Server) ownerKeys(r *http.Request) []string {
	var keys []string
	if u := auth.FromContext(r.Context()); u != nil {
		keys = append(keys, "user:"+u.ID)
	}
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		keys = append(keys, "anon:"+c.Value)
	}
	return keys
}

// ownerForNew returns the owner key for a new game, issuing an anonymous
// cookie to guests that do not have one yet.
func (s *Server) ownerForNew(w http.ResponseWriter, r *http.Request) string {
	if u := auth.FromContext(r.Context()); u != nil {
		return "user:" + u.ID
	}
	return "anon:" + s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	// Make the new identity visible to the rest of this request.
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

// loadOwned fetches a game the caller owns, writing 404 otherwise.
func (s *Server) loadOwned(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	if id == "" {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	g, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	if !slices.Contains(s.ownerKeys(r), g.Owner) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return g, true
}

// ------------------------------ keyed lock ---------------------------------

// keyedMutex hands out one mutex per key and forgets it when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
