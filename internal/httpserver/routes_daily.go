// internal/httpserver/routes_daily.go
//
// HTTP route for the daily board:
//   - POST /daily/new → start (or resume) today's board
//
// Every caller gets the same layout for a given UTC date and grid size
// (seeded by HMAC(salt, date)). The game ID is derived from owner, date and
// size, so calling /daily/new again resumes the same session.

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/findpair/internal/daily"
	"github.com/robalobadob/findpair/internal/game"
	"github.com/robalobadob/findpair/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/new", s.handleDailyNew)
}

// dailyGameID derives a stable session ID for owner/date/size.
func dailyGameID(owner, date string, size int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("findpair:daily:"+owner+":"+date+":"+strconv.Itoa(size))).String()
}

// handleDailyNew creates or resumes today's board for the caller.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	size, ok := s.decodeGridSize(w, r)
	if !ok {
		return
	}
	now := s.opts.Now()
	date := daily.DateKey(now)
	owner := s.ownerForNew(w, r)
	id := dailyGameID(owner, date, size)

	unlock := s.locks.Lock(id)
	defer unlock()

	g, err := s.store.Get(r.Context(), id)
	if err == nil && g.Owner == owner {
		writeJSON(w, http.StatusOK, newBoardView(g))
		return
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("load daily game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}

	b, err := game.NewWithOptions(size, game.Options{
		Alphabet: s.opts.Alphabet,
		Rand:     daily.Rand(now, s.opts.DailySalt),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument")
		return
	}
	g = game.NewGame(owner, b)
	g.ID = id
	g.Daily = date
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("save daily game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", id).Str("date", date).Int("gridSize", size).Msg("daily game started")
	writeJSON(w, http.StatusOK, newBoardView(g))
}
