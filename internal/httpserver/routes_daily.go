// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Deal" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's deal (creates or reuses session)
//   - POST /daily/move        → apply a move to today's deal
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Each player can finish the deal once per day (enforced by DB + in-memory
// session). Everyone gets the same shuffle: the seed is derived from the
// date and DAILY_SALT. The layout is the server's default game config.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/freecell/apps/go-server/internal/daily"
	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
	"github.com/robalobadob/freecell/apps/go-server/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // userID|date → session ID
	finished map[string]bool   // session IDs whose result is recorded
	mu       sync.Mutex
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	salt := s.cfg.DailySalt
	if salt == "" {
		salt = "local_dev_salt"
	}
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     salt,
		sessions: make(map[string]string),
		finished: make(map[string]bool),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/move", dd.handleMove)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userID returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
	*gameRes
}

// handleNew creates or reuses today's session.
// - If the player already has a DB row for today → Played=true, no game.
// - Otherwise deal (or return) the day's game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	now := d.srv.now().UTC()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			sess.Lock()
			res := sessionRes(sess)
			sess.Unlock()
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, gameRes: &res})
			return
		}
	}

	g, err := freecell.NewGame(d.srv.defaultGame(), freecell.WithSeed(daily.Seed(now, d.salt)))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := g.Start(d.srv.deck(), true); err != nil {
		writeEngineError(w, err)
		return
	}
	sess := store.NewSession(g, uid, store.ModeDaily)
	sess.Date = date
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save daily session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	d.sessions[key] = sess.ID

	res := sessionRes(sess)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, gameRes: &res})
}

// -----------------------------------------------------------------------------
// /daily/move

// dailyMoveRes is the response payload for /daily/move.
type dailyMoveRes struct {
	gameRes
	Locked bool `json:"locked"`
}

// handleMove applies a move to the player's daily deal. The deal stays
// playable past midnight UTC and counts for the day it was dealt. The winning
// move records the result; after that the session is locked.
func (d *dailyServer) handleMove(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)

	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.GameID == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id", "")
		return
	}

	sess, err := d.srv.store.Get(r.Context(), req.GameID)
	if err != nil || sess.Mode != store.ModeDaily || sess.OwnerID != uid {
		writeError(w, http.StatusConflict, "no_session", "")
		return
	}
	id := sess.ID
	d.mu.Lock()
	current := d.sessions[uid+"|"+sess.Date] == id
	locked := d.finished[id]
	d.mu.Unlock()
	if !current {
		writeError(w, http.StatusConflict, "no_session", "")
		return
	}

	sess.Lock()
	if locked {
		res := sessionRes(sess)
		sess.Unlock()
		writeJSON(w, http.StatusOK, dailyMoveRes{gameRes: res, Locked: true})
		return
	}
	moveErr := sess.Game.Move(req.Move)
	res := sessionRes(sess)
	sess.Unlock()

	if moveErr != nil {
		writeEngineError(w, moveErr)
		return
	}
	if res.Status != freecell.StatusOver {
		writeJSON(w, http.StatusOK, dailyMoveRes{gameRes: res})
		return
	}

	d.mu.Lock()
	d.finished[id] = true
	d.mu.Unlock()
	day, _ := time.Parse("2006-01-02", sess.Date)
	elapsed := int(d.srv.now().Sub(sess.StartedAt).Milliseconds())
	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: sess.Date, Seed: daily.Seed(day, d.salt), Moves: res.Moves, ElapsedMs: elapsed,
	}); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}
	writeJSON(w, http.StatusOK, dailyMoveRes{gameRes: res, Locked: true})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date", "date must be YYYY-MM-DD")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
