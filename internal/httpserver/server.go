// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the FreeCell backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/move,
//     GET /game/{id}, GET /game/{id}/text.
//   - Daily deal endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Database bookkeeping for game ownership and user stats.
//
// Notes:
//   - Live games are held only in the session store. The games table records
//     who played what layout and how it ended, never the cards.
//   - Rule violations answer 422 with the engine's error code and detail;
//     malformed requests answer 400; unknown games 404.
//   - A session's mutex is held for the whole read-modify-read of a move.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/freecell/apps/go-server/internal/config"
	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
	"github.com/robalobadob/freecell/apps/go-server/internal/render"
	"github.com/robalobadob/freecell/apps/go-server/internal/store"
)

// Server bundles router, in-memory session store, DB handle and settings.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	cfg   config.Config
	deck  func() []freecell.Card
	now   func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithDeck sets the deck source used for new games (default: canonical deck).
func WithDeck(fn func() []freecell.Card) Option {
	return func(s *Server) { s.deck = fn }
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config, opts ...Option) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg, deck: freecell.NewDeck, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "freecell-go",
			"endpoints": []string{
				"/health", "POST /game/new", "POST /game/move", "GET /game/{id}",
				"GET /game/{id}/text", "/daily/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Game endpoints (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/move", s.handleMove)
		r.Get("/game/{id}", s.handleGetGame)
		r.Get("/game/{id}/text", s.handleGameText)
	})

	// Daily deal (guests can play; results persisted on win)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	// Debug: size of the configured deck
	s.r.Get("/debug/deck", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"cards": len(s.deck()), "defaults": s.cfg.Game})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ responses ----------------------------------

type errorRes struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorRes{Error: code, Detail: detail})
}

// writeEngineError maps an engine error onto a response. Setup failures
// (config, deck) are the client's input and answer 400; everything else the
// engine names is a rule violation (422). Foreign errors are 500.
func writeEngineError(w http.ResponseWriter, err error) {
	code := freecell.Code(err)
	switch {
	case code == "":
		log.Error().Err(err).Msg("engine")
		writeError(w, http.StatusInternalServerError, "internal", "")
	case errors.Is(err, freecell.ErrInvalidConfig), errors.Is(err, freecell.ErrInvalidDeck):
		writeError(w, http.StatusBadRequest, code, freecell.Detail(err))
	default:
		writeError(w, http.StatusUnprocessableEntity, code, freecell.Detail(err))
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the POST /game/new payload. Omitted fields fall back to the
// server defaults; shuffle defaults to true.
type newGameReq struct {
	Cascades *int     `json:"cascades"`
	Opens    *int     `json:"opens"`
	Variant  string   `json:"variant"`
	Shuffle  *bool    `json:"shuffle"`
	Seed     *uint64  `json:"seed"`
	Deck     []string `json:"deck"`
}

// gameRes is returned by every game endpoint.
type gameRes struct {
	GameID   string            `json:"gameId"`
	Status   freecell.Status   `json:"status"`
	Moves    int               `json:"moves"`
	Config   freecell.Config   `json:"config"`
	Snapshot freecell.Snapshot `json:"snapshot"`
}

func sessionRes(sess *store.Session) gameRes {
	g := sess.Game
	return gameRes{
		GameID:   sess.ID,
		Status:   g.Status(),
		Moves:    g.Moves(),
		Config:   g.Config(),
		Snapshot: g.Snapshot(),
	}
}

// defaultGame is the configured layout, or the standard one when unset.
func (s *Server) defaultGame() freecell.Config {
	if s.cfg.Game == (freecell.Config{}) {
		return freecell.DefaultConfig()
	}
	return s.cfg.Game
}

// configFor merges a request's layout over the server defaults.
func (s *Server) configFor(req newGameReq) (freecell.Config, error) {
	def := s.defaultGame()
	cascades, opens, variant := def.Cascades, def.Opens, def.Variant
	if req.Cascades != nil {
		cascades = *req.Cascades
	}
	if req.Opens != nil {
		opens = *req.Opens
	}
	if req.Variant != "" {
		variant = freecell.Variant(strings.ToLower(req.Variant))
	}
	return freecell.NewBuilder().Cascades(cascades).Opens(opens).Variant(variant).Build()
}

// deckFor returns the request's deck or the server's.
func (s *Server) deckFor(req newGameReq) ([]freecell.Card, error) {
	if len(req.Deck) == 0 {
		return s.deck(), nil
	}
	cards, err := freecell.ParseDeck(strings.Join(req.Deck, " "))
	if err != nil {
		return nil, &freecell.RuleError{Kind: freecell.ErrInvalidDeck, Detail: err.Error()}
	}
	return cards, nil
}

// handleNewGame deals a new game, stores the session and records an owner row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	cfg, err := s.configFor(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	deck, err := s.deckFor(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	var opts []freecell.Option
	if req.Seed != nil {
		opts = append(opts, freecell.WithSeed(*req.Seed))
	}
	g, err := freecell.NewGame(cfg, opts...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	shuffle := req.Shuffle == nil || *req.Shuffle
	if err := g.Start(deck, shuffle); err != nil {
		writeEngineError(w, err)
		return
	}

	me := userFrom(r)
	var owner string
	if me != nil {
		owner = me.ID
	} else {
		owner = s.ensureAnonID(w, r)
	}
	sess := store.NewSession(g, owner, store.ModeNormal)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	s.recordGameStart(sess, me)

	writeJSON(w, http.StatusOK, sessionRes(sess))
}

// moveReq is the POST /game/move payload: a game id plus a freecell.Move
// (pile kinds by name, 0-based numbers).
type moveReq struct {
	GameID string `json:"gameId"`
	freecell.Move
}

// handleMove applies one move and, when the game ends, closes the DB row and
// bumps the owner's stats.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	sess, err := s.store.Get(r.Context(), req.GameID)
	if err != nil || sess.Mode != store.ModeNormal || !owns(r, sess) {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}

	sess.Lock()
	wasOver := sess.Game.IsOver()
	moveErr := sess.Game.Move(req.Move)
	res := sessionRes(sess)
	sess.Unlock()

	if moveErr != nil {
		log.Debug().Str("gameId", sess.ID).Str("move", req.Move.String()).Str("code", freecell.Code(moveErr)).Msg("move rejected")
		writeEngineError(w, moveErr)
		return
	}
	s.recordMove(sess, userFrom(r), anonFrom(r), res, !wasOver && res.Status == freecell.StatusOver)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	sess.Lock()
	res := sessionRes(sess)
	sess.Unlock()
	writeJSON(w, http.StatusOK, res)
}

// handleGameText renders the table in the terminal text format.
func (s *Server) handleGameText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	sess.Lock()
	text := render.State(sess.Game.Snapshot())
	sess.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// ---------------------------- bookkeeping -----------------------------------

// recordGameStart inserts the owner row. For signed-in players an unfinished
// previous game counts as abandoned and breaks the win streak.
func (s *Server) recordGameStart(sess *store.Session, me *authUser) {
	cfg := sess.Game.Config()
	now := sess.StartedAt.Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin game row")
		return
	}
	defer func() { _ = tx.Rollback() }()

	var userID, anonID any
	if me != nil {
		userID = me.ID
		if err := s.abandonOpenGames(tx, me.ID, now); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("abandon open games")
		}
	} else {
		anonID = sess.OwnerID
	}
	if _, err := tx.Exec(`INSERT INTO games (id, user_id, anonymous_id, mode, cascades, opens, variant, status, moves, started_at)
	                      VALUES (?,?,?,?,?,?,?,?,0,?)`,
		sess.ID, userID, anonID, string(sess.Mode), cfg.Cascades, cfg.Opens, string(cfg.Variant),
		string(sess.Game.Status()), now); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
		return
	}
	if me != nil {
		if _, err := tx.Exec(`UPDATE users SET games_played = games_played + 1 WHERE id=?`, me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump games played")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("commit game row")
	}
}

func (s *Server) abandonOpenGames(tx *sql.Tx, userID, now string) error {
	res, err := tx.Exec(`UPDATE games SET status='abandoned', finished_at=?
	                     WHERE user_id=? AND status=?`, now, userID, string(freecell.StatusInProgress))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		_, err = tx.Exec(`UPDATE users SET streak = 0 WHERE id=?`, userID)
	}
	return err
}

// owns reports whether the caller dealt sess: the signed-in player, or the
// guest holding the anonymous cookie it was dealt to.
func owns(r *http.Request, sess *store.Session) bool {
	if me := userFrom(r); me != nil && me.ID == sess.OwnerID {
		return true
	}
	anon := anonFrom(r)
	return anon != "" && anon == sess.OwnerID
}

// ownerArgs binds the caller's identity for "(user_id=? OR anonymous_id=?)".
// A missing identity binds NULL, which matches nothing.
func ownerArgs(me *authUser, anon string) (userID, anonID any) {
	if me != nil {
		userID = me.ID
	}
	if anon != "" {
		anonID = anon
	}
	return userID, anonID
}

// recordMove updates the move counter and, on the winning move, the status
// and the owner's stats. Rows are scoped to the caller. Best effort: failures
// are logged.
func (s *Server) recordMove(sess *store.Session, me *authUser, anon string, state gameRes, won bool) {
	userID, anonID := ownerArgs(me, anon)
	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin move update")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET moves=? WHERE id=? AND (user_id=? OR anonymous_id=?)`,
		state.Moves, sess.ID, userID, anonID); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("update moves")
	}
	if won {
		// Only the first win of a game counts; cards can go back down and up again.
		res, err := tx.Exec(`UPDATE games SET status=?, finished_at=?
		                     WHERE id=? AND status<>? AND (user_id=? OR anonymous_id=?)`,
			string(freecell.StatusOver), s.now().UTC().Format(time.RFC3339), sess.ID,
			string(freecell.StatusOver), userID, anonID)
		if err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("finish game")
		}
		first := err == nil
		if first {
			n, _ := res.RowsAffected()
			first = n > 0
		}
		if first && me != nil {
			if err := bumpWin(tx, me.ID); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("commit move update")
	}
}

// bumpWin increments wins and streak (within tx).
func bumpWin(tx *sql.Tx, userID string) error {
	_, err := tx.Exec(`UPDATE users SET wins = wins + 1, streak = streak + 1 WHERE id=?`, userID)
	return err
}
