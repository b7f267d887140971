package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/they4kman/gosweep/v2/game"
)

type Config struct {
	// Defaults for games created without explicit dimensions
	Defaults game.GameConfig
	Logger   logrus.FieldLogger
}

// Server exposes games over a small JSON API, so a remote client can keep its
// own rendering in sync with the board
type Server struct {
	router   *chi.Mux
	store    *Store
	defaults game.GameConfig

	log logrus.FieldLogger
}

func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	server := &Server{
		router:   chi.NewRouter(),
		store:    NewStore(),
		defaults: config.Defaults,
		log:      logger,
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.Recoverer)
	server.router.Use(chimw.Heartbeat("/health"))
	server.router.Use(server.logRequests)

	server.router.Route("/games", func(r chi.Router) {
		r.Post("/", server.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.handleGet)
			r.Delete("/", server.handleDelete)
			r.Post("/reveal", server.handleReveal)
			r.Post("/chord", server.handleChord)
			r.Post("/flag", server.handleFlag)
			r.Post("/reset", server.handleReset)
		})
	})

	server.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	server.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return server
}

func (server *Server) Router() http.Handler {
	return server.router
}

func (server *Server) Store() *Store {
	return server.store
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (server *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server.log.WithField("addr", listener.Addr().String()).Info("serving")

	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (server *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		server.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": chimw.GetReqID(r.Context()),
		}).Debug("request")
	})
}

type createRequest struct {
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
	Mines int            `json:"mines"`
	Mode  *game.GameMode `json:"mode"`
	Seed  int64          `json:"seed"`
}

type cellRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type resetRequest struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Mines int `json:"mines"`
}

type gameResponse struct {
	ID   string    `json:"id"`
	View game.View `json:"view"`
}

type commandResponse struct {
	Result interface{} `json:"result"`
	View   game.View   `json:"view"`
}

// POST /games
func (server *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}

	config := server.defaults
	if req.Rows != 0 || req.Cols != 0 || req.Mines != 0 {
		config.Height, config.Width, config.NumMines = req.Rows, req.Cols, req.Mines
	}
	if req.Mode != nil {
		config.Mode = *req.Mode
	}
	if req.Seed != 0 {
		config.Seed = req.Seed
	}
	config.Snapshot = nil

	id := server.store.NewID()
	config.Logger = server.log.WithField("game", id)

	g, err := game.NewGame(config)
	if err != nil {
		writeGameError(w, err)
		return
	}
	server.store.Put(id, g)

	server.log.WithFields(logrus.Fields{
		"game":  id,
		"rows":  config.Height,
		"cols":  config.Width,
		"mines": config.NumMines,
	}).Info("created game")

	writeJSON(w, http.StatusCreated, gameResponse{ID: id, View: g.View()})
}

// GET /games/{id}
func (server *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view game.View
	server.withGame(w, id, func(g *game.Game) error {
		view = g.View()
		return nil
	}, func() {
		writeJSON(w, http.StatusOK, gameResponse{ID: id, View: view})
	})
}

// DELETE /games/{id}
func (server *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !server.store.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /games/{id}/reveal
func (server *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	server.handleCell(w, r, func(g *game.Game, req cellRequest) interface{} {
		return g.Reveal(req.Row, req.Col)
	})
}

// POST /games/{id}/chord
func (server *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	server.handleCell(w, r, func(g *game.Game, req cellRequest) interface{} {
		return g.Chord(req.Row, req.Col)
	})
}

// POST /games/{id}/flag
func (server *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	server.handleCell(w, r, func(g *game.Game, req cellRequest) interface{} {
		return g.ToggleFlag(req.Row, req.Col)
	})
}

func (server *Server) handleCell(w http.ResponseWriter, r *http.Request, command func(*game.Game, cellRequest) interface{}) {
	var req cellRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var response commandResponse
	server.withGame(w, chi.URLParam(r, "id"), func(g *game.Game) error {
		response.Result = command(g, req)
		response.View = g.View()
		return nil
	}, func() {
		writeJSON(w, http.StatusOK, response)
	})
}

// POST /games/{id}/reset
//
// An empty body starts a new round of the same size.
func (server *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var view game.View
	server.withGame(w, id, func(g *game.Game) error {
		var err error
		if req.Rows == 0 && req.Cols == 0 && req.Mines == 0 {
			err = g.NewRound()
		} else {
			err = g.Reset(req.Rows, req.Cols, req.Mines)
		}
		view = g.View()
		return err
	}, func() {
		writeJSON(w, http.StatusOK, gameResponse{ID: id, View: view})
	})
}

// withGame runs fn under the game's lock and calls respond on success
func (server *Server) withGame(w http.ResponseWriter, id string, fn func(*game.Game) error, respond func()) {
	found, err := server.store.With(id, fn)
	switch {
	case !found:
		writeError(w, http.StatusNotFound, "game not found")
	case err != nil:
		writeGameError(w, err)
	default:
		respond()
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeGameError(w http.ResponseWriter, err error) {
	var invalid *game.InvalidBoardError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
