package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/cityglass/eramorph/internal/config"
)

// Server serves the world over HTTP and drives its tick loop.
type Server struct {
	world *World
	hub   *hub
	cfg   config.ServerConfig
}

// New creates a server for the given world.
func New(world *World, cfg config.ServerConfig) *Server {
	return &Server{
		world: world,
		hub:   newHub(),
		cfg:   cfg,
	}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/entities", s.handleEntities).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{id}", s.handleEntity).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{id}/transition", s.handleTransition).Methods(http.MethodPost)
	r.HandleFunc("/api/entities/{id}/model", s.handleModel).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	if s.cfg.WebRoot != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.WebRoot)))
	}
	return r
}

// Run serves HTTP and ticks the world until ctx is cancelled. The tick
// loop is the world's single writer; handlers only submit requests.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	zap.L().Info("server listening",
		zap.String("addr", s.cfg.Listen),
		zap.Int("tick_rate", s.tickRate()),
		zap.Int("entities", s.world.Len()))

	interval := time.Second / time.Duration(s.tickRate())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if moved := s.world.Tick(dt); len(moved) > 0 {
				s.hub.Broadcast(moved)
			}
		}
	}
}

func (s *Server) tickRate() int {
	if s.cfg.TickRate <= 0 {
		return 60
	}
	return s.cfg.TickRate
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.world.States())
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	state, err := s.world.State(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type transitionRequest struct {
	Era string `json:"era"`
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	state, err := s.world.Request(mux.Vars(r)["id"], req.Era)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	doc, err := s.world.ExportModel(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	enc := gltf.NewEncoder(w)
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "model/gltf+json")
		enc.AsBinary = false
	} else {
		w.Header().Set("Content-Type", "model/gltf-binary")
		enc.AsBinary = true
	}
	if err := enc.Encode(doc); err != nil {
		zap.L().Warn("encoding model export", zap.Error(err))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade", zap.Error(err))
		return
	}
	newWSClient(s.hub, conn)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
