// Package server streams a running simulation to browsers over websockets.
//
// Routes:
//
//	/ws       frame stream; accepts start, pause and reset commands
//	/state    latest frame as JSON
//	/healthz  liveness probe
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/gasmix/internal/gas"
)

type Options struct {
	FPS    int
	Dt     float64
	Logger gas.Logger
}

type Server struct {
	engine   *Engine
	hub      *Hub
	upgrader websocket.Upgrader
	log      gas.Logger
}

// New wraps sim, which must already be reset. The server takes ownership:
// nothing else may touch sim afterwards.
func New(sim *gas.Simulation, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = gas.NopLogger{}
	}
	hub := NewHub(log)
	return &Server{
		engine: NewEngine(sim, opts.Dt, opts.FPS, hub.Broadcast, log),
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

func (s *Server) Engine() *Engine { return s.engine }
func (s *Server) Hub() *Hub       { return s.hub }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.engine.Latest())
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade: %v", err)
		return
	}

	c := newClient(conn)
	c.send <- s.engine.Latest()
	if !s.hub.Register(c) {
		conn.Close()
		return
	}
	go writePump(c)
	s.readPump(r.Context(), c)
}

// readPump turns client messages into engine commands until the
// connection drops.
func (s *Server) readPump(ctx context.Context, c *client) {
	defer s.hub.Unregister(c)

	c.conn.SetReadLimit(maxCmdLength)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warnf("websocket read: %v", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err == nil {
			err = s.engine.Submit(ctx, cmd)
		}
		if err != nil {
			s.log.Warnf("rejected command: %v", err)
			reply, _ := json.Marshal(errorMessage{Type: "error", Error: err.Error()})
			select {
			case c.send <- reply:
			default:
			}
			if errors.Is(err, ErrEngineStopped) {
				return
			}
		}
	}
}

// ListenAndServe runs the engine and serves HTTP on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	engineErr := make(chan error, 1)
	go func() { engineErr <- s.engine.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()
	s.log.Infof("listening on %s", addr)

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		cancel()
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	srv.Shutdown(shutdownCtx)
	s.hub.Close()
	<-engineErr

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close disconnects every websocket client.
func (s *Server) Close() {
	s.hub.Close()
}
