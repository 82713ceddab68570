package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"telemetryd/internal/config"
	"telemetryd/internal/rpc"
	"telemetryd/internal/session"
	"telemetryd/internal/version"
)

// Server accepts WebSocket clients and runs their request loops.
type Server struct {
	cfg      config.ServerConfig
	sessions *session.Registry
	dispatch *rpc.Dispatcher
	logger   *slog.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server
	listener net.Listener
	start    time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Server.
func New(cfg config.ServerConfig, sessions *session.Registry, dispatch *rpc.Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		dispatch: dispatch,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser dashboards connect from any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start binds the listener and begins serving. The bind happens
// synchronously so a busy port fails here rather than in the background.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.start = time.Now()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	if s.cfg.StaticDir != "" {
		mux.Handle("/", spaHandler{dir: s.cfg.StaticDir})
	}
	s.httpSrv = &http.Server{Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	s.logger.Info("server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address. Valid after Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop shuts the server down: stop accepting, close every live session,
// and wait for connection loops to drain.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")

	if s.cancel != nil {
		s.cancel()
	}
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Warn("http shutdown incomplete", "error", err)
		}
	}

	for _, sess := range s.sessions.All() {
		sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleWS upgrades the connection and runs its read loop until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()
	sess := session.New(id, conn, s.cfg.WriteTimeout)
	s.sessions.Add(sess)
	s.logger.Info("client connected",
		"session", id,
		"remote", r.RemoteAddr,
		"clients", s.sessions.Count(),
	)

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	stop := make(chan struct{})
	s.wg.Add(1)
	go s.pingLoop(conn, stop)

	s.readLoop(sess, conn)

	close(stop)
	s.sessions.Remove(id)
	sess.Close()
	s.logger.Info("client disconnected",
		"session", id,
		"clients", s.sessions.Count(),
	)
}

// readLoop processes inbound messages in receipt order. A handler fault
// produces an error response; only a transport fault ends the loop.
func (s *Server) readLoop(sess *session.Session, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read error", "session", sess.ID(), "error", err)
			}
			return
		}

		reply := s.dispatch.Dispatch(s.ctx, sess.ID(), data)
		if reply == nil {
			continue
		}
		if err := sess.Send(reply); err != nil {
			s.logger.Debug("write error", "session", sess.ID(), "error", err)
			return
		}
	}
}

func (s *Server) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"clients":   s.sessions.Count(),
		"uptime":    time.Since(s.start).Seconds(),
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// spaHandler serves static files with an index.html fallback so
// client-side routes resolve.
type spaHandler struct {
	dir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
		return
	}
	http.FileServer(http.Dir(h.dir)).ServeHTTP(w, r)
}
