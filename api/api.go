package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"backsim/database/repository"
	"backsim/engine"
	"backsim/log"
	"backsim/portfolio"
	"backsim/statistics"
)

// NewServer returns a server for the given backtest which will stream every
// fill to connected websocket clients
func NewServer(listenAddr string, bt *engine.BackTest) *Server {
	s := &Server{
		listenAddr: listenAddr,
		backtest:   bt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
	if bt != nil {
		bt.SubscribeFills(s.broadcastFill)
	}
	return s
}

// SetReport publishes the completed run's results to the REST surface
func (s *Server) SetReport(r *statistics.Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	routes := []Route{
		{"GetReport", http.MethodGet, "/report", s.getReport},
		{"GetTrades", http.MethodGet, "/trades", s.getTrades},
		{"ListRuns", http.MethodGet, "/runs", s.listRuns},
		{"GetRun", http.MethodGet, "/runs/{id}", s.getRun},
		{"GetRunTrades", http.MethodGet, "/runs/{id}/trades", s.getRunTrades},
		{"FillStream", http.MethodGet, "/ws", s.fillStream},
	}
	router := mux.NewRouter().StrictSlash(true)
	for _, route := range routes {
		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(restLogger(route.HandlerFunc, route.Name))
	}
	return router
}

// ListenAndServe blocks serving the route table
func (s *Server) ListenAndServe() error {
	log.Infof(log.APIServer, "listening on %v", s.listenAddr)
	return http.ListenAndServe(s.listenAddr, s.Router())
}

func restLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inner.ServeHTTP(w, r)
		log.Debugf(log.APIServer, "%s\t%s\t%s\t%s", r.Method, r.RequestURI, name, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf(log.APIServer, "could not write response: %v", err)
	}
}

func (s *Server) getReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()
	if report == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no completed run"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getTrades(w http.ResponseWriter, _ *http.Request) {
	if s.backtest == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no backtest attached"})
		return
	}
	writeJSON(w, http.StatusOK, s.backtest.Portfolio().Trades())
}

func (s *Server) listRuns(w http.ResponseWriter, _ *http.Request) {
	repo := s.repository()
	if repo == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run persistence disabled"})
		return
	}
	runs, err := repo.ListRuns()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	repo := s.repository()
	if repo == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run persistence disabled"})
		return
	}
	run, err := repo.GetRun(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) getRunTrades(w http.ResponseWriter, r *http.Request) {
	repo := s.repository()
	if repo == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run persistence disabled"})
		return
	}
	trades, err := repo.GetTrades(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) repository() *repository.Repository {
	if s.backtest == nil {
		return nil
	}
	return s.backtest.Repository()
}

func (s *Server) fillStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf(log.APIServer, "websocket upgrade failed: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	log.Debugf(log.APIServer, "websocket client connected from %v", r.RemoteAddr)

	// reads are discarded, the socket only pushes fills
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(conn)
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) broadcastFill(f portfolio.FillEvent) {
	payload, err := json.Marshal(f)
	if err != nil {
		log.Errorf(log.APIServer, "could not marshal fill: %v", err)
		return
	}
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warnf(log.APIServer, "dropping websocket client: %v", err)
			s.dropClient(conn)
		}
	}
}
