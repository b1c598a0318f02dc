package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"backsim/engine"
	"backsim/statistics"
)

// Route ties a name and method to a path and its handler
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Server exposes a completed run's results over REST and streams fills over a
// websocket while the simulation runs
type Server struct {
	listenAddr string
	backtest   *engine.BackTest
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	report  *statistics.Report
	clients map[*websocket.Conn]struct{}
}

type errorResponse struct {
	Error string `json:"error"`
}
