package main

import (
	"sync"

	"github.com/rs/zerolog"

	"terrain-arena/internal/arena"
)

const (
	defaultMaxConnsPerIP = 5
	defaultMaxTotalConns = 200
)

// HubOptions carries what the hub needs beyond the session manager
type HubOptions struct {
	Defaults  arena.Config
	MaxPerIP  int
	MaxTotal  int
	PublicURL string
}

// Hub manages all connected clients and routes them to sessions
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   *SessionManager
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	maxPerIP   int
	maxTotal   int

	defaults  arena.Config
	publicURL string
	db        *DB
	tickets   *Tickets
	log       zerolog.Logger
}

// NewHub creates a new Hub. db may be nil, which disables the history API.
func NewHub(sessions *SessionManager, tickets *Tickets, db *DB, opts HubOptions, log zerolog.Logger) *Hub {
	if opts.MaxPerIP <= 0 {
		opts.MaxPerIP = defaultMaxConnsPerIP
	}
	if opts.MaxTotal <= 0 {
		opts.MaxTotal = defaultMaxTotalConns
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		sessions:   sessions,
		ipConns:    make(map[string]int),
		maxPerIP:   opts.MaxPerIP,
		maxTotal:   opts.MaxTotal,
		defaults:   opts.Defaults,
		publicURL:  opts.PublicURL,
		db:         db,
		tickets:    tickets,
		log:        log,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxTotal {
		return false
	}
	if h.ipConns[ip] >= h.maxPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.sessionID != "" {
				h.sessions.RemoveClient(client.sessionID, client.id)
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
