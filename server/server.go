package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	qrSize              = 256
)

var uuidPathRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		// SPA: serve index.html for root and session paths
		if r.URL.Path == "/" || uuidPathRe.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn().Err(err).Str("ip", ip).Msg("upgrade error")
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("GET /api/rounds", hub.handleRounds)
	mux.HandleFunc("GET /api/stats", hub.handleStats)
	mux.HandleFunc("GET /qr/{sid}", hub.handleQR)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleRounds serves recent round results, ?limit=N
func (h *Hub) handleRounds(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: errNoDB.Error()})
		return
	}
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorMsg{Msg: "bad limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	rows, err := h.db.RecentRounds(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("query rounds")
		writeJSON(w, http.StatusInternalServerError, ErrorMsg{Msg: "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleStats serves win/loss totals per mode
func (h *Hub) handleStats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: errNoDB.Error()})
		return
	}
	stats, err := h.db.StatsByMode()
	if err != nil {
		h.log.Error().Err(err).Msg("query stats")
		writeJSON(w, http.StatusInternalServerError, ErrorMsg{Msg: "query failed"})
		return
	}
	if stats == nil {
		stats = []ModeStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleQR renders a PNG QR code linking to a session's spectator page
func (h *Hub) handleQR(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	if h.sessions.GetSession(sid) == nil {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(h.publicURL+"/"+sid, qrcode.Medium, qrSize)
	if err != nil {
		h.log.Error().Err(err).Str("session", sid).Msg("encode qr")
		http.Error(w, "qr failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
