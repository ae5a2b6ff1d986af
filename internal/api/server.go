// Package api provides the HTTP control server for the sequencer engine.
// The engine is single-goroutine; handlers never touch it directly but
// dispatch closures onto the host loop and wait for the result.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/google/uuid"

	"macroseq/internal/config"
	"macroseq/internal/document"
	"macroseq/internal/engine"
)

// Dispatch schedules a closure onto the engine's goroutine
type Dispatch func(fn func(e *engine.Engine))

// Server provides HTTP API for remote control
type Server struct {
	configMgr *config.Manager
	dispatch  Dispatch
	token     string
	wsMgr     *WSManager
}

// NewServer creates a new API server
func NewServer(configMgr *config.Manager, dispatch Dispatch) *Server {
	s := &Server{
		configMgr: configMgr,
		dispatch:  dispatch,
	}
	s.wsMgr = newWSManager(s)
	return s
}

// do runs fn on the engine goroutine and waits for it to finish
func (s *Server) do(fn func(e *engine.Engine) error) error {
	done := make(chan error, 1)
	s.dispatch(func(e *engine.Engine) {
		done <- fn(e)
	})
	return <-done
}

// state fetches the current session state from the engine goroutine
func (s *Server) state() engine.State {
	var st engine.State
	s.do(func(e *engine.Engine) error {
		st = e.State()
		return nil
	})
	return st
}

// Start starts the API server on the specified port. Blocking.
func (s *Server) Start(port int) error {
	cfg := s.configMgr.Get()
	s.token = cfg.General.APIToken

	go s.wsMgr.start()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/record", s.handleRecord)
	mux.HandleFunc("/api/play", s.handlePlay)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/step", s.handleStep)
	mux.HandleFunc("/api/new", s.handleNew)
	mux.HandleFunc("/api/keyframes", s.handleKeyframes)
	mux.HandleFunc("/api/save", s.handleSave)
	mux.HandleFunc("/api/load", s.handleLoad)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	// Use "0.0.0.0:port" and explicitly use tcp4 to avoid IPv6-only
	// binding issues on Windows
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("Starting API server on %s", addr)

	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		log.Printf("ERROR: API server failed to listen on %s: %v", addr, err)
		log.Printf("Note: the sequencer will continue running without remote control.")
		return err
	}

	server := &http.Server{
		Handler: s.authMiddleware(s.recoverMiddleware(mux)),
	}

	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Printf("ERROR: API server stopped: %v", err)
		return err
	}
	return nil
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOV: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks API token if configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("API: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Skip auth for health check
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if s.token != "" {
			authHeader := r.Header.Get("Authorization")
			expectedAuth := "Bearer " + s.token

			if authHeader != expectedAuth {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.state())
}

// toggle runs a control-surface action and answers with the new state
func (s *Server) toggle(w http.ResponseWriter, r *http.Request, action func(e *engine.Engine)) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var st engine.State
	s.do(func(e *engine.Engine) error {
		action(e)
		st = e.State()
		return nil
	})
	writeJSON(w, st)
}

// handleRecord handles POST /api/record
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, func(e *engine.Engine) { e.ToggleRecording() })
}

// handlePlay handles POST /api/play
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, func(e *engine.Engine) { e.TogglePlay() })
}

// handleReset handles POST /api/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, func(e *engine.Engine) { e.ResetTime() })
}

// handleStep handles POST /api/step
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, func(e *engine.Engine) { e.StepTime() })
}

// handleNew handles POST /api/new
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, func(e *engine.Engine) { e.NewSequence() })
}

// handleKeyframes handles /api/keyframes: GET returns the full sequence
// snapshot, POST adds one keyframe, DELETE removes by id (or the
// selection when no id is given).
func (s *Server) handleKeyframes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		var snap interface{}
		s.do(func(e *engine.Engine) error {
			snap = e.Snapshot()
			return nil
		})
		writeJSON(w, snap)

	case "POST":
		var doc document.KeyframeDoc
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, "Invalid keyframe data", http.StatusBadRequest)
			return
		}
		k, err := document.DecodeKeyframe(doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.do(func(e *engine.Engine) error {
			e.AddKeyframe(k)
			return nil
		})
		writeJSON(w, map[string]string{"status": "ok", "id": k.ID.String()})

	case "DELETE":
		rawID := r.URL.Query().Get("id")
		if rawID == "" {
			s.do(func(e *engine.Engine) error {
				e.DeleteSelected()
				return nil
			})
			writeJSON(w, map[string]string{"status": "ok"})
			return
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			http.Error(w, "Invalid keyframe id", http.StatusBadRequest)
			return
		}
		var removed bool
		s.do(func(e *engine.Engine) error {
			removed = e.RemoveKeyframe(id)
			return nil
		})
		if !removed {
			http.Error(w, "Keyframe not found", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSave handles POST /api/save?file=<path>
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("file")
	if path == "" {
		http.Error(w, "Missing file parameter", http.StatusBadRequest)
		return
	}

	if err := s.do(func(e *engine.Engine) error { return e.SaveFile(path) }); err != nil {
		log.Printf("API: Save error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.rememberFile(path)
	writeJSON(w, map[string]string{"status": "ok", "file": path})
}

// handleLoad handles POST /api/load?file=<path>
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("file")
	if path == "" {
		http.Error(w, "Missing file parameter", http.StatusBadRequest)
		return
	}

	if err := s.do(func(e *engine.Engine) error { return e.LoadFile(path) }); err != nil {
		log.Printf("API: Load error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.rememberFile(path)
	writeJSON(w, map[string]string{"status": "ok", "file": path})
}

func (s *Server) rememberFile(path string) {
	s.configMgr.SetLastFile(path)
	if err := s.configMgr.Save(); err != nil {
		log.Printf("API: Failed to save config: %v", err)
	}
}

// handleConfig handles GET (read) and POST (update) for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		writeJSON(w, s.configMgr.Get())

	case "POST":
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			http.Error(w, "Invalid configuration data", http.StatusBadRequest)
			return
		}

		log.Printf("API: Receiving configuration update from %s", r.RemoteAddr)

		s.configMgr.Set(&newCfg)
		if err := s.configMgr.Save(); err != nil {
			log.Printf("API: Failed to save received config: %v", err)
			http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// BroadcastState pushes a state change to all WebSocket clients. Safe to
// call from the engine goroutine.
func (s *Server) BroadcastState(st engine.State) {
	if s.wsMgr != nil {
		s.wsMgr.BroadcastState(st)
	}
}
