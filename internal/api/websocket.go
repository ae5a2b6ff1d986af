package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"macroseq/internal/engine"
	"macroseq/internal/protocol"
)

// WSManager manages WebSocket connections for live state updates
type WSManager struct {
	server     *Server
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan protocol.Message
	upgrader   websocket.Upgrader
}

func newWSManager(server *Server) *WSManager {
	return &WSManager{
		server:     server,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan protocol.Message, 16),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for local control clients
			},
		},
	}
}

// start runs the connection manager loop
func (m *WSManager) start() {
	for {
		select {
		case conn := <-m.register:
			m.clients[conn] = true
			log.Printf("WS: Client connected from %s (total: %d)", conn.RemoteAddr(), len(m.clients))

		case conn := <-m.unregister:
			if _, ok := m.clients[conn]; ok {
				delete(m.clients, conn)
				conn.Close()
				log.Printf("WS: Client disconnected (total: %d)", len(m.clients))
			}

		case msg := <-m.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("WS: Failed to marshal broadcast: %v", err)
				continue
			}
			for conn := range m.clients {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					log.Printf("WS: Write failed, dropping client: %v", err)
					delete(m.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// handleWebSocket upgrades HTTP connections to WebSocket
func (m *WSManager) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS: Upgrade failed: %v", err)
		return
	}

	m.register <- conn

	// Send the current state immediately so the client can render
	m.BroadcastState(m.server.state())

	go m.readPump(conn)
}

// readPump reads messages from a client until it disconnects
func (m *WSManager) readPump(conn *websocket.Conn) {
	defer func() {
		m.unregister <- conn
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Keepalive pings
	go m.writePump(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS: Read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		m.handleMessage(data)
	}
}

// writePump sends periodic pings to keep the connection alive
func (m *WSManager) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(50 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

// handleMessage processes an incoming client message
func (m *WSManager) handleMessage(data []byte) {
	var msg struct {
		Type    protocol.MessageType    `json:"type"`
		Payload protocol.CommandPayload `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("WS: Invalid message: %v", err)
		return
	}

	switch msg.Type {
	case protocol.TypePing:
		// Nothing to do; the read deadline was already extended

	case protocol.TypeCommand:
		m.runCommand(msg.Payload)

	default:
		log.Printf("WS: Unknown message type: %s", msg.Type)
	}
}

// runCommand maps a command payload onto the engine control surface
func (m *WSManager) runCommand(cmd protocol.CommandPayload) {
	m.server.dispatch(func(e *engine.Engine) {
		switch cmd.Command {
		case protocol.CommandRecord:
			e.ToggleRecording()
		case protocol.CommandPlay:
			e.TogglePlay()
		case protocol.CommandReset:
			e.ResetTime()
		case protocol.CommandStep:
			e.StepTime()
		case protocol.CommandNew:
			e.NewSequence()
		case protocol.CommandZoom:
			e.Zoom(cmd.Value)
		case protocol.CommandSeek:
			e.Seek(cmd.Value)
		case protocol.CommandSpeed:
			e.SetRate(cmd.Value)
		case protocol.CommandRepeats:
			e.SetRepeats(int(cmd.Value))
		case protocol.CommandUndo:
			e.Undo()
		case protocol.CommandRedo:
			e.Redo()
		case protocol.CommandDelete:
			e.DeleteSelected()
		default:
			log.Printf("WS: Unknown command: %s", cmd.Command)
		}
	})
}

// BroadcastState queues a state update for all connected clients. Drops
// the update if the hub is backed up rather than stalling the caller.
func (m *WSManager) BroadcastState(st engine.State) {
	msg := protocol.Message{
		Type:    protocol.TypeState,
		Payload: st,
	}
	select {
	case m.broadcast <- msg:
	default:
		log.Printf("WS: Broadcast queue full, dropping state update")
	}
}
