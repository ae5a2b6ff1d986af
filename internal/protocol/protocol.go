package protocol

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeState is broadcast whenever the session state changes
	TypeState MessageType = "state"

	// TypeSequence is broadcast when the keyframe set changes
	TypeSequence MessageType = "sequence"

	// TypeCommand is sent by clients to drive the control surface
	TypeCommand MessageType = "command"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// CommandPayload is the payload for TypeCommand. Value carries the
// argument for commands that take one (zoom delta, seek time, rate).
type CommandPayload struct {
	Command string  `json:"command"`
	Value   float64 `json:"value,omitempty"`
}

// Commands accepted over the WebSocket
const (
	CommandRecord  = "record"
	CommandPlay    = "play"
	CommandReset   = "reset"
	CommandStep    = "step"
	CommandNew     = "new"
	CommandZoom    = "zoom"
	CommandSeek    = "seek"
	CommandSpeed   = "speed"
	CommandRepeats = "repeats"
	CommandUndo    = "undo"
	CommandRedo    = "redo"
	CommandDelete  = "delete"
)
