package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrUnknownEvent   = errors.New("unknown event type")
)

// EventType names an inbound client event
type EventType string

const (
	EventJoin  EventType = "join"
	EventMove  EventType = "move"
	EventReset EventType = "reset"
	EventChat  EventType = "chat"
)

// eventNames maps wire names, including the legacy client names, to events
var eventNames = map[string]EventType{
	"join":        EventJoin,
	"joinGame":    EventJoin,
	"move":        EventMove,
	"makeMove":    EventMove,
	"reset":       EventReset,
	"resetGame":   EventReset,
	"chat":        EventChat,
	"chatMessage": EventChat,
}

// Outbound message types
const (
	MessageState = "state"
	MessageChat  = "chat"
)

// maxNameLength and maxChatLength bound client-supplied strings
const (
	maxNameLength = 64
	maxChatLength = 1024
)

// Envelope is the wire frame for both directions
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundMessage is a frame sent to clients
type OutboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ChatPayload is the relayed chat message
type ChatPayload struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Event is a decoded inbound event
type Event interface {
	Type() EventType
	Session() string
}

// JoinEvent subscribes the connection to a session and claims a seat
type JoinEvent struct {
	SessionID string
	Name      string
}

// MoveEvent places a pawn for the sender's seat
type MoveEvent struct {
	SessionID string
	Row       int
	Col       int
}

// ResetEvent restarts the game; honored for the host only
type ResetEvent struct {
	SessionID string
}

// ChatEvent is relayed verbatim to the session's subscribers
type ChatEvent struct {
	SessionID string
	Author    string
	Text      string
}

func (e *JoinEvent) Type() EventType  { return EventJoin }
func (e *MoveEvent) Type() EventType  { return EventMove }
func (e *ResetEvent) Type() EventType { return EventReset }
func (e *ChatEvent) Type() EventType  { return EventChat }

func (e *JoinEvent) Session() string  { return e.SessionID }
func (e *MoveEvent) Session() string  { return e.SessionID }
func (e *ResetEvent) Session() string { return e.SessionID }
func (e *ChatEvent) Session() string  { return e.SessionID }

// payload is the union of all payload fields. gameId is accepted as an alias
// of sessionId.
type payload struct {
	SessionID string `json:"sessionId"`
	GameID    string `json:"gameId"`
	Name      string `json:"name"`
	Row       *int   `json:"row"`
	Col       *int   `json:"col"`
	Author    string `json:"author"`
	Text      string `json:"text"`
}

func (p *payload) sessionID() string {
	if p.SessionID != "" {
		return p.SessionID
	}
	return p.GameID
}

// DecodeEvent parses an inbound frame into one of the closed set of events
func DecodeEvent(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	typ, ok := eventNames[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}

	p, err := decodePayload(typ, env.Payload)
	if err != nil {
		return nil, err
	}

	switch typ {
	case EventJoin:
		if len(p.Name) > maxNameLength {
			return nil, fmt.Errorf("%w: name longer than %d", ErrMalformedEvent, maxNameLength)
		}
		return &JoinEvent{SessionID: p.sessionID(), Name: strings.TrimSpace(p.Name)}, nil

	case EventMove:
		if p.sessionID() == "" {
			return nil, fmt.Errorf("%w: move without sessionId", ErrMalformedEvent)
		}
		if p.Row == nil || p.Col == nil {
			return nil, fmt.Errorf("%w: move requires row and col", ErrMalformedEvent)
		}
		return &MoveEvent{SessionID: p.sessionID(), Row: *p.Row, Col: *p.Col}, nil

	case EventReset:
		if p.sessionID() == "" {
			return nil, fmt.Errorf("%w: reset without sessionId", ErrMalformedEvent)
		}
		return &ResetEvent{SessionID: p.sessionID()}, nil

	case EventChat:
		if p.sessionID() == "" {
			return nil, fmt.Errorf("%w: chat without sessionId", ErrMalformedEvent)
		}
		if len(p.Author) > maxNameLength || len(p.Text) > maxChatLength {
			return nil, fmt.Errorf("%w: chat message too long", ErrMalformedEvent)
		}
		return &ChatEvent{SessionID: p.sessionID(), Author: p.Author, Text: p.Text}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
}

// decodePayload accepts an object payload, or for join a bare session ID
// string as sent by the legacy client
func decodePayload(typ EventType, raw json.RawMessage) (*payload, error) {
	var p payload
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &p, nil
	}

	if typ == EventJoin && raw[0] == '"' {
		if err := json.Unmarshal(raw, &p.SessionID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return &p, nil
	}

	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return &p, nil
}
