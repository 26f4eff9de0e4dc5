package main

import (
	"encoding/json"

	"terrain-arena/internal/arena"
)

// Client -> Server message types
const (
	MsgCreate  = "create" // create session and take its seat
	MsgJoin    = "join"
	MsgInput   = "input"
	MsgRestart = "restart"
	MsgLeave   = "leave"
	MsgList    = "list"  // list sessions
	MsgCheck   = "check" // check if session exists
)

// Server -> Client message types
const (
	MsgCreated  = "created"
	MsgJoined   = "joined"
	MsgState    = "state" // msgpack, binary frames only
	MsgTerrain  = "terrain"
	MsgKill     = "kill"
	MsgRespawn  = "respawn"
	MsgOver     = "over"
	MsgSessions = "sessions"
	MsgChecked  = "checked"
	MsgError    = "error"
)

// Seat kinds reported in JoinedMsg
const (
	SeatPlayer    = "player"
	SeatSpectator = "spectator"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded per type
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the seated client whenever its keys change.
// Fire is a running counter: each increment is one shot request.
type ClientInput struct {
	Up    bool    `json:"up"`
	Down  bool    `json:"down"`
	Left  bool    `json:"left"`
	Right bool    `json:"right"`
	Dash  bool    `json:"dash"`
	MX    float64 `json:"mx"` // aim point, world coords
	MY    float64 `json:"my"`
	Fire  uint16  `json:"fire"`
}

// Binary input frame: [0x01, mx_hi, mx_lo, my_hi, my_lo, flags, fire_hi, fire_lo]
const (
	binaryInputTag = 0x01
	binaryInputLen = 8

	flagUp    = 0x01
	flagDown  = 0x02
	flagLeft  = 0x04
	flagRight = 0x08
	flagDash  = 0x10
)

// DecodeBinaryInput parses a compact input frame
func DecodeBinaryInput(msg []byte) (ClientInput, bool) {
	if len(msg) != binaryInputLen || msg[0] != binaryInputTag {
		return ClientInput{}, false
	}
	flags := msg[5]
	return ClientInput{
		MX:    float64(int16(uint16(msg[1])<<8 | uint16(msg[2]))),
		MY:    float64(int16(uint16(msg[3])<<8 | uint16(msg[4]))),
		Up:    flags&flagUp != 0,
		Down:  flags&flagDown != 0,
		Left:  flags&flagLeft != 0,
		Right: flags&flagRight != 0,
		Dash:  flags&flagDash != 0,
		Fire:  uint16(msg[6])<<8 | uint16(msg[7]),
	}, true
}

// EncodeBinaryInput is the inverse of DecodeBinaryInput
func EncodeBinaryInput(in ClientInput) []byte {
	var flags byte
	if in.Up {
		flags |= flagUp
	}
	if in.Down {
		flags |= flagDown
	}
	if in.Left {
		flags |= flagLeft
	}
	if in.Right {
		flags |= flagRight
	}
	if in.Dash {
		flags |= flagDash
	}
	mx, my := uint16(int16(in.MX)), uint16(int16(in.MY))
	return []byte{binaryInputTag, byte(mx >> 8), byte(mx), byte(my >> 8), byte(my), flags, byte(in.Fire >> 8), byte(in.Fire)}
}

// CreateMsg asks for a new session; zero fields take the server defaults
type CreateMsg struct {
	Name        string     `json:"sname"`
	Mode        arena.Mode `json:"mode"`
	Adversaries *int       `json:"adversaries"`
	Fire        *bool      `json:"fire"`
	VW          float64    `json:"vw"`
	VH          float64    `json:"vh"`
}

// CreatedMsg carries the seat ticket for the creator
type CreatedMsg struct {
	SID    string `json:"sid"`
	Ticket string `json:"ticket"`
}

// JoinMsg joins a session; a valid ticket claims the seat
type JoinMsg struct {
	SessionID string `json:"sid"`
	Ticket    string `json:"ticket,omitempty"`
}

// JoinedMsg confirms a join
type JoinedMsg struct {
	SID  string `json:"sid"`
	Seat string `json:"seat"`
}

// KillMsg is broadcast when an adversary goes down
type KillMsg struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// RespawnMsg is broadcast when an adversary comes back
type RespawnMsg struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// OverMsg ends a round
type OverMsg struct {
	Won      bool    `json:"won"`
	Reason   string  `json:"reason"`
	Kills    int     `json:"kills"`
	Duration float64 `json:"dur"` // seconds
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	Seated     bool   `json:"seated"`
	Spectators int    `json:"spectators"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Viewers int    `json:"viewers,omitempty"`
}
