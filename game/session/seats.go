package session

import "github.com/wricardo/berserker/game/engine"

// Seat identifies a player slot in a session
type Seat string

const (
	SeatNone  Seat = ""
	SeatHost  Seat = "host"
	SeatGuest Seat = "guest"
)

// Color returns the color played from the seat. The host plays red.
func (s Seat) Color() engine.Color {
	switch s {
	case SeatHost:
		return engine.Red
	case SeatGuest:
		return engine.White
	}
	return engine.NoColor
}

// Player is a seated connection
type Player struct {
	ConnID string `json:"connId"`
	Name   string `json:"name"`
}

// Seats binds up to two connections to the host and guest seats
type Seats struct {
	Host  *Player `json:"host,omitempty"`
	Guest *Player `json:"guest,omitempty"`
}

// Assign seats connID. The first connection becomes host, the second guest and
// any later one an observer (SeatNone, false). A connection that already holds
// a seat keeps it and has its name refreshed.
func (s *Seats) Assign(connID, name string) (Seat, bool) {
	if seat := s.SeatOf(connID); seat != SeatNone {
		s.player(seat).Name = name
		return seat, true
	}

	switch {
	case s.Host == nil:
		s.Host = &Player{ConnID: connID, Name: name}
		return SeatHost, true
	case s.Guest == nil:
		s.Guest = &Player{ConnID: connID, Name: name}
		return SeatGuest, true
	}
	return SeatNone, false
}

// SeatOf returns the seat held by connID, or SeatNone
func (s *Seats) SeatOf(connID string) Seat {
	if connID == "" {
		return SeatNone
	}
	if s.Host != nil && s.Host.ConnID == connID {
		return SeatHost
	}
	if s.Guest != nil && s.Guest.ConnID == connID {
		return SeatGuest
	}
	return SeatNone
}

// Full reports whether both seats are taken
func (s *Seats) Full() bool {
	return s.Host != nil && s.Guest != nil
}

func (s *Seats) player(seat Seat) *Player {
	switch seat {
	case SeatHost:
		return s.Host
	case SeatGuest:
		return s.Guest
	}
	return nil
}

func (s Seats) clone() Seats {
	out := Seats{}
	if s.Host != nil {
		h := *s.Host
		out.Host = &h
	}
	if s.Guest != nil {
		g := *s.Guest
		out.Guest = &g
	}
	return out
}
