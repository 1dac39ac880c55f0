package model

import "github.com/salones-isc/roomassign/internal/catalog"

// Assignment maps every session ID to a room. It is a value type with
// explicit copy semantics: each solver candidate owns an independent
// Assignment and mutations never alias another candidate's state. The empty
// room string means "not yet assigned".
type Assignment struct {
	rooms []catalog.Room
}

func NewAssignment(size int) Assignment {
	return Assignment{rooms: make([]catalog.Room, size)}
}

// SeedFromSessions builds an assignment holding every session's current room,
// the shape both the genetic seed individual and the movement baseline use.
func SeedFromSessions(sessions []*Session) Assignment {
	a := NewAssignment(len(sessions))
	for _, s := range sessions {
		a.Set(s.ID, s.Room)
	}
	return a
}

func (a Assignment) Len() int {
	return len(a.rooms)
}

func (a Assignment) Get(id int) catalog.Room {
	return a.rooms[id]
}

func (a Assignment) Set(id int, room catalog.Room) {
	a.rooms[id] = room
}

func (a Assignment) Assigned(id int) bool {
	return a.rooms[id] != ""
}

// Clone returns an independent deep copy.
func (a Assignment) Clone() Assignment {
	rooms := make([]catalog.Room, len(a.rooms))
	copy(rooms, a.rooms)
	return Assignment{rooms: rooms}
}

func (a Assignment) Equal(b Assignment) bool {
	if len(a.rooms) != len(b.rooms) {
		return false
	}
	for i, room := range a.rooms {
		if b.rooms[i] != room {
			return false
		}
	}
	return true
}

// Apply copies the assignment back onto the sessions' room attribute.
func (a Assignment) Apply(sessions []*Session) {
	for _, s := range sessions {
		if a.Assigned(s.ID) {
			s.Room = a.Get(s.ID)
		}
	}
}
