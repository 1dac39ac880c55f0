package constraint

import (
	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
)

// OccKey identifies one cell of the weekly grid in one room.
type OccKey struct {
	Day   model.Weekday
	Block string
	Room  catalog.Room
}

// Occupancy indexes which session sits in each (slot, room) cell. It is the
// incremental conflict view shared by the resolver and the solvers.
type Occupancy map[OccKey]int

func NewOccupancy() Occupancy {
	return make(Occupancy)
}

// Occupant returns the session occupying the room at the slot, if any.
func (o Occupancy) Occupant(slot model.Slot, room catalog.Room) (int, bool) {
	id, ok := o[OccKey{Day: slot.Day, Block: slot.Block, Room: room}]
	return id, ok
}

func (o Occupancy) Free(slot model.Slot, room catalog.Room) bool {
	_, occupied := o.Occupant(slot, room)
	return !occupied
}

func (o Occupancy) Place(slot model.Slot, room catalog.Room, sessionID int) {
	o[OccKey{Day: slot.Day, Block: slot.Block, Room: room}] = sessionID
}

func (o Occupancy) Remove(slot model.Slot, room catalog.Room) {
	delete(o, OccKey{Day: slot.Day, Block: slot.Block, Room: room})
}

// Clone returns an independent copy.
func (o Occupancy) Clone() Occupancy {
	clone := make(Occupancy, len(o))
	for k, v := range o {
		clone[k] = v
	}
	return clone
}
