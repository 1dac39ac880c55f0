// Package catalog holds the static room inventory: the theory/lab partition,
// the floor buckets used for movement scoring, the set of identifiers that
// must never appear in a final schedule, and the pairwise walking-distance
// table between rooms.
package catalog

type Room string

type RoomType int

const (
	Theory RoomType = iota
	Lab
	Unknown
)

func (t RoomType) String() string {
	switch t {
	case Theory:
		return "Teoría"
	case Lab:
		return "Laboratorio"
	}
	return "INVÁLIDO"
}

type Floor int

const (
	GroundFloor Floor = iota // FF1..FF7
	UpperFloor               // FF8..FFD
	LabFloor1                // LR, LSO, LIA, LCG1, LCG2
	LabFloor2                // LBD, LCA, LBD2, LCG3
	InvalidFloor
)

func (f Floor) String() string {
	switch f {
	case GroundFloor:
		return "Planta Baja"
	case UpperFloor:
		return "Planta Alta"
	case LabFloor1:
		return "Primer Piso"
	case LabFloor2:
		return "Segundo Piso"
	}
	return "Inválido"
}

// Catalog is an immutable room inventory. Build one with Default or New and
// share it freely: every method is read-only.
type Catalog struct {
	theory  []Room
	labs    []Room
	invalid map[Room]bool
	types   map[Room]RoomType
	floors  map[Room]Floor
	dist    map[[2]Room]float64
}

// Floor lines in physical order. Distances within a line grow with the index
// gap between rooms.
var (
	groundLine   = []Room{"FF1", "FF2", "FF3", "FF4", "FF5", "FF6", "FF7"}
	upperLine    = []Room{"FF8", "FF9", "FFA", "FFB", "FFC", "FFD"}
	labLine1     = []Room{"LR", "LSO", "LIA", "LCG1", "LCG2"}
	labLine2     = []Room{"LBD", "LCA", "LBD2", "LCG3"}
	invalidRooms = []Room{"AV1", "AV2", "AV4", "AV5", "E11"}
)

const (
	floorChangeDistance    = 5
	buildingChangeDistance = 10
	// DefaultDistance is assumed between rooms absent from the table
	// (unknown or invalid identifiers).
	DefaultDistance = 15
)

// Default returns the campus catalog the original schedules were drawn
// against: 13 theory rooms in two FF floor lines, 9 laboratories in two lab
// floor lines, and 5 permanently invalid identifiers.
func Default() *Catalog {
	return New(groundLine, upperLine, labLine1, labLine2, invalidRooms)
}

// New builds a catalog from explicit floor lines. The first two lines are
// theory floors, the last two are lab floors; ordering within a line encodes
// physical adjacency.
func New(ground, upper, lab1, lab2, invalid []Room) *Catalog {
	c := &Catalog{
		invalid: make(map[Room]bool),
		types:   make(map[Room]RoomType),
		floors:  make(map[Room]Floor),
		dist:    make(map[[2]Room]float64),
	}

	lines := []struct {
		rooms []Room
		floor Floor
		typ   RoomType
	}{
		{ground, GroundFloor, Theory},
		{upper, UpperFloor, Theory},
		{lab1, LabFloor1, Lab},
		{lab2, LabFloor2, Lab},
	}

	for _, line := range lines {
		for _, room := range line.rooms {
			c.types[room] = line.typ
			c.floors[room] = line.floor
			if line.typ == Theory {
				c.theory = append(c.theory, room)
			} else {
				c.labs = append(c.labs, room)
			}
		}
	}
	for _, room := range invalid {
		c.invalid[room] = true
	}

	c.buildDistances(lines)
	return c
}

func (c *Catalog) buildDistances(lines []struct {
	rooms []Room
	floor Floor
	typ   RoomType
}) {
	// Within a floor line: adjacency distance.
	for _, line := range lines {
		for i, a := range line.rooms {
			for j, b := range line.rooms {
				c.dist[[2]Room{a, b}] = abs(i - j)
			}
		}
	}

	// Across lines: floor change within a building, building change across.
	for i, l1 := range lines {
		for j, l2 := range lines {
			if i == j {
				continue
			}
			d := float64(floorChangeDistance)
			if l1.typ != l2.typ {
				d = buildingChangeDistance
			}
			for _, a := range l1.rooms {
				for _, b := range l2.rooms {
					c.dist[[2]Room{a, b}] = d
				}
			}
		}
	}
}

func abs(v int) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}

// Type reports whether a room is a theory room or a laboratory. Invalid and
// unknown identifiers report Unknown.
func (c *Catalog) Type(room Room) RoomType {
	if t, ok := c.types[room]; ok {
		return t
	}
	return Unknown
}

func (c *Catalog) Floor(room Room) Floor {
	if f, ok := c.floors[room]; ok {
		return f
	}
	return InvalidFloor
}

func (c *Catalog) IsInvalid(room Room) bool {
	return c.invalid[room]
}

// IsValid reports whether the room belongs to the physical inventory.
func (c *Catalog) IsValid(room Room) bool {
	_, ok := c.types[room]
	return ok
}

// RoomsOfType returns a fresh slice of all rooms of the given type, in
// catalog order.
func (c *Catalog) RoomsOfType(t RoomType) []Room {
	var src []Room
	switch t {
	case Theory:
		src = c.theory
	case Lab:
		src = c.labs
	default:
		return nil
	}
	out := make([]Room, len(src))
	copy(out, src)
	return out
}

func (c *Catalog) TheoryRooms() []Room {
	return c.RoomsOfType(Theory)
}

func (c *Catalog) LabRooms() []Room {
	return c.RoomsOfType(Lab)
}

// Distance returns the walking distance between two rooms. Identical rooms
// are at distance 0; pairs absent from the table fall back to
// DefaultDistance.
func (c *Catalog) Distance(a, b Room) float64 {
	if a == b {
		return 0
	}
	if d, ok := c.dist[[2]Room{a, b}]; ok {
		return d
	}
	return DefaultDistance
}
