package solver

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/constraint"
	"github.com/salones-isc/roomassign/internal/model"
	"github.com/salones-isc/roomassign/internal/movement"
)

// Weights parameterizes the energy function. The exact values are tunable
// but their ordering is the contract: hard-constraint weights must dominate
// preference weights, which must dominate movement and balancing terms.
type Weights struct {
	InvalidRoom   float64
	TypeMismatch  float64
	Mandatory     float64
	Optional      float64
	DoubleBooking float64
	FirstSemester float64
	RoomChange    float64
	FloorChange   float64
	Distance      float64
	Balance       float64
}

// GreedyWeights is the energy profile of the hill-climbing refinement:
// double-booking and invalid rooms dominate, distance is the tie-breaker.
// The first-semester term keeps refinement from trading group cohesion
// for shorter walks.
func GreedyWeights() Weights {
	return Weights{
		InvalidRoom:   1000,
		TypeMismatch:  500,
		Mandatory:     300,
		Optional:      20,
		DoubleBooking: 5000,
		FirstSemester: 400,
		Distance:      0.5,
	}
}

// GeneticWeights is the richer fitness profile of the evolutionary solver,
// extended with first-semester unification, movement counters and a
// room-usage balancing term.
func GeneticWeights() Weights {
	return Weights{
		InvalidRoom:   1000,
		DoubleBooking: 500,
		TypeMismatch:  300,
		Mandatory:     400,
		Optional:      50,
		FirstSemester: 400,
		RoomChange:    10,
		FloorChange:   5,
		Distance:      3,
		Balance:       2,
	}
}

// evaluator scores complete assignments. Lower energy is better; fitness is
// its negation.
type evaluator struct {
	cfg      Config
	weights  Weights
	sessions []*model.Session
}

func (e *evaluator) energy(a model.Assignment) float64 {
	w := e.weights
	cat := e.cfg.Catalog
	var total float64

	occupants := map[constraint.OccKey]int{}
	for _, s := range e.sessions {
		room := a.Get(s.ID)

		if !cat.IsValid(room) {
			total += w.InvalidRoom
		}
		if cat.Type(room) != s.RequiredType {
			total += w.TypeMismatch
		}

		if choice := constraint.Choice(s.Instructor, s.Subject, s.RequiredType, e.cfg.Prefs); choice.Room != "" && choice.Room != room {
			if choice.Mandatory {
				total += w.Mandatory
			} else {
				total += w.Optional
			}
		}

		occupants[constraint.OccKey{Day: s.Slot.Day, Block: s.Slot.Block, Room: room}]++
	}
	for _, count := range occupants {
		if count > 1 {
			total += w.DoubleBooking * float64(count-1)
		}
	}

	if w.FirstSemester > 0 {
		total += w.FirstSemester * float64(firstSemesterDeviations(e.sessions, a))
	}

	if w.Distance > 0 || w.RoomChange > 0 || w.FloorChange > 0 {
		report := movement.Analyze(e.sessions, a, cat)
		total += w.Distance*report.Distance +
			w.RoomChange*float64(report.RoomChanges) +
			w.FloorChange*float64(report.FloorChanges)
	}

	if w.Balance > 0 {
		total += w.Balance * usageVariance(e.sessions, a, cat)
	}
	return total
}

func (e *evaluator) fitness(a model.Assignment) float64 {
	return -e.energy(a)
}

// firstSemesterDeviations counts theory sessions of first-semester groups
// sitting outside their group's most common theory room.
func firstSemesterDeviations(sessions []*model.Session, a model.Assignment) int {
	modal := firstSemesterModalRooms(sessions, a)
	deviations := 0
	for _, s := range sessions {
		if !s.FirstSemester || s.RequiredType != catalog.Theory {
			continue
		}
		if room, ok := modal[s.Group]; ok && a.Get(s.ID) != room {
			deviations++
		}
	}
	return deviations
}

// firstSemesterModalRooms finds each first-semester group's most common
// theory room under the assignment. Ties break on room name so the result is
// deterministic.
func firstSemesterModalRooms(sessions []*model.Session, a model.Assignment) map[string]catalog.Room {
	counts := map[string]map[catalog.Room]int{}
	for _, s := range sessions {
		if !s.FirstSemester || s.RequiredType != catalog.Theory {
			continue
		}
		if counts[s.Group] == nil {
			counts[s.Group] = map[catalog.Room]int{}
		}
		counts[s.Group][a.Get(s.ID)]++
	}

	modal := make(map[string]catalog.Room, len(counts))
	for group, perRoom := range counts {
		rooms := make([]catalog.Room, 0, len(perRoom))
		for room := range perRoom {
			rooms = append(rooms, room)
		}
		slices.Sort(rooms)
		best := rooms[0]
		for _, room := range rooms[1:] {
			if perRoom[room] > perRoom[best] {
				best = room
			}
		}
		modal[group] = best
	}
	return modal
}

// usageVariance is the variance of session counts across all valid rooms,
// penalizing solutions that funnel everything into a few rooms.
func usageVariance(sessions []*model.Session, a model.Assignment, cat *catalog.Catalog) float64 {
	rooms := append(cat.TheoryRooms(), cat.LabRooms()...)
	if len(rooms) < 2 {
		return 0
	}
	usage := map[catalog.Room]float64{}
	for _, s := range sessions {
		usage[a.Get(s.ID)]++
	}
	counts := make([]float64, len(rooms))
	for i, room := range rooms {
		counts[i] = usage[room]
	}
	return stat.Variance(counts, nil)
}
