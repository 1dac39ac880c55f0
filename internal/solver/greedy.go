package solver

import (
	"math/rand"
	"slices"

	"github.com/samber/lo"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/constraint"
	"github.com/salones-isc/roomassign/internal/model"
)

// GreedyParams tunes construction scoring and the hill-climbing budget.
type GreedyParams struct {
	Iterations   int
	SwapAttempts int
	Stagnation   int

	// OptionalBonus rewards candidates matching the instructor's optional
	// preference; UsagePenalty spreads load across rooms.
	OptionalBonus float64
	UsagePenalty  float64

	Weights Weights
}

func DefaultGreedyParams() GreedyParams {
	return GreedyParams{
		Iterations:    100,
		SwapAttempts:  50,
		Stagnation:    10,
		OptionalBonus: 50,
		UsagePenalty:  2,
		Weights:       GreedyWeights(),
	}
}

type greedySolver struct {
	cfg    Config
	params GreedyParams
	rng    *rand.Rand
}

// NewGreedy builds the constructive solver with hill-climbing refinement.
// The rand source drives fallback picks and swap sampling; seed it for
// reproducible runs.
func NewGreedy(cfg Config, params GreedyParams, rng *rand.Rand) Solver {
	return &greedySolver{cfg: cfg, params: params, rng: rng}
}

func (g *greedySolver) Solve(sessions []*model.Session) (Result, error) {
	pre := g.cfg.prepare(sessions)
	assignment := pre.Assignment
	occ := pre.Occupancy

	if err := g.construct(sessions, pre.Remaining, assignment, occ); err != nil {
		return Result{}, err
	}
	g.refine(sessions, assignment, pre.Locked)
	forceMandatory(sessions, assignment, g.cfg.Prefs, violatedSet(pre.Violations))

	return Result{Assignment: assignment, Violations: pre.Violations}, nil
}

//** Construction

func (g *greedySolver) construct(sessions []*model.Session, remaining []int, a model.Assignment, occ constraint.Occupancy) error {
	ordered := make([]int, len(remaining))
	copy(ordered, remaining)
	slices.SortFunc(ordered, func(x, y int) int {
		if r := constructRank(sessions[x]) - constructRank(sessions[y]); r != 0 {
			return r
		}
		return model.Compare(sessions[x], sessions[y])
	})

	usage := map[catalog.Room]int{}
	usedBy := map[string][]catalog.Room{}
	groupTheory := map[string]catalog.Room{}
	for _, s := range sessions {
		if a.Assigned(s.ID) {
			room := a.Get(s.ID)
			usage[room]++
			usedBy[s.Instructor] = append(usedBy[s.Instructor], room)
			if s.FirstSemester && s.RequiredType == catalog.Theory {
				groupTheory[s.Group] = room
			}
		}
	}

	for _, id := range ordered {
		s := sessions[id]
		room, ok := cohortRoom(s, groupTheory, occ)
		if !ok {
			room, ok = g.bestCandidate(s, a, occ, usage, usedBy[s.Instructor])
		}
		if !ok {
			// Catalog exhausted at this slot: any same-type room, the
			// energy function will surface the conflict to refinement.
			fallback, err := randomRoom(g.cfg.Catalog, s.RequiredType, g.rng)
			if err != nil {
				return err
			}
			room = fallback
			g.cfg.logf("no free %v room at %v %v, session %d takes %v with a conflict",
				s.RequiredType, s.Slot.Day, s.Slot.Block, s.ID, room)
		}
		a.Set(s.ID, room)
		if occ.Free(s.Slot, room) {
			occ.Place(s.Slot, room, s.ID)
		}
		usage[room]++
		usedBy[s.Instructor] = append(usedBy[s.Instructor], room)
		if s.FirstSemester && s.RequiredType == catalog.Theory {
			if _, seen := groupTheory[s.Group]; !seen {
				groupTheory[s.Group] = room
			}
		}
	}
	return nil
}

// cohortRoom reuses a first-semester group's established theory room while
// it is free at the session's slot. First-semester sessions are constructed
// before everything else, so the group claims its room ahead of the
// usage-spreading scorer.
func cohortRoom(s *model.Session, groupTheory map[string]catalog.Room, occ constraint.Occupancy) (catalog.Room, bool) {
	if !s.FirstSemester || s.RequiredType != catalog.Theory {
		return "", false
	}
	room, ok := groupTheory[s.Group]
	if !ok || !occ.Free(s.Slot, room) {
		return "", false
	}
	return room, true
}

// constructRank orders construction: first-semester sessions, then labs,
// then the rest.
func constructRank(s *model.Session) int {
	switch {
	case s.FirstSemester:
		return 0
	case s.RequiredType == catalog.Lab:
		return 1
	}
	return 2
}

func (g *greedySolver) bestCandidate(s *model.Session, a model.Assignment, occ constraint.Occupancy, usage map[catalog.Room]int, instructorRooms []catalog.Room) (catalog.Room, bool) {
	choice := constraint.Choice(s.Instructor, s.Subject, s.RequiredType, g.cfg.Prefs)

	var best catalog.Room
	bestScore := 0.0
	found := false
	for _, room := range g.cfg.Catalog.RoomsOfType(s.RequiredType) {
		if !occ.Free(s.Slot, room) {
			continue
		}
		score := g.score(room, choice, usage, instructorRooms)
		if !found || score > bestScore {
			best, bestScore, found = room, score, true
		}
	}
	return best, found
}

func (g *greedySolver) score(room catalog.Room, choice model.RoomChoice, usage map[catalog.Room]int, instructorRooms []catalog.Room) float64 {
	score := 0.0
	if !choice.Mandatory && choice.Room == room {
		score += g.params.OptionalBonus
	}
	if len(instructorRooms) > 0 {
		total := lo.SumBy(instructorRooms, func(other catalog.Room) float64 {
			return g.cfg.Catalog.Distance(room, other)
		})
		score -= total / float64(len(instructorRooms))
	}
	score -= g.params.UsagePenalty * float64(usage[room])
	return score
}

//** Hill climbing

func (g *greedySolver) refine(sessions []*model.Session, a model.Assignment, locked map[int]bool) {
	swappable := lo.FilterMap(sessions, func(s *model.Session, _ int) (int, bool) {
		return s.ID, !locked[s.ID]
	})
	if len(swappable) < 2 {
		return
	}

	eval := &evaluator{cfg: g.cfg, weights: g.params.Weights, sessions: sessions}
	energy := eval.energy(a)
	stagnant := 0

	for iter := 0; iter < g.params.Iterations && stagnant < g.params.Stagnation; iter++ {
		improved := false
		for attempt := 0; attempt < g.params.SwapAttempts; attempt++ {
			x := sessions[swappable[g.rng.Intn(len(swappable))]]
			y := sessions[swappable[g.rng.Intn(len(swappable))]]
			if x.ID == y.ID || x.RequiredType != y.RequiredType {
				continue
			}

			rx, ry := a.Get(x.ID), a.Get(y.ID)
			a.Set(x.ID, ry)
			a.Set(y.ID, rx)
			if next := eval.energy(a); next < energy {
				energy = next
				improved = true
				break
			}
			a.Set(x.ID, rx)
			a.Set(y.ID, ry)
		}
		if improved {
			stagnant = 0
		} else {
			stagnant++
		}
	}
	g.cfg.logf("hill climbing settled at energy %.2f", energy)
}
