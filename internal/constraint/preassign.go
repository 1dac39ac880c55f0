package constraint

import (
	"log"
	"slices"

	"github.com/samber/lo"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
)

// maxResolutionHops bounds the conflict-chain search so that resolution
// always terminates.
const maxResolutionHops = 50

// Violation records a mandatory preference the resolver could not satisfy
// after exhausting its conflict-chain search. Assigned is empty when the
// session could not be placed at all.
type Violation struct {
	SessionID  int
	Instructor string
	Subject    string
	Preferred  catalog.Room
	Assigned   catalog.Room
	Reason     string
}

// Result is the outcome of mandatory pre-assignment. Locked holds the
// sessions pinned to their preferred rooms; solvers must not move them.
// Remaining lists the sessions left for the calling solver to assign freely.
type Result struct {
	Assignment model.Assignment
	Occupancy  Occupancy
	Locked     map[int]bool
	Remaining  []int
	Violations []Violation
}

// Resolver places mandatory-preference sessions ahead of any solver. It is
// deterministic: candidate rooms are scanned in catalog order and slots in
// chronological order, never randomly.
type Resolver struct {
	Catalog       *catalog.Catalog
	Subjects      model.SubjectConfig
	Prefs         model.PreferenceConfig
	FirstSemester model.FirstSemesterRooms

	// Logger, when set, receives a line per conflict resolution and per
	// recorded violation. Violations are never silently swallowed.
	Logger *log.Logger
}

type blockInfo struct {
	code  string
	start int
}

// PreAssign builds the partial solution every solver starts from: first
// every mandatory-preference session, resolving slot collisions through
// relocation, slot moves and a bounded three-way rotation chain; then the
// subject-assigned laboratories; then the configured first-semester theory
// rooms. Sessions' RequiredType must already be derived.
//
// Conflict resolution may mutate a session's scheduled slot when two
// mandatory preferences collide on the same room and grid cell.
func (r *Resolver) PreAssign(sessions []*model.Session) Result {
	result := Result{
		Assignment: model.NewAssignment(len(sessions)),
		Occupancy:  NewOccupancy(),
		Locked:     make(map[int]bool),
	}

	ordered := make([]*model.Session, len(sessions))
	copy(ordered, sessions)
	slices.SortFunc(ordered, model.Compare)

	blocks := r.collectBlocks(sessions)

	//** Pass 1: mandatory preferences
	for _, s := range ordered {
		choice := Choice(s.Instructor, s.Subject, s.RequiredType, r.Prefs)
		if !choice.Mandatory || choice.Room == "" {
			continue
		}
		r.placeMandatory(s, choice.Room, sessions, blocks, &result)
	}

	//** Pass 2: subject-assigned laboratories
	for _, s := range ordered {
		if result.Assignment.Assigned(s.ID) || s.RequiredType != catalog.Lab {
			continue
		}
		lab := r.Subjects[s.Subject].AssignedLab
		if lab != "" && result.Occupancy.Free(s.Slot, lab) {
			r.place(s, lab, &result)
		}
	}

	//** Pass 3: configured first-semester theory rooms
	for _, s := range ordered {
		if result.Assignment.Assigned(s.ID) || !s.FirstSemester || s.RequiredType != catalog.Theory {
			continue
		}
		room, ok := r.FirstSemester[s.Group]
		if ok && result.Occupancy.Free(s.Slot, room) {
			r.place(s, room, &result)
		}
	}

	result.Remaining = lo.FilterMap(sessions, func(s *model.Session, _ int) (int, bool) {
		return s.ID, !result.Assignment.Assigned(s.ID)
	})
	return result
}

func (r *Resolver) place(s *model.Session, room catalog.Room, result *Result) {
	result.Assignment.Set(s.ID, room)
	result.Occupancy.Place(s.Slot, room, s.ID)
}

// placeMandatory puts s into its mandatory room, resolving collisions in
// order of preference: direct placement, occupant relocation, moving s to a
// slot where the room is free, a bounded rotation chain, and finally a
// recorded violation.
func (r *Resolver) placeMandatory(s *model.Session, room catalog.Room, sessions []*model.Session, blocks []blockInfo, result *Result) {
	// 1. Room free at the session's own slot.
	if result.Occupancy.Free(s.Slot, room) {
		r.place(s, room, result)
		result.Locked[s.ID] = true
		return
	}

	// 2. Occupied, but the occupant is not itself pinned to this room:
	// move it sideways to any free same-type room.
	occupantID, _ := result.Occupancy.Occupant(s.Slot, room)
	occupant := sessions[occupantID]
	if !r.pinnedTo(occupant, room, result) {
		if alt, ok := r.freeRoom(occupant.Slot, occupant.RequiredType, result.Occupancy); ok {
			result.Occupancy.Remove(occupant.Slot, room)
			r.place(occupant, alt, result)
			r.logf("relocated session %d from %v to %v to honor a mandatory preference", occupant.ID, room, alt)
			r.place(s, room, result)
			result.Locked[s.ID] = true
			return
		}
	}

	// 3. Two mandatory preferences collide on the same cell: move s to a
	// slot where the room is free.
	for _, day := range []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday} {
		for _, block := range blocks {
			slot := model.Slot{Day: day, Block: block.code}
			if slot == s.Slot || !result.Occupancy.Free(slot, room) {
				continue
			}
			r.moveToSlot(s, slot, block.start)
			r.place(s, room, result)
			result.Locked[s.ID] = true
			r.logf("moved session %d to %v %v to honor its mandatory preference for %v", s.ID, slot.Day, slot.Block, room)
			return
		}
	}

	// 4. Bounded rotation chain: find a slot whose occupant of the room can
	// itself be moved aside, then take its place.
	hops := 0
	for _, day := range []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday} {
		for _, block := range blocks {
			if hops >= maxResolutionHops {
				break
			}
			slot := model.Slot{Day: day, Block: block.code}
			if slot == s.Slot {
				continue
			}
			blockerID, occupied := result.Occupancy.Occupant(slot, room)
			if !occupied {
				continue
			}
			hops++
			blocker := sessions[blockerID]
			if r.pinnedTo(blocker, room, result) {
				continue
			}
			alt, ok := r.freeRoom(slot, blocker.RequiredType, result.Occupancy)
			if !ok {
				continue
			}
			result.Occupancy.Remove(slot, room)
			r.place(blocker, alt, result)
			r.moveToSlot(s, slot, block.start)
			r.place(s, room, result)
			result.Locked[s.ID] = true
			r.logf("rotated session %d aside to place session %d in %v at %v %v", blocker.ID, s.ID, room, slot.Day, slot.Block)
			return
		}
	}

	// 5. Give up on the preference: any free same-type room at the original
	// slot, recorded and reported.
	if alt, ok := r.freeRoom(s.Slot, s.RequiredType, result.Occupancy); ok {
		r.place(s, alt, result)
		result.Violations = append(result.Violations, Violation{
			SessionID:  s.ID,
			Instructor: s.Instructor,
			Subject:    s.Subject,
			Preferred:  room,
			Assigned:   alt,
			Reason:     "mandatory room double-booked beyond resolution depth",
		})
		r.logf("VIOLATION: session %d (%v / %v) placed in %v instead of mandatory %v", s.ID, s.Instructor, s.Subject, alt, room)
		return
	}

	result.Violations = append(result.Violations, Violation{
		SessionID:  s.ID,
		Instructor: s.Instructor,
		Subject:    s.Subject,
		Preferred:  room,
		Reason:     "no free room of the required type at the session's slot",
	})
	r.logf("VIOLATION: session %d (%v / %v) left unplaced, mandatory room %v unreachable", s.ID, s.Instructor, s.Subject, room)
}

// pinnedTo reports whether the session is mandatory-bound to exactly this
// room and already locked there.
func (r *Resolver) pinnedTo(s *model.Session, room catalog.Room, result *Result) bool {
	if !result.Locked[s.ID] {
		return false
	}
	return PreferredRoom(s.Instructor, s.Subject, s.RequiredType, r.Prefs) == room
}

// freeRoom returns the first valid room of the given type free at the slot,
// in catalog order.
func (r *Resolver) freeRoom(slot model.Slot, t catalog.RoomType, occ Occupancy) (catalog.Room, bool) {
	for _, room := range r.Catalog.RoomsOfType(t) {
		if occ.Free(slot, room) {
			return room, true
		}
	}
	return "", false
}

func (r *Resolver) moveToSlot(s *model.Session, slot model.Slot, blockStart int) {
	s.Slot = slot
	s.BlockStart = blockStart
	s.StartHour = blockStart / 60
}

func (r *Resolver) collectBlocks(sessions []*model.Session) []blockInfo {
	seen := map[string]int{}
	for _, s := range sessions {
		seen[s.Slot.Block] = s.BlockStart
	}
	blocks := lo.MapToSlice(seen, func(code string, start int) blockInfo {
		return blockInfo{code: code, start: start}
	})
	slices.SortFunc(blocks, func(a, b blockInfo) int {
		return a.start - b.start
	})
	return blocks
}

func (r *Resolver) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
