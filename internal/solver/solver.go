// Package solver hosts the three interchangeable assignment engines: the
// greedy constructor with hill-climbing refinement, the genetic optimizer and
// the learned-predictor solver. All of them consume the same session table,
// start from the same mandatory pre-assignment and are scored by the same
// energy function.
package solver

import (
	"errors"
	"log"
	"math/rand"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/constraint"
	"github.com/salones-isc/roomassign/internal/model"
)

var ErrNoRooms = errors.New("room catalog has no room of the required type")

// Config carries the immutable inputs shared by every solver. Pass it by
// value; solvers never mutate it.
type Config struct {
	Catalog       *catalog.Catalog
	Subjects      model.SubjectConfig
	Prefs         model.PreferenceConfig
	FirstSemester model.FirstSemesterRooms

	// Logger, when set, receives solver progress and violation lines.
	Logger *log.Logger
}

// Result is a complete assignment plus the mandatory-preference violations
// the pre-assignment resolver could not avoid. The assignment is always
// total: every session has a room.
type Result struct {
	Assignment model.Assignment
	Violations []constraint.Violation
}

// Solver turns a session table into a complete room assignment. Solvers
// derive required room types and run mandatory pre-assignment themselves, so
// callers hand over the raw loaded table. Session slots may be mutated when
// mandatory conflicts force a reschedule.
type Solver interface {
	Solve(sessions []*model.Session) (Result, error)
}

func (c Config) resolver() *constraint.Resolver {
	return &constraint.Resolver{
		Catalog:       c.Catalog,
		Subjects:      c.Subjects,
		Prefs:         c.Prefs,
		FirstSemester: c.FirstSemester,
		Logger:        c.Logger,
	}
}

func (c Config) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// prepare runs the shared front half of every solve: required-type
// derivation followed by mandatory pre-assignment.
func (c Config) prepare(sessions []*model.Session) constraint.Result {
	constraint.DeriveRequiredTypes(sessions, c.Subjects)
	return c.resolver().PreAssign(sessions)
}

// randomRoom picks a uniformly random valid room of the given type.
func randomRoom(cat *catalog.Catalog, t catalog.RoomType, rng *rand.Rand) (catalog.Room, error) {
	rooms := cat.RoomsOfType(t)
	if len(rooms) == 0 {
		return "", ErrNoRooms
	}
	return rooms[rng.Intn(len(rooms))], nil
}

// forceMandatory rewrites every mandatory-preference session's room to its
// required value, skipping the sessions the resolver already reported as
// unresolvable. Idempotent; solvers run it as a final safety net so the
// output is compliant even if refinement disturbed a locked session.
func forceMandatory(sessions []*model.Session, a model.Assignment, prefs model.PreferenceConfig, violated map[int]bool) {
	for _, s := range sessions {
		if violated[s.ID] {
			continue
		}
		choice := constraint.Choice(s.Instructor, s.Subject, s.RequiredType, prefs)
		if choice.Mandatory && choice.Room != "" {
			a.Set(s.ID, choice.Room)
		}
	}
}

// violatedSet indexes the resolver's reported violations by session ID.
func violatedSet(violations []constraint.Violation) map[int]bool {
	set := make(map[int]bool, len(violations))
	for _, v := range violations {
		set[v.SessionID] = true
	}
	return set
}
