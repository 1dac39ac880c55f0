// Package movement scores how much instructors walk between consecutive
// sessions: room changes, floor changes and accumulated distance. Every
// solver's cost evaluator calls into it, and the CLI reports it standalone.
package movement

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
)

// InstructorMetrics accumulates one instructor's weekly movement. Changes are
// counted between consecutive sessions of the same day only.
type InstructorMetrics struct {
	Instructor    string
	Sessions      int
	DistinctRooms int
	RoomChanges   int
	FloorChanges  int
	Distance      float64
}

// Report is the aggregate over all instructors. PerInstructor is sorted by
// instructor name so reports are stable across runs.
type Report struct {
	PerInstructor []InstructorMetrics
	RoomChanges   int
	FloorChanges  int
	Distance      float64

	// StationaryInstructors counts instructors with no room change at all.
	StationaryInstructors int

	// Means over the per-instructor distribution; zero when no instructor
	// has more than one session.
	MeanDistance    float64
	MeanRoomChanges float64
}

// Analyze walks every instructor's week under the given assignment. Sessions
// whose room is not in the assignment keep their input room, so the same call
// measures both raw input tables and solver output. The placeholder
// instructor is skipped.
func Analyze(sessions []*model.Session, assignment model.Assignment, cat *catalog.Catalog) Report {
	byInstructor := lo.GroupBy(
		lo.Filter(sessions, func(s *model.Session, _ int) bool {
			return s.Instructor != model.UnassignedInstructor
		}),
		func(s *model.Session) string { return s.Instructor },
	)

	report := Report{}
	for instructor, owned := range byInstructor {
		metrics := analyzeInstructor(instructor, owned, assignment, cat)
		report.PerInstructor = append(report.PerInstructor, metrics)
		report.RoomChanges += metrics.RoomChanges
		report.FloorChanges += metrics.FloorChanges
		report.Distance += metrics.Distance
		if metrics.RoomChanges == 0 {
			report.StationaryInstructors++
		}
	}

	slices.SortFunc(report.PerInstructor, func(a, b InstructorMetrics) int {
		return strings.Compare(a.Instructor, b.Instructor)
	})

	if len(report.PerInstructor) > 0 {
		distances := lo.Map(report.PerInstructor, func(m InstructorMetrics, _ int) float64 {
			return m.Distance
		})
		changes := lo.Map(report.PerInstructor, func(m InstructorMetrics, _ int) float64 {
			return float64(m.RoomChanges)
		})
		report.MeanDistance = stat.Mean(distances, nil)
		report.MeanRoomChanges = stat.Mean(changes, nil)
	}
	return report
}

func analyzeInstructor(instructor string, owned []*model.Session, assignment model.Assignment, cat *catalog.Catalog) InstructorMetrics {
	ordered := make([]*model.Session, len(owned))
	copy(ordered, owned)
	slices.SortFunc(ordered, model.Compare)

	metrics := InstructorMetrics{Instructor: instructor, Sessions: len(owned)}
	rooms := map[catalog.Room]bool{}
	for _, s := range ordered {
		rooms[roomOf(s, assignment)] = true
	}
	metrics.DistinctRooms = len(rooms)

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.Slot.Day != cur.Slot.Day {
			continue
		}
		from := roomOf(prev, assignment)
		to := roomOf(cur, assignment)
		if from == to {
			continue
		}
		metrics.RoomChanges++
		metrics.Distance += cat.Distance(from, to)
		if cat.Floor(from) != cat.Floor(to) {
			metrics.FloorChanges++
		}
	}
	return metrics
}

func roomOf(s *model.Session, assignment model.Assignment) catalog.Room {
	if assignment.Assigned(s.ID) {
		return assignment.Get(s.ID)
	}
	return s.Room
}

// Delta is the improvement of one report over another. Percentages are
// relative to the before value and zero when the before value is zero.
type Delta struct {
	RoomChanges  int
	FloorChanges int
	Distance     float64

	RoomChangesPercent  float64
	FloorChangesPercent float64
	DistancePercent     float64
}

// Compare reports how much after improves on before. Positive values mean
// fewer changes or less distance.
func Compare(before, after Report) Delta {
	d := Delta{
		RoomChanges:  before.RoomChanges - after.RoomChanges,
		FloorChanges: before.FloorChanges - after.FloorChanges,
		Distance:     before.Distance - after.Distance,
	}
	d.RoomChangesPercent = percent(float64(d.RoomChanges), float64(before.RoomChanges))
	d.FloorChangesPercent = percent(float64(d.FloorChanges), float64(before.FloorChanges))
	d.DistancePercent = percent(d.Distance, before.Distance)
	return d
}

func percent(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return 100 * delta / base
}
