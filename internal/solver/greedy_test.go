package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/constraint"
	"github.com/salones-isc/roomassign/internal/model"
	"github.com/salones-isc/roomassign/internal/movement"
)

func assertHardConstraints(t *testing.T, cfg Config, sessions []*model.Session, a model.Assignment) {
	t.Helper()
	occupants := map[constraint.OccKey]int{}
	for _, s := range sessions {
		room := a.Get(s.ID)
		assert.True(t, cfg.Catalog.IsValid(room), "session %d sits in invalid room %v", s.ID, room)
		assert.Equal(t, s.RequiredType, cfg.Catalog.Type(room), "session %d type mismatch in %v", s.ID, room)
		occupants[constraint.OccKey{Day: s.Slot.Day, Block: s.Slot.Block, Room: room}]++
	}
	for key, count := range occupants {
		assert.Equal(t, 1, count, "double booking in %v at %v %v", key.Room, key.Day, key.Block)
	}
}

func TestGreedySolveSatisfiesHardConstraints(t *testing.T) {
	//**Arrange: a feasible week, some sessions starting from invalid rooms.
	cfg := testConfig()
	sessions := []*model.Session{
		testSession(0, "2A", "Cálculo", model.Monday, "07:00-08:00", "PROFESOR A", "AV1"),
		testSession(1, "2B", "Física", model.Monday, "07:00-08:00", "PROFESOR B", "AV2"),
		testSession(2, "2A", "Física", model.Monday, "08:00-09:00", "PROFESOR B", "E11"),
		testSession(3, "2C", "Programación", model.Tuesday, "07:00-08:00", "PROFESOR C", "FF1"),
		testSession(4, "2C", "Cálculo", model.Tuesday, "08:00-09:00", "PROFESOR A", "FF1"),
	}
	greedy := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(1)))

	//**Act
	result, err := greedy.Solve(sessions)

	//**Assert
	assert.Nil(t, err)
	assert.Empty(t, result.Violations)
	assertHardConstraints(t, cfg, sessions, result.Assignment)
}

func TestGreedySolveHonorsMandatoryPreference(t *testing.T) {
	//**Arrange
	cfg := testConfig()
	cfg.Prefs = model.PreferenceConfig{
		"PROFESOR A": {Subjects: map[string]model.Preference{
			"Cálculo": {Theory: model.RoomChoice{Room: "FF7", Mandatory: true}},
		}},
	}
	sessions := []*model.Session{
		testSession(0, "2A", "Cálculo", model.Monday, "07:00-08:00", "PROFESOR A", "FF1"),
		testSession(1, "2A", "Cálculo", model.Wednesday, "07:00-08:00", "PROFESOR A", "FF2"),
		testSession(2, "2B", "Física", model.Monday, "07:00-08:00", "PROFESOR B", "FF3"),
	}
	greedy := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(1)))

	//**Act
	result, err := greedy.Solve(sessions)

	//**Assert
	assert.Nil(t, err)
	assert.Equal(t, catalog.Room("FF7"), result.Assignment.Get(0))
	assert.Equal(t, catalog.Room("FF7"), result.Assignment.Get(1))
}

func TestGreedySolvePrefersOptionalPreference(t *testing.T) {
	//**Arrange: FF9 is free and optionally preferred, so construction
	// should pick it over the default catalog order.
	cfg := testConfig()
	cfg.Prefs = model.PreferenceConfig{
		"PROFESOR A": {Subjects: map[string]model.Preference{
			"Cálculo": {Theory: model.RoomChoice{Room: "FF9"}},
		}},
	}
	sessions := []*model.Session{
		testSession(0, "2A", "Cálculo", model.Monday, "07:00-08:00", "PROFESOR A", "AV1"),
	}
	greedy := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(1)))

	//**Act
	result, err := greedy.Solve(sessions)

	//**Assert
	assert.Nil(t, err)
	assert.Equal(t, catalog.Room("FF9"), result.Assignment.Get(0))
}

func TestGreedySolveAssignsRemainingFirstSemesterTogether(t *testing.T) {
	//**Arrange: the configured room pins group 1A's theory week.
	cfg := testConfig()
	cfg.FirstSemester = model.FirstSemesterRooms{"1A": "FF5"}
	sessions := []*model.Session{
		testSession(0, "1A", "Cálculo", model.Monday, "07:00-08:00", "PROFESOR A", "AV1"),
		testSession(1, "1A", "Física", model.Tuesday, "07:00-08:00", "PROFESOR B", "AV1"),
		testSession(2, "1A", "Química", model.Wednesday, "07:00-08:00", "PROFESOR C", "AV1"),
	}
	greedy := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(1)))

	//**Act
	result, err := greedy.Solve(sessions)

	//**Assert
	assert.Nil(t, err)
	for id := 0; id < 3; id++ {
		assert.Equal(t, catalog.Room("FF5"), result.Assignment.Get(id))
	}
}

func TestGreedySolveKeepsUnconfiguredFirstSemesterGroupTogether(t *testing.T) {
	//**Arrange: no configured room for group 1A, three different instructors.
	cfg := testConfig()
	sessions := []*model.Session{
		testSession(0, "1A", "Cálculo", model.Monday, "07:00-08:00", "PROFESOR A", "AV1"),
		testSession(1, "1A", "Física", model.Tuesday, "07:00-08:00", "PROFESOR B", "AV1"),
		testSession(2, "1A", "Química", model.Wednesday, "07:00-08:00", "PROFESOR C", "AV1"),
	}
	greedy := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(1)))

	//**Act
	result, err := greedy.Solve(sessions)

	//**Assert: the whole theory week lands in a single room.
	assert.Nil(t, err)
	rooms := map[catalog.Room]bool{}
	for id := 0; id < 3; id++ {
		rooms[result.Assignment.Get(id)] = true
	}
	assert.Len(t, rooms, 1)
	assertHardConstraints(t, cfg, sessions, result.Assignment)
}

func TestRefinementNeverIncreasesMovement(t *testing.T) {
	//**Arrange: 10 sessions over 4 instructors, rooms handed out round-robin
	// so instructors bounce across the building.
	cfg := testConfig()
	rooms := []catalog.Room{"FF1", "FF8", "FF3", "FFB"}
	instructors := []string{"PROFESOR A", "PROFESOR B", "PROFESOR C", "PROFESOR D"}
	blocks := []string{"07:00-08:00", "08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00"}

	var sessions []*model.Session
	for i := 0; i < 10; i++ {
		sessions = append(sessions, testSession(
			i, "2A", "Cálculo",
			model.Weekday(i/5), blocks[i%5],
			instructors[i%4], rooms[i%4],
		))
	}
	a := model.SeedFromSessions(sessions)
	before := movement.Analyze(sessions, a, cfg.Catalog)

	params := DefaultGreedyParams()
	params.Weights = Weights{RoomChange: 1}
	greedy := NewGreedy(cfg, params, rand.New(rand.NewSource(7))).(*greedySolver)

	//**Act
	greedy.refine(sessions, a, map[int]bool{})

	//**Assert
	after := movement.Analyze(sessions, a, cfg.Catalog)
	assert.LessOrEqual(t, after.RoomChanges, before.RoomChanges)
}

func TestGreedySolveIsReproducibleForASeed(t *testing.T) {
	//**Arrange
	cfg := testConfig()
	build := func() []*model.Session {
		var sessions []*model.Session
		for i := 0; i < 8; i++ {
			sessions = append(sessions, testSession(
				i, "2A", "Cálculo", model.Weekday(i%5), "07:00-08:00", "PROFESOR A", "AV1",
			))
		}
		return sessions
	}

	//**Act
	first, err1 := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(11))).Solve(build())
	second, err2 := NewGreedy(cfg, DefaultGreedyParams(), rand.New(rand.NewSource(11))).Solve(build())

	//**Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.True(t, first.Assignment.Equal(second.Assignment))
}
