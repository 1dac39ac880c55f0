package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
)

func TestHourType(t *testing.T) {
	//**Arrange
	config := model.SubjectConfig{
		"Programación": {TotalHours: 5, TheoryHours: 3, LabHours: 2},
		"Taller":       {TotalHours: 2, TheoryHours: 0, LabHours: 2},
	}

	t.Run("first K occurrences are theory", func(t *testing.T) {
		assert.Equal(t, catalog.Theory, HourType("Programación", 0, config))
		assert.Equal(t, catalog.Theory, HourType("Programación", 2, config))
		assert.Equal(t, catalog.Lab, HourType("Programación", 3, config))
		assert.Equal(t, catalog.Lab, HourType("Programación", 4, config))
	})

	t.Run("all-lab subject", func(t *testing.T) {
		assert.Equal(t, catalog.Lab, HourType("Taller", 0, config))
	})

	t.Run("unconfigured subject defaults to theory", func(t *testing.T) {
		assert.Equal(t, catalog.Theory, HourType("Desconocida", 0, config))
		assert.Equal(t, catalog.Theory, HourType("Desconocida", 9, config))
	})
}

func TestChoice(t *testing.T) {
	//**Arrange
	prefs := model.PreferenceConfig{
		"PROFESOR A": {
			Subjects: map[string]model.Preference{
				"Programación": {
					Theory: model.RoomChoice{Room: "FF3", Mandatory: true},
					Lab:    model.RoomChoice{Room: "LBD"},
				},
			},
		},
		"PROFESOR B": {
			Global: model.Preference{
				Theory: model.RoomChoice{Room: "FF1"},
			},
		},
	}

	t.Run("per-subject preference wins", func(t *testing.T) {
		assert.Equal(t, catalog.Room("FF3"), PreferredRoom("PROFESOR A", "Programación", catalog.Theory, prefs))
		assert.True(t, IsMandatory("PROFESOR A", "Programación", catalog.Theory, prefs))
		assert.Equal(t, catalog.Room("LBD"), PreferredRoom("PROFESOR A", "Programación", catalog.Lab, prefs))
		assert.False(t, IsMandatory("PROFESOR A", "Programación", catalog.Lab, prefs))
	})

	t.Run("legacy flat layout is the fallback", func(t *testing.T) {
		assert.Equal(t, catalog.Room("FF1"), PreferredRoom("PROFESOR B", "Cálculo", catalog.Theory, prefs))
		assert.False(t, IsMandatory("PROFESOR B", "Cálculo", catalog.Theory, prefs))
	})

	t.Run("unknown instructor has no preference", func(t *testing.T) {
		assert.Equal(t, model.RoomChoice{}, Choice("PROFESOR Z", "Cálculo", catalog.Theory, prefs))
	})

	t.Run("unknown subject falls back to the global preference", func(t *testing.T) {
		assert.Equal(t, model.RoomChoice{}, Choice("PROFESOR A", "Cálculo", catalog.Theory, prefs))
	})
}

func TestDeriveRequiredTypes(t *testing.T) {
	//**Arrange
	config := model.SubjectConfig{
		"Programación": {TotalHours: 3, TheoryHours: 2, LabHours: 1},
	}
	// Rows deliberately out of chronological order: the Wednesday session
	// is the third occurrence regardless of row position.
	sessions := []*model.Session{
		session(0, "2A", "Programación", model.Wednesday, "07:00-08:00", "PROFESOR A", "FF1"),
		session(1, "2A", "Programación", model.Monday, "07:00-08:00", "PROFESOR A", "FF1"),
		session(2, "2A", "Programación", model.Tuesday, "07:00-08:00", "PROFESOR A", "FF1"),
	}

	//**Act
	DeriveRequiredTypes(sessions, config)

	//**Assert
	assert.Equal(t, catalog.Lab, sessions[0].RequiredType)
	assert.Equal(t, catalog.Theory, sessions[1].RequiredType)
	assert.Equal(t, catalog.Theory, sessions[2].RequiredType)
}

// session builds a test session with a derived block order.
func session(id int, group, subject string, day model.Weekday, block, instructor string, room catalog.Room) *model.Session {
	order, err := model.BlockOrder(block)
	if err != nil {
		panic(err)
	}
	return &model.Session{
		ID:            id,
		Group:         group,
		Subject:       subject,
		Slot:          model.Slot{Day: day, Block: block},
		Instructor:    instructor,
		Room:          room,
		RequiredType:  catalog.Theory,
		FirstSemester: len(group) > 0 && group[0] == '1',
		BlockStart:    order,
		StartHour:     order / 60,
	}
}
