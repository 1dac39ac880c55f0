package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPartition(t *testing.T) {
	//**Arrange
	c := Default()

	//**Act & Assert
	assert.Len(t, c.TheoryRooms(), 13)
	assert.Len(t, c.LabRooms(), 9)

	assert.Equal(t, Theory, c.Type("FF1"))
	assert.Equal(t, Theory, c.Type("FFD"))
	assert.Equal(t, Lab, c.Type("LBD"))
	assert.Equal(t, Lab, c.Type("LCG3"))
	assert.Equal(t, Unknown, c.Type("AV1"))
	assert.Equal(t, Unknown, c.Type("ZZZ"))

	for _, room := range []Room{"AV1", "AV2", "AV4", "AV5", "E11"} {
		assert.True(t, c.IsInvalid(room), "expected %v to be invalid", room)
		assert.False(t, c.IsValid(room))
	}
}

func TestFloors(t *testing.T) {
	c := Default()

	assert.Equal(t, GroundFloor, c.Floor("FF7"))
	assert.Equal(t, UpperFloor, c.Floor("FF8"))
	assert.Equal(t, LabFloor1, c.Floor("LR"))
	assert.Equal(t, LabFloor2, c.Floor("LCG3"))
	assert.Equal(t, InvalidFloor, c.Floor("AV1"))
}

func TestDistance(t *testing.T) {
	c := Default()

	t.Run("same room", func(t *testing.T) {
		assert.Equal(t, 0.0, c.Distance("FF1", "FF1"))
	})

	t.Run("same floor line is adjacency distance", func(t *testing.T) {
		assert.Equal(t, 1.0, c.Distance("FF1", "FF2"))
		assert.Equal(t, 6.0, c.Distance("FF1", "FF7"))
		assert.Equal(t, 2.0, c.Distance("LR", "LIA"))
	})

	t.Run("floor change within one building", func(t *testing.T) {
		assert.Equal(t, 5.0, c.Distance("FF1", "FF8"))
		assert.Equal(t, 5.0, c.Distance("LR", "LBD"))
	})

	t.Run("building change", func(t *testing.T) {
		assert.Equal(t, 10.0, c.Distance("FF3", "LSO"))
		assert.Equal(t, 10.0, c.Distance("LCG3", "FFD"))
	})

	t.Run("unknown pair falls back to default", func(t *testing.T) {
		assert.Equal(t, float64(DefaultDistance), c.Distance("AV1", "FF1"))
		assert.Equal(t, float64(DefaultDistance), c.Distance("FF1", "E11"))
	})

	t.Run("symmetry", func(t *testing.T) {
		pairs := [][2]Room{{"FF1", "FF5"}, {"FF2", "FFA"}, {"FF4", "LBD"}, {"LR", "LCG2"}}
		for _, p := range pairs {
			assert.Equal(t, c.Distance(p[0], p[1]), c.Distance(p[1], p[0]))
		}
	})
}
