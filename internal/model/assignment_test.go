package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salones-isc/roomassign/internal/catalog"
)

func TestAssignmentCloneIsIndependent(t *testing.T) {
	//**Arrange
	a := NewAssignment(3)
	a.Set(0, "FF1")
	a.Set(1, "LBD")

	//**Act
	b := a.Clone()
	b.Set(0, "FF2")

	//**Assert
	assert.Equal(t, catalog.Room("FF1"), a.Get(0))
	assert.Equal(t, catalog.Room("FF2"), b.Get(0))
	assert.False(t, a.Equal(b))

	b.Set(0, "FF1")
	assert.True(t, a.Equal(b))
}

func TestAssignmentAssigned(t *testing.T) {
	a := NewAssignment(2)
	assert.False(t, a.Assigned(0))

	a.Set(0, "FF3")
	assert.True(t, a.Assigned(0))
	assert.False(t, a.Assigned(1))
}

func TestSeedFromSessionsAndApply(t *testing.T) {
	//**Arrange
	sessions := []*Session{
		{ID: 0, Room: "FF1"},
		{ID: 1, Room: "LBD"},
	}

	//**Act
	a := SeedFromSessions(sessions)
	a.Set(1, "LCA")
	a.Apply(sessions)

	//**Assert
	assert.Equal(t, catalog.Room("FF1"), sessions[0].Room)
	assert.Equal(t, catalog.Room("LCA"), sessions[1].Room)
}
