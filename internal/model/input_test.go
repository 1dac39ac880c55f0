package model

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salones-isc/roomassign/internal/catalog"
)

const header = "Grupo,Materia,Dia,Bloque_Horario,Hora_Inicio,Profesor,Salon,Tipo_Salon,Piso,Horas_Semana,Es_Primer_Semestre,Es_Invalido\n"

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	file := path.Join(t.TempDir(), "sessions.csv")
	assert.Nil(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoadSessions(t *testing.T) {
	t.Run("well-formed table", func(t *testing.T) {
		//**Arrange
		file := writeTempCSV(t, header+
			"1A,Programación,Lunes,07:00-08:00,07:00,PROFESOR A,FF1,Teoría,Planta Baja,5,1,0\n"+
			"3B,Redes,Martes,09:00-10:00,09:00,PROFESOR B,LBD,Laboratorio,Segundo Piso,4,0,0\n")

		//**Act
		sessions, err := LoadSessions(file)

		//**Assert
		assert.Nil(t, err)
		assert.Len(t, sessions, 2)

		first := sessions[0]
		assert.Equal(t, 0, first.ID)
		assert.Equal(t, "1A", first.Group)
		assert.Equal(t, Monday, first.Slot.Day)
		assert.Equal(t, catalog.Room("FF1"), first.Room)
		assert.Equal(t, catalog.Theory, first.RequiredType)
		assert.True(t, first.FirstSemester)
		assert.Equal(t, 7, first.StartHour)

		second := sessions[1]
		assert.Equal(t, catalog.Lab, second.RequiredType)
		assert.False(t, second.FirstSemester)
	})

	t.Run("first semester derived from group code", func(t *testing.T) {
		file := writeTempCSV(t, header+
			"1C,Cálculo,Lunes,08:00-09:00,08:00,PROFESOR A,FF2,Teoría,Planta Baja,4,0,0\n")

		sessions, err := LoadSessions(file)

		assert.Nil(t, err)
		assert.True(t, sessions[0].FirstSemester)
	})

	t.Run("empty instructor gets placeholder", func(t *testing.T) {
		file := writeTempCSV(t, header+
			"2A,Física,Lunes,08:00-09:00,08:00,,FF2,Teoría,Planta Baja,4,0,0\n")

		sessions, err := LoadSessions(file)

		assert.Nil(t, err)
		assert.Equal(t, "Sin Asignar", sessions[0].Instructor)
	})

	t.Run("unknown weekday fails the load", func(t *testing.T) {
		file := writeTempCSV(t, header+
			"2A,Física,Sábado,08:00-09:00,08:00,PROFESOR A,FF2,Teoría,Planta Baja,4,0,0\n")

		_, err := LoadSessions(file)

		assert.ErrorIs(t, err, ErrBadWeekday)
	})

	t.Run("unparsable block fails the load", func(t *testing.T) {
		file := writeTempCSV(t, header+
			"2A,Física,Lunes,primera hora,,PROFESOR A,FF2,Teoría,Planta Baja,4,0,0\n")

		_, err := LoadSessions(file)

		assert.ErrorIs(t, err, ErrBadBlock)
	})

	t.Run("missing group fails the load", func(t *testing.T) {
		file := writeTempCSV(t, header+
			",Física,Lunes,08:00-09:00,08:00,PROFESOR A,FF2,Teoría,Planta Baja,4,0,0\n")

		_, err := LoadSessions(file)

		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestWriteSessionsRewritesDerivedColumns(t *testing.T) {
	//**Arrange
	cat := catalog.Default()
	in := writeTempCSV(t, header+
		"1A,Programación,Lunes,07:00-08:00,07:00,PROFESOR A,AV1,INVÁLIDO,Inválido,5,1,1\n")
	sessions, err := LoadSessions(in)
	assert.Nil(t, err)

	assignment := NewAssignment(len(sessions))
	assignment.Set(0, "LBD")

	//**Act
	out := path.Join(t.TempDir(), "out.csv")
	err = WriteSessions(out, sessions, assignment, cat)
	assert.Nil(t, err)

	reloaded, err := LoadSessions(out)

	//**Assert
	assert.Nil(t, err)
	assert.Equal(t, catalog.Room("LBD"), reloaded[0].Room)
	assert.Equal(t, catalog.Lab, reloaded[0].RequiredType)
}
