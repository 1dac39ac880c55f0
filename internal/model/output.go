package model

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/salones-isc/roomassign/internal/catalog"
)

// WriteSessions writes the session table back out with the room column (and
// the columns derived from it: room type, floor, invalid flag) rewritten
// from the given assignment.
func WriteSessions(file string, sessions []*Session, assignment Assignment, cat *catalog.Catalog) error {
	rows := make([]*sessionRow, 0, len(sessions))
	for _, s := range sessions {
		room := s.Room
		if assignment.Assigned(s.ID) {
			room = assignment.Get(s.ID)
		}

		invalid := 0
		if cat.IsInvalid(room) || !cat.IsValid(room) {
			invalid = 1
		}
		firstSemester := 0
		if s.FirstSemester {
			firstSemester = 1
		}

		rows = append(rows, &sessionRow{
			Grupo:            s.Group,
			Materia:          s.Subject,
			Dia:              s.Slot.Day.String(),
			BloqueHorario:    s.Slot.Block,
			HoraInicio:       fmt.Sprintf("%02d:00", s.StartHour),
			Profesor:         s.Instructor,
			Salon:            string(room),
			TipoSalon:        cat.Type(room).String(),
			Piso:             cat.Floor(room).String(),
			HorasSemana:      s.WeeklyHours,
			EsPrimerSemestre: firstSemester,
			EsInvalido:       invalid,
		})
	}

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot create output table: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("cannot write output table %v: %w", file, err)
	}
	return nil
}
