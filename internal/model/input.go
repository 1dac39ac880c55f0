package model

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/salones-isc/roomassign/internal/catalog"
)

// UnassignedInstructor is the placeholder written by the upload service when
// a row carries no instructor. Sessions with it still get rooms but are
// excluded from movement metrics.
const UnassignedInstructor = "Sin Asignar"

// sessionRow mirrors one line of the normalized session table. Column names
// are the ones the ingestion pipeline produces.
type sessionRow struct {
	Grupo            string `csv:"Grupo"`
	Materia          string `csv:"Materia"`
	Dia              string `csv:"Dia"`
	BloqueHorario    string `csv:"Bloque_Horario"`
	HoraInicio       string `csv:"Hora_Inicio"`
	Profesor         string `csv:"Profesor"`
	Salon            string `csv:"Salon"`
	TipoSalon        string `csv:"Tipo_Salon"`
	Piso             string `csv:"Piso"`
	HorasSemana      int    `csv:"Horas_Semana"`
	EsPrimerSemestre int    `csv:"Es_Primer_Semestre"`
	EsInvalido       int    `csv:"Es_Invalido"`
}

// LoadSessions reads the normalized session table. Structural problems
// (missing required fields, unknown weekdays, unparsable blocks) fail the
// load; constraint conflicts among well-formed rows are left for the solvers.
func LoadSessions(file string) ([]*Session, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open session table: %w", err)
	}
	defer f.Close()

	rows := []*sessionRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse session table %v: %w", file, err)
	}

	sessions := make([]*Session, 0, len(rows))
	for i, row := range rows {
		session, err := row.toSession(i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (row *sessionRow) toSession(id int) (*Session, error) {
	required := []struct{ name, value string }{
		{"Grupo", row.Grupo},
		{"Materia", row.Materia},
		{"Dia", row.Dia},
		{"Bloque_Horario", row.BloqueHorario},
		{"Salon", row.Salon},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: %v", ErrMissingField, field.name)
		}
	}

	day, err := ParseWeekday(row.Dia)
	if err != nil {
		return nil, err
	}
	order, err := BlockOrder(row.BloqueHorario)
	if err != nil {
		return nil, err
	}

	startHour := order / 60
	if row.HoraInicio != "" {
		if o, err := BlockOrder(row.HoraInicio); err == nil {
			startHour = o / 60
		}
	}

	instructor := strings.TrimSpace(row.Profesor)
	if instructor == "" {
		instructor = UnassignedInstructor
	}

	requiredType := catalog.Theory
	if strings.EqualFold(row.TipoSalon, catalog.Lab.String()) {
		requiredType = catalog.Lab
	}

	return &Session{
		ID:            id,
		Group:         row.Grupo,
		Subject:       row.Materia,
		Slot:          Slot{Day: day, Block: row.BloqueHorario},
		Instructor:    instructor,
		Room:          catalog.Room(row.Salon),
		RequiredType:  requiredType,
		FirstSemester: firstSemesterGroup(row.Grupo) || row.EsPrimerSemestre == 1,
		WeeklyHours:   row.HorasSemana,
		StartHour:     startHour,
		BlockStart:    order,
	}, nil
}
