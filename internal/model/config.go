package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/salones-isc/roomassign/internal/catalog"
)

// noPreference is the literal the configuration GUI writes for an unset room
// choice; mandatoryPriority marks a preference that must be honored exactly.
const (
	noPreference      = "Sin preferencia"
	mandatoryPriority = "Prioritario"
)

// SubjectHours is the weekly hour split of one subject. The first
// TheoryHours occurrences of the subject within a group's week are theory,
// the rest are lab. AssignedLab optionally pins the subject's lab sessions
// to one laboratory.
type SubjectHours struct {
	TotalHours  int
	TheoryHours int
	LabHours    int
	AssignedLab catalog.Room
}

// SubjectConfig maps subject name to its hour split. Missing subjects
// default to all-theory; absence is never an error.
type SubjectConfig map[string]SubjectHours

// RoomChoice is a single room preference. An empty Room means no preference.
type RoomChoice struct {
	Room      catalog.Room
	Mandatory bool
}

// Preference holds an instructor's theory and lab room choices for one
// subject (or, in the legacy flat layout, for everything they teach).
type Preference struct {
	Theory RoomChoice
	Lab    RoomChoice
}

func (p Preference) ByType(t catalog.RoomType) RoomChoice {
	if t == catalog.Lab {
		return p.Lab
	}
	return p.Theory
}

// InstructorPrefs carries the per-subject preference table plus the legacy
// instructor-wide fallback used by older preference documents.
type InstructorPrefs struct {
	Global   Preference
	Subjects map[string]Preference
}

// PreferenceConfig maps instructor name to preferences. Missing instructors
// mean no preference.
type PreferenceConfig map[string]InstructorPrefs

// FirstSemesterRooms optionally pins each first-semester group's theory
// sessions to one room.
type FirstSemesterRooms map[string]catalog.Room

type subjectHoursDoc struct {
	TotalHoras          *int    `mapstructure:"total_horas"`
	HorasTeoria         *int    `mapstructure:"horas_teoria"`
	HorasLab            *int    `mapstructure:"horas_lab"`
	LaboratorioAsignado *string `mapstructure:"laboratorio_asignado"`
}

type preferenceDoc struct {
	SalonTeoria     string                   `mapstructure:"salon_teoria"`
	PrioridadTeoria string                   `mapstructure:"prioridad_teoria"`
	SalonLab        string                   `mapstructure:"salon_lab"`
	PrioridadLab    string                   `mapstructure:"prioridad_lab"`
	Materias        map[string]preferenceDoc `mapstructure:"materias"`
}

func decodeJSONFile(file string, out any) error {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("cannot read %v: %w", file, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("cannot parse %v: %w", file, err)
	}
	if err := mapstructure.Decode(raw, out); err != nil {
		return fmt.Errorf("cannot decode %v: %w", file, err)
	}
	return nil
}

// LoadSubjectConfig reads the subject-hours document
// (configuracion_materias.json). Field defaulting matches the original
// behavior: a missing theory-hour count defaults to the subject's total
// hours, a missing lab count to zero.
func LoadSubjectConfig(file string) (SubjectConfig, error) {
	docs := map[string]subjectHoursDoc{}
	if err := decodeJSONFile(file, &docs); err != nil {
		return nil, err
	}

	config := make(SubjectConfig, len(docs))
	for subject, doc := range docs {
		hours := SubjectHours{}
		if doc.TotalHoras != nil {
			hours.TotalHours = *doc.TotalHoras
		}
		if doc.HorasTeoria != nil {
			hours.TheoryHours = *doc.HorasTeoria
		} else {
			hours.TheoryHours = hours.TotalHours
		}
		if doc.HorasLab != nil {
			hours.LabHours = *doc.HorasLab
		}
		if doc.LaboratorioAsignado != nil && *doc.LaboratorioAsignado != "" && *doc.LaboratorioAsignado != "Sin asignar" {
			hours.AssignedLab = catalog.Room(*doc.LaboratorioAsignado)
		}
		config[subject] = hours
	}
	return config, nil
}

// LoadPreferenceConfig reads the instructor preference document
// (preferencias_profesores.json). Both layouts are accepted: the per-subject
// "materias" map and the legacy flat per-instructor fields.
func LoadPreferenceConfig(file string) (PreferenceConfig, error) {
	docs := map[string]preferenceDoc{}
	if err := decodeJSONFile(file, &docs); err != nil {
		return nil, err
	}

	config := make(PreferenceConfig, len(docs))
	for instructor, doc := range docs {
		prefs := InstructorPrefs{Global: doc.preference()}
		if len(doc.Materias) > 0 {
			prefs.Subjects = make(map[string]Preference, len(doc.Materias))
			for subject, subjectDoc := range doc.Materias {
				prefs.Subjects[subject] = subjectDoc.preference()
			}
		}
		config[instructor] = prefs
	}
	return config, nil
}

// LoadFirstSemesterRooms reads the optional group → theory-room document.
func LoadFirstSemesterRooms(file string) (FirstSemesterRooms, error) {
	doc := map[string]string{}
	if err := decodeJSONFile(file, &doc); err != nil {
		return nil, err
	}
	rooms := make(FirstSemesterRooms, len(doc))
	for group, room := range doc {
		if room == "" || room == noPreference {
			continue
		}
		rooms[group] = catalog.Room(room)
	}
	return rooms, nil
}

func (doc preferenceDoc) preference() Preference {
	return Preference{
		Theory: roomChoice(doc.SalonTeoria, doc.PrioridadTeoria),
		Lab:    roomChoice(doc.SalonLab, doc.PrioridadLab),
	}
}

func roomChoice(room, priority string) RoomChoice {
	room = strings.TrimSpace(room)
	if room == "" || room == noPreference {
		return RoomChoice{}
	}
	return RoomChoice{
		Room:      catalog.Room(room),
		Mandatory: priority == mandatoryPriority,
	}
}
