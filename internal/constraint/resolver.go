// Package constraint implements the shared constraint-resolution layer every
// solver builds on: hour-type determination, instructor preference lookup,
// the hard-constraint validator, and the mandatory-preference pre-assignment
// with its conflict-chain resolution.
package constraint

import (
	"slices"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
)

// HourType reports whether the occurrenceIdx-th weekly occurrence of a
// subject must run in a theory room or a laboratory: the first
// TheoryHours occurrences are theory, the rest are lab. Unconfigured
// subjects default to theory.
func HourType(subject string, occurrenceIdx int, config model.SubjectConfig) catalog.RoomType {
	hours, ok := config[subject]
	if !ok {
		return catalog.Theory
	}
	if occurrenceIdx < hours.TheoryHours {
		return catalog.Theory
	}
	return catalog.Lab
}

// Choice looks up an instructor's room preference for a subject and room
// type. The per-subject table wins; the legacy per-instructor fields are the
// fallback for older preference documents. The zero RoomChoice means no
// preference.
func Choice(instructor, subject string, roomType catalog.RoomType, prefs model.PreferenceConfig) model.RoomChoice {
	instructorPrefs, ok := prefs[instructor]
	if !ok {
		return model.RoomChoice{}
	}
	if subjectPref, ok := instructorPrefs.Subjects[subject]; ok {
		if choice := subjectPref.ByType(roomType); choice.Room != "" {
			return choice
		}
	}
	return instructorPrefs.Global.ByType(roomType)
}

// PreferredRoom returns the preferred room, or "" when unset.
func PreferredRoom(instructor, subject string, roomType catalog.RoomType, prefs model.PreferenceConfig) catalog.Room {
	return Choice(instructor, subject, roomType, prefs).Room
}

// IsMandatory reports whether the preference, if any, must be honored
// exactly.
func IsMandatory(instructor, subject string, roomType catalog.RoomType, prefs model.PreferenceConfig) bool {
	return Choice(instructor, subject, roomType, prefs).Mandatory
}

// DeriveRequiredTypes recomputes every session's required room type from the
// subject-hours configuration. Occurrence indices are counted in
// chronological (day, block) order within each (group, subject) pair, so the
// derivation is independent of input row order.
func DeriveRequiredTypes(sessions []*model.Session, config model.SubjectConfig) {
	byCourse := map[[2]string][]*model.Session{}
	for _, s := range sessions {
		key := [2]string{s.Group, s.Subject}
		byCourse[key] = append(byCourse[key], s)
	}
	for _, course := range byCourse {
		slices.SortFunc(course, model.Compare)
		for i, s := range course {
			s.RequiredType = HourType(s.Subject, i, config)
		}
	}
}
