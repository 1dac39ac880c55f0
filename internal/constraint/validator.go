package constraint

import (
	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
)

// Validator is the hard-constraint gate every solver routes candidate rooms
// through. A room passes only if it is a real room of the required type,
// free at the session's slot, not outlawed by a mandatory preference, and
// consistent with the single-theory-room rule for first-semester groups.
type Validator struct {
	Catalog *catalog.Catalog
	Prefs   model.PreferenceConfig
}

// Validate checks one candidate room for one session against the running
// occupancy view. groupTheory tracks the theory room already committed per
// first-semester group; pass nil to skip that rule.
func (v *Validator) Validate(room catalog.Room, s *model.Session, occ Occupancy, groupTheory map[string]catalog.Room) bool {
	if v.Catalog.IsInvalid(room) || !v.Catalog.IsValid(room) {
		return false
	}
	if v.Catalog.Type(room) != s.RequiredType {
		return false
	}
	if occ != nil && !occ.Free(s.Slot, room) {
		return false
	}

	// A mandatory preference makes its room the only admissible one.
	if choice := Choice(s.Instructor, s.Subject, s.RequiredType, v.Prefs); choice.Mandatory && choice.Room != room {
		return false
	}

	if groupTheory != nil && s.FirstSemester && s.RequiredType == catalog.Theory {
		if committed, ok := groupTheory[s.Group]; ok && committed != room {
			return false
		}
	}
	return true
}
