package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/salones-isc/roomassign/internal/catalog"
)

// Data-validation errors surfaced by the loaders. Constraint conflicts are
// repaired by the solvers; malformed rows are not.
var (
	ErrMissingField = errors.New("missing required field")
	ErrBadWeekday   = errors.New("unrecognized weekday")
	ErrBadBlock     = errors.New("unparsable time block")
)

// Weekday indexes Monday..Friday as 0..4.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

var weekdayNames = [...]string{"Lunes", "Martes", "Miercoles", "Jueves", "Viernes"}

var weekdayByName = map[string]Weekday{
	"lunes":     Monday,
	"martes":    Tuesday,
	"miercoles": Wednesday,
	"miércoles": Wednesday,
	"jueves":    Thursday,
	"viernes":   Friday,
}

func (d Weekday) String() string {
	if d < Monday || d > Friday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func ParseWeekday(name string) (Weekday, error) {
	day, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadWeekday, name)
	}
	return day, nil
}

// Slot is one cell of the weekly grid: a weekday plus a time-block code.
type Slot struct {
	Day   Weekday
	Block string
}

// BlockOrder maps a block code ("07:00-08:00" or "07:00") to its minute
// offset within the day, for chronological sorting.
func BlockOrder(block string) (int, error) {
	start := block
	if i := strings.IndexByte(block, '-'); i >= 0 {
		start = block[:i]
	}
	parts := strings.SplitN(strings.TrimSpace(start), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadBlock, block)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrBadBlock, block)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadBlock, block)
	}
	return hour*60 + minute, nil
}

// Session is one scheduled class meeting. The core never creates or destroys
// sessions; solvers only decide which room each one lands in. ID is the
// session's index in the input table and doubles as its index into an
// Assignment.
type Session struct {
	ID         int
	Group      string
	Subject    string
	Slot       Slot
	Instructor string

	// Room is the assignment the session arrived with, kept as the seed
	// for solvers and as the baseline for movement comparisons.
	Room catalog.Room

	// RequiredType is derived from the subject-hours configuration, not
	// read from the input. Loaders seed it from the room-type hint column;
	// constraint.DeriveRequiredTypes overwrites it.
	RequiredType catalog.RoomType

	FirstSemester bool
	WeeklyHours   int

	// StartHour is the hour the block begins at, used as an ML feature.
	StartHour int

	// BlockStart is the block's minute offset within the day, the
	// chronological sort key. Loaders fill it from the block code.
	BlockStart int
}

// Before orders sessions chronologically within the week.
func (s *Session) Before(other *Session) bool {
	if s.Slot.Day != other.Slot.Day {
		return s.Slot.Day < other.Slot.Day
	}
	if s.BlockStart != other.BlockStart {
		return s.BlockStart < other.BlockStart
	}
	return s.ID < other.ID
}

// Compare is a three-way chronological comparison suitable for
// slices.SortFunc.
func Compare(a, b *Session) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	}
	return 0
}

// firstSemesterGroup reports whether a group code names a first-semester
// cohort. The leading digit of the code is the semester.
func firstSemesterGroup(group string) bool {
	return len(group) > 0 && group[0] == '1'
}
