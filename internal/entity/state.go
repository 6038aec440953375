package entity

import (
	"github.com/cockroachdb/errors"
)

// State tracks whether an entity has been populated from its overview page.
type State int

const (
	Unpopulated State = iota
	Populated
)

func (s State) String() string {
	switch s {
	case Populated:
		return "populated"
	default:
		return "unpopulated"
	}
}

// ErrAlreadyPopulated is attached to the assertion failure returned when an
// entity is scraped twice. It indicates a caller bug.
var ErrAlreadyPopulated = errors.New("entity already populated")

func checkUnpopulated(state State, kind, name string) error {
	if state == Populated {
		return errors.Mark(
			errors.AssertionFailedf("cannot populate %s %q: already populated", kind, name),
			ErrAlreadyPopulated,
		)
	}
	return nil
}
