package namecache

import (
	"fmt"
	"strconv"
)

// unresolvedID is how an unresolved name is represented in the scene_names table.
const unresolvedID int64 = 0

// Match is the value a sanitized name maps to: either a resolved show
// identifier or Unresolved, meaning the name was seen but not yet matched to a
// catalogued show. The zero value is Unresolved.
type Match struct {
	id       int64
	resolved bool
}

// Unresolved marks a name that has been seen but not matched to a show.
var Unresolved = Match{}

// Resolved returns a match for the given show identifier.
func Resolved(id int64) Match {
	return Match{id: id, resolved: true}
}

// ID returns the show identifier and true when the match is resolved.
func (m Match) ID() (int64, bool) {
	return m.id, m.resolved
}

// IsResolved reports whether m carries a show identifier.
func (m Match) IsResolved() bool {
	return m.resolved
}

func (m Match) String() string {
	if !m.resolved {
		return "unresolved"
	}
	return strconv.FormatInt(m.id, 10)
}

// MarshalJSON encodes a resolved match as its identifier and Unresolved as null.
func (m Match) MarshalJSON() ([]byte, error) {
	if !m.resolved {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, m.id, 10), nil
}

// storedID converts m to its scene_names.indexer_id column value.
func (m Match) storedID() int64 {
	if !m.resolved {
		return unresolvedID
	}
	return m.id
}

// matchFromStored converts a scene_names.indexer_id value back into a Match.
func matchFromStored(id int64) (Match, error) {
	switch {
	case id == unresolvedID:
		return Unresolved, nil
	case id < 0:
		return Match{}, fmt.Errorf("%w: stored indexer id %d", ErrInvalidID, id)
	default:
		return Resolved(id), nil
	}
}
