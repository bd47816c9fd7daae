// Package authz evaluates the access rules shared by every route:
// owners have full rights, collaborators of the containing universe may
// read, everyone else is denied. Keeping the decision in one function
// stops the per-route checks from drifting apart.
package authz

import "github.com/google/uuid"

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Allowed reports whether the caller may perform action on an entity
// owned by ownerID whose containing universe lists collaborators.
// For universes themselves, collaborators is the universe's own set; for
// materials it is the set of the parent universe.
func Allowed(callerID, ownerID uuid.UUID, collaborators []uuid.UUID, action Action) bool {
	if callerID == ownerID {
		return true
	}

	if action != ActionRead {
		return false
	}

	for _, id := range collaborators {
		if id == callerID {
			return true
		}
	}

	return false
}
