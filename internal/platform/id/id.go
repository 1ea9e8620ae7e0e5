package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID issues random (v4) identifiers, used as request correlators.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
