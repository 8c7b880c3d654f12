package uuid

import "github.com/google/uuid"

type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random (v4) UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}
