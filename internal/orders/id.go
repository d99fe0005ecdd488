package orders

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces order identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator returns time-ordered ids of the form ORD-<uuid v7>.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate order id: %w", err)
	}
	return "ORD-" + id.String(), nil
}
