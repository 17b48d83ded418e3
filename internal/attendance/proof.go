package attendance

import (
	"context"
	"errors"

	"github.com/classmood/backend/internal/models"
)

// Proof tags a day commit as either plain or location-verified, so a
// verified record structurally carries its coordinate.
type Proof interface {
	isProof()
}

type Unverified struct{}

type Verified struct {
	Location models.Coordinate
}

func (Unverified) isProof() {}
func (Verified) isProof()   {}

// Locator is a one-shot geolocation fix provider.
type Locator interface {
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
}

// ErrLocationRequired aborts a strict-mode commit when no fix could be
// obtained. The session stays unlocked so the user can retry or turn
// strict mode off.
var ErrLocationRequired = errors.New("strict mode requires a location fix")
