package storage

import (
	"context"
	"errors"

	"github.com/JKrag/punnett-simulator/internal/model"
)

// ErrNotFound is returned by callers that require a stored record to exist.
var ErrNotFound = errors.New("not found")

// Store defines persistence operations for saved pairings.
type Store interface {
	Init(ctx context.Context) error
	SavePairing(ctx context.Context, pairing model.Pairing) error
	GetPairing(ctx context.Context, id string) (model.Pairing, bool, error)
	// ListPairings returns pairings newest first.
	ListPairings(ctx context.Context) ([]model.Pairing, error)
	// DeletePairing reports whether a pairing was removed.
	DeletePairing(ctx context.Context, id string) (bool, error)
}
