// Package store archives finished compositions so they can be fetched and
// re-rendered later.
//
// Backends:
//   - memory: in-process map for the CLI server default and tests
//   - mongo: MongoDB collection for deployments with several API instances
//
// Save assigns an ID and creation time when the composition has none.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/errors"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Store persists compositions.
type Store interface {
	// Save stores c, assigning c.ID and c.CreatedAt if they are unset.
	Save(ctx context.Context, c *collage.Composition) error

	// Get returns the composition with the given ID or a NOT_FOUND error.
	Get(ctx context.Context, id string) (collage.Composition, error)

	// List returns summaries of the newest compositions first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a composition. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored composition without its fragments.
type Summary struct {
	ID         string            `json:"id" bson:"_id"`
	Variation  collage.Variation `json:"variation" bson:"variation"`
	Canvas     collage.Canvas    `json:"canvas" bson:"canvas"`
	Fragments  int               `json:"fragments" bson:"fragments"`
	BlankRatio float64           `json:"blank_ratio" bson:"blank_ratio"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at"`
}

// summarize builds the Summary of c.
func summarize(c collage.Composition) Summary {
	return Summary{
		ID:         c.ID,
		Variation:  c.Variation,
		Canvas:     c.Canvas,
		Fragments:  len(c.Fragments),
		BlankRatio: c.BlankRatio,
		CreatedAt:  c.CreatedAt,
	}
}

// prepare fills in the ID and creation time and validates the ID.
func prepare(c *collage.Composition) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := errors.ValidateID(c.ID); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "composition %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
