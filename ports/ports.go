// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/artpar/formdesk/domain/form"
)

// ErrNotFound is the well-known condition returned by stores when the
// requested entity does not exist. Adapters translate their driver-specific
// sentinel (e.g. sql.ErrNoRows) into this one.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// FormFilter narrows a form listing.
type FormFilter struct {
	Status form.Status // empty means all statuses
	Offset int
	Limit  int // 0 means no limit
}

// FormStore persists business forms.
type FormStore interface {
	// Create stores a new form.
	Create(ctx context.Context, f form.Form) error

	// Get retrieves a form by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (form.Form, error)

	// List returns forms matching the filter, newest first.
	List(ctx context.Context, filter FormFilter) ([]form.Form, error)

	// Count returns the number of forms matching the filter's status.
	Count(ctx context.Context, status form.Status) (int64, error)

	// Update overwrites an existing form, or ErrNotFound.
	Update(ctx context.Context, f form.Form) error

	// Delete removes a form, or ErrNotFound.
	Delete(ctx context.Context, id string) error
}
