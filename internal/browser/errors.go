package browser

import (
	"errors"
	"fmt"
)

// Routing failures are expected outcomes of instance resolution, not defects.
// Callers branch on them with errors.Is / errors.As.
var (
	// ErrNoInstances is returned when a call names no instance and none exist.
	ErrNoInstances = errors.New("no active browser instances; create one with create_browser_instance")

	// ErrAmbiguousInstance is returned when a call names no instance but more
	// than one is active.
	ErrAmbiguousInstance = errors.New("multiple browser instances are active; specify instanceId to select one")
)

// NotFoundError reports a lookup of an instance identifier that is absent
// from the registry. The message always carries the offending identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("browser instance not found: %s", e.ID)
}
