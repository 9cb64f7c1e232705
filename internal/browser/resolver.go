package browser

// Resolve maps a tool call to its target session.
//
// An explicit identifier always wins regardless of registry size. Without
// one, an empty registry fails with ErrNoInstances, a single entry is
// selected whether or not it is the reserved default, and two or more
// entries fail with ErrAmbiguousInstance so the caller must be explicit.
func Resolve(reg *Registry, instanceID string) (*Session, error) {
	if instanceID != "" {
		s, ok := reg.Get(instanceID)
		if !ok {
			return nil, &NotFoundError{ID: instanceID}
		}
		return s, nil
	}

	sole, n := reg.Only()
	switch {
	case n == 0:
		return nil, ErrNoInstances
	case n == 1:
		return sole, nil
	default:
		return nil, ErrAmbiguousInstance
	}
}
