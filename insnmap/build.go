package insnmap

import (
	"go.uber.org/multierr"
)

// Registrar populates a map under construction. Registrars are the explicit
// replacement for a global registration table: callers list them and pass them to Build.
type Registrar[T any] func(*Map[T]) error

// EntryRegistrar returns a registrar for a static list of entries.
func EntryRegistrar[T any](entries ...Entry[T]) Registrar[T] {
	return func(m *Map[T]) error {
		return m.RegisterAll(entries...)
	}
}

// Build creates a map of the given width, runs every registrar in order and freezes
// the result. If any registrar fails, Build returns nil and all the failures combined,
// so an inconsistent table is never handed out.
func Build[T any](width int, registrars []Registrar[T], opts ...Option) (*Map[T], error) {
	m, err := New[T](width, opts...)
	if err != nil {
		return nil, err
	}

	for _, reg := range registrars {
		err = multierr.Append(err, reg(m))
	}

	if err != nil {
		m.log.Error().Err(err).
			Int("failures", len(multierr.Errors(err))).
			Msg("instruction map build failed")
		return nil, err
	}

	m.Freeze()

	return m, nil
}
