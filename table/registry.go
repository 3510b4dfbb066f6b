package table

import (
	"bytes"
	"fmt"

	"github.com/cridata/utftable/errs"
	"github.com/cridata/utftable/internal/hash"
)

// Registry resolves serialized tables to registered layouts, for streams
// that carry tables of several known shapes. Lookups go by schema
// fingerprint; a table whose optional columns were excluded fingerprints
// differently from its layout, so misses fall back to a structural scan in
// registration order. The fallback also disambiguates colliding
// fingerprints, which is why a collision is not a registration error.
type Registry struct {
	exact   map[uint64]*Layout
	layouts []*Layout
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exact: make(map[uint64]*Layout),
	}
}

// Register adds a layout. Distinct layouts may share a name (versioned
// tables) and may even share a fingerprint; registering the same shape twice
// is refused.
//
// Returns:
//   - error: a layout validation error, or ErrLayoutAlreadyRegistered
func (r *Registry) Register(l *Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	canon := l.Schema().canonical()
	for _, existing := range r.layouts {
		if existing.Schema().canonical() == canon {
			return fmt.Errorf("%w: %s", errs.ErrLayoutAlreadyRegistered, l.Name)
		}
	}

	fp := hash.ID(canon)
	if _, taken := r.exact[fp]; !taken {
		// On a fingerprint collision the first registration keeps the
		// fast path; the scan serves the rest.
		r.exact[fp] = l
	}
	r.layouts = append(r.layouts, l)

	return nil
}

// Match returns the registered layout the schema decodes under.
func (r *Registry) Match(s *Schema) (*Layout, bool) {
	if l, ok := r.exact[s.Fingerprint()]; ok && l.Matches(s) {
		return l, true
	}

	for _, l := range r.layouts {
		if l.Matches(s) {
			return l, true
		}
	}

	return nil, false
}

// Decode introspects the serialized table in data, resolves it against the
// registered layouts and decodes it under the matching one.
//
// Returns:
//   - error: any schema read error, ErrWrongTableSchema if no registered
//     layout matches, and the layout's decode errors
func (r *Registry) Decode(data []byte) (*Layout, *Table, error) {
	s, err := ReadSchema(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	l, ok := r.Match(s)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no registered layout matches table %s", errs.ErrWrongTableSchema, s.Name)
	}

	t, err := l.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	return l, t, nil
}

// Count returns the number of registered layouts.
func (r *Registry) Count() int {
	return len(r.layouts)
}
