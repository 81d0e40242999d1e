package anyskema

import "math"

// Constraints is the library-agnostic superset of numeric and string bounds an
// adapter can extract from a schema node. Fields are sparse: each adapter
// populates only the subset its library's checks represent, and unrecognized
// checks are dropped.
type Constraints struct {
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string
}

// IsZero reports whether no constraint was extracted.
func (c *Constraints) IsZero() bool {
	if c == nil {
		return true
	}
	return c.Min == nil && c.Max == nil && c.MinLength == nil && c.MaxLength == nil &&
		c.Pattern == "" && c.Format == ""
}

// Metadata carries schema annotations readable across libraries.
type Metadata struct {
	Title       string
	Description string
	Default     any
	HasDefault  bool
	Examples    []any
	Deprecated  bool
}

// IsZero reports whether no metadata was extracted.
func (m *Metadata) IsZero() bool {
	if m == nil {
		return true
	}
	return m.Title == "" && m.Description == "" && !m.HasDefault &&
		len(m.Examples) == 0 && !m.Deprecated
}

// Float returns a pointer to v unless v is an open-range sentinel
// (±Inf or NaN), which must never surface as a constraint.
func Float(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Int returns a pointer to v for use in sparse constraint records.
func Int(v int) *int { return &v }
