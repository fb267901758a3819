package coordset

// CoordinateSystem is the part of a coordinate reference system this package
// reads: the number of axes.
type CoordinateSystem interface {
	Dimension() int
}

// CoordinateReferenceSystem identifies how coordinate values relate to
// positions on Earth or another body.
//
// Implementations may define an Equal(CoordinateReferenceSystem) bool method;
// reference systems it reports equal must return the same Name, which Hash
// relies on.
//
// The coordinate set core never interprets a reference system. It reads the
// dimension of its coordinate system and passes the reference through to every
// position it creates, so downstream layers can compare them.
type CoordinateReferenceSystem interface {
	// Name returns a human-readable identifier such as "WGS 84".
	Name() string

	// CoordinateSystem returns the axes of this reference system.
	CoordinateSystem() CoordinateSystem
}

// CoordinateMetadata bundles a reference system with an optional coordinate
// epoch, for reference systems whose coordinates drift over time.
type CoordinateMetadata interface {
	// CRS returns the reference system, or nil when unknown.
	CRS() CoordinateReferenceSystem

	// Epoch returns the coordinate epoch in decimal years and true,
	// or 0 and false when the reference system is static.
	Epoch() (float64, bool)
}

// SimpleCRS is a minimal reference system carrying a name and a dimension.
//
// Use pointers (*SimpleCRS) when tagging positions: reference systems are
// compared by identity unless they implement an Equal method.
type SimpleCRS struct {
	name      string
	dimension int
}

// NewCRS creates a reference system with the given name and number of axes.
//
// Example:
//
//	wgs84 := coordset.NewCRS("WGS 84", 2)
//	md := coordset.NewCoordinateMetadata(wgs84)
func NewCRS(name string, dimension int) *SimpleCRS {
	return &SimpleCRS{name: name, dimension: dimension}
}

// Name returns the reference system name.
func (c *SimpleCRS) Name() string { return c.name }

// CoordinateSystem returns the reference system itself, which doubles as a
// coordinate system of the configured dimension.
func (c *SimpleCRS) CoordinateSystem() CoordinateSystem { return c }

// Dimension returns the number of axes.
func (c *SimpleCRS) Dimension() int { return c.dimension }

// Equal reports whether other has the same name and dimension.
func (c *SimpleCRS) Equal(other CoordinateReferenceSystem) bool {
	o, ok := other.(*SimpleCRS)
	if !ok {
		return false
	}
	if c == nil || o == nil {
		return c == o
	}
	return c.name == o.name && c.dimension == o.dimension
}

func (c *SimpleCRS) String() string { return c.name }

type metadata struct {
	crs      CoordinateReferenceSystem
	epoch    float64
	hasEpoch bool
}

// NewCoordinateMetadata returns metadata for a static reference system.
func NewCoordinateMetadata(crs CoordinateReferenceSystem) CoordinateMetadata {
	return &metadata{crs: crs}
}

// NewDynamicMetadata returns metadata for a dynamic reference system whose
// coordinates are valid at the given epoch (decimal years, e.g. 2024.5).
func NewDynamicMetadata(crs CoordinateReferenceSystem, epoch float64) CoordinateMetadata {
	return &metadata{crs: crs, epoch: epoch, hasEpoch: true}
}

func (m *metadata) CRS() CoordinateReferenceSystem { return m.crs }

func (m *metadata) Epoch() (float64, bool) { return m.epoch, m.hasEpoch }

// DimensionOf returns the dimension declared by the coordinate system of the
// metadata's reference system, or 0 if any link in that chain is missing.
func DimensionOf(md CoordinateMetadata) int {
	if md == nil {
		return 0
	}
	crs := md.CRS()
	if crs == nil {
		return 0
	}
	cs := crs.CoordinateSystem()
	if cs == nil {
		return 0
	}
	return cs.Dimension()
}

// SameCRS reports whether two reference systems are the same. Two nil values
// are the same, as are identical ones. Otherwise every argument with an Equal
// method must report equality, and at least one must have such a method, so
// SameCRS(a, b) == SameCRS(b, a).
func SameCRS(a, b CoordinateReferenceSystem) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	ea, aok := a.(crsEqualer)
	eb, bok := b.(crsEqualer)
	switch {
	case aok && bok:
		return ea.Equal(b) && eb.Equal(a)
	case aok:
		return ea.Equal(b)
	case bok:
		return eb.Equal(a)
	}
	return false
}

type crsEqualer interface {
	Equal(CoordinateReferenceSystem) bool
}
