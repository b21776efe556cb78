package ports

import "lightdeck/internal/domain"

// Stage is the host scene graph: a tree of typed prims addressed by path.
type Stage interface {
	// PrimAtPath returns the prim at path, or false if nothing is defined there
	PrimAtPath(path string) (Prim, bool)

	// Traverse returns every prim below the pseudo-root in depth-first order
	Traverse() ([]Prim, error)

	// DefinePrim creates (or retypes) a prim at path, creating typeless
	// ancestors as needed
	DefinePrim(path string, typeTag domain.TypeTag) (Prim, error)

	// RootLayerWritable reports whether edits land in a writable root layer
	RootLayerWritable() bool
}

// Prim is a handle to one node of the scene graph.
// A handle outlives the prim it points to; IsValid reports whether the prim
// still exists.
type Prim interface {
	Path() string
	Name() string
	TypeTag() domain.TypeTag
	IsValid() bool
	Children() []Prim

	// Composition flags
	IsInstance() bool
	IsInPrototype() bool
	HasAuthoredReferences() bool

	// Attributes
	Attribute(name string) (Attribute, bool)
	AttributeNames() []string
	CreateAttribute(name string, valueType domain.ValueType) (Attribute, error)

	// Relationships
	Relationship(name string) (Relationship, bool)
	Relationships() []Relationship
}

// Attribute is a typed property. It holds either a value or connections to
// other properties.
type Attribute interface {
	Name() string
	ValueType() domain.ValueType

	// Get returns the authored value, or false when none is authored
	Get() (any, bool, error)
	Set(value any) error

	// Connections returns the connected source paths, empty when unconnected
	Connections() ([]string, error)
}

// Relationship is a named list of target paths.
type Relationship interface {
	Name() string
	Targets() ([]string, error)
}
