package scenegraph

import (
	"fmt"
	"slices"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// Prim is a handle to a node of a Stage
type Prim struct {
	stage *Stage
	node  *node
}

var _ ports.Prim = (*Prim)(nil)

func (p *Prim) Path() string {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return p.node.path()
}

func (p *Prim) Name() string {
	return p.node.name
}

func (p *Prim) TypeTag() domain.TypeTag {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return p.node.typeTag
}

func (p *Prim) IsValid() bool {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return !p.node.removed
}

func (p *Prim) Children() []ports.Prim {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	out := make([]ports.Prim, 0, len(p.node.children))
	for _, c := range p.node.children {
		out = append(out, &Prim{stage: p.stage, node: c})
	}
	return out
}

// IsInstance reports whether the prim is an instance
func (p *Prim) IsInstance() bool {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return p.node.instance
}

// IsInPrototype reports whether the prim or one of its ancestors is a prototype
func (p *Prim) IsInPrototype() bool {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	for n := p.node; n != nil; n = n.parent {
		if n.prototype {
			return true
		}
	}
	return false
}

func (p *Prim) HasAuthoredReferences() bool {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return len(p.node.references) > 0
}

func (p *Prim) SetInstance(instance bool) {
	p.stage.mu.Lock()
	defer p.stage.mu.Unlock()
	p.node.instance = instance
}

func (p *Prim) SetPrototype(prototype bool) {
	p.stage.mu.Lock()
	defer p.stage.mu.Unlock()
	p.node.prototype = prototype
}

// IsPrototype reports the prim's own prototype flag
func (p *Prim) IsPrototype() bool {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return p.node.prototype
}

// AddReference authors a reference to an external asset
func (p *Prim) AddReference(asset string) {
	p.stage.mu.Lock()
	defer p.stage.mu.Unlock()
	p.node.references = append(p.node.references, asset)
}

// References returns the authored references
func (p *Prim) References() []string {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return slices.Clone(p.node.references)
}

func (p *Prim) Attribute(name string) (ports.Attribute, bool) {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	a, ok := p.node.attrs[name]
	if !ok {
		return nil, false
	}
	return &Attribute{stage: p.stage, attr: a}, true
}

// AttributeNames returns attribute names in authored order
func (p *Prim) AttributeNames() []string {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	return slices.Clone(p.node.attrOrder)
}

// CreateAttribute adds an attribute, or returns the existing one when the
// value type matches
func (p *Prim) CreateAttribute(name string, vt domain.ValueType) (ports.Attribute, error) {
	a, err := p.createAttribute(name, vt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (p *Prim) createAttribute(name string, vt domain.ValueType) (*Attribute, error) {
	if name == "" {
		return nil, fmt.Errorf("attribute name is required")
	}
	if !vt.Known() {
		return nil, fmt.Errorf("unknown value type %q for %s", vt, name)
	}

	p.stage.mu.Lock()
	defer p.stage.mu.Unlock()

	if p.node.removed {
		return nil, fmt.Errorf("%s: %w", p.node.path(), ErrNoPrim)
	}
	if existing, ok := p.node.attrs[name]; ok {
		if existing.vt != vt {
			return nil, fmt.Errorf("attribute %s already exists as %s", name, existing.vt)
		}
		return &Attribute{stage: p.stage, attr: existing}, nil
	}
	a := &attribute{name: name, vt: vt}
	p.node.attrs[name] = a
	p.node.attrOrder = append(p.node.attrOrder, name)
	return &Attribute{stage: p.stage, attr: a}, nil
}

// SetAttribute creates the attribute if needed and sets its value
func (p *Prim) SetAttribute(name string, vt domain.ValueType, value any) error {
	a, err := p.createAttribute(name, vt)
	if err != nil {
		return err
	}
	return a.Set(value)
}

// ConnectAttribute creates the attribute if needed and sets its connections
func (p *Prim) ConnectAttribute(name string, vt domain.ValueType, sources ...string) error {
	a, err := p.createAttribute(name, vt)
	if err != nil {
		return err
	}
	p.stage.mu.Lock()
	defer p.stage.mu.Unlock()
	a.attr.connections = slices.Clone(sources)
	return nil
}

func (p *Prim) Relationship(name string) (ports.Relationship, bool) {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	r, ok := p.node.rels[name]
	if !ok {
		return nil, false
	}
	return &Relationship{stage: p.stage, rel: r}, true
}

// Relationships returns every relationship in authored order
func (p *Prim) Relationships() []ports.Relationship {
	p.stage.mu.RLock()
	defer p.stage.mu.RUnlock()
	out := make([]ports.Relationship, 0, len(p.node.relOrder))
	for _, name := range p.node.relOrder {
		out = append(out, &Relationship{stage: p.stage, rel: p.node.rels[name]})
	}
	return out
}

// SetRelationship creates or replaces a relationship's targets
func (p *Prim) SetRelationship(name string, targets ...string) error {
	if name == "" {
		return fmt.Errorf("relationship name is required")
	}
	p.stage.mu.Lock()
	defer p.stage.mu.Unlock()
	if p.node.removed {
		return fmt.Errorf("%s: %w", p.node.path(), ErrNoPrim)
	}
	r, ok := p.node.rels[name]
	if !ok {
		r = &relationship{name: name}
		p.node.rels[name] = r
		p.node.relOrder = append(p.node.relOrder, name)
	}
	r.targets = slices.Clone(targets)
	return nil
}

type attribute struct {
	name        string
	vt          domain.ValueType
	value       any
	authored    bool
	connections []string
}

// Attribute is a handle to a prim attribute
type Attribute struct {
	stage *Stage
	attr  *attribute
}

var _ ports.Attribute = (*Attribute)(nil)

func (a *Attribute) Name() string                { return a.attr.name }
func (a *Attribute) ValueType() domain.ValueType { return a.attr.vt }

func (a *Attribute) Get() (any, bool, error) {
	a.stage.mu.RLock()
	defer a.stage.mu.RUnlock()
	return a.attr.value, a.attr.authored, nil
}

// Set coerces value to the attribute's type and stores it
func (a *Attribute) Set(value any) error {
	coerced, err := domain.CoerceValue(a.attr.vt, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", a.attr.name, err)
	}
	a.stage.mu.Lock()
	defer a.stage.mu.Unlock()
	a.attr.value = coerced
	a.attr.authored = true
	return nil
}

func (a *Attribute) Connections() ([]string, error) {
	a.stage.mu.RLock()
	defer a.stage.mu.RUnlock()
	return slices.Clone(a.attr.connections), nil
}

type relationship struct {
	name    string
	targets []string
}

// Relationship is a handle to a prim relationship
type Relationship struct {
	stage *Stage
	rel   *relationship
}

var _ ports.Relationship = (*Relationship)(nil)

func (r *Relationship) Name() string { return r.rel.name }

func (r *Relationship) Targets() ([]string, error) {
	r.stage.mu.RLock()
	defer r.stage.mu.RUnlock()
	return slices.Clone(r.rel.targets), nil
}
