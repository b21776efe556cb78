package scenegraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// ErrNoPrim is returned when a path does not resolve to a prim
var ErrNoPrim = errors.New("no prim at path")

type node struct {
	name     string
	typeTag  domain.TypeTag
	parent   *node
	children []*node

	attrs     map[string]*attribute
	attrOrder []string
	rels      map[string]*relationship
	relOrder  []string

	instance   bool
	prototype  bool
	references []string

	removed bool
}

func newNode(name string, t domain.TypeTag, parent *node) *node {
	return &node{
		name:    name,
		typeTag: t,
		parent:  parent,
		attrs:   make(map[string]*attribute),
		rels:    make(map[string]*relationship),
	}
}

func (n *node) path() string {
	if n.parent == nil {
		return "/"
	}
	return domain.JoinPath(n.parent.path(), n.name)
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *node) markRemoved() {
	n.removed = true
	for _, c := range n.children {
		c.markRemoved()
	}
}

// Stage is an in-memory scene graph with a single root layer.
// It is safe for concurrent use.
type Stage struct {
	mu       sync.RWMutex
	root     *node
	writable bool
}

// New creates an empty, writable stage
func New() *Stage {
	return &Stage{
		root:     newNode("", domain.TypeNone, nil),
		writable: true,
	}
}

var _ ports.Stage = (*Stage)(nil)

// RootLayerWritable reports whether the root layer accepts edits
func (s *Stage) RootLayerWritable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writable
}

// SetRootLayerWritable marks the root layer writable or read-only
func (s *Stage) SetRootLayerWritable(writable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writable = writable
}

// lookup resolves a path; the caller holds the lock
func (s *Stage) lookup(path string) *node {
	if !strings.HasPrefix(path, "/") {
		return nil
	}
	path = domain.CleanPath(path)
	if path == "/" {
		return s.root
	}
	current := s.root
	for _, name := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		current = current.child(name)
		if current == nil {
			return nil
		}
	}
	return current
}

// PrimAtPath returns the prim at path
func (s *Stage) PrimAtPath(path string) (ports.Prim, bool) {
	p, ok := s.Prim(path)
	if !ok {
		return nil, false
	}
	return p, true
}

// Prim returns the concrete prim handle at path
func (s *Stage) Prim(path string) (*Prim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.lookup(path)
	if n == nil || n == s.root {
		return nil, false
	}
	return &Prim{stage: s, node: n}, true
}

// Traverse returns every prim in depth-first order
func (s *Stage) Traverse() ([]ports.Prim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prims []ports.Prim
	var walk func(*node)
	walk = func(n *node) {
		for _, c := range n.children {
			prims = append(prims, &Prim{stage: s, node: c})
			walk(c)
		}
	}
	walk(s.root)
	return prims, nil
}

// RootPrims returns the top-level prims in authored order
func (s *Stage) RootPrims() []*Prim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Prim, 0, len(s.root.children))
	for _, c := range s.root.children {
		out = append(out, &Prim{stage: s, node: c})
	}
	return out
}

// DefinePrim creates or retypes a prim, defining typeless ancestors as needed
func (s *Stage) DefinePrim(path string, t domain.TypeTag) (ports.Prim, error) {
	p, err := s.Define(path, t)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Define is DefinePrim returning the concrete handle
func (s *Stage) Define(path string, t domain.TypeTag) (*Prim, error) {
	if err := domain.ValidatePath(path); err != nil {
		return nil, err
	}
	path = domain.CleanPath(path)
	if path == "/" {
		return nil, fmt.Errorf("cannot define the pseudo-root")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.root
	elems := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, name := range elems {
		next := current.child(name)
		if next == nil {
			next = newNode(name, domain.TypeNone, current)
			current.children = append(current.children, next)
		}
		if i == len(elems)-1 && t != domain.TypeNone {
			next.typeTag = t
		}
		current = next
	}
	return &Prim{stage: s, node: current}, nil
}

// Remove deletes the prim at path and its subtree
func (s *Stage) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(path)
}

func (s *Stage) removeLocked(path string) error {
	n := s.lookup(path)
	if n == nil || n == s.root {
		return fmt.Errorf("%s: %w", path, ErrNoPrim)
	}
	parent := n.parent
	parent.children = slices.DeleteFunc(parent.children, func(c *node) bool { return c == n })
	n.markRemoved()
	return nil
}

// Len returns the number of prims on the stage
func (s *Stage) Len() int {
	prims, _ := s.Traverse()
	return len(prims)
}
