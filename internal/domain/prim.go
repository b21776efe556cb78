package domain

import (
	"fmt"
	"strings"
)

// TypeTag is the schema type name of a prim (e.g. "Mesh", "DistantLight").
// An empty tag is a typeless prim.
type TypeTag string

const (
	TypeNone       TypeTag = ""
	TypeXform      TypeTag = "Xform"
	TypeScope      TypeTag = "Scope"
	TypeMesh       TypeTag = "Mesh"
	TypeGeomSubset TypeTag = "GeomSubset"
	TypeCamera     TypeTag = "Camera"
	TypeMaterial   TypeTag = "Material"
	TypeShader     TypeTag = "Shader"
	TypeNodeGraph  TypeTag = "NodeGraph"

	TypeSphereLight   TypeTag = "SphereLight"
	TypeRectLight     TypeTag = "RectLight"
	TypeDiskLight     TypeTag = "DiskLight"
	TypeCylinderLight TypeTag = "CylinderLight"
	TypeDomeLight     TypeTag = "DomeLight"
	TypeDistantLight  TypeTag = "DistantLight"
)

// LightTypes lists the type tags treated as lights, in display order.
var LightTypes = []TypeTag{
	TypeSphereLight,
	TypeRectLight,
	TypeDiskLight,
	TypeCylinderLight,
	TypeDomeLight,
	TypeDistantLight,
}

// IsLight reports whether prims of this type carry light properties.
func IsLight(t TypeTag) bool {
	for _, lt := range LightTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// IsMaterial reports whether prims of this type are materials.
func IsMaterial(t TypeTag) bool {
	return t == TypeMaterial
}

// IsXform reports whether prims of this type group other prims in the light hierarchy.
func IsXform(t TypeTag) bool {
	return t == TypeXform
}

// IsImageable reports whether prims of this type take part in rendering and
// can therefore carry material bindings.
func IsImageable(t TypeTag) bool {
	switch t {
	case TypeNone, TypeMaterial, TypeShader, TypeNodeGraph, TypeGeomSubset:
		return false
	}
	return true
}

// String returns the tag, or "def" for typeless prims
func (t TypeTag) String() string {
	if t == TypeNone {
		return "def"
	}
	return string(t)
}

// PathName returns the last element of a prim path.
func PathName(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// PathParent returns the parent path, "/" for top-level prims.
func PathParent(path string) string {
	path = strings.TrimRight(path, "/")
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

// JoinPath appends a child name to a parent path.
func JoinPath(parent, name string) string {
	return strings.TrimRight(parent, "/") + "/" + name
}

// CleanPath trims trailing slashes so "/World/lights/" and "/World/lights" match.
func CleanPath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// ValidatePath checks that path is absolute and every element is a valid prim name.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("prim path must be absolute: %q", path)
	}
	if path == "/" {
		return nil
	}
	for _, elem := range strings.Split(strings.TrimPrefix(CleanPath(path), "/"), "/") {
		if !IsValidName(elem) {
			return fmt.Errorf("invalid prim name %q in %q", elem, path)
		}
	}
	return nil
}

// IsValidName reports whether s is a valid prim identifier: a letter or
// underscore followed by letters, digits, or underscores.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// SanitizeName turns an arbitrary label into a valid prim identifier.
func SanitizeName(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
