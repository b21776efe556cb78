package domain

import (
	"strings"
	"time"
)

// Names of the bindings that make a prim depend on a material.
const (
	DirectBindingRel        = "material:binding"
	CollectionBindingPrefix = "material:binding:collection:"
	collectionPathMarker    = ".collection:"
)

// BindingAttributeNames are attributes that may hold a material either as a
// connection or as a literal path value.
var BindingAttributeNames = []string{
	"material:binding",
	"inputs:material:binding",
	"primvars:material:binding",
}

// ReservedPathPrefixes mark materials owned by the system or a shared library.
// Materials under these paths are never deleted.
var ReservedPathPrefixes = []string{"/Looks/", "/Materials/", "/_class/"}

// MaterialInfo is a snapshot of a material prim taken during a scan
type MaterialInfo struct {
	Path        string
	Name        string
	Type        TypeTag
	IsAncestral bool
	CanDelete   bool
}

// NewMaterialInfo builds the snapshot for the material at path
func NewMaterialInfo(path string, t TypeTag, ancestral bool) MaterialInfo {
	return MaterialInfo{
		Path:        path,
		Name:        PathName(path),
		Type:        t,
		IsAncestral: ancestral,
		CanDelete:   !ancestral,
	}
}

// HasReservedPrefix reports whether path lives under a reserved system path.
func HasReservedPrefix(path string) bool {
	for _, prefix := range ReservedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsCollectionBinding reports whether a relationship name is a collection binding.
func IsCollectionBinding(relName string) bool {
	return strings.HasPrefix(relName, CollectionBindingPrefix)
}

// IsCollectionPath reports whether a target names a collection rather than a prim.
func IsCollectionPath(target string) bool {
	return strings.Contains(target, collectionPathMarker)
}

// CountDeletable returns how many materials may be deleted and how many are ancestral.
func CountDeletable(materials []MaterialInfo) (deletable, ancestral int) {
	for _, m := range materials {
		if m.IsAncestral {
			ancestral++
		} else {
			deletable++
		}
	}
	return deletable, ancestral
}

// DeletionRecord is one batch of deleted materials on the undo ledger.
type DeletionRecord struct {
	ID        int64 // assigned by persistent stores, zero otherwise
	Paths     []string
	Names     []string
	Snapshots []MaterialInfo
	Timestamp time.Time
}

// NewDeletionRecord captures the materials about to be deleted
func NewDeletionRecord(materials []MaterialInfo, at time.Time) DeletionRecord {
	rec := DeletionRecord{
		Paths:     make([]string, 0, len(materials)),
		Names:     make([]string, 0, len(materials)),
		Snapshots: make([]MaterialInfo, len(materials)),
		Timestamp: at,
	}
	copy(rec.Snapshots, materials)
	for _, m := range materials {
		rec.Paths = append(rec.Paths, m.Path)
		rec.Names = append(rec.Names, m.Name)
	}
	return rec
}

// PrimPathOf strips a property suffix from a target path:
// "/World/Looks/Red.outputs:surface" -> "/World/Looks/Red".
func PrimPathOf(target string) string {
	slash := strings.LastIndex(target, "/")
	if dot := strings.Index(target[slash+1:], "."); dot >= 0 {
		return target[:slash+1+dot]
	}
	return target
}
