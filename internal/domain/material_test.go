package domain

import (
	"testing"
	"time"
)

func TestHasReservedPrefix(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/Looks/Shared", true},
		{"/Materials/Brick", true},
		{"/_class/Base", true},
		{"/World/Looks/Red", false},
		{"/Looks", false},
	}
	for _, tt := range tests {
		if got := HasReservedPrefix(tt.path); got != tt.want {
			t.Errorf("HasReservedPrefix(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCollectionBindings(t *testing.T) {
	if !IsCollectionBinding("material:binding:collection:walls") {
		t.Error("expected collection binding")
	}
	if IsCollectionBinding(DirectBindingRel) {
		t.Error("direct binding is not a collection binding")
	}
	if !IsCollectionPath("/World.collection:walls") {
		t.Error("expected collection path")
	}
	if IsCollectionPath("/World/Looks/Red") {
		t.Error("plain prim path is not a collection")
	}
}

func TestNewMaterialInfo(t *testing.T) {
	m := NewMaterialInfo("/World/Looks/Red", TypeMaterial, false)
	if m.Name != "Red" || !m.CanDelete || m.IsAncestral {
		t.Errorf("unexpected info %+v", m)
	}

	a := NewMaterialInfo("/Looks/Shared", TypeMaterial, true)
	if a.CanDelete {
		t.Error("ancestral material must not be deletable")
	}
}

func TestCountDeletable(t *testing.T) {
	materials := []MaterialInfo{
		NewMaterialInfo("/World/Looks/A", TypeMaterial, false),
		NewMaterialInfo("/World/Looks/B", TypeMaterial, true),
		NewMaterialInfo("/World/Looks/C", TypeMaterial, false),
	}
	deletable, ancestral := CountDeletable(materials)
	if deletable != 2 || ancestral != 1 {
		t.Errorf("CountDeletable = %d, %d; want 2, 1", deletable, ancestral)
	}
}

func TestNewDeletionRecord(t *testing.T) {
	at := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	materials := []MaterialInfo{
		NewMaterialInfo("/World/Looks/A", TypeMaterial, false),
		NewMaterialInfo("/World/Looks/B", TypeMaterial, false),
	}

	rec := NewDeletionRecord(materials, at)

	if len(rec.Paths) != 2 || rec.Paths[0] != "/World/Looks/A" || rec.Names[1] != "B" {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v", rec.Timestamp)
	}

	// the snapshot must not alias the caller's slice
	materials[0].Name = "changed"
	if rec.Snapshots[0].Name != "A" {
		t.Error("record snapshots alias the input slice")
	}
}

func TestPrimPathOf(t *testing.T) {
	tests := map[string]string{
		"/World/Looks/Red":                 "/World/Looks/Red",
		"/World/Looks/Red.outputs:surface": "/World/Looks/Red",
		"/World.collection:walls":          "/World",
	}
	for in, want := range tests {
		if got := PrimPathOf(in); got != want {
			t.Errorf("PrimPathOf(%q) = %q, want %q", in, got, want)
		}
	}
}
