package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/adapters/memory"
	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// looksStage has Red bound by Cube and Blue, Green unused
func looksStage(t *testing.T) *scenegraph.Stage {
	t.Helper()
	s := scenegraph.New()
	for _, path := range []string{"/World/Looks/Red", "/World/Looks/Blue", "/World/Looks/Green"} {
		_, err := s.Define(path, domain.TypeMaterial)
		require.NoError(t, err)
	}
	cube, err := s.Define("/World/Cube", domain.TypeMesh)
	require.NoError(t, err)
	require.NoError(t, cube.SetRelationship(domain.DirectBindingRel, "/World/Looks/Red"))
	return s
}

func newMaterialManager(s *scenegraph.Stage) *application.MaterialManager {
	return application.NewMaterialManager(s, scenegraph.NewCommands(s), memory.NewHistoryStore(), discardLogger())
}

func TestDeleteMaterialsCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		all     bool
		wantErr bool
		errMsg  string
	}{
		{
			name:  "paths",
			paths: []string{"/World/Looks/Blue"},
		},
		{
			name: "all",
			all:  true,
		},
		{
			name:    "nothing given",
			wantErr: true,
			errMsg:  "at least one material path is required",
		},
		{
			name:    "both given",
			paths:   []string{"/World/Looks/Blue"},
			all:     true,
			wantErr: true,
			errMsg:  "not both",
		},
		{
			name:    "relative path",
			paths:   []string{"World/Looks/Blue"},
			wantErr: true,
			errMsg:  "must be absolute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &DeleteMaterialsCommand{Paths: tt.paths, All: tt.all}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				var valErr *application.ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected a ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMaterialCommands_ScanDeleteUndo(t *testing.T) {
	ctx := context.Background()
	s := looksStage(t)
	mm := newMaterialManager(s)

	scan, err := NewScanMaterialsCommand(mm).Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, scan.Unused, 2)
	assert.Equal(t, "Found 2 unused material(s) out of 3", scan.Message)

	out, err := NewDeleteMaterialsCommand(mm, []string{"/World/Looks/Blue"}, false).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Deleted)
	_, ok := s.PrimAtPath("/World/Looks/Blue")
	assert.False(t, ok)

	history, err := NewHistoryCommand(mm, false).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, history.Records, 1)
	assert.Equal(t, []string{"/World/Looks/Blue"}, history.Records[0].Paths)

	undo, err := NewUndoDeleteCommand(mm).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, undo.Restored)
	_, ok = s.PrimAtPath("/World/Looks/Blue")
	assert.True(t, ok)

	out, err = NewDeleteMaterialsCommand(mm, nil, true).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Deleted)

	cleared, err := NewHistoryCommand(mm, true).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cleared deletion history", cleared.Message)
	_, err = NewUndoDeleteCommand(mm).Execute(ctx)
	assert.ErrorIs(t, err, application.ErrEmptyHistory)
}

func TestDeleteMaterialsCommand_RefusesUsedMaterial(t *testing.T) {
	ctx := context.Background()
	s := looksStage(t)
	mm := newMaterialManager(s)

	_, err := NewDeleteMaterialsCommand(mm, []string{"/World/Looks/Blue", "/World/Looks/Red"}, false).Execute(ctx)
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, ok := s.PrimAtPath("/World/Looks/Red")
	assert.True(t, ok)
	_, ok = s.PrimAtPath("/World/Looks/Blue")
	assert.True(t, ok, "nothing is deleted when one path is refused")
	assert.Zero(t, mm.SelectionCount())
}
