package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "stagePath",
			value:     "scene.yaml",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "stagePath",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "stagePath",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if valErr.Message != "stage path is required" {
					t.Errorf("unexpected message %q", valErr.Message)
				}
			}
		})
	}
}

func TestValidatePrimPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"absolute path", "/World/lights", false},
		{"root", "/", false},
		{"empty", "", true},
		{"relative", "World/lights", true},
		{"bad element", "/World/2nd floor", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrimPath("primPath", tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrimPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			var valErr *ValidationError
			if err != nil && !errors.As(err, &valErr) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("dayOfYear", 172, 1, 365); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateRange("dayOfYear", 366, 1, 365)
	if err == nil {
		t.Fatal("expected error for 366")
	}
	if err.Error() != "dayOfYear: day of year 366 out of range 1..365" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestHostError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := error(&HostError{Op: "delete", Path: "/World/Looks/Red", Err: cause})

	if !errors.Is(err, ErrHostOperation) {
		t.Error("HostError should match ErrHostOperation")
	}
	if !errors.Is(err, cause) {
		t.Error("HostError should unwrap to its cause")
	}
	if err.Error() != "delete /World/Looks/Red failed: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
