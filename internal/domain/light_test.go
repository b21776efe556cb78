package domain

import "testing"

func TestLightProperty_AttributeNames(t *testing.T) {
	names := PropIntensity.AttributeNames()
	if len(names) != 2 || names[0] != "inputs:intensity" || names[1] != "intensity" {
		t.Errorf("AttributeNames = %v", names)
	}
}

func TestLightProperty_Defaults(t *testing.T) {
	tests := []struct {
		prop LightProperty
		want any
	}{
		{PropColor, White},
		{PropIntensity, 15000.0},
		{PropExposure, 1.0},
		{PropSpecular, 1.0},
		{PropEnableColorTemperature, true},
		{PropColorTemperature, 6500.0},
	}
	for _, tt := range tests {
		if got := tt.prop.Default(); got != tt.want {
			t.Errorf("%s default = %v, want %v", tt.prop, got, tt.want)
		}
	}
}

func TestParseLightProperty(t *testing.T) {
	tests := []struct {
		name    string
		want    LightProperty
		wantErr bool
	}{
		{"color", PropColor, false},
		{"inputs:exposure", PropExposure, false},
		{"temperature", PropColorTemperature, false},
		{"enableColorTemperature", PropEnableColorTemperature, false},
		{"radius", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLightProperty(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLightProperty(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}
