package domain

import "testing"

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name    string
		vt      ValueType
		in      any
		want    any
		wantErr bool
	}{
		{"float from int", ValueFloat, 3, 3.0, false},
		{"double from float32", ValueDouble, float32(0.5), 0.5, false},
		{"int from float", ValueInt, 4.0, 4, false},
		{"int rejects fraction", ValueInt, 4.5, nil, true},
		{"bool", ValueBool, true, true, false},
		{"bool rejects string", ValueBool, "true", nil, true},
		{"token", ValueToken, "invisible", "invisible", false},
		{"path rejects number", ValuePath, 1, nil, true},
		{"color from decoded list", ValueColor3f, []any{1, 0.5, 0.25}, Vec3{1, 0.5, 0.25}, false},
		{"color from float32 array", ValueColor3f, [3]float32{1, 1, 1}, White, false},
		{"vector needs three", ValueDouble3, []float64{1, 2}, nil, true},
		{"vector rejects strings", ValueFloat3, []any{"a", "b", "c"}, nil, true},
		{"unknown type", ValueType("matrix4d"), 1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceValue(tt.vt, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CoerceValue error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("CoerceValue = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestInferValueType(t *testing.T) {
	tests := []struct {
		in   any
		want ValueType
	}{
		{1.5, ValueDouble},
		{2, ValueInt},
		{false, ValueBool},
		{"inherited", ValueToken},
		{Vec3{0, 0, 0}, ValueDouble3},
	}
	for _, tt := range tests {
		got, err := InferValueType(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("InferValueType(%v) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := InferValueType(struct{}{}); err == nil {
		t.Error("expected error for unsupported value")
	}
}
