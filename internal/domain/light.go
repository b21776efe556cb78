package domain

import "fmt"

// LightProperty identifies one of the editable light attributes
type LightProperty int

const (
	PropColor LightProperty = iota
	PropIntensity
	PropExposure
	PropSpecular
	PropEnableColorTemperature
	PropColorTemperature
)

// Visibility tokens
const (
	VisibilityAttr      = "visibility"
	VisibilityInherited = "inherited"
	VisibilityInvisible = "invisible"
)

// Factory defaults used when a light has no authored value.
const (
	DefaultIntensity        = 15000.0
	DefaultExposure         = 1.0
	DefaultSpecular         = 1.0
	DefaultColorTemperature = 6500.0
)

type lightPropertyDef struct {
	base      string
	valueType ValueType
	fallback  any
}

var lightProperties = map[LightProperty]lightPropertyDef{
	PropColor:                  {"color", ValueColor3f, White},
	PropIntensity:              {"intensity", ValueFloat, DefaultIntensity},
	PropExposure:               {"exposure", ValueFloat, DefaultExposure},
	PropSpecular:               {"specular", ValueFloat, DefaultSpecular},
	PropEnableColorTemperature: {"enableColorTemperature", ValueBool, true},
	PropColorTemperature:       {"colorTemperature", ValueFloat, DefaultColorTemperature},
}

// LightProperties lists every property in panel order.
var LightProperties = []LightProperty{
	PropColor,
	PropIntensity,
	PropExposure,
	PropSpecular,
	PropEnableColorTemperature,
	PropColorTemperature,
}

// AttributeNames returns the candidate attribute names in priority order:
// the namespaced "inputs:" form first, then the bare name.
func (p LightProperty) AttributeNames() []string {
	def := lightProperties[p]
	return []string{"inputs:" + def.base, def.base}
}

// ValueType returns the type used when the attribute has to be created.
func (p LightProperty) ValueType() ValueType {
	return lightProperties[p].valueType
}

// Default returns the value reported when no candidate attribute is authored.
func (p LightProperty) Default() any {
	return lightProperties[p].fallback
}

func (p LightProperty) String() string {
	if def, ok := lightProperties[p]; ok {
		return def.base
	}
	return fmt.Sprintf("LightProperty(%d)", int(p))
}

// ParseLightProperty resolves a property by its bare or namespaced name.
func ParseLightProperty(name string) (LightProperty, error) {
	for _, p := range LightProperties {
		names := p.AttributeNames()
		if name == names[0] || name == names[1] {
			return p, nil
		}
	}
	// common short forms
	switch name {
	case "temperature", "temp":
		return PropColorTemperature, nil
	case "enableTemperature":
		return PropEnableColorTemperature, nil
	}
	return 0, fmt.Errorf("unknown light property %q", name)
}

// LightDefaults are the recorded values restored by "reset to defaults".
type LightDefaults struct {
	Intensity        float64
	ColorTemperature float64
	Color            Vec3
	Exposure         float64
	Specular         float64
}
