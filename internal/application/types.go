package application

import "lightdeck/internal/domain"

// Re-export domain types for use by adapters
type (
	TreeNode       = domain.TreeNode
	MaterialInfo   = domain.MaterialInfo
	DeletionRecord = domain.DeletionRecord
	ScanStats      = domain.ScanStats
	SunpathConfig  = domain.SunpathConfig
	SunPosition    = domain.SunPosition
	LightProperty  = domain.LightProperty
	Vec3           = domain.Vec3
)

// ParseLightProperty resolves a light property by name
func ParseLightProperty(name string) (LightProperty, error) {
	p, err := domain.ParseLightProperty(name)
	if err != nil {
		return 0, &ValidationError{Field: "property", Message: err.Error()}
	}
	return p, nil
}
