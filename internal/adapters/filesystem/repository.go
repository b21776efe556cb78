package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/domain"
)

// Repository loads and saves a stage from a YAML stage file
type Repository struct {
	stagePath string
}

// NewRepository creates a repository for the stage file at stagePath
func NewRepository(stagePath string) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(stagePath, "~") {
		home, _ := os.UserHomeDir()
		stagePath = filepath.Join(home, stagePath[1:])
	}
	return &Repository{stagePath: stagePath}
}

// Path returns the stage file path
func (r *Repository) Path() string {
	return r.stagePath
}

type stageFile struct {
	Writable *bool       `yaml:"writable,omitempty"`
	Prims    []primEntry `yaml:"prims"`
}

type primEntry struct {
	Name          string                    `yaml:"name"`
	Type          string                    `yaml:"type,omitempty"`
	Instance      bool                      `yaml:"instance,omitempty"`
	Prototype     bool                      `yaml:"prototype,omitempty"`
	References    []string                  `yaml:"references,omitempty"`
	Attributes    map[string]attributeEntry `yaml:"attributes,omitempty"`
	Relationships map[string][]string       `yaml:"relationships,omitempty"`
	Children      []primEntry               `yaml:"children,omitempty"`
}

type attributeEntry struct {
	Type        string   `yaml:"type"`
	Value       any      `yaml:"value,omitempty"`
	Connections []string `yaml:"connections,omitempty"`
}

// Load reads the stage file. A missing file yields an empty writable stage.
func (r *Repository) Load() (*scenegraph.Stage, error) {
	data, err := os.ReadFile(r.stagePath)
	if os.IsNotExist(err) {
		return scenegraph.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stage: %w", err)
	}
	return Decode(data)
}

// Decode builds a stage from YAML stage data
func Decode(data []byte) (*scenegraph.Stage, error) {
	var file stageFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse stage: %w", err)
	}

	stage := scenegraph.New()
	if file.Writable != nil {
		stage.SetRootLayerWritable(*file.Writable)
	}
	for _, entry := range file.Prims {
		if err := definePrim(stage, "", entry); err != nil {
			return nil, err
		}
	}
	return stage, nil
}

func definePrim(stage *scenegraph.Stage, parent string, entry primEntry) error {
	if !domain.IsValidName(entry.Name) {
		return fmt.Errorf("invalid prim name %q under %q", entry.Name, parent)
	}
	path := domain.JoinPath(parent, entry.Name)
	prim, err := stage.Define(path, domain.TypeTag(entry.Type))
	if err != nil {
		return fmt.Errorf("failed to define %s: %w", path, err)
	}

	prim.SetInstance(entry.Instance)
	prim.SetPrototype(entry.Prototype)
	for _, ref := range entry.References {
		prim.AddReference(ref)
	}

	for _, name := range sortedKeys(entry.Attributes) {
		attr := entry.Attributes[name]
		vt := domain.ValueType(attr.Type)
		switch {
		case len(attr.Connections) > 0:
			err = prim.ConnectAttribute(name, vt, attr.Connections...)
		case attr.Value != nil:
			err = prim.SetAttribute(name, vt, attr.Value)
		default:
			_, err = prim.CreateAttribute(name, vt)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, name := range sortedKeys(entry.Relationships) {
		if err := prim.SetRelationship(name, entry.Relationships[name]...); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, child := range entry.Children {
		if err := definePrim(stage, path, child); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the stage back to the stage file, replacing it atomically
func (r *Repository) Save(stage *scenegraph.Stage) error {
	data, err := Encode(stage)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.stagePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create stage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".stage-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write stage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write stage: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.stagePath); err != nil {
		return fmt.Errorf("failed to replace stage: %w", err)
	}
	return nil
}

// Encode renders the stage as YAML stage data
func Encode(stage *scenegraph.Stage) ([]byte, error) {
	file := stageFile{}
	if !stage.RootLayerWritable() {
		writable := false
		file.Writable = &writable
	}
	for _, prim := range stage.RootPrims() {
		entry, err := encodePrim(prim)
		if err != nil {
			return nil, err
		}
		file.Prims = append(file.Prims, entry)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stage: %w", err)
	}
	return data, nil
}

func encodePrim(prim *scenegraph.Prim) (primEntry, error) {
	entry := primEntry{
		Name:       prim.Name(),
		Type:       string(prim.TypeTag()),
		Instance:   prim.IsInstance(),
		Prototype:  prim.IsPrototype(),
		References: prim.References(),
	}

	for _, name := range prim.AttributeNames() {
		attr, ok := prim.Attribute(name)
		if !ok {
			continue
		}
		value, authored, err := attr.Get()
		if err != nil {
			return entry, fmt.Errorf("%s.%s: %w", prim.Path(), name, err)
		}
		conns, err := attr.Connections()
		if err != nil {
			return entry, fmt.Errorf("%s.%s: %w", prim.Path(), name, err)
		}
		a := attributeEntry{Type: string(attr.ValueType()), Connections: conns}
		if authored {
			a.Value = yamlValue(value)
		}
		if entry.Attributes == nil {
			entry.Attributes = make(map[string]attributeEntry)
		}
		entry.Attributes[name] = a
	}

	for _, rel := range prim.Relationships() {
		targets, err := rel.Targets()
		if err != nil {
			return entry, fmt.Errorf("%s.%s: %w", prim.Path(), rel.Name(), err)
		}
		if entry.Relationships == nil {
			entry.Relationships = make(map[string][]string)
		}
		entry.Relationships[rel.Name()] = targets
	}

	for _, child := range prim.Children() {
		c, ok := child.(*scenegraph.Prim)
		if !ok {
			continue
		}
		childEntry, err := encodePrim(c)
		if err != nil {
			return entry, err
		}
		entry.Children = append(entry.Children, childEntry)
	}
	return entry, nil
}

// yamlValue turns vectors into plain sequences so they encode as flow lists
func yamlValue(v any) any {
	if vec, ok := v.(domain.Vec3); ok {
		return []float64{vec[0], vec[1], vec[2]}
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
