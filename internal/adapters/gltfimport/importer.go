// Package gltfimport builds stage prims from glTF scenes.
package gltfimport

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"

	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/domain"
)

const (
	// WorldPath is the root every imported scene is placed under
	WorldPath = "/World"
	// LooksPath holds the imported materials
	LooksPath = "/World/Looks"

	lightsExtension = "KHR_lights_punctual"
)

// Result counts what an import created
type Result struct {
	Prims     int
	Meshes    int
	Materials int
	Lights    int
}

// Importer copies glTF node hierarchies, materials and punctual lights
// into a stage
type Importer struct {
	stage  *scenegraph.Stage
	logger *slog.Logger

	doc       *gltf.Document
	materials map[int]string
	result    Result
}

// NewImporter creates an importer writing into stage
func NewImporter(stage *scenegraph.Stage, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{stage: stage, logger: logger}
}

// ImportFile imports a .gltf or .glb file
func (im *Importer) ImportFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return im.Import(data)
}

// Import decodes glTF data and defines its scenes under /World
func (im *Importer) Import(data []byte) (Result, error) {
	decoder := gltf.NewDecoder(bytes.NewReader(data))
	doc := gltf.NewDocument()
	if err := decoder.Decode(doc); err != nil {
		return Result{}, fmt.Errorf("failed to decode glTF: %w", err)
	}

	im.doc = doc
	im.materials = make(map[int]string)
	im.result = Result{}

	if !im.stage.RootLayerWritable() {
		return im.result, fmt.Errorf("stage root layer is read-only")
	}
	if _, err := im.define(WorldPath, domain.TypeXform); err != nil {
		return im.result, err
	}

	// every material is defined, bound or not
	if len(doc.Materials) > 0 {
		if _, err := im.define(LooksPath, domain.TypeScope); err != nil {
			return im.result, err
		}
	}
	taken := make(map[string]int)
	for i, mat := range doc.Materials {
		name := uniqueName(taken, mat.Name, fmt.Sprintf("Material%d", i))
		path := domain.JoinPath(LooksPath, name)
		if _, err := im.define(path, domain.TypeMaterial); err != nil {
			return im.result, err
		}
		im.materials[i] = path
		im.result.Materials++
	}

	scenes := doc.Scenes
	visited := make(map[int]bool)
	worldChildren := make(map[string]int)
	if len(doc.Materials) > 0 {
		worldChildren["Looks"] = 1
	}
	for i, scene := range scenes {
		parent := WorldPath
		if len(scenes) > 1 {
			name := uniqueName(worldChildren, scene.Name, fmt.Sprintf("Scene%d", i))
			parent = domain.JoinPath(WorldPath, name)
			if _, err := im.define(parent, domain.TypeXform); err != nil {
				return im.result, err
			}
		}
		siblings := worldChildren
		if len(scenes) > 1 {
			siblings = make(map[string]int)
		}
		for _, idx := range scene.Nodes {
			if err := im.importNode(parent, idx, siblings, visited); err != nil {
				return im.result, err
			}
		}
	}

	im.logger.Info("imported glTF",
		"prims", im.result.Prims,
		"meshes", im.result.Meshes,
		"materials", im.result.Materials,
		"lights", im.result.Lights)
	return im.result, nil
}

func (im *Importer) importNode(parent string, idx int, siblings map[string]int, visited map[int]bool) error {
	if idx < 0 || idx >= len(im.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		im.logger.Warn("skipping node already imported", "node", idx)
		return nil
	}
	visited[idx] = true

	node := im.doc.Nodes[idx]
	path := domain.JoinPath(parent, uniqueName(siblings, node.Name, fmt.Sprintf("Node%d", idx)))

	switch {
	case node.Mesh != nil:
		if err := im.importMesh(path, *node.Mesh); err != nil {
			return err
		}
	case node.Extensions[lightsExtension] != nil:
		if err := im.importLight(path, node.Extensions[lightsExtension]); err != nil {
			return err
		}
	default:
		if _, err := im.define(path, domain.TypeXform); err != nil {
			return err
		}
	}

	children := make(map[string]int)
	for _, child := range node.Children {
		if err := im.importNode(path, child, children, visited); err != nil {
			return err
		}
	}
	return nil
}

// importMesh binds the first primitive's material to the mesh. Every further
// primitive becomes a child Mesh with its own binding.
func (im *Importer) importMesh(path string, meshIdx int) error {
	prim, err := im.define(path, domain.TypeMesh)
	if err != nil {
		return err
	}
	im.result.Meshes++

	if meshIdx < 0 || meshIdx >= len(im.doc.Meshes) {
		return fmt.Errorf("%s: mesh index %d out of range", path, meshIdx)
	}
	for i, p := range im.doc.Meshes[meshIdx].Primitives {
		if p.Material == nil {
			continue
		}
		target, ok := im.materials[*p.Material]
		if !ok {
			im.logger.Warn("primitive references unknown material", "path", path, "material", *p.Material)
			continue
		}
		if i == 0 {
			if err := prim.SetRelationship(domain.DirectBindingRel, target); err != nil {
				return err
			}
			continue
		}
		part, err := im.define(domain.JoinPath(path, fmt.Sprintf("primitive_%d", i)), domain.TypeMesh)
		if err != nil {
			return err
		}
		if err := part.SetRelationship(domain.DirectBindingRel, target); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) importLight(path string, ext any) error {
	index, ok := ext.(lightspunctual.LightIndex)
	if !ok {
		return fmt.Errorf("%s: unexpected %s extension %T", path, lightsExtension, ext)
	}
	lights, ok := im.doc.Extensions[lightsExtension].(lightspunctual.Lights)
	if !ok || int(index) >= len(lights) {
		return fmt.Errorf("%s: light %d not defined", path, index)
	}
	light := lights[index]

	var tag domain.TypeTag
	switch light.Type {
	case lightspunctual.TypeDirectional:
		tag = domain.TypeDistantLight
	case lightspunctual.TypeSpot:
		tag = domain.TypeDiskLight
	default:
		tag = domain.TypeSphereLight
	}

	prim, err := im.define(path, tag)
	if err != nil {
		return err
	}
	im.result.Lights++

	color := domain.Vec3{float64(light.Color[0]), float64(light.Color[1]), float64(light.Color[2])}
	if err := prim.SetAttribute("inputs:color", domain.ValueColor3f, color); err != nil {
		return err
	}
	if light.Intensity != nil {
		if err := prim.SetAttribute("inputs:intensity", domain.ValueFloat, float64(*light.Intensity)); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) define(path string, tag domain.TypeTag) (*scenegraph.Prim, error) {
	_, existed := im.stage.Prim(path)
	prim, err := im.stage.Define(path, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to define %s: %w", path, err)
	}
	if !existed {
		im.result.Prims++
	}
	return prim, nil
}

// uniqueName sanitizes name and suffixes repeats: Lamp, Lamp_1, Lamp_2
func uniqueName(taken map[string]int, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	name = domain.SanitizeName(name)
	n, seen := taken[name]
	taken[name] = n + 1
	if !seen {
		return name
	}
	for {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if _, clash := taken[candidate]; !clash {
			taken[candidate] = 1
			return candidate
		}
		n++
	}
}
