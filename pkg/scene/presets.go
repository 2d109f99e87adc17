package scene

import (
	"fmt"
	"os"
	"sort"

	"netherbox/pkg/engine"

	"gopkg.in/yaml.v2"
)

// Presets maps material names used in scene files to materials
type Presets map[string]*engine.Material

// Names returns the preset names in sorted order
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Textures returns every texture and normal map referenced by the presets
func (p Presets) Textures() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range p.Names() {
		m := p[name]
		for _, tex := range []string{m.Texture, m.NormalMap} {
			if tex != "" && !seen[tex] {
				seen[tex] = true
				names = append(names, tex)
			}
		}
	}
	return names
}

// NetherPresets returns the built-in nether palette
func NetherPresets() Presets {
	return Presets{
		"obsidian": {
			Name:         "obsidian",
			Diffuse:      engine.Vec3{0.15, 0.1, 0.2},
			Albedo:       [2]float32{0.9, 0.1},
			Specular:     90,
			Reflectivity: 0.1,
			Texture:      "obsidian.png",
		},
		"shroomlight": {
			Name:             "shroomlight",
			Diffuse:          engine.Vec3{0.95, 0.6, 0.3},
			Albedo:           [2]float32{0.9, 0.1},
			Specular:         15,
			Texture:          "shroomlight.png",
			Emission:         engine.Vec3{1, 0.45, 0.15},
			EmissionStrength: 1.2,
		},
		"crimson_nylium": {
			Name:     "crimson_nylium",
			Diffuse:  engine.Vec3{0.5, 0.1, 0.15},
			Albedo:   [2]float32{0.95, 0.05},
			Specular: 5,
			Texture:  "crimson_nylium.png",
		},
		"crimson_stem": {
			Name:     "crimson_stem",
			Diffuse:  engine.Vec3{0.4, 0.15, 0.35},
			Albedo:   [2]float32{0.85, 0.15},
			Specular: 15,
			Texture:  "crimson_stem.png",
		},
		"nether_wart_block": {
			Name:     "nether_wart_block",
			Diffuse:  engine.Vec3{0.5, 0.05, 0.08},
			Albedo:   [2]float32{0.95, 0.05},
			Specular: 8,
			Texture:  "nether_wart_block.png",
		},
		"portal": {
			Name:            "portal",
			Diffuse:         engine.Vec3{0.8, 0.8, 0.8},
			Albedo:          [2]float32{0.9, 0.1},
			Specular:        10,
			Transparency:    0.5,
			RefractiveIndex: 1.3,
			Texture:         "portal.png",
		},
	}
}

// materialFile is the YAML form of one material
type materialFile struct {
	Diffuse          [3]float32 `yaml:"diffuse"`
	Albedo           [2]float32 `yaml:"albedo"`
	Specular         float32    `yaml:"specular"`
	Reflectivity     float32    `yaml:"reflectivity"`
	Transparency     float32    `yaml:"transparency"`
	RefractiveIndex  float32    `yaml:"refractive_index"`
	Texture          string     `yaml:"texture"`
	NormalMap        string     `yaml:"normal_map"`
	Emission         [3]float32 `yaml:"emission"`
	EmissionStrength float32    `yaml:"emission_strength"`
}

// LoadPresets reads a YAML material file and layers it over base. Entries
// replace presets of the same name.
func LoadPresets(path string, base Presets) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read materials file '%s': %v", path, err)
	}
	return ParsePresets(data, base)
}

// ParsePresets decodes YAML material definitions and layers them over base
func ParsePresets(data []byte, base Presets) (Presets, error) {
	var defs map[string]materialFile
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("error parsing materials: %v", err)
	}

	out := make(Presets, len(base)+len(defs))
	for name, m := range base {
		out[name] = m
	}
	for name, d := range defs {
		if d.Transparency < 0 || d.Transparency > 1 || d.Reflectivity < 0 || d.Reflectivity > 1 {
			return nil, fmt.Errorf("material '%s': reflectivity and transparency must be in [0,1]", name)
		}
		if d.Transparency > 0 && d.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("material '%s': transparent material needs a positive refractive_index", name)
		}
		out[name] = &engine.Material{
			Name:             name,
			Diffuse:          engine.Vec3(d.Diffuse),
			Albedo:           d.Albedo,
			Specular:         d.Specular,
			Reflectivity:     d.Reflectivity,
			Transparency:     d.Transparency,
			RefractiveIndex:  d.RefractiveIndex,
			Texture:          d.Texture,
			NormalMap:        d.NormalMap,
			Emission:         engine.Vec3(d.Emission),
			EmissionStrength: d.EmissionStrength,
		}
	}
	return out, nil
}

// DefaultScene returns the six cube nether showcase
func DefaultScene(presets Presets) []engine.Primitive {
	layout := []struct {
		center   engine.Vec3
		material string
	}{
		{engine.Vec3{-2.5, 0, 0}, "obsidian"},
		{engine.Vec3{0, 0, -1}, "shroomlight"},
		{engine.Vec3{2.5, 0, 0}, "crimson_nylium"},
		{engine.Vec3{-1.5, 0, 2}, "crimson_stem"},
		{engine.Vec3{1.5, 0, 2}, "nether_wart_block"},
		{engine.Vec3{0, 0, 3}, "portal"},
	}

	prims := make([]engine.Primitive, 0, len(layout))
	for _, c := range layout {
		mat, ok := presets[c.material]
		if !ok {
			mat = engine.DefaultMaterial()
		}
		prims = append(prims, engine.NewBox(c.center, 1.5, mat))
	}
	return prims
}
