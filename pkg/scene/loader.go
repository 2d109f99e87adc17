// Package scene builds renderable primitives from scene files, presets and
// procedural terrain.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"netherbox/internal/logger"
	"netherbox/pkg/engine"
)

var (
	// ErrBadLine is returned for a line that is not "x y z size material"
	ErrBadLine = errors.New("malformed scene line")
	// ErrUnknownMaterial is returned for a material missing from the presets
	ErrUnknownMaterial = errors.New("unknown material")
)

// ParseError reports a problem on a 1-based line of a scene file
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a scene file from disk
func Load(path string, presets Presets) ([]engine.Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file '%s': %v", path, err)
	}
	defer f.Close()

	return Parse(f, presets)
}

// Parse reads one cube per line in the form "x y z size material". Blank
// lines and lines starting with '#' are skipped.
func Parse(r io.Reader, presets Presets) ([]engine.Primitive, error) {
	var prims []engine.Primitive

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 5 {
			return nil, &ParseError{
				Line: lineNum,
				Msg:  fmt.Sprintf("Expected 5 parameters (x y z size material), got %d", len(parts)),
				Err:  ErrBadLine,
			}
		}

		var values [4]float32
		for i, label := range []string{"x coordinate", "y coordinate", "z coordinate", "size"} {
			v, err := strconv.ParseFloat(parts[i], 32)
			if err != nil {
				return nil, &ParseError{
					Line: lineNum,
					Msg:  fmt.Sprintf("Invalid %s '%s'", label, parts[i]),
					Err:  ErrBadLine,
				}
			}
			values[i] = float32(v)
		}
		if values[3] <= 0 {
			return nil, &ParseError{
				Line: lineNum,
				Msg:  fmt.Sprintf("Invalid size '%s'", parts[3]),
				Err:  ErrBadLine,
			}
		}

		mat, ok := presets[parts[4]]
		if !ok {
			return nil, &ParseError{
				Line: lineNum,
				Msg: fmt.Sprintf("Unknown material '%s'. Available: %s",
					parts[4], strings.Join(presets.Names(), ", ")),
				Err: ErrUnknownMaterial,
			}
		}

		center := engine.Vec3{values[0], values[1], values[2]}
		prims = append(prims, engine.NewBox(center, values[3], mat))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading scene: %v", err)
	}

	return prims, nil
}

// LoadOrDefault loads path, falling back to the default scene when the file
// is missing or invalid.
func LoadOrDefault(path string, presets Presets, log *logger.Logger) []engine.Primitive {
	if path != "" {
		prims, err := Load(path, presets)
		if err == nil {
			if log != nil {
				log.Infof("Loaded %d objects from %s", len(prims), path)
			}
			return prims
		}
		if log != nil {
			log.Warnf("Failed to load scene: %v", err)
			log.Info("Using default scene")
		}
	}
	return DefaultScene(presets)
}

// Summary describes a loaded scene
type Summary struct {
	Objects   int
	Emissive  int
	Bounds    engine.AABB
	Materials map[string]int
	BVH       engine.BVHStats
}

// Summarize counts objects per material and builds the BVH to report its shape
func Summarize(prims []engine.Primitive) Summary {
	s := Summary{
		Objects:   len(prims),
		Materials: make(map[string]int),
	}
	for i, p := range prims {
		if i == 0 {
			s.Bounds = p.Bounds()
		} else {
			s.Bounds = s.Bounds.Merge(p.Bounds())
		}
		m := p.Material()
		if m == nil {
			continue
		}
		s.Materials[m.Name]++
		if m.IsEmissive() {
			s.Emissive++
		}
	}
	s.BVH = engine.BuildBVH(prims).Stats()
	return s
}
