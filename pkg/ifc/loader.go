package ifc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Faultbox/sectionview/pkg/geom"
)

// modelFile is the on-disk JSON dump of a parsed IFC model: flat position,
// index and express-id buffers plus the element ids of each IFC type.
type modelFile struct {
	Name       string                  `json:"name"`
	Positions  []float32               `json:"positions"`
	Indices    []uint32                `json:"indices"`
	ExpressIDs []uint32                `json:"expressIDs"`
	Types      map[string][]SemanticID `json:"types"`
}

// Load reads a model dump from path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Decode parses a model dump and validates its buffers.
func Decode(r io.Reader) (*Model, error) {
	var mf modelFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}

	m := &Model{
		Name: mf.Name,
		Mesh: &geom.Geometry{
			Primitive: geom.Triangles,
			Positions: mf.Positions,
			Indices:   mf.Indices,
			IDs:       mf.ExpressIDs,
		},
		Types: make(map[Category][]SemanticID, len(mf.Types)),
	}
	for name, ids := range mf.Types {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		m.Types[c] = append(m.Types[c], ids...)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
