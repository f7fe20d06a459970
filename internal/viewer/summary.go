package viewer

import (
	"github.com/Faultbox/sectionview/internal/bounds"
	"github.com/Faultbox/sectionview/internal/section"
)

// SubsetSummary describes one subset.
type SubsetSummary struct {
	Name      string `json:"name"`
	Members   int    `json:"members"`
	Triangles int    `json:"triangles"`
	Outline   bool   `json:"outline"`
}

// Summary is a read-only snapshot of the viewer state for display.
type Summary struct {
	Model       string          `json:"model"`
	Subsets     []SubsetSummary `json:"subsets"`
	Planes      []section.Info  `json:"planes"`
	Bounds      bounds.Info     `json:"bounds"`
	Transparent bool            `json:"transparent"`
}

// Summary returns the current state.
func (c *Context) Summary() Summary {
	s := Summary{
		Planes:      c.Planes.Planes(),
		Bounds:      c.Subsets.Bounds(),
		Transparent: c.Subsets.Transparent(),
	}
	if c.Model != nil {
		s.Model = c.Model.Name
	}
	for _, name := range c.Subsets.Names() {
		sub, _ := c.Subsets.Get(name)
		s.Subsets = append(s.Subsets, SubsetSummary{
			Name:      name,
			Members:   sub.Members.Len(),
			Triangles: len(sub.Geometry.Indices) / 3,
			Outline:   sub.OutlineNode != nil,
		})
	}
	return s
}
