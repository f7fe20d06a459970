package ifc

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is an IFC entity type code as used by web-ifc.
type Category uint32

// Element categories understood by name in configuration files.
const (
	IfcBeam             Category = 753842376
	IfcColumn           Category = 843113511
	IfcWall             Category = 2391406946
	IfcWallStandardCase Category = 3512223829
	IfcSlab             Category = 1529196076
	IfcMember           Category = 1073191201
	IfcPlate            Category = 3171933400
	IfcFooting          Category = 900683007
	IfcRoof             Category = 2016517767
	IfcStair            Category = 331165859
	IfcRailing          Category = 2262370178
	IfcDoor             Category = 395920057
	IfcWindow           Category = 3304561284
	IfcCovering         Category = 1973544240
)

var categoryNames = map[Category]string{
	IfcBeam:             "IFCBEAM",
	IfcColumn:           "IFCCOLUMN",
	IfcWall:             "IFCWALL",
	IfcWallStandardCase: "IFCWALLSTANDARDCASE",
	IfcSlab:             "IFCSLAB",
	IfcMember:           "IFCMEMBER",
	IfcPlate:            "IFCPLATE",
	IfcFooting:          "IFCFOOTING",
	IfcRoof:             "IFCROOF",
	IfcStair:            "IFCSTAIR",
	IfcRailing:          "IFCRAILING",
	IfcDoor:             "IFCDOOR",
	IfcWindow:           "IFCWINDOW",
	IfcCovering:         "IFCCOVERING",
}

// WireframeCategories are the structural element types drawn with outlines by default.
var WireframeCategories = []Category{
	IfcBeam,
	IfcColumn,
	IfcMember,
	IfcPlate,
	IfcSlab,
	IfcWall,
	IfcWallStandardCase,
}

// String returns the IFC type name, or the numeric code for unnamed types.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return strconv.FormatUint(uint64(c), 10)
}

// ParseCategory accepts an IFC type name (case-insensitive) or a numeric code.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.ParseUint(s, 10, 32); err == nil {
		return Category(code), nil
	}
	upper := strings.ToUpper(s)
	for c, name := range categoryNames {
		if name == upper {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown IFC category %q", s)
}

// ParseCategories parses a list of names or codes.
func ParseCategories(names []string) ([]Category, error) {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
