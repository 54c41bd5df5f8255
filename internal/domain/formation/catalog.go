package formation

import (
	"fmt"
	"sort"
	"strings"
)

const (
	Shape442        = "4-4-2"
	Shape433        = "4-3-3"
	Shape4231       = "4-2-3-1"
	Shape352        = "3-5-2"
	Shape343        = "3-4-3"
	Shape4141       = "4-1-4-1"
	Shape532        = "5-3-2"
	Shape442Diamond = "4-4-2-diamond"
)

// Catalog is the read-only lookup of slot sets per formation shape.
type Catalog struct {
	shapes map[string]Slots
}

func NewCatalog(shapes map[string]Slots) (Catalog, error) {
	out := make(map[string]Slots, len(shapes))
	for shape, slots := range shapes {
		shape = strings.TrimSpace(shape)
		if shape == "" {
			return Catalog{}, fmt.Errorf("formation shape id is required")
		}
		if len(slots) == 0 {
			return Catalog{}, fmt.Errorf("formation %s has no slots", shape)
		}
		if err := slots.Validate(); err != nil {
			return Catalog{}, fmt.Errorf("formation %s: %w", shape, err)
		}
		out[shape] = append(Slots(nil), slots...)
	}

	return Catalog{shapes: out}, nil
}

func MustNewCatalog(shapes map[string]Slots) Catalog {
	c, err := NewCatalog(shapes)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns a copy of the slots for shape.
func (c Catalog) Lookup(shape string) (Slots, bool) {
	slots, ok := c.shapes[shape]
	if !ok {
		return nil, false
	}
	return append(Slots(nil), slots...), true
}

func (c Catalog) Has(shape string) bool {
	_, ok := c.shapes[shape]
	return ok
}

func (c Catalog) Shapes() []string {
	out := make([]string, 0, len(c.shapes))
	for shape := range c.shapes {
		out = append(out, shape)
	}
	sort.Strings(out)
	return out
}

func DefaultCatalog() Catalog {
	return MustNewCatalog(map[string]Slots{
		Shape442: {
			{ID: 101, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 102, Position: "LB", Group: GroupDefender, Top: 70, Left: 12},
			{ID: 103, Position: "CB", Group: GroupDefender, Top: 74, Left: 37},
			{ID: 104, Position: "CB", Group: GroupDefender, Top: 74, Left: 63},
			{ID: 105, Position: "RB", Group: GroupDefender, Top: 70, Left: 88},
			{ID: 106, Position: "LMF", Group: GroupMidfielder, Top: 45, Left: 12},
			{ID: 107, Position: "CMF", Group: GroupMidfielder, Top: 50, Left: 37},
			{ID: 108, Position: "CMF", Group: GroupMidfielder, Top: 50, Left: 63},
			{ID: 109, Position: "RMF", Group: GroupMidfielder, Top: 45, Left: 88},
			{ID: 110, Position: "CF", Group: GroupForward, Top: 20, Left: 37},
			{ID: 111, Position: "CF", Group: GroupForward, Top: 20, Left: 63},
		},
		Shape433: {
			{ID: 201, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 202, Position: "LB", Group: GroupDefender, Top: 70, Left: 12},
			{ID: 203, Position: "CB", Group: GroupDefender, Top: 74, Left: 37},
			{ID: 204, Position: "CB", Group: GroupDefender, Top: 74, Left: 63},
			{ID: 205, Position: "RB", Group: GroupDefender, Top: 70, Left: 88},
			{ID: 206, Position: "DMF", Group: GroupMidfielder, Top: 58, Left: 50},
			{ID: 207, Position: "CMF", Group: GroupMidfielder, Top: 46, Left: 30},
			{ID: 208, Position: "CMF", Group: GroupMidfielder, Top: 46, Left: 70},
			{ID: 209, Position: "LWF", Group: GroupForward, Top: 22, Left: 15},
			{ID: 210, Position: "CF", Group: GroupForward, Top: 16, Left: 50},
			{ID: 211, Position: "RWF", Group: GroupForward, Top: 22, Left: 85},
		},
		Shape4231: {
			{ID: 301, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 302, Position: "LB", Group: GroupDefender, Top: 70, Left: 12},
			{ID: 303, Position: "CB", Group: GroupDefender, Top: 74, Left: 37},
			{ID: 304, Position: "CB", Group: GroupDefender, Top: 74, Left: 63},
			{ID: 305, Position: "RB", Group: GroupDefender, Top: 70, Left: 88},
			{ID: 306, Position: "DMF", Group: GroupMidfielder, Top: 56, Left: 37},
			{ID: 307, Position: "DMF", Group: GroupMidfielder, Top: 56, Left: 63},
			{ID: 308, Position: "LMF", Group: GroupMidfielder, Top: 36, Left: 15},
			{ID: 309, Position: "AMF", Group: GroupMidfielder, Top: 36, Left: 50},
			{ID: 310, Position: "RMF", Group: GroupMidfielder, Top: 36, Left: 85},
			{ID: 311, Position: "CF", Group: GroupForward, Top: 16, Left: 50},
		},
		Shape352: {
			{ID: 401, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 402, Position: "CB", Group: GroupDefender, Top: 74, Left: 25},
			{ID: 403, Position: "CB", Group: GroupDefender, Top: 76, Left: 50},
			{ID: 404, Position: "CB", Group: GroupDefender, Top: 74, Left: 75},
			{ID: 405, Position: "LWB", Group: GroupMidfielder, Top: 50, Left: 8},
			{ID: 406, Position: "DMF", Group: GroupMidfielder, Top: 56, Left: 50},
			{ID: 407, Position: "CMF", Group: GroupMidfielder, Top: 44, Left: 32},
			{ID: 408, Position: "CMF", Group: GroupMidfielder, Top: 44, Left: 68},
			{ID: 409, Position: "RWB", Group: GroupMidfielder, Top: 50, Left: 92},
			{ID: 410, Position: "CF", Group: GroupForward, Top: 18, Left: 37},
			{ID: 411, Position: "CF", Group: GroupForward, Top: 18, Left: 63},
		},
		Shape343: {
			{ID: 501, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 502, Position: "CB", Group: GroupDefender, Top: 74, Left: 25},
			{ID: 503, Position: "CB", Group: GroupDefender, Top: 76, Left: 50},
			{ID: 504, Position: "CB", Group: GroupDefender, Top: 74, Left: 75},
			{ID: 505, Position: "LMF", Group: GroupMidfielder, Top: 48, Left: 10},
			{ID: 506, Position: "CMF", Group: GroupMidfielder, Top: 52, Left: 37},
			{ID: 507, Position: "CMF", Group: GroupMidfielder, Top: 52, Left: 63},
			{ID: 508, Position: "RMF", Group: GroupMidfielder, Top: 48, Left: 90},
			{ID: 509, Position: "LWF", Group: GroupForward, Top: 22, Left: 18},
			{ID: 510, Position: "CF", Group: GroupForward, Top: 16, Left: 50},
			{ID: 511, Position: "RWF", Group: GroupForward, Top: 22, Left: 82},
		},
		Shape4141: {
			{ID: 601, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 602, Position: "LB", Group: GroupDefender, Top: 70, Left: 12},
			{ID: 603, Position: "CB", Group: GroupDefender, Top: 74, Left: 37},
			{ID: 604, Position: "CB", Group: GroupDefender, Top: 74, Left: 63},
			{ID: 605, Position: "RB", Group: GroupDefender, Top: 70, Left: 88},
			{ID: 606, Position: "DMF", Group: GroupMidfielder, Top: 58, Left: 50},
			{ID: 607, Position: "LMF", Group: GroupMidfielder, Top: 40, Left: 12},
			{ID: 608, Position: "CMF", Group: GroupMidfielder, Top: 42, Left: 37},
			{ID: 609, Position: "CMF", Group: GroupMidfielder, Top: 42, Left: 63},
			{ID: 610, Position: "RMF", Group: GroupMidfielder, Top: 40, Left: 88},
			{ID: 611, Position: "CF", Group: GroupForward, Top: 16, Left: 50},
		},
		Shape532: {
			{ID: 701, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 702, Position: "LWB", Group: GroupDefender, Top: 64, Left: 8},
			{ID: 703, Position: "CB", Group: GroupDefender, Top: 74, Left: 28},
			{ID: 704, Position: "CB", Group: GroupDefender, Top: 76, Left: 50},
			{ID: 705, Position: "CB", Group: GroupDefender, Top: 74, Left: 72},
			{ID: 706, Position: "RWB", Group: GroupDefender, Top: 64, Left: 92},
			{ID: 707, Position: "CMF", Group: GroupMidfielder, Top: 46, Left: 28},
			{ID: 708, Position: "DMF", Group: GroupMidfielder, Top: 52, Left: 50},
			{ID: 709, Position: "CMF", Group: GroupMidfielder, Top: 46, Left: 72},
			{ID: 710, Position: "CF", Group: GroupForward, Top: 18, Left: 37},
			{ID: 711, Position: "CF", Group: GroupForward, Top: 18, Left: 63},
		},
		Shape442Diamond: {
			{ID: 801, Position: "GK", Group: GroupGoalkeeper, Top: 90, Left: 50},
			{ID: 802, Position: "LB", Group: GroupDefender, Top: 70, Left: 12},
			{ID: 803, Position: "CB", Group: GroupDefender, Top: 74, Left: 37},
			{ID: 804, Position: "CB", Group: GroupDefender, Top: 74, Left: 63},
			{ID: 805, Position: "RB", Group: GroupDefender, Top: 70, Left: 88},
			{ID: 806, Position: "DMF", Group: GroupMidfielder, Top: 58, Left: 50},
			{ID: 807, Position: "CMF", Group: GroupMidfielder, Top: 46, Left: 28},
			{ID: 808, Position: "CMF", Group: GroupMidfielder, Top: 46, Left: 72},
			{ID: 809, Position: "AMF", Group: GroupMidfielder, Top: 34, Left: 50},
			{ID: 810, Position: "CF", Group: GroupForward, Top: 16, Left: 37},
			{ID: 811, Position: "CF", Group: GroupForward, Top: 16, Left: 63},
		},
	})
}
