package scene

import "fmt"

// Unlimited marks a per-type capacity with no cap
const Unlimited = -1

// Capacity holds a per-type live-entry limit applied when a frame is built.
// Entries beyond the limit stay stored and exportable but never render.
type Capacity struct {
	Spheres   int
	Planes    int
	Boxes     int
	Cylinders int
	Triangles int
	Lights    int
}

// DefaultCapacity returns the slot counts of the interactive renderer
func DefaultCapacity() Capacity {
	return Capacity{
		Spheres:   10,
		Planes:    5,
		Boxes:     5,
		Cylinders: 5,
		Triangles: 10,
		Lights:    4,
	}
}

// UnlimitedCapacity returns a capacity that never truncates
func UnlimitedCapacity() Capacity {
	return Capacity{
		Spheres:   Unlimited,
		Planes:    Unlimited,
		Boxes:     Unlimited,
		Cylinders: Unlimited,
		Triangles: Unlimited,
		Lights:    Unlimited,
	}
}

// Overflow describes one entry type stored beyond its capacity
type Overflow struct {
	Kind   string
	Stored int
	Limit  int
}

// String formats the overflow for logs
func (o Overflow) String() string {
	return fmt.Sprintf("%s: %d stored, %d rendered", o.Kind, o.Stored, o.Limit)
}

// Exceeded reports every entry type of s that stores more than the capacity allows
func (c Capacity) Exceeded(s *Scene) []Overflow {
	stored := s.Counts()
	checks := []struct {
		kind   string
		stored int
		limit  int
	}{
		{"spheres", stored.Spheres, c.Spheres},
		{"planes", stored.Planes, c.Planes},
		{"boxes", stored.Boxes, c.Boxes},
		{"cylinders", stored.Cylinders, c.Cylinders},
		{"triangles", stored.Triangles, c.Triangles},
		{"lights", stored.Lights, c.Lights},
	}

	var overflows []Overflow
	for _, check := range checks {
		if check.limit != Unlimited && check.stored > check.limit {
			overflows = append(overflows, Overflow{Kind: check.kind, Stored: check.stored, Limit: check.limit})
		}
	}
	return overflows
}
