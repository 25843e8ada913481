package intersection

import (
	"fmt"
	"strings"
)

// Direction is a compass point at the intersection boundary.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists every valid Direction.
var Directions = [...]Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) valid() bool { return d >= North && d <= West }

// ParseDirection accepts a full name or its first letter, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "s", "south":
		return South, nil
	case "e", "east":
		return East, nil
	case "w", "west":
		return West, nil
	}
	return 0, fmt.Errorf("intersection: unknown direction %q", s)
}

// Route is the path of one vehicle through the intersection.
type Route struct {
	Origin      Direction
	Destination Direction
}

func (r Route) String() string { return r.Origin.String() + "->" + r.Destination.String() }

// Valid reports whether both ends are real directions and differ.
func (r Route) Valid() bool {
	return r.Origin.valid() && r.Destination.valid() && r.Origin != r.Destination
}

// RightTurn reports whether r keeps to the outer lane.
func (r Route) RightTurn() bool {
	switch r {
	case Route{West, South}, Route{South, East}, Route{East, North}, Route{North, West}:
		return true
	}
	return false
}

// ParseRoute parses "origin->destination", e.g. "north->west" or "n->w".
func ParseRoute(s string) (Route, error) {
	from, to, ok := strings.Cut(s, "->")
	if !ok {
		return Route{}, fmt.Errorf("intersection: route %q is not of the form origin->destination", s)
	}
	o, err := ParseDirection(from)
	if err != nil {
		return Route{}, err
	}
	d, err := ParseDirection(to)
	if err != nil {
		return Route{}, err
	}
	r := Route{Origin: o, Destination: d}
	if !r.Valid() {
		return Route{}, fmt.Errorf("intersection: route %q starts and ends at %s", s, o)
	}
	return r, nil
}

// Routes returns all twelve valid routes.
func Routes() []Route {
	out := make([]Route, 0, 12)
	for _, o := range Directions {
		for _, d := range Directions {
			if o != d {
				out = append(out, Route{Origin: o, Destination: d})
			}
		}
	}
	return out
}
