package intersection

// Compatible reports whether vehicles on routes a and b may be inside the
// intersection at the same time. The result does not depend on argument order.
func Compatible(a, b Route) bool {
	switch {
	case a.Origin == b.Origin:
		return true
	case a.Origin == b.Destination && a.Destination == b.Origin:
		return true
	case a.Destination != b.Destination && (a.RightTurn() || b.RightTurn()):
		return true
	}
	return false
}

// FindConflict returns the first pair of incompatible routes in rs.
func FindConflict(rs []Route) (a, b Route, found bool) {
	for i := range rs {
		for j := i + 1; j < len(rs); j++ {
			if !Compatible(rs[i], rs[j]) {
				return rs[i], rs[j], true
			}
		}
	}
	return Route{}, Route{}, false
}
