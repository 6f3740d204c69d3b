package catalog

// Role is the part a template plays in a level
type Role int

const (
	RoleStart    Role = iota // Player spawn room, graph origin
	RoleRegular              // Rooms that receive enemy waves
	RoleCorridor             // Two-door connectors placed by the router
	RoleEnd                  // Exit room, always a dead end
)

// String returns the string representation of a Role
func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleRegular:
		return "regular"
	case RoleCorridor:
		return "corridor"
	case RoleEnd:
		return "end"
	default:
		return "unknown"
	}
}

// IsRoom reports whether the role is selectable for a graph cell.
func (r Role) IsRoom() bool {
	return r == RoleStart || r == RoleRegular || r == RoleEnd
}

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, bool) {
	switch s {
	case "start":
		return RoleStart, true
	case "regular", "room":
		return RoleRegular, true
	case "corridor":
		return RoleCorridor, true
	case "end", "exit":
		return RoleEnd, true
	default:
		return RoleRegular, false
	}
}
