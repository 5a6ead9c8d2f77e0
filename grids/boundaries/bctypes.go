package boundaries

import (
	"fmt"
	"strings"
)

// BCType identifies the kind of condition applied at one end of a grid axis.
type BCType uint16

const (
	// BCDirichlet fixes the field value on the boundary face.
	BCDirichlet BCType = iota

	// BCNeumann fixes the outward normal derivative on the boundary face.
	BCNeumann

	// BCRobin fixes the mixed combination d_n u = rhs - factor*u on the
	// boundary face.
	BCRobin

	// BCPeriodic identifies the two ends of the axis with each other.
	BCPeriodic
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	names := map[BCType]string{
		BCDirichlet: "Dirichlet",
		BCNeumann:   "Neumann",
		BCRobin:     "Robin",
		BCPeriodic:  "Periodic",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// BCNameMap provides a mapping from common boundary condition names to BCType
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCType{
	// Fixed value
	"dirichlet": BCDirichlet,
	"value":     BCDirichlet,

	// Fixed normal derivative
	"neumann":    BCNeumann,
	"derivative": BCNeumann,
	"no-flux":    BCNeumann,
	"no_flux":    BCNeumann,
	"noflux":     BCNeumann,
	"natural":    BCNeumann,

	// Mixed
	"robin": BCRobin,
	"mixed": BCRobin,

	// Wraparound
	"periodic": BCPeriodic,
}

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) (BCType, error) {
	lowerName := strings.ToLower(strings.TrimSpace(name))

	if bcType, ok := BCNameMap[lowerName]; ok {
		return bcType, nil
	}
	return 0, fmt.Errorf("unknown boundary condition name %q", name)
}
