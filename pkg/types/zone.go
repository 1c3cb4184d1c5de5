package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Zone is one of the six fixed court positions, numbered 1 to 6 in the
// usual rotation order.
type Zone int

// MarkerPosition is the position recorded on terminal marker entries.
const MarkerPosition = "FIN"

const (
	minZone Zone = 1
	maxZone Zone = 6
)

var zoneNames = map[Zone]string{
	1: "Back right",
	2: "Front right",
	3: "Front centre",
	4: "Front left",
	5: "Back left",
	6: "Back centre",
}

// Zones returns the six court positions in order.
func Zones() []Zone {
	zs := make([]Zone, 0, maxZone)
	for z := minZone; z <= maxZone; z++ {
		zs = append(zs, z)
	}
	return zs
}

// Valid reports whether z is a court position.
func (z Zone) Valid() bool {
	return z >= minZone && z <= maxZone
}

// Label returns the position label stored in the log, e.g. "P4".
func (z Zone) Label() string {
	return "P" + strconv.Itoa(int(z))
}

// Name returns the descriptive name of the position.
func (z Zone) Name() string {
	return zoneNames[z]
}

// ParseZone accepts "4" or "P4" (case-insensitive).
func ParseZone(s string) (Zone, error) {
	t := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P")
	n, err := strconv.Atoi(t)
	if err != nil || !Zone(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidZone, s)
	}
	return Zone(n), nil
}
