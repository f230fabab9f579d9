package swarm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/galileo/vmath"
)

// Dispersion summarizes how tightly the swarm gathers around a point
type Dispersion struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// Spread computes particle distance statistics around center
func Spread(pop Population, center vmath.Vec2) Dispersion {
	d, _ := spreadInto(pop, center, nil)
	return d
}

// spreadInto reuses buf for the distance vector and returns it for the next call
func spreadInto(pop Population, center vmath.Vec2, buf []float64) (Dispersion, []float64) {
	buf = buf[:0]
	for i := range pop {
		buf = append(buf, vmath.V2Dist(pop[i].Position, center))
	}

	switch len(buf) {
	case 0:
		return Dispersion{}, buf
	case 1:
		// Unbiased std dev is undefined for one sample
		return Dispersion{Mean: buf[0], Max: buf[0]}, buf
	}

	mean, std := stat.MeanStdDev(buf, nil)
	return Dispersion{Mean: mean, StdDev: std, Max: floats.Max(buf)}, buf
}
