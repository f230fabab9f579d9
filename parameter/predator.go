package parameter

// Predator Entity
const (
	// PredatorStoppingDistance is the nearest-particle distance at or below which the predator holds position
	PredatorStoppingDistance = 50.0

	// PredatorSpeed is the pursuit speed in world units per second, scaled by real elapsed time
	PredatorSpeed = 100.0

	// PredatorSpawnFraction is the fraction of each world axis used as the predator spawn half-extent
	PredatorSpawnFraction = 0.25
)
