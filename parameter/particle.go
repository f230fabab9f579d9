package parameter

// Swarm (PSO) Coefficients
const (
	// SwarmInertia (w) is the fraction of previous velocity retained each update
	SwarmInertia = 0.95

	// SwarmCognitive (c1) weights the pull toward a particle's personal best
	SwarmCognitive = 1.4

	// SwarmSocial (c2) weights the pull toward the swarm's global best
	SwarmSocial = 1.4

	// SwarmStepScale is the fixed time-discretization factor applied to velocity before it is added to position
	// Not scaled by elapsed time: the swarm advances once per fixed tick
	SwarmStepScale = 0.01
)

// Swarm Population
const (
	// SwarmPopulation is the default particle count (10x10 seed grid)
	SwarmPopulation = 100

	// SwarmInitialSpeed bounds each initial velocity axis to [-SwarmInitialSpeed, +SwarmInitialSpeed]
	SwarmInitialSpeed = 1.0
)

// Fitness
const (
	// FitnessOptimumX and FitnessOptimumY locate the fixed optimal point
	FitnessOptimumX = 250.0
	FitnessOptimumY = 250.0

	// FitnessDistanceWeight is the fitness lost per world unit of distance from the optimum
	FitnessDistanceWeight = 0.001
)
