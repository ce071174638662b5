package aghier

const (
	// min horizontal distance between neighboring cells after inflation
	MIN_SPACING = 60.

	// min vertical distance between rows
	MIN_ROW_GAP = 80.

	CONTAINER_PADDING = 30.

	// side of the kind glyph drawn in a container header
	HEADER_ICON_SIZE = 24.

	// gap between sibling cells laid out inside a container
	CHILD_GAP = 40.

	// provisional nudge for contained elements until growth places them
	CHILD_PLACEMENT_OFFSET = 20.

	CONVERGENCE_THRESHOLD = 0.01
	MAX_OPTIMIZER_PASSES  = 30
	MAX_BRACKET_ATTEMPTS  = 32
	BISECTION_STEPS       = 48
)
