package agfit

const (
	// trial relocations per fitting run
	MAX_FIT_ITERATIONS = 10

	CANVAS_PADDING = 20.

	// base relocation distance, divided by the element's size scales
	RELOCATE_STEP = 40.

	// elements at least this accessible anchor the diagram and are never
	// relocated
	HIGH_PRIORITY_ACCESSIBILITY = 3.

	PENALTY_OUT_OF_CANVAS   = 1000.
	PENALTY_ELEMENT_OVERLAP = 100.
	PENALTY_LINE_CROSSING   = 75.
	PENALTY_LABEL_OVERLAP   = 50.

	// crowding pressure from each already committed label within range
	PENALTY_DENSITY = 5.
	DENSITY_RADIUS  = 150.

	// gentle pull toward the label's anchor point
	DISTANCE_WEIGHT = 0.01

	// awarded to the conventional side so ties do not scatter labels
	PREFERRED_SIDE_BONUS = 10.
)
