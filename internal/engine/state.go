package engine

import (
	"strconv"

	"github.com/roach88/corona/internal/snapshot"
)

// State is the mutable bookkeeping of one run. It is owned by a Simulation
// and passed by reference through the step functions.
type State struct {
	// Dt is the step size the next step will use.
	Dt float64

	// Elapsed is the simulated time. It advances by the new dt after each step.
	Elapsed float64

	// Steps counts completed steps.
	Steps int64

	// Events is the cumulative reconnection-event count. Never decreases.
	Events int64

	// Samples is the emitted time series.
	Samples []snapshot.Sample

	// SampleSum and SampleCount accumulate total field strength for the
	// legacy sampling policy.
	SampleSum   float64
	SampleCount int64
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
