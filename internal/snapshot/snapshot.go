package snapshot

// Run status values.
const (
	StatusPending        = "pending"
	StatusCompleted      = "completed"
	StatusDegenerate     = "degenerate"
	StatusBudgetExceeded = "budget_exceeded"
	StatusCancelled      = "cancelled"
)

// ParticleState is the externally visible state of one particle.
type ParticleState struct {
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
}

// Sample is one point of the (elapsed time, average field strength) series.
type Sample struct {
	Time    float64 `json:"time"`
	Average float64 `json:"average"`
}

// Summary reports extrema and means of the final state.
// Collections that are empty report 0.
type Summary struct {
	MaxVelocity   float64 `json:"max_velocity"`
	MeanVelocity  float64 `json:"mean_velocity"`
	MaxAmplitude  float64 `json:"max_amplitude"`
	MeanAmplitude float64 `json:"mean_amplitude"`
	MaxField      float64 `json:"max_field"`
	MeanField     float64 `json:"mean_field"`
}

// Snapshot is the final (or last good) state of a run.
type Snapshot struct {
	Status    string          `json:"status"`
	Steps     int64           `json:"steps"`
	Elapsed   float64         `json:"elapsed"`
	Dt        float64         `json:"dt"`
	Events    int64           `json:"events"`
	Field     []float64       `json:"field"`
	Particles []ParticleState `json:"particles"`
	Samples   []Sample        `json:"samples"`
	Summary   Summary         `json:"summary"`
}

// CanonicalMap converts a Snapshot into the generic form accepted by
// MarshalCanonical. Nil slices become empty arrays.
func (s Snapshot) CanonicalMap() map[string]any {
	field := make([]any, len(s.Field))
	for i, v := range s.Field {
		field[i] = v
	}

	particles := make([]any, len(s.Particles))
	for i, p := range s.Particles {
		particles[i] = map[string]any{
			"position": p.Position,
			"velocity": p.Velocity,
		}
	}

	samples := make([]any, len(s.Samples))
	for i, smp := range s.Samples {
		samples[i] = map[string]any{
			"time":    smp.Time,
			"average": smp.Average,
		}
	}

	return map[string]any{
		"status":    s.Status,
		"steps":     s.Steps,
		"elapsed":   s.Elapsed,
		"dt":        s.Dt,
		"events":    s.Events,
		"field":     field,
		"particles": particles,
		"samples":   samples,
		"summary": map[string]any{
			"max_velocity":   s.Summary.MaxVelocity,
			"mean_velocity":  s.Summary.MeanVelocity,
			"max_amplitude":  s.Summary.MaxAmplitude,
			"mean_amplitude": s.Summary.MeanAmplitude,
			"max_field":      s.Summary.MaxField,
			"mean_field":     s.Summary.MeanField,
		},
	}
}

// Canonical returns the canonical JSON encoding of the snapshot.
func (s Snapshot) Canonical() ([]byte, error) {
	return MarshalCanonical(s.CanonicalMap())
}
