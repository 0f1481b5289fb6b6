package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/plasma"
	"github.com/roach88/corona/internal/snapshot"
)

// Simulation owns the grid, particles, waves and state of one run.
//
// CRITICAL: Simulation is the sole mutator of its state. It is not safe for
// concurrent use; run independent simulations for parallel work.
//
// INVARIANTS:
//   - Grid length never changes after construction
//   - State.Events never decreases
//   - After any error from Step or Run the state is the last good state
type Simulation struct {
	cfg config.Config

	grid      *plasma.FieldGrid
	particles *plasma.ParticleSet
	waves     *plasma.WaveEnsemble
	state     State

	solver  FieldSolver
	mover   ParticleMover
	monitor ReconnectionMonitor
	updater WaveUpdater
	stepper StepController
	sampler Sampler

	checkpoint checkpoint
	status     string
	finished   bool
}

// checkpoint holds the last good state, reusing its buffers across steps.
type checkpoint struct {
	grid      *plasma.FieldGrid
	particles *plasma.ParticleSet
	waves     *plasma.WaveEnsemble
	state     State
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithForceModel sets the force model applied by the particle mover.
//
// Default: NoForce
func WithForceModel(f ForceModel) Option {
	return func(s *Simulation) {
		s.mover.Force = f
	}
}

// WithCoupling overrides the configured reconnection coupling policy.
func WithCoupling(c Coupling) Option {
	return func(s *Simulation) {
		s.monitor.Coupling = c
	}
}

// WithSampler overrides the configured sampling policy.
func WithSampler(sm Sampler) Option {
	return func(s *Simulation) {
		s.sampler = sm
	}
}

// New validates cfg and seeds a simulation from it.
//
// Returns *config.ConfigurationError before any simulation work if cfg is
// invalid. All random draws happen here: particles first, then waves.
func New(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src := plasma.NewSource(cfg.Seed)
	grid := plasma.NewFieldGrid(cfg.Cells, cfg.InitialField)
	particles := plasma.SeedParticles(src, cfg.Particles, cfg.Cells, plasma.Attributes{
		Mass:   cfg.Particle.Mass,
		Charge: cfg.Particle.Charge,
		Radius: cfg.Particle.Radius,
		Spin:   cfg.Particle.Spin,
	})

	waves := &plasma.WaveEnsemble{}
	if cfg.Waves.Enabled {
		waves = plasma.SeedWaves(src, plasma.WaveCounts{
			Alfven:          cfg.Waves.Alfven,
			Acoustic:        cfg.Waves.Acoustic,
			MagnetoAcoustic: cfg.Waves.MagnetoAcoustic,
		})
		grid.EnableDirections(plasma.AxisZ)
	}

	s := &Simulation{
		cfg:       cfg,
		grid:      grid,
		particles: particles,
		waves:     waves,
		state:     State{Dt: cfg.Dt},
		mover:     ParticleMover{Force: NoForce{}},
		monitor:   NewReconnectionMonitor(cfg.Reconnection),
		updater:   WaveUpdater{DecayRate: cfg.Waves.DecayRate, Forcing: cfg.Waves.Forcing},
		stepper:   NewStepController(cfg.Step),
		sampler:   SamplerFor(cfg),
		checkpoint: checkpoint{
			grid:      grid.Clone(),
			particles: particles.Clone(),
			waves:     waves.Clone(),
		},
		status: snapshot.StatusPending,
	}

	for _, opt := range opts {
		opt(s)
	}

	slog.Debug("simulation created",
		"cells", cfg.Cells,
		"particles", cfg.Particles,
		"waves_enabled", cfg.Waves.Enabled,
		"seed", cfg.Seed,
		"coupling", cfg.Reconnection.Coupling,
		"sampling", cfg.Sampling.Policy,
	)
	return s, nil
}

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() config.Config { return s.cfg }

// Grid returns the live field grid. Callers outside a step may edit cell
// values to set up scenarios but must not change its length.
func (s *Simulation) Grid() *plasma.FieldGrid { return s.grid }

// Particles returns the live particle set.
func (s *Simulation) Particles() *plasma.ParticleSet { return s.particles }

// Waves returns the live wave ensemble. It is empty unless waves are enabled.
func (s *Simulation) Waves() *plasma.WaveEnsemble { return s.waves }

// State returns a copy of the run bookkeeping.
func (s *Simulation) State() State {
	st := s.state
	st.Samples = append([]snapshot.Sample(nil), s.state.Samples...)
	return st
}

// Done reports whether elapsed time has reached the configured total.
func (s *Simulation) Done() bool {
	return s.state.Elapsed >= s.cfg.TotalTime
}

// Solve runs only the field solver with the current dt.
func (s *Simulation) Solve() {
	s.solver.Advance(s.grid, s.state.Dt)
}

// Move runs only the particle mover with the current dt.
func (s *Simulation) Move() {
	s.mover.Advance(s.particles, s.grid, s.state.Dt)
}

// Monitor runs one reconnection pass and returns the events it detected.
func (s *Simulation) Monitor() int64 {
	return s.monitor.Process(s.grid, s.particles, &s.state)
}

// AdvanceWaves runs only the wave updater with the current dt.
func (s *Simulation) AdvanceWaves() {
	s.updater.Advance(s.waves, s.grid, s.state.Dt)
}

// Step advances the simulation by one step:
// solver, waves (if enabled), mover, monitor, new dt, elapsed += new dt, sampler.
//
// If the step produces a non-finite value or a dt outside the allowed band,
// the state from before the step is restored and a *RuntimeError is returned.
func (s *Simulation) Step() error {
	s.save()

	s.Solve()
	if s.cfg.Waves.Enabled {
		s.AdvanceWaves()
	}
	s.Move()
	s.Monitor()

	if err := s.verify(); err != nil {
		s.restore()
		return err
	}

	dt, err := s.stepper.Next(s.grid.Max())
	if err != nil {
		s.restore()
		return s.annotate(err)
	}

	s.state.Dt = dt
	s.state.Steps++
	s.state.Elapsed += dt
	s.sampler.Observe(&s.state, s.grid)
	return nil
}

// Run steps until elapsed time reaches the configured total.
//
// Run also stops when ctx is cancelled, when max_steps is exhausted, or when
// a step fails. In every case the returned snapshot holds the last good state
// and its Status tells which condition ended the run.
//
// Returns:
//   - ctx.Err() (wrapped) on cancellation
//   - *RuntimeError with ErrCodeStepBudgetExceeded when max_steps is exhausted
//   - *RuntimeError with a degeneracy code when a step fails
func (s *Simulation) Run(ctx context.Context) (snapshot.Snapshot, error) {
	if s.finished {
		return s.Snapshot(), nil
	}

	budget := NewStepBudget(int64(s.cfg.MaxSteps))
	slog.Info("run starting",
		"total_time", s.cfg.TotalTime,
		"dt", s.state.Dt,
		"max_steps", s.cfg.MaxSteps,
	)

	for !s.Done() {
		if err := ctx.Err(); err != nil {
			slog.Info("run stopping: context cancelled", "steps", s.state.Steps)
			s.finish(snapshot.StatusCancelled, s.state.Elapsed)
			return s.Snapshot(), fmt.Errorf("run cancelled: %w", err)
		}

		if err := budget.Check(); err != nil {
			rerr := err.(*StepsExceededError).RuntimeError(s.state.Steps, s.state.Elapsed)
			slog.Error("max steps budget exceeded",
				"steps", s.state.Steps,
				"max_steps", budget.MaxSteps(),
				"elapsed", s.state.Elapsed,
			)
			s.finish(snapshot.StatusBudgetExceeded, s.state.Elapsed)
			return s.Snapshot(), rerr
		}

		if err := s.Step(); err != nil {
			slog.Error("run aborted",
				"error", err,
				"steps", s.state.Steps,
				"elapsed", s.state.Elapsed,
			)
			s.finish(snapshot.StatusDegenerate, s.state.Elapsed)
			return s.Snapshot(), err
		}
	}

	s.finish(snapshot.StatusCompleted, s.cfg.TotalTime)
	slog.Info("run completed",
		"steps", s.state.Steps,
		"budget_used", budget.Current(),
		"elapsed", s.state.Elapsed,
		"events", s.state.Events,
		"samples", len(s.state.Samples),
	)
	return s.Snapshot(), nil
}

// Snapshot returns a copy of the current state for external collaborators.
func (s *Simulation) Snapshot() snapshot.Snapshot {
	particles := make([]snapshot.ParticleState, len(s.particles.Particles))
	for i, p := range s.particles.Particles {
		particles[i] = snapshot.ParticleState{Position: p.Position, Velocity: p.Velocity}
	}

	return snapshot.Snapshot{
		Status:    s.status,
		Steps:     s.state.Steps,
		Elapsed:   s.state.Elapsed,
		Dt:        s.state.Dt,
		Events:    s.state.Events,
		Field:     s.grid.Values(),
		Particles: particles,
		Samples:   append([]snapshot.Sample{}, s.state.Samples...),
		Summary: snapshot.Summary{
			MaxVelocity:   s.particles.MaxVelocity(),
			MeanVelocity:  s.particles.MeanVelocity(),
			MaxAmplitude:  s.waves.MaxAmplitude(),
			MeanAmplitude: s.waves.MeanAmplitude(),
			MaxField:      s.grid.Max(),
			MeanField:     s.grid.Mean(),
		},
	}
}

func (s *Simulation) finish(status string, endTime float64) {
	s.status = status
	if s.finished {
		return
	}
	s.finished = true
	s.sampler.Finish(&s.state, s.grid, endTime)
}

func (s *Simulation) save() {
	s.checkpoint.grid.CopyFrom(s.grid)
	s.checkpoint.particles.CopyFrom(s.particles)
	s.checkpoint.waves.CopyFrom(s.waves)
	s.checkpoint.state = s.state
}

func (s *Simulation) restore() {
	s.grid.CopyFrom(s.checkpoint.grid)
	s.particles.CopyFrom(s.checkpoint.particles)
	s.waves.CopyFrom(s.checkpoint.waves)
	s.state = s.checkpoint.state
}

// verify checks every mutable value for NaN or Inf.
func (s *Simulation) verify() error {
	if i := s.grid.Finite(); i >= 0 {
		return NewDegeneracyError(s.state.Steps, s.state.Elapsed, "field", i)
	}
	if i := s.particles.Finite(); i >= 0 {
		return NewDegeneracyError(s.state.Steps, s.state.Elapsed, "particle", i)
	}
	if i := s.waves.Finite(); i >= 0 {
		return NewDegeneracyError(s.state.Steps, s.state.Elapsed, "wave", i)
	}
	return nil
}

// annotate fills run context into a RuntimeError from the step controller.
func (s *Simulation) annotate(err error) error {
	if re, ok := err.(*RuntimeError); ok {
		re.Step = s.state.Steps
		re.Elapsed = s.state.Elapsed
	}
	return err
}
