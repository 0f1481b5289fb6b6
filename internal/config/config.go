package config

import "math"

// MaxSampleEvery caps the sampling cadence so the conversion to int is the
// same on every platform.
const MaxSampleEvery = math.MaxInt32

// Coupling selects which particles a reconnection event accelerates.
type Coupling string

const (
	// CouplingGlobal accelerates every particle in the simulation for every
	// over-threshold cell. This is the reference behavior.
	CouplingGlobal Coupling = "global"

	// CouplingLocal accelerates only particles whose cell index (floor of the
	// position) equals the triggering cell.
	CouplingLocal Coupling = "local"
)

// SamplingPolicy selects how the time series of average field strength is built.
type SamplingPolicy string

const (
	// SamplingPeriodic emits one (elapsed, mean strength) sample every K steps.
	SamplingPeriodic SamplingPolicy = "periodic"

	// SamplingLegacy accumulates total strength at the same cadence and emits a
	// single (total_time, average) point when the run ends.
	SamplingLegacy SamplingPolicy = "legacy"
)

// Reference constants.
const (
	DefaultParticles    = 100
	DefaultCells        = 1000
	DefaultDt           = 0.01
	DefaultTotalTime    = 10.0
	DefaultInitialField = 1.0
	DefaultSeed         = 1
	DefaultMaxSteps     = 1_000_000

	DefaultThreshold  = 1.5
	DefaultRelaxation = 0.5
	DefaultBoost      = 1.1

	DefaultStepBase = 0.01
	DefaultMinDt    = 1e-12
	DefaultMaxDt    = 0.01

	DefaultSampleInterval = 0.1

	DefaultAlfvenWaves          = 100
	DefaultAcousticWaves        = 100
	DefaultMagnetoAcousticWaves = 100
	DefaultDecayRate            = 0.1
	DefaultForcing              = 0.1

	DefaultMass   = 1.0
	DefaultCharge = 1.0
	DefaultRadius = 0.1
	DefaultSpin   = 0.5

	// MinCells keeps the interior of the 4th-order stencil non-empty.
	MinCells = 5
)

// Config holds every recognized option of a simulation run.
type Config struct {
	Particles    int     `yaml:"particles" json:"particles"`
	Cells        int     `yaml:"cells" json:"cells"`
	Dt           float64 `yaml:"dt" json:"dt"`
	TotalTime    float64 `yaml:"total_time" json:"total_time"`
	InitialField float64 `yaml:"initial_field" json:"initial_field"`
	Seed         uint64  `yaml:"seed" json:"seed"`

	// MaxSteps bounds the number of iterations of a single run.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`

	Reconnection Reconnection `yaml:"reconnection" json:"reconnection"`
	Step         Step         `yaml:"step" json:"step"`
	Sampling     Sampling     `yaml:"sampling" json:"sampling"`
	Waves        Waves        `yaml:"waves" json:"waves"`
	Particle     Particle     `yaml:"particle" json:"particle"`
}

// Reconnection configures the reconnection monitor.
type Reconnection struct {
	Threshold  float64  `yaml:"threshold" json:"threshold"`
	Relaxation float64  `yaml:"relaxation" json:"relaxation"`
	Boost      float64  `yaml:"boost" json:"boost"`
	Coupling   Coupling `yaml:"coupling" json:"coupling"`
}

// Step configures the adaptive step controller: dt = Base / (1 + max strength),
// clamped to [MinDt, MaxDt].
type Step struct {
	Base  float64 `yaml:"base" json:"base"`
	MinDt float64 `yaml:"min_dt" json:"min_dt"`
	MaxDt float64 `yaml:"max_dt" json:"max_dt"`
}

// Sampling configures the time-series sampler.
type Sampling struct {
	Interval float64        `yaml:"interval" json:"interval"`
	Policy   SamplingPolicy `yaml:"policy" json:"policy"`
}

// Waves configures the wave-heating variant.
type Waves struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	Alfven          int     `yaml:"alfven" json:"alfven"`
	Acoustic        int     `yaml:"acoustic" json:"acoustic"`
	MagnetoAcoustic int     `yaml:"magneto_acoustic" json:"magneto_acoustic"`
	DecayRate       float64 `yaml:"decay_rate" json:"decay_rate"`
	Forcing         float64 `yaml:"forcing" json:"forcing"`
}

// Particle holds the extended attributes given to every seeded particle.
// They are carried as state; no force law consumes them yet.
type Particle struct {
	Mass   float64 `yaml:"mass" json:"mass"`
	Charge float64 `yaml:"charge" json:"charge"`
	Radius float64 `yaml:"radius" json:"radius"`
	Spin   float64 `yaml:"spin" json:"spin"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Particles:    DefaultParticles,
		Cells:        DefaultCells,
		Dt:           DefaultDt,
		TotalTime:    DefaultTotalTime,
		InitialField: DefaultInitialField,
		Seed:         DefaultSeed,
		MaxSteps:     DefaultMaxSteps,
		Reconnection: Reconnection{
			Threshold:  DefaultThreshold,
			Relaxation: DefaultRelaxation,
			Boost:      DefaultBoost,
			Coupling:   CouplingGlobal,
		},
		Step: Step{
			Base:  DefaultStepBase,
			MinDt: DefaultMinDt,
			MaxDt: DefaultMaxDt,
		},
		Sampling: Sampling{
			Interval: DefaultSampleInterval,
			Policy:   SamplingPeriodic,
		},
		Waves: Waves{
			Alfven:          DefaultAlfvenWaves,
			Acoustic:        DefaultAcousticWaves,
			MagnetoAcoustic: DefaultMagnetoAcousticWaves,
			DecayRate:       DefaultDecayRate,
			Forcing:         DefaultForcing,
		},
		Particle: Particle{
			Mass:   DefaultMass,
			Charge: DefaultCharge,
			Radius: DefaultRadius,
			Spin:   DefaultSpin,
		},
	}
}

// SampleEvery returns the sampling cadence in steps: the configured interval
// divided by the nominal (initial) dt, rounded, never less than 1.
func (c Config) SampleEvery() int {
	if c.Dt <= 0 || c.Sampling.Interval <= 0 {
		return 1
	}
	k := math.Floor(c.Sampling.Interval/c.Dt + 0.5)
	switch {
	case !(k >= 1):
		return 1
	case k >= MaxSampleEvery:
		return MaxSampleEvery
	}
	return int(k)
}
