package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/corona/internal/config"
)

// Scenario defines a simulation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is decoded over config.Default().
	Config config.Config `yaml:"config"`

	// Setup overrides parts of the seeded state before any action runs.
	Setup Setup `yaml:"setup,omitempty"`

	// Actions drive the simulation in order.
	Actions []Action `yaml:"actions"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Setup overrides seeded simulation state.
type Setup struct {
	// Field sets individual cell strengths.
	Field []CellValue `yaml:"field,omitempty"`

	// Particles replaces the seeded particle set. Extended attributes are
	// taken from the config.
	Particles []ParticleValue `yaml:"particles,omitempty"`

	// Alfven replaces the seeded Alfvén waves.
	Alfven []AlfvenValue `yaml:"alfven,omitempty"`
}

// CellValue sets one cell of the field grid.
type CellValue struct {
	Cell  int     `yaml:"cell"`
	Value float64 `yaml:"value"`
}

// ParticleValue is the position and velocity of one particle.
type ParticleValue struct {
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

// AlfvenValue describes one Alfvén wave.
type AlfvenValue struct {
	Position  float64 `yaml:"position"`
	Amplitude float64 `yaml:"amplitude"`
	Phase     float64 `yaml:"phase"`
	Frequency float64 `yaml:"frequency"`
	Velocity  float64 `yaml:"velocity"`
}

// Action is one scenario step.
type Action struct {
	// Type is one of run, step, solve, move, monitor, waves.
	Type string `yaml:"type"`

	// Count repeats the action. Zero means once. Ignored by run.
	Count int `yaml:"count,omitempty"`
}

// Action type constants.
const (
	ActionRun     = "run"
	ActionStep    = "step"
	ActionSolve   = "solve"
	ActionMove    = "move"
	ActionMonitor = "monitor"
	ActionWaves   = "waves"
)

// Assertion validates the state after all actions.
type Assertion struct {
	// Type specifies the assertion type:
	// - "events": reconnection event count equals Count
	// - "steps": completed step count equals Count
	// - "status": snapshot status equals Status
	// - "error_code": engine error code equals Code ("" for no error)
	// - "field_cell": strength of Cell equals Value within Tolerance
	// - "field_length": grid length equals Count
	// - "particle_velocity": velocity of Particle equals Value within Tolerance
	// - "particle_position": position of Particle equals Value within Tolerance
	// - "particles_unchanged": particles equal their state after setup
	// - "wave_amplitude": amplitude of Alfvén wave Index equals Value within Tolerance
	// - "sample_count": number of emitted samples equals Count
	Type string `yaml:"type"`

	Cell     int `yaml:"cell,omitempty"`
	Particle int `yaml:"particle,omitempty"`
	Index    int `yaml:"index,omitempty"`

	Value     *float64 `yaml:"value,omitempty"`
	Tolerance float64  `yaml:"tolerance,omitempty"`
	Count     *int64   `yaml:"count,omitempty"`
	Status    string   `yaml:"status,omitempty"`
	Code      *string  `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertEvents             = "events"
	AssertSteps              = "steps"
	AssertStatus             = "status"
	AssertErrorCode          = "error_code"
	AssertFieldCell          = "field_cell"
	AssertFieldLength        = "field_length"
	AssertParticleVelocity   = "particle_velocity"
	AssertParticlePosition   = "particle_position"
	AssertParticlesUnchanged = "particles_unchanged"
	AssertWaveAmplitude      = "wave_amplitude"
	AssertSampleCount        = "sample_count"
)

// DefaultTolerance is used by value assertions that set no tolerance.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. The config block is decoded over
// config.Default().
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	scenario := Scenario{Config: config.Default()}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Actions) == 0 {
		return fmt.Errorf("actions list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if err := s.Config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	for i, cv := range s.Setup.Field {
		if cv.Cell < 0 || cv.Cell >= s.Config.Cells {
			return fmt.Errorf("setup.field[%d]: cell %d out of range [0, %d)", i, cv.Cell, s.Config.Cells)
		}
	}

	for i, a := range s.Actions {
		switch a.Type {
		case ActionRun, ActionStep, ActionSolve, ActionMove, ActionMonitor, ActionWaves:
		case "":
			return fmt.Errorf("actions[%d]: type is required", i)
		default:
			return fmt.Errorf("actions[%d]: unknown action type %q", i, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("actions[%d]: count must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEvents, AssertSteps, AssertFieldLength, AssertSampleCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for status", index)
		}
	case AssertErrorCode:
		if a.Code == nil {
			return fmt.Errorf("assertions[%d]: code is required for error_code", index)
		}
	case AssertFieldCell, AssertParticleVelocity, AssertParticlePosition, AssertWaveAmplitude:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertParticlesUnchanged:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
