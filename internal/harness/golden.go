package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/corona/internal/snapshot"
)

// ScenarioSnapshot captures the trace and final state of a scenario execution.
type ScenarioSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Snapshot     snapshot.Snapshot
}

// toCanonicalMap converts a ScenarioSnapshot to the generic form accepted by
// snapshot.MarshalCanonical.
func (s *ScenarioSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"seq":     event.Seq,
			"action":  event.Action,
			"steps":   event.Steps,
			"events":  event.Events,
			"elapsed": event.Elapsed,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"snapshot":      s.Snapshot.CanonicalMap(),
	}
}

// Canonical returns the canonical JSON form used in golden files.
func (s *ScenarioSnapshot) Canonical() ([]byte, error) {
	return snapshot.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace and final
// snapshot against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the output doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snap := ScenarioSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Snapshot:     result.Snapshot,
	}
	data, err := snap.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
