package harness

import "github.com/roach88/corona/internal/snapshot"

// TraceEvent records the counters after one scenario action.
type TraceEvent struct {
	Seq     int64   `json:"seq"`
	Action  string  `json:"action"`
	Steps   int64   `json:"steps"`
	Events  int64   `json:"events"`
	Elapsed float64 `json:"elapsed"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all assertions match.
	Pass bool `json:"pass"`

	// Trace contains one event per executed action, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Snapshot is the simulation state after the last action.
	Snapshot snapshot.Snapshot `json:"snapshot"`

	// RunError is the error that stopped a run or step action, if any.
	RunError string `json:"run_error,omitempty"`

	// ErrorCode is the engine error code of RunError, if it has one.
	ErrorCode string `json:"error_code,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an action event with the next sequence number.
func (r *Result) AddTrace(action string, steps, events int64, elapsed float64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     int64(len(r.Trace) + 1),
		Action:  action,
		Steps:   steps,
		Events:  events,
		Elapsed: elapsed,
	})
}
