package fuzzy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRuleFired signals that an output variable's aggregate membership was
// zero everywhere, so its crisp value fell back to the universe midpoint.
// It is matched by errors.Is against the *ComputationError returned from
// Simulation.Compute.
var ErrNoRuleFired = errors.New("no rule fired")

// ConfigError reports an invalid engine definition: malformed breakpoints,
// a duplicate term, a rule referencing an undeclared variable or term, or a
// non-monotonic universe. It is returned only from constructors; a definition
// that produced one cannot be used.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "fuzzy: invalid configuration: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// InputError reports a per-call misuse of a Simulation: an unknown variable
// name, a Compute with inputs missing, or reading an output before Compute.
// It is recoverable and never corrupts engine or simulation state.
type InputError struct {
	Op     string // the operation that failed: "set input", "compute", "output"
	Reason string
}

func (e *InputError) Error() string {
	return "fuzzy: " + e.Op + ": " + e.Reason
}

func inputErrorf(op, format string, args ...any) *InputError {
	return &InputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// ComputationError records the output variables whose aggregate membership
// was zero everywhere during a Compute. The outputs are still populated with
// their universe midpoints, so a control loop can treat the condition as
// "no action" instead of a failure.
type ComputationError struct {
	// Variables holds the output variable names that received the default,
	// in the engine's declaration order.
	Variables []string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("fuzzy: no rule fired for %s; midpoint default used",
		strings.Join(e.Variables, ", "))
}

// Is makes errors.Is(err, ErrNoRuleFired) match a ComputationError.
func (e *ComputationError) Is(target error) bool {
	return target == ErrNoRuleFired
}
