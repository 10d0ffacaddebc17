// Package strongarm is the public facade over the ARM64 function analyzer:
// a thin layer of constructors and type aliases sitting on top of
// internal/arm64.
package strongarm

// AnalyzerConfig carries tunables left to the caller rather than a fixed
// default: a bound on CanExecuteCall's recursion depth, and a capacity
// hint for its visited-address set (stored, not read by the analyzer).
// Constructed via NewAnalyzerConfig and refined with With* options.
type AnalyzerConfig struct {
	maxCallDepth       int
	visitedSetCapacity int
}

const (
	defaultMaxCallDepth       = 64
	defaultVisitedSetCapacity = 256
)

// NewAnalyzerConfig returns an AnalyzerConfig with the package defaults.
func NewAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		maxCallDepth:       defaultMaxCallDepth,
		visitedSetCapacity: defaultVisitedSetCapacity,
	}
}

// WithMaxCallDepth bounds the depth of CanExecuteCall's recursive
// construction of child FunctionAnalyzers.
func (c AnalyzerConfig) WithMaxCallDepth(depth int) AnalyzerConfig {
	c.maxCallDepth = depth
	return c
}

// WithVisitedSetCapacity records a capacity hint for the visited-address
// set CanExecuteCall uses to detect inter-procedural cycles. The hint is
// kept in the config only; AnalyzerContext does not pass it on, and the
// visited set is allocated without a size hint.
func (c AnalyzerConfig) WithVisitedSetCapacity(capacity int) AnalyzerConfig {
	c.visitedSetCapacity = capacity
	return c
}
