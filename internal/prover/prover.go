// Package prover exposes the refutation prover: negate the target
// formula, try to close a tableau for it together with the background
// theory, and widen the recursion budget on exhaustion. Proof search is
// complete in the limit but the logic is not decidable in general, so a
// non-theorem can keep the unbounded driver busy forever; MaxRestarts
// gives callers a way out.
package prover

import (
	"time"

	"knower/internal/formula"
	"knower/internal/logging"
	"knower/internal/tableau"
)

// Config bounds the iterative-deepening search.
type Config struct {
	// InitialDepth is the recursion budget of the first attempt.
	InitialDepth int `yaml:"initial_depth"`
	// DepthIncrement widens the budget after each exhausted attempt.
	DepthIncrement int `yaml:"depth_increment"`
	// MaxRestarts caps the number of widenings; 0 means keep widening
	// until a verdict.
	MaxRestarts int `yaml:"max_restarts"`
	// Trace enables recording of expansion events per attempt.
	Trace bool `yaml:"trace"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		InitialDepth:   80,
		DepthIncrement: 40,
	}
}

// Stats describes one Prove call.
type Stats struct {
	Proved   bool
	Restarts int
	Depth    int // budget of the final attempt
	Duration time.Duration
	Tableau  tableau.Stats // counters of the final attempt
}

// Prover runs refutation proofs. A Prover carries no state between
// calls; every attempt starts from fresh bindings.
type Prover struct {
	cfg       Config
	log       *logging.Logger
	lastStats Stats
	lastTrace *tableau.Trace
}

// New creates a Prover with the given configuration.
func New(cfg Config) *Prover {
	if cfg.InitialDepth <= 0 {
		cfg.InitialDepth = DefaultConfig().InitialDepth
	}
	if cfg.DepthIncrement <= 0 {
		cfg.DepthIncrement = DefaultConfig().DepthIncrement
	}
	return &Prover{cfg: cfg, log: logging.Get(logging.CategoryProver)}
}

// Prove reports whether f is valid (a consequence of the empty theory).
func (p *Prover) Prove(f *formula.Formula) (bool, error) {
	return p.ProveWithAxioms(nil, f)
}

// ProveWithAxioms reports whether f is a logical consequence of the
// axioms: formulas holding at every reachable world. Failure to find a
// proof is a plain false; only usage violations (a bare existential or
// negated universal reaching the engine) surface as errors.
func (p *Prover) ProveWithAxioms(axioms []*formula.Formula, f *formula.Formula) (bool, error) {
	start := time.Now()
	goal := formula.Not(f)
	depth := p.cfg.InitialDepth

	stats := Stats{Depth: depth}
	p.lastTrace = nil
	for {
		var trace *tableau.Trace
		if p.cfg.Trace {
			trace = tableau.NewTrace()
		}

		// Full restart per attempt: no partial work survives a widening.
		exp := tableau.NewExpander(trace)
		closed := exp.Refute(axioms, goal, depth)
		stats.Depth = depth
		stats.Tableau = exp.Stats()
		p.lastTrace = trace

		if err := exp.Err(); err != nil {
			stats.Duration = time.Since(start)
			p.lastStats = stats
			return false, err
		}
		if closed {
			stats.Proved = true
			stats.Duration = time.Since(start)
			p.lastStats = stats
			p.log.Info("proved %s (depth=%d restarts=%d)", f, depth, stats.Restarts)
			return true, nil
		}
		if !exp.Exhausted() {
			// The search completed without hitting the budget: the
			// tableau is definitively open, deeper search cannot help.
			stats.Duration = time.Since(start)
			p.lastStats = stats
			p.log.Info("open %s (depth=%d restarts=%d)", f, depth, stats.Restarts)
			return false, nil
		}
		if p.cfg.MaxRestarts > 0 && stats.Restarts >= p.cfg.MaxRestarts {
			stats.Duration = time.Since(start)
			p.lastStats = stats
			p.log.Warn("giving up on %s after %d restarts", f, stats.Restarts)
			return false, nil
		}

		stats.Restarts++
		depth += p.cfg.DepthIncrement
		p.log.Debug("budget exhausted, retrying %s at depth %d", f, depth)
	}
}

// LastStats returns the statistics of the most recent Prove call.
func (p *Prover) LastStats() Stats { return p.lastStats }

// LastTrace returns the trace of the most recent attempt, or nil when
// tracing is disabled.
func (p *Prover) LastTrace() *tableau.Trace { return p.lastTrace }
