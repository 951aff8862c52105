// Package problem loads prover problem files and runs them in batches.
//
// A problem file is YAML:
//
//	name: socks
//	axioms:
//	  - "forall X: (sock(X) => (colour(X) = red | colour(X) = blue))"
//	goals:
//	  - formula: "sock(a) => ~(colour(a) = green)"
//	    expect: proved
//	  - formula: "colour(a) = red"
//	    expect: open
package problem

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"knower/internal/formula"
	"knower/internal/logging"
	"knower/internal/prover"
)

// Expectation says what a goal's outcome should be, if the file declares one.
type Expectation string

const (
	ExpectNone   Expectation = ""
	ExpectProved Expectation = "proved"
	ExpectOpen   Expectation = "open"
)

// Goal is one conjecture from a problem file.
type Goal struct {
	Name    string      `yaml:"name,omitempty"`
	Formula string      `yaml:"formula"`
	Expect  Expectation `yaml:"expect,omitempty"`
}

// Label returns the goal's name, falling back to its formula text.
func (g Goal) Label() string {
	if g.Name != "" {
		return g.Name
	}
	return g.Formula
}

// Problem is a parsed problem file: shared axioms plus the goals to try.
type Problem struct {
	Name   string   `yaml:"name"`
	Axioms []string `yaml:"axioms,omitempty"`
	Goals  []Goal   `yaml:"goals"`

	axioms []*formula.Formula
	goals  []*formula.Formula
}

// Load reads and parses a problem file, checking every formula up front so
// a batch run cannot die halfway through on a typo.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}
	return Parse(data)
}

// Parse parses problem YAML. Formulas are validated eagerly.
func Parse(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing problem file: %w", err)
	}
	// Goal-less files are legal: they can serve as pure theory files
	// for `prove --problem`. A file with neither is a mistake.
	if len(p.Goals) == 0 && len(p.Axioms) == 0 {
		return nil, fmt.Errorf("problem %q has no goals and no axioms", p.Name)
	}
	for i, src := range p.Axioms {
		f, err := formula.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("axiom %d: %w", i+1, err)
		}
		p.axioms = append(p.axioms, f)
	}
	for i, g := range p.Goals {
		switch g.Expect {
		case ExpectNone, ExpectProved, ExpectOpen:
		default:
			return nil, fmt.Errorf("goal %d: unknown expectation %q", i+1, g.Expect)
		}
		f, err := formula.Parse(g.Formula)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i+1, err)
		}
		p.goals = append(p.goals, f)
	}
	return &p, nil
}

// ParsedAxioms returns the problem's axioms as formulas.
func (p *Problem) ParsedAxioms() []*formula.Formula {
	return p.axioms
}

// Result is the outcome for one goal.
type Result struct {
	Goal    Goal
	Proved  bool
	Stats   prover.Stats
	Matched bool // expectation met, or no expectation declared
}

// Run proves every goal in the problem, each with its own prover so runs
// stay independent. Goals execute concurrently, capped at limit workers
// (limit <= 0 means one per goal). A usage error in any goal aborts the
// batch; an unproved goal does not.
func Run(p *Problem, cfg prover.Config, limit int) ([]Result, error) {
	log := logging.Get(logging.CategoryProver)

	results := make([]Result, len(p.goals))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range p.goals {
		i := i
		g.Go(func() error {
			pv := prover.New(cfg)
			proved, err := pv.ProveWithAxioms(p.axioms, p.goals[i])
			if err != nil {
				return fmt.Errorf("goal %q: %w", p.Goals[i].Formula, err)
			}
			r := Result{Goal: p.Goals[i], Proved: proved, Stats: pv.LastStats()}
			switch r.Goal.Expect {
			case ExpectProved:
				r.Matched = proved
			case ExpectOpen:
				r.Matched = !proved
			default:
				r.Matched = true
			}
			results[i] = r
			log.Debug("goal %q: proved=%v restarts=%d depth=%d",
				r.Goal.Formula, proved, r.Stats.Restarts, r.Stats.Depth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Failures filters a batch down to the results whose expectation was missed.
func Failures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Matched {
			out = append(out, r)
		}
	}
	return out
}
