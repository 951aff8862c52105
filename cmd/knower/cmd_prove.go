package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"knower/internal/formula"
	"knower/internal/problem"
	"knower/internal/prover"
)

var (
	proveAxioms      []string
	proveProblem     string
	proveDepth       int
	proveIncrement   int
	proveMaxRestarts int
	proveTrace       bool
)

var proveCmd = &cobra.Command{
	Use:   "prove [formula]",
	Short: "Prove a single formula, optionally under axioms",
	Long: `Attempts a refutation proof of the formula. Axioms given with
--axiom hold at every reachable world, so they constrain nested
knowledge as well as the actual one.

Examples:
  knower prove "p => p"
  knower prove "knows(ann, p | ~p)"
  knower prove --axiom "q" "p | q"
  knower prove --axiom "forall X: (p(X) => q(X))" --axiom "p(a)" "q(a)"
  knower prove --problem theory.yaml "hot(red)"`,
	Args: cobra.ExactArgs(1),
	RunE: runProve,
}

func init() {
	proveCmd.Flags().StringArrayVarP(&proveAxioms, "axiom", "a", nil, "Axiom formula (repeatable)")
	proveCmd.Flags().StringVarP(&proveProblem, "problem", "p", "", "Take additional axioms from a problem file")
	proveCmd.Flags().IntVar(&proveDepth, "depth", 0, "Initial recursion budget (default from config)")
	proveCmd.Flags().IntVar(&proveIncrement, "increment", 0, "Budget increase per restart (default from config)")
	proveCmd.Flags().IntVar(&proveMaxRestarts, "max-restarts", -1, "Cap on restarts, 0 = unbounded (default from config)")
	proveCmd.Flags().BoolVar(&proveTrace, "trace", false, "Print the expansion trace of the final attempt")
}

func proverConfig() prover.Config {
	pc := cfg.Prover
	if proveDepth > 0 {
		pc.InitialDepth = proveDepth
	}
	if proveIncrement > 0 {
		pc.DepthIncrement = proveIncrement
	}
	if proveMaxRestarts >= 0 {
		pc.MaxRestarts = proveMaxRestarts
	}
	if proveTrace {
		pc.Trace = true
	}
	return pc
}

func runProve(cmd *cobra.Command, args []string) error {
	goal, err := formula.Parse(args[0])
	if err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	var axioms []*formula.Formula
	if proveProblem != "" {
		prob, err := problem.Load(proveProblem)
		if err != nil {
			return err
		}
		axioms = append(axioms, prob.ParsedAxioms()...)
	}
	for i, src := range proveAxioms {
		f, err := formula.Parse(src)
		if err != nil {
			return fmt.Errorf("axiom %d: %w", i+1, err)
		}
		axioms = append(axioms, f)
	}

	p := prover.New(proverConfig())
	proved, err := p.ProveWithAxioms(axioms, goal)
	if err != nil {
		return err
	}

	st := p.LastStats()
	logger.Debug("proof attempt finished",
		zap.Bool("proved", proved),
		zap.Int("restarts", st.Restarts),
		zap.Int("depth", st.Depth),
		zap.Duration("duration", st.Duration))

	if proved {
		fmt.Printf("PROVED  %s\n", goal)
	} else {
		fmt.Printf("OPEN    %s\n", goal)
	}
	fmt.Printf("        restarts=%d depth=%d expansions=%d instantiations=%d worlds=%d in %s\n",
		st.Restarts, st.Depth,
		st.Tableau.Expansions, st.Tableau.Instantiations, st.Tableau.SubWorlds,
		st.Duration.Round(time.Microsecond))

	if proveTrace {
		if tr := p.LastTrace(); tr != nil {
			fmt.Println(strings.TrimRight(tr.String(), "\n"))
		}
	}
	if !proved {
		// Exit nonzero so scripts can branch on the verdict.
		cmd.SilenceErrors = true
		return fmt.Errorf("no proof found")
	}
	return nil
}
