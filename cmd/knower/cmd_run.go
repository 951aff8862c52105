package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"knower/internal/problem"
)

var runWorkers int

var runProblemsCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Run one or more problem files",
	Long: `Loads YAML problem files and proves each goal concurrently.

A goal may declare expect: proved or expect: open; the run fails if any
expectation is missed, which makes problem files usable as regression
suites.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProblems,
}

func init() {
	runProblemsCmd.Flags().IntVar(&runWorkers, "workers", 0, "Concurrent goals per file (default from config)")
}

func runProblems(cmd *cobra.Command, args []string) error {
	workers := cfg.Batch.Workers
	if runWorkers > 0 {
		workers = runWorkers
	}

	missed := 0
	for _, path := range args {
		p, err := problem.Load(path)
		if err != nil {
			return err
		}
		logger.Info("running problem file",
			zap.String("file", path),
			zap.String("name", p.Name),
			zap.Int("goals", len(p.Goals)))

		results, err := problem.Run(p, cfg.Prover, workers)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s):\n", path, p.Name)
		for _, r := range results {
			verdict := "OPEN  "
			if r.Proved {
				verdict = "PROVED"
			}
			mark := ""
			if !r.Matched {
				mark = "  [expected " + string(r.Goal.Expect) + "]"
				missed++
			}
			fmt.Printf("  %s  %s%s\n", verdict, r.Goal.Label(), mark)
		}
	}
	if missed > 0 {
		return fmt.Errorf("%d goal(s) missed their expectation", missed)
	}
	return nil
}
