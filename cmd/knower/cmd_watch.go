package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"knower/internal/problem"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and re-prove changed problem files",
	Long: `Watches a directory for changes to .yaml/.yml problem files and
reruns each file when it settles. Useful while editing a theory:
save the file, read the verdicts.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w, err := problem.NewWatcher(dir, cfg.Prover, cfg.Batch.Workers, reportRun)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching for problem files", zap.String("dir", dir))
	fmt.Printf("watching %s (ctrl-c to stop)\n", dir)

	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	st := w.Stats()
	fmt.Printf("stopped: %d change(s), %d run(s), %d error(s)\n",
		st.FilesChanged, st.RunsTriggered, st.Errors)
	return nil
}

func reportRun(path string, results []problem.Result, err error) {
	name := filepath.Base(path)
	if err != nil {
		fmt.Printf("%s: %v\n", name, err)
		return
	}
	fmt.Printf("%s:\n", name)
	for _, r := range results {
		verdict := "OPEN  "
		if r.Proved {
			verdict = "PROVED"
		}
		mark := ""
		if !r.Matched {
			mark = "  [expected " + string(r.Goal.Expect) + "]"
		}
		fmt.Printf("  %s  %s%s\n", verdict, r.Goal.Label(), mark)
	}
}
