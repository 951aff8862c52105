package main

import (
	"testing"

	"knower/internal/config"
)

func TestProverConfigFlagOverrides(t *testing.T) {
	cfg = config.DefaultConfig()
	defer func() {
		cfg = nil
		proveDepth, proveIncrement, proveMaxRestarts, proveTrace = 0, 0, -1, false
	}()

	proveDepth = 7
	proveMaxRestarts = 2
	proveTrace = true

	pc := proverConfig()
	if pc.InitialDepth != 7 {
		t.Errorf("InitialDepth = %d, want 7", pc.InitialDepth)
	}
	if pc.DepthIncrement != config.DefaultConfig().Prover.DepthIncrement {
		t.Errorf("DepthIncrement = %d, want config default", pc.DepthIncrement)
	}
	if pc.MaxRestarts != 2 {
		t.Errorf("MaxRestarts = %d, want 2", pc.MaxRestarts)
	}
	if !pc.Trace {
		t.Error("Trace flag lost")
	}
}

func TestProverConfigZeroRestartsIsExplicit(t *testing.T) {
	cfg = config.DefaultConfig()
	cfg.Prover.MaxRestarts = 5
	defer func() {
		cfg = nil
		proveMaxRestarts = -1
	}()

	proveMaxRestarts = 0
	if pc := proverConfig(); pc.MaxRestarts != 0 {
		t.Errorf("MaxRestarts = %d, explicit 0 should override the config", pc.MaxRestarts)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"prove", "run", "watch", "config"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
