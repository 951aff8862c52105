package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledIsNoOp(t *testing.T) {
	if err := Initialize(Settings{}); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	defer Shutdown()

	l := Get(CategoryProver)
	l.Info("this should go nowhere")
	if IsCategoryEnabled(CategoryProver) {
		t.Fatal("categories must be disabled without debug mode")
	}
}

func TestCategoryFileOutput(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(Settings{DebugMode: true, Dir: dir, Level: "debug"}); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	defer Shutdown()

	Get(CategoryTableau).Debug("expanding %s", "p & q")
	Shutdown()

	data, err := os.ReadFile(filepath.Join(dir, "tableau.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "expanding p & q") {
		t.Fatalf("log file missing entry, got: %s", data)
	}
}

func TestCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	err := Initialize(Settings{
		DebugMode:  true,
		Dir:        dir,
		Categories: map[string]bool{"prover": true, "unify": false},
	})
	if err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	defer Shutdown()

	if !IsCategoryEnabled(CategoryProver) {
		t.Fatal("prover should be enabled")
	}
	if IsCategoryEnabled(CategoryUnify) {
		t.Fatal("unify should be disabled")
	}
	if !IsCategoryEnabled(CategoryWorlds) {
		t.Fatal("unlisted categories default to enabled")
	}
}

func TestLevelGate(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(Settings{DebugMode: true, Dir: dir, Level: "warn"}); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	defer Shutdown()

	l := Get(CategoryProver)
	l.Debug("hidden")
	l.Warn("visible")
	Shutdown()

	data, err := os.ReadFile(filepath.Join(dir, "prover.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatal("debug entry should be gated at warn level")
	}
	if !strings.Contains(string(data), "visible") {
		t.Fatal("warn entry should be written")
	}
}

func TestUnknownLevel(t *testing.T) {
	if err := Initialize(Settings{Level: "shout"}); err == nil {
		t.Fatal("unknown level should be rejected")
	}
}
