package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetForTest(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		CloseAll()
		optionsMu.Lock()
		options = Options{}
		optionsMu.Unlock()
		logsDir = ""
	})
}

func readCategoryLog(t *testing.T, ws string, cat Category) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(ws, ".hmi", "logs", "*_"+string(cat)+".log"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no log file for category %s (err=%v)", cat, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

// TestAllCategoriesLog tests that every category gets its own file in debug mode
func TestAllCategoriesLog(t *testing.T) {
	resetForTest(t)
	ws := t.TempDir()

	if err := Initialize(ws, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("Expected debug mode to be enabled")
	}

	Sim("tick %d", 1)
	SimDebug("debug tick")
	Session("engage")
	SessionWarn("rejected")
	Reasoning("request %s", "abc")
	ReasoningError("boom")
	RenderDebug("frame")
	UI("key")
	Config("loaded")
	CloseAll()

	for _, cat := range []Category{CategoryBoot, CategorySim, CategorySession, CategoryReasoning, CategoryRender, CategoryUI, CategoryConfig} {
		if content := readCategoryLog(t, ws, cat); strings.TrimSpace(content) == "" {
			t.Errorf("category %s log is empty", cat)
		}
	}

	if content := readCategoryLog(t, ws, CategorySim); !strings.Contains(content, "tick 1") || !strings.Contains(content, `"ts"`) {
		t.Errorf("sim log missing formatted JSON entry: %s", content)
	}
}

func TestProductionModeWritesNothing(t *testing.T) {
	resetForTest(t)
	ws := t.TempDir()

	if err := Initialize(ws, Options{DebugMode: false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Session("should vanish")
	CloseAll()

	if _, err := os.Stat(filepath.Join(ws, ".hmi", "logs")); !os.IsNotExist(err) {
		t.Fatalf("expected no logs dir in production mode, got err=%v", err)
	}
}

func TestCategoryFilterAndLevel(t *testing.T) {
	resetForTest(t)
	ws := t.TempDir()

	err := Initialize(ws, Options{
		DebugMode:  true,
		Level:      "warn",
		Format:     "console",
		Categories: map[string]bool{"render": false},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if IsCategoryEnabled(CategoryRender) {
		t.Error("render should be disabled")
	}
	if !IsCategoryEnabled(CategorySession) {
		t.Error("session should default to enabled")
	}

	Session("info is below warn")
	SessionWarn("warn is kept")
	CloseAll()

	content := readCategoryLog(t, ws, CategorySession)
	if strings.Contains(content, "info is below warn") {
		t.Errorf("info entry should be filtered: %s", content)
	}
	if !strings.Contains(content, "warn is kept") {
		t.Errorf("warn entry missing: %s", content)
	}
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	resetForTest(t)
	if err := Initialize("", Options{}); err == nil {
		t.Fatal("expected error for empty workspace")
	}
}

func TestTimerThreshold(t *testing.T) {
	resetForTest(t)
	ws := t.TempDir()
	if err := Initialize(ws, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	timer := StartTimer(CategoryReasoning, "explain")
	time.Sleep(5 * time.Millisecond)
	if d := timer.StopWithThreshold(time.Millisecond); d < 5*time.Millisecond {
		t.Fatalf("elapsed %v shorter than sleep", d)
	}
	CloseAll()

	if content := readCategoryLog(t, ws, CategoryReasoning); !strings.Contains(content, "explain took") {
		t.Errorf("expected threshold warning, got %s", content)
	}
}
