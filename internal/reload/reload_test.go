package reload

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/irrigo/internal/ruleset"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRuleset(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func newTestReloader(t *testing.T) (*Reloader, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRuleset(t, path, ruleset.DefaultYAML())

	r, err := New(path, quietLogger(), WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, path
}

func TestNew_LoadsInitialEngine(t *testing.T) {
	t.Parallel()

	r, _ := newTestReloader(t)
	e := r.Engine()
	if e == nil {
		t.Fatal("Engine() = nil after New")
	}
	if got := len(e.Rules()); got != 9 {
		t.Errorf("len(Rules()) = %d, want 9", got)
	}
}

func TestNew_FailsOnBrokenRuleset(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRuleset(t, path, []byte("variables: [broken"))

	if _, err := New(path, quietLogger()); err == nil {
		t.Fatal("New should fail on a broken ruleset")
	}
}

func TestReload_SwapsEngine(t *testing.T) {
	t.Parallel()

	r, path := newTestReloader(t)
	before := r.Engine()

	// Trim the rule base to a single rule and reload manually.
	trimmed := trimToOneRule(t)
	writeRuleset(t, path, trimmed)
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	after := r.Engine()
	if after == before {
		t.Fatal("engine was not swapped")
	}
	if got := len(after.Rules()); got != 1 {
		t.Errorf("len(Rules()) after reload = %d, want 1", got)
	}
}

func TestReload_KeepsLastGoodEngineOnFailure(t *testing.T) {
	t.Parallel()

	r, path := newTestReloader(t)
	before := r.Engine()

	writeRuleset(t, path, []byte("rules: [nope"))
	if err := r.Reload(); err == nil {
		t.Fatal("Reload should fail on a broken ruleset")
	}
	if r.Engine() != before {
		t.Error("engine changed despite a failed reload")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	r, path := newTestReloader(t)

	writeRuleset(t, path, trimToOneRule(t))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(r.Engine().Rules()) == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("engine not reloaded after file write; rules = %d", len(r.Engine().Rules()))
}

func TestClose(t *testing.T) {
	t.Parallel()

	r, _ := newTestReloader(t)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := r.Reload(); err != ErrClosed {
		t.Errorf("Reload after Close = %v, want ErrClosed", err)
	}
	if r.Engine() == nil {
		t.Error("Engine() should remain readable after Close")
	}
}

func TestDiffSummary(t *testing.T) {
	t.Parallel()

	if got := diffSummary([]byte("abc"), []byte("abc")); got != "none" {
		t.Errorf("diffSummary(equal) = %q, want none", got)
	}
	got := diffSummary([]byte("abc"), []byte("abXc"))
	if !strings.Contains(got, "+1") {
		t.Errorf("diffSummary = %q, want one inserted char", got)
	}
}

// trimToOneRule rewrites the default document with only its first rule.
func trimToOneRule(t *testing.T) []byte {
	t.Helper()
	doc, err := ruleset.Parse(ruleset.DefaultYAML())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc.Rules = doc.Rules[:1]

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}
