package selene

import (
	"path/filepath"
	"testing"
)

func TestReportsAreNotWrittenOnRead(t *testing.T) {
	cfg := &Config{ReportsFolder: "reports"}
	first := cfg.artifactPath(cfg.reports().next(), "png")
	second := cfg.artifactPath(cfg.reports().next(), "png")
	if cfg.Reports != nil {
		t.Error("reports() stored Reports on a config literal")
	}
	if first == second {
		t.Errorf("two artifacts of a config literal share the path %s", first)
	}
	if filepath.Dir(first) != "reports" {
		t.Errorf("artifactPath() = %s, want a file under reports", first)
	}

	derived := cfg.With(Timeout(0))
	if derived.Reports == nil {
		t.Fatal("With() returned a config without Reports")
	}
	if cfg.Reports != nil {
		t.Error("With() changed the Reports of the original")
	}
	if again := derived.With(); again.Reports != derived.Reports {
		t.Error("With() did not share the Reports of a config that has one")
	}
}
