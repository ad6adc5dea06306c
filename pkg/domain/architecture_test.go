package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDomainDoesNotImportInternal enforces the architectural rule that the
// domain layer must not depend on any internal implementation packages. The
// domain package is the contract surface; drivers depend on it, never the
// other way around.
func TestDomainDoesNotImportInternal(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("cannot get working dir: %v", err)
	}

	entries, err := os.ReadDir(wd)
	if err != nil {
		t.Fatalf("cannot read dir: %v", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(wd, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if q := extractQuoted(strings.TrimSpace(line)); q != "" && strings.Contains(q, "/internal/") {
				t.Errorf("domain package must not import internal packages: %s (%s)", q, name)
			}
		}
	}
}

// extractQuoted returns the first double-quoted string literal in a line, or "".
func extractQuoted(line string) string {
	start := strings.Index(line, "\"")
	if start == -1 {
		return ""
	}
	end := strings.Index(line[start+1:], "\"")
	if end == -1 {
		return ""
	}
	return line[start+1 : start+1+end]
}
