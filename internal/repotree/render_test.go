package repotree_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/temirov/gitbrief/internal/repotree"
)

func TestRenderNestsChildrenUnderParents(t *testing.T) {
	paths := []string{"README.md", "src/main.py", "src/utils.py", "tests/test_main.py"}

	rendered := repotree.Render(paths, repotree.DefaultTreeLineLimit)

	lines := strings.Split(rendered, "\n")
	expectedLines := []string{
		"|-- README.md",
		"|-- src/",
		"|   |-- main.py",
		"|   `-- utils.py",
		"`-- tests/",
		"    `-- test_main.py",
	}
	if len(lines) != len(expectedLines) {
		t.Fatalf("rendered %d lines, want %d:\n%s", len(lines), len(expectedLines), rendered)
	}
	for lineIndex, expectedLine := range expectedLines {
		if lines[lineIndex] != expectedLine {
			t.Fatalf("line %d = %q, want %q\nfull output:\n%s", lineIndex, lines[lineIndex], expectedLine, rendered)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	paths := []string{"b/two.py", "a/one.py", "README.md", "a/nested/three.py"}

	first := repotree.Render(paths, repotree.DefaultTreeLineLimit)
	second := repotree.Render(paths, repotree.DefaultTreeLineLimit)

	if first != second {
		t.Fatalf("rendering is not deterministic:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRenderIgnoresInputOrder(t *testing.T) {
	forward := []string{"a/one.py", "b/two.py", "README.md"}
	shuffled := []string{"b/two.py", "README.md", "a/one.py"}

	if repotree.Render(forward, 0) != repotree.Render(shuffled, 0) {
		t.Fatal("rendered tree depends on input order")
	}
}

func TestRenderSortsSiblingsLexically(t *testing.T) {
	paths := []string{"src/utils.py", "src/main.py"}

	rendered := repotree.Render(paths, repotree.DefaultTreeLineLimit)

	mainIndex := strings.Index(rendered, "main.py")
	utilsIndex := strings.Index(rendered, "utils.py")
	if mainIndex == -1 || utilsIndex == -1 || mainIndex > utilsIndex {
		t.Fatalf("expected main.py before utils.py:\n%s", rendered)
	}
}

func TestRenderCapsLinesAndReportsOmittedCount(t *testing.T) {
	lineLimit := 10
	totalPaths := 25
	paths := make([]string, 0, totalPaths)
	for pathIndex := 0; pathIndex < totalPaths; pathIndex++ {
		paths = append(paths, fmt.Sprintf("file_%02d.py", pathIndex))
	}

	rendered := repotree.Render(paths, lineLimit)

	lines := strings.Split(rendered, "\n")
	if len(lines) != lineLimit+1 {
		t.Fatalf("rendered %d lines, want %d plus summary", len(lines), lineLimit)
	}
	expectedSummary := fmt.Sprintf("... and %d more entries", totalPaths-lineLimit)
	if lines[len(lines)-1] != expectedSummary {
		t.Fatalf("summary line = %q, want %q", lines[len(lines)-1], expectedSummary)
	}
}

func TestRenderEmptyPathSetYieldsEmptyString(t *testing.T) {
	if rendered := repotree.Render(nil, repotree.DefaultTreeLineLimit); rendered != "" {
		t.Fatalf("expected empty output, got %q", rendered)
	}
}
