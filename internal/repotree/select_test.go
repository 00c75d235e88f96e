package repotree_test

import (
	"testing"

	"github.com/temirov/gitbrief/internal/repotree"
	"github.com/temirov/gitbrief/internal/types"
)

func entry(path string, sizeBytes int64) types.RepoEntry {
	return types.RepoEntry{Path: path, SizeBytes: sizeBytes}
}

func selectedPaths(entries []types.RepoEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, selectedEntry := range entries {
		paths = append(paths, selectedEntry.Path)
	}
	return paths
}

func TestSelectOrdersReadmeFirstWithinBudget(t *testing.T) {
	entries := []types.RepoEntry{
		entry("src/main.py", 300),
		entry("src/utils.py", 200),
		entry("README.md", 500),
	}

	selected, consumed := repotree.Select(entries, 900)

	if len(selected) == 0 || selected[0].Path != "README.md" {
		t.Fatalf("expected README.md first, got %v", selectedPaths(selected))
	}
	if consumed > 900 {
		t.Fatalf("consumed %d exceeds budget 900", consumed)
	}
}

func TestSelectReturnsExactlyOneWhenFirstCandidateOverflows(t *testing.T) {
	entries := []types.RepoEntry{
		entry("README.md", 600),
		entry("src/main.py", 600),
	}

	selected, consumed := repotree.Select(entries, 700)

	if len(selected) != 1 {
		t.Fatalf("expected exactly one entry, got %v", selectedPaths(selected))
	}
	if selected[0].Path != "README.md" {
		t.Fatalf("expected README.md, got %s", selected[0].Path)
	}
	if consumed != 600 {
		t.Fatalf("consumed = %d, want 600", consumed)
	}
}

func TestSelectNeverReturnsEmptyForNonEmptyInput(t *testing.T) {
	entries := []types.RepoEntry{entry("README.md", 50000)}

	selected, consumed := repotree.Select(entries, 100)

	if len(selected) != 1 {
		t.Fatalf("expected the oversized entry to be accepted, got %v", selectedPaths(selected))
	}
	if consumed != 50000 {
		t.Fatalf("consumed = %d, want 50000", consumed)
	}
}

func TestSelectEmptyInputYieldsEmptySelection(t *testing.T) {
	selected, consumed := repotree.Select(nil, 1000)
	if len(selected) != 0 {
		t.Fatalf("expected empty selection, got %v", selectedPaths(selected))
	}
	if consumed != 0 {
		t.Fatalf("consumed = %d, want 0", consumed)
	}
}

func TestSelectSkipsOversizedCandidateAndKeepsWalking(t *testing.T) {
	entries := []types.RepoEntry{
		entry("README.md", 400),
		entry("src/huge_module.py", 10000),
		entry("src/small_module.py", 300),
	}

	selected, consumed := repotree.Select(entries, 800)

	paths := selectedPaths(selected)
	if len(paths) != 2 || paths[0] != "README.md" || paths[1] != "src/small_module.py" {
		t.Fatalf("expected [README.md src/small_module.py], got %v", paths)
	}
	if consumed != 700 {
		t.Fatalf("consumed = %d, want 700", consumed)
	}
}

func TestSelectPrefersEntryPointsWithinTier(t *testing.T) {
	entries := []types.RepoEntry{
		entry("src/alpha.py", 100),
		entry("src/main.py", 100),
	}

	selected, _ := repotree.Select(entries, 1000)

	if len(selected) != 2 || selected[0].Path != "src/main.py" {
		t.Fatalf("expected entry point before plain source, got %v", selectedPaths(selected))
	}
}

func TestSelectPrefersShallowerPathsWithinTier(t *testing.T) {
	entries := []types.RepoEntry{
		entry("src/nested/deep/module.py", 100),
		entry("src/module.py", 100),
	}

	selected, _ := repotree.Select(entries, 1000)

	if len(selected) != 2 || selected[0].Path != "src/module.py" {
		t.Fatalf("expected shallower path first, got %v", selectedPaths(selected))
	}
}

func TestSelectPrefersSmallerFilesAsFinalTieBreak(t *testing.T) {
	entries := []types.RepoEntry{
		entry("src/bigger.py", 500),
		entry("src/smaller.py", 100),
	}

	selected, _ := repotree.Select(entries, 1000)

	if len(selected) != 2 || selected[0].Path != "src/smaller.py" {
		t.Fatalf("expected smaller file first, got %v", selectedPaths(selected))
	}
}

func TestSelectIsDeterministicAcrossInputPermutations(t *testing.T) {
	forward := []types.RepoEntry{
		entry("src/aaa.py", 100),
		entry("src/bbb.py", 100),
		entry("src/ccc.py", 100),
	}
	reversed := []types.RepoEntry{forward[2], forward[1], forward[0]}

	selectedForward, _ := repotree.Select(forward, 1000)
	selectedReversed, _ := repotree.Select(reversed, 1000)

	forwardPaths := selectedPaths(selectedForward)
	reversedPaths := selectedPaths(selectedReversed)
	if len(forwardPaths) != len(reversedPaths) {
		t.Fatalf("selection lengths differ: %v vs %v", forwardPaths, reversedPaths)
	}
	for pathIndex := range forwardPaths {
		if forwardPaths[pathIndex] != reversedPaths[pathIndex] {
			t.Fatalf("selection order depends on input order: %v vs %v", forwardPaths, reversedPaths)
		}
	}
}

func TestEligibleEntriesDropsExcludedAndSkipTier(t *testing.T) {
	entries := []types.RepoEntry{
		entry("README.md", 100),
		entry("node_modules/express/index.js", 100),
		entry("assets/photo.png", 100),
		entry("data/records.csv", 100),
		entry("src/app.py", 100),
	}

	eligible := repotree.EligibleEntries(entries)

	paths := selectedPaths(eligible)
	if len(paths) != 2 || paths[0] != "README.md" || paths[1] != "src/app.py" {
		t.Fatalf("expected [README.md src/app.py], got %v", paths)
	}
}
