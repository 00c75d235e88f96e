package repotree

import (
	"sort"
	"strings"

	"github.com/temirov/gitbrief/internal/types"
)

// sortKey captures the full ordering used for selection: tier first,
// entry points before other files within a tier, shallower paths before
// deeper ones, and smaller files before larger ones.
type sortKey struct {
	tier          types.Tier
	notEntryPoint int
	depth         int
	sizeBytes     int64
}

func (left sortKey) less(right sortKey) bool {
	if left.tier != right.tier {
		return left.tier < right.tier
	}
	if left.notEntryPoint != right.notEntryPoint {
		return left.notEntryPoint < right.notEntryPoint
	}
	if left.depth != right.depth {
		return left.depth < right.depth
	}
	return left.sizeBytes < right.sizeBytes
}

func sortKeyFor(entry types.RepoEntry) sortKey {
	notEntryPoint := 1
	if IsEntryPoint(entry.Path) {
		notEntryPoint = 0
	}
	return sortKey{
		tier:          Priority(entry.Path),
		notEntryPoint: notEntryPoint,
		depth:         strings.Count(entry.Path, pathSegmentSeparator),
		sizeBytes:     entry.SizeBytes,
	}
}

// EligibleEntries drops excluded paths and skip-tier entries, leaving the
// candidates the selector may consider.
func EligibleEntries(entries []types.RepoEntry) []types.RepoEntry {
	eligible := make([]types.RepoEntry, 0, len(entries))
	for _, entry := range entries {
		if IsExcluded(entry.Path) {
			continue
		}
		if Priority(entry.Path) == types.TierSkip {
			continue
		}
		eligible = append(eligible, entry)
	}
	return eligible
}

// Select orders eligible entries by priority and greedily accepts them into
// budgetChars. An over-budget candidate is skipped, not terminal: smaller
// candidates later in the ordering still get considered. When the very first
// candidate alone exceeds the budget it is accepted anyway, so a non-empty
// eligible set never yields an empty selection. The second return value is
// the total estimated size of the accepted entries.
//
// budgetChars must be positive; callers enforce their floor before calling.
func Select(entries []types.RepoEntry, budgetChars int64) ([]types.RepoEntry, int64) {
	ordered := make([]types.RepoEntry, len(entries))
	copy(ordered, entries)

	// Lexical pre-sort pins the relative order of equal keys, keeping the
	// selection deterministic for any input permutation.
	sort.SliceStable(ordered, func(left, right int) bool {
		return ordered[left].Path < ordered[right].Path
	})
	sort.SliceStable(ordered, func(left, right int) bool {
		return sortKeyFor(ordered[left]).less(sortKeyFor(ordered[right]))
	})

	var selected []types.RepoEntry
	var consumedChars int64
	for _, candidate := range ordered {
		if consumedChars+candidate.SizeBytes > budgetChars && len(selected) > 0 {
			continue
		}
		selected = append(selected, candidate)
		consumedChars += candidate.SizeBytes
	}
	return selected, consumedChars
}
