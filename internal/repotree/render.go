package repotree

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultTreeLineLimit caps the rendered directory tree.
	DefaultTreeLineLimit = 200

	connectorMiddle      = "|-- "
	connectorLast        = "`-- "
	continuationMiddle   = "|   "
	continuationLast     = "    "
	omittedEntriesFormat = "... and %d more entries"
)

// treeNode is one named node of the directory hierarchy. Children are kept in
// a map keyed by name and ordered explicitly at render time; correctness
// never leans on container iteration order.
type treeNode struct {
	children map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{children: map[string]*treeNode{}}
}

func (node *treeNode) child(name string) *treeNode {
	existing, found := node.children[name]
	if found {
		return existing
	}
	created := newTreeNode()
	node.children[name] = created
	return created
}

func (node *treeNode) sortedChildNames() []string {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render produces a text directory tree from the provided paths. The output
// is deterministic for a given path set: paths are split into segments,
// inserted into an explicit node hierarchy, and rendered depth-first with a
// lexical sort at every level. The last sibling at each level gets a distinct
// connector so nesting stays parseable. Output beyond lineLimit lines is cut
// and summarized by a single trailing line with the exact omitted count.
func Render(paths []string, lineLimit int) string {
	if len(paths) == 0 {
		return ""
	}
	if lineLimit <= 0 {
		lineLimit = DefaultTreeLineLimit
	}

	root := newTreeNode()
	for _, path := range paths {
		currentNode := root
		for _, segment := range strings.Split(path, pathSegmentSeparator) {
			if segment == "" {
				continue
			}
			currentNode = currentNode.child(segment)
		}
	}

	var lines []string
	renderNode(root, "", &lines)

	if len(lines) > lineLimit {
		omitted := len(lines) - lineLimit
		lines = append(lines[:lineLimit], fmt.Sprintf(omittedEntriesFormat, omitted))
	}
	return strings.Join(lines, "\n")
}

func renderNode(node *treeNode, prefix string, lines *[]string) {
	childNames := node.sortedChildNames()
	for childIndex, childName := range childNames {
		isLastSibling := childIndex == len(childNames)-1
		connector := connectorMiddle
		continuation := continuationMiddle
		if isLastSibling {
			connector = connectorLast
			continuation = continuationLast
		}
		childNode := node.children[childName]
		displayName := childName
		if len(childNode.children) > 0 {
			displayName += pathSegmentSeparator
		}
		*lines = append(*lines, prefix+connector+displayName)
		renderNode(childNode, prefix+continuation, lines)
	}
}
