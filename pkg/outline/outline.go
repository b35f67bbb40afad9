// Package outline parses indentation-delimited text into an ordered tree.
//
// An outline is plain text where nesting is expressed through leading
// whitespace: every two spaces of indentation (tabs count as four spaces)
// open one level. The parser is total: any input, including empty or
// whitespace-only text, produces a valid (possibly empty) forest.
//
//	Project
//	  Design
//	    Wireframes
//	  Testing
//	Launch
//
// parses into two top-level nodes, "Project" (with two children, one of
// which has a child of its own) and "Launch".
package outline

import "strings"

// tabWidth is the number of space-equivalents a tab expands to before
// indentation levels are computed.
const tabWidth = 4

// spacesPerLevel is the number of expanded spaces that make up one
// indentation level.
const spacesPerLevel = 2

// Node is a single outline entry with its nested children.
// Children are ordered as they appear in the source text and are owned
// exclusively by their parent.
type Node struct {
	Text     string  // Trimmed line content
	Level    int     // Indentation level (0 = top level)
	Children []*Node // Ordered child entries
}

// Parse converts raw outline text into an ordered forest.
//
// Blank lines are skipped. Each line's level is the floor of its expanded
// leading whitespace divided by two, where tabs expand to four spaces.
// A stack of open ancestors (seeded with a sentinel at level -1) decides
// attachment: the stack is popped while its top is at the current line's
// level or deeper, so equal-level lines become siblings and a line may
// close any number of levels at once. A first line with nonzero
// indentation simply attaches at top level rather than erroring.
//
// Parse never fails; empty or whitespace-only input yields an empty forest.
func Parse(text string) []*Node {
	root := &Node{Level: -1}
	stack := []*Node{root}

	for _, line := range strings.Split(text, "\n") {
		content := strings.TrimSpace(line)
		if content == "" {
			continue
		}

		level := indentLevel(line)
		node := &Node{Text: content, Level: level}

		for len(stack) > 1 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}

	return root.Children
}

// indentLevel computes the indentation level of a line by expanding tabs
// and counting leading whitespace.
func indentLevel(line string) int {
	spaces := 0
	for _, r := range line {
		switch r {
		case ' ':
			spaces++
		case '\t':
			spaces += tabWidth
		default:
			return spaces / spacesPerLevel
		}
	}
	return spaces / spacesPerLevel
}

// Count returns the total number of nodes in the forest, including all
// nested children.
func Count(forest []*Node) int {
	n := 0
	for _, node := range forest {
		n += 1 + Count(node.Children)
	}
	return n
}
