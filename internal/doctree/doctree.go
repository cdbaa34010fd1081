package doctree

import (
	"fmt"
	"strings"
)

// DocTree is the root of a parsed exam paper.
type DocTree struct {
	Title    string     // Paper title (from metadata or filename)
	Children []*DocNode // Pages or top-level sections
	Warnings []string   // Pages or parts skipped during extraction
}

// DocNode is a recursive page or section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Chunk is a bounded fragment of normalized text sent to the completion
// service in one call.
type Chunk struct {
	Text  string
	Index int
}

// Flatten concatenates all node text in document order. Nodes that carry a
// page number are preceded by a "--- Page N ---" marker.
func Flatten(tree *DocTree) string {
	if tree == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" && n.Page == 0 {
				sb.WriteString("\n")
				sb.WriteString(n.Title)
				sb.WriteString("\n")
			}
			if n.Text != "" {
				if n.Page > 0 {
					fmt.Fprintf(&sb, "\n--- Page %d ---\n", n.Page)
				}
				sb.WriteString(n.Text)
				sb.WriteString("\n")
			}
			walk(n.Children)
		}
	}
	walk(tree.Children)
	return sb.String()
}
