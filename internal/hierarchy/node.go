package hierarchy

import (
	"fmt"
	"strings"
)

// PageNode represents one page or database in the discovered tree. Children
// are appended during construction only, in sibling order.
type PageNode struct {
	PageID     string
	Title      string
	ParentID   string
	Children   []*PageNode
	IsDatabase bool
	HasContent bool
}

// TreeString renders the node and its descendants as an indented tree
func (n *PageNode) TreeString() string {
	var tree strings.Builder
	n.writeTree(&tree, 0, true)
	return tree.String()
}

func (n *PageNode) writeTree(tree *strings.Builder, indent int, isLast bool) {
	prefix := strings.Repeat("  ", indent)

	connector := "├─ "
	if isLast {
		connector = "└─ "
	}
	if indent == 0 {
		connector = ""
	}

	marker := ""
	if n.IsDatabase {
		marker = " [Database]"
	}

	fmt.Fprintf(tree, "%s%s%s%s\n", prefix, connector, n.Title, marker)

	for i, child := range n.Children {
		child.writeTree(tree, indent+1, i == len(n.Children)-1)
	}
}

// CountPages returns the number of nodes in this subtree, including the
// node itself.
func (n *PageNode) CountPages() int {
	count := 1
	for _, child := range n.Children {
		count += child.CountPages()
	}
	return count
}
