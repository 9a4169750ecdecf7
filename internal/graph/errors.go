package graph

import (
	"fmt"
	"strings"
)

// CircularDependencyError represents a reference cycle between components.
type CircularDependencyError struct {
	Node string
	Path []string
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	if len(e.Path) == 0 {
		b.WriteString(fmt.Sprintf("    %s\n", e.Node))
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", e.Node))
	} else {
		for i, node := range e.Path {
			b.WriteString(fmt.Sprintf("    %s\n", node))
			if i < len(e.Path)-1 {
				b.WriteString("      ↓\n")
			}
		}
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", e.Path[0]))
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Mark a component in the cycle as singleton and reference it through a property\n")
	b.WriteString("  • Move the reference from constructor args to properties\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")

	return b.String()
}
