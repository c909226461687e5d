package catalog

import (
	"context"
	"fmt"
	"strings"
)

// maxTreeDepth bounds the admin tree dump. The parent relation is a forest
// by construction, but a corrupt cycle must not walk forever.
const maxTreeDepth = 64

// DumpTree renders the whole forest as indented lines for the operator
// listing command. The traversal is iterative over an explicit stack, depth
// first in sibling order.
func (s *Store) DumpTree(ctx context.Context) ([]string, error) {
	type frame struct {
		section Section
		depth   int
	}

	roots, err := s.ListChildren(ctx, nil)
	if err != nil {
		return nil, err
	}

	var (
		stack []frame
		lines []string
	)
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{section: roots[i], depth: 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth >= maxTreeDepth {
			return nil, fmt.Errorf("dump tree: depth limit %d exceeded at section %d", maxTreeDepth, top.section.ID)
		}

		lines = append(lines, fmt.Sprintf("%s- %s (ID=%d)",
			strings.Repeat("  ", top.depth), top.section.Name, top.section.ID))

		children, err := s.ListChildren(ctx, &top.section.ID)
		if err != nil {
			return nil, err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{section: children[i], depth: top.depth + 1})
		}
	}
	return lines, nil
}
