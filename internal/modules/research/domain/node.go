package domain

import (
	"fmt"
	"strings"

	apperrors "solve/internal/platform/errors"
)

const RootID = "root"

func SubQuestionID(index int) string {
	return fmt.Sprintf("subq-%d", index)
}

func FollowUpID(parentID string, index int) string {
	return fmt.Sprintf("%s-child-%d", parentID, index)
}

// TreeNode is the flat, parent-pointer view of one snapshot node.
type TreeNode struct {
	ID        string
	ParentID  string
	Title     string
	Content   string
	Summary   string
	Complete  *bool
	Authority *float64
	Relevance *float64
}

// Flatten lists the snapshot as parent-pointer nodes in document order. Ids are
// derived from position, so they are only stable while upstream order is.
func Flatten(tree ResearchTree) []TreeNode {
	nodes := make([]TreeNode, 0, 1+len(tree.SubQuestions))
	nodes = append(nodes, TreeNode{
		ID:       RootID,
		Title:    rootLabel(tree.FullReport),
		Content:  tree.FullReport,
		Complete: tree.Complete,
	})
	for i, sub := range tree.SubQuestions {
		subID := SubQuestionID(i)
		nodes = append(nodes, TreeNode{
			ID:        subID,
			ParentID:  RootID,
			Title:     sub.Question,
			Content:   sub.Result,
			Summary:   sub.Summary,
			Complete:  sub.Complete,
			Authority: sub.Authority,
			Relevance: sub.Relevance,
		})
		for j, other := range sub.OtherQuestions {
			nodes = append(nodes, TreeNode{
				ID:       FollowUpID(subID, j),
				ParentID: subID,
				Title:    other.Question,
				Content:  other.Result,
			})
		}
	}
	return nodes
}

// ValidateNodes checks the tree invariants: unique ids, a single root, parents
// present in the same snapshot, and every node reachable from the root.
func ValidateNodes(nodes []TreeNode) error {
	ids := make(map[string]struct{}, len(nodes))
	children := make(map[string][]string, len(nodes))
	root := ""
	for _, n := range nodes {
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("%w: node without id", apperrors.ErrMalformedSnapshot)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", apperrors.ErrMalformedSnapshot, n.ID)
		}
		ids[n.ID] = struct{}{}
		if n.ParentID == "" {
			if root != "" {
				return fmt.Errorf("%w: multiple roots %q and %q", apperrors.ErrMalformedSnapshot, root, n.ID)
			}
			root = n.ID
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n.ID)
	}
	if len(nodes) == 0 {
		return nil
	}
	if root == "" {
		return fmt.Errorf("%w: no root node", apperrors.ErrMalformedSnapshot)
	}
	for _, n := range nodes {
		if n.ParentID == "" {
			continue
		}
		if _, ok := ids[n.ParentID]; !ok {
			return fmt.Errorf("%w: node %q references missing parent %q", apperrors.ErrMalformedSnapshot, n.ID, n.ParentID)
		}
	}

	seen := map[string]struct{}{root: {}}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	if len(seen) != len(nodes) {
		return fmt.Errorf("%w: %d nodes unreachable from root", apperrors.ErrMalformedSnapshot, len(nodes)-len(seen))
	}
	return nil
}
