package domain

import (
	"slices"
	"sort"
	"strings"
	"time"
)

const maxRevisions = 32

type Revision struct {
	Content string
	At      time.Time
}

// SummaryNode is the cached view of one tree node across snapshots.
type SummaryNode struct {
	ID        string
	Content   string
	Children  []string
	UpdatedAt time.Time
	History   []Revision
}

// SummaryCache holds the latest summary per node id. Apply never mutates the
// receiver; callers always keep the returned cache.
type SummaryCache struct {
	entries map[string]SummaryNode
}

func NewSummaryCache() SummaryCache {
	return SummaryCache{entries: map[string]SummaryNode{}}
}

func (c SummaryCache) Apply(nodes []TreeNode, now time.Time) SummaryCache {
	children := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	next := make(map[string]SummaryNode, len(nodes))
	for _, n := range nodes {
		content := n.Summary
		if strings.TrimSpace(content) == "" {
			content = n.Content
		}
		kids := children[n.ID]

		prev, ok := c.entries[n.ID]
		switch {
		case !ok:
			next[n.ID] = SummaryNode{
				ID:        n.ID,
				Content:   content,
				Children:  slices.Clone(kids),
				UpdatedAt: now,
				History:   []Revision{{Content: content, At: now}},
			}
		case prev.Content != content || !slices.Equal(prev.Children, kids):
			entry := prev
			entry.Children = slices.Clone(kids)
			entry.UpdatedAt = now
			if prev.Content != content {
				entry.Content = content
				entry.History = appendRevision(prev.History, Revision{Content: content, At: now})
			}
			next[n.ID] = entry
		default:
			next[n.ID] = prev
		}
	}
	return SummaryCache{entries: next}
}

// appendRevision always copies so entries carried over from an older cache
// never share a backing array with the new one.
func appendRevision(history []Revision, rev Revision) []Revision {
	start := 0
	if len(history) >= maxRevisions {
		start = len(history) - maxRevisions + 1
	}
	out := make([]Revision, 0, len(history)-start+1)
	out = append(out, history[start:]...)
	return append(out, rev)
}

func (c SummaryCache) Get(id string) (SummaryNode, bool) {
	n, ok := c.entries[id]
	return n, ok
}

func (c SummaryCache) Len() int {
	return len(c.entries)
}

// All returns entries sorted by id.
func (c SummaryCache) All() []SummaryNode {
	out := make([]SummaryNode, 0, len(c.entries))
	for _, n := range c.entries {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
