package domain

type NodeKind string

const (
	NodeKindRoot        NodeKind = "root"
	NodeKindSubQuestion NodeKind = "subquestion"
	NodeKindFollowUp    NodeKind = "followup"
)

type GraphNode struct {
	ID      string
	Label   string
	Kind    NodeKind
	Depth   int
	Payload string
}

type GraphLink struct {
	Source string
	Target string
}

type Graph struct {
	Nodes []GraphNode
	Links []GraphLink
}

// Project maps a snapshot to nodes and links. It holds no state, so projecting
// the same tree twice yields equal graphs.
func Project(tree ResearchTree) Graph {
	g := Graph{
		Nodes: []GraphNode{{
			ID:      RootID,
			Label:   rootLabel(tree.FullReport),
			Kind:    NodeKindRoot,
			Payload: tree.FullReport,
		}},
		Links: []GraphLink{},
	}

	for i, sub := range tree.SubQuestions {
		subID := SubQuestionID(i)
		g.Nodes = append(g.Nodes, GraphNode{
			ID:      subID,
			Label:   sub.Question,
			Kind:    NodeKindSubQuestion,
			Depth:   sub.Depth,
			Payload: sub.Result,
		})
		g.Links = append(g.Links, GraphLink{Source: RootID, Target: subID})

		for j, other := range sub.OtherQuestions {
			childID := FollowUpID(subID, j)
			g.Nodes = append(g.Nodes, GraphNode{
				ID:      childID,
				Label:   other.Question,
				Kind:    NodeKindFollowUp,
				Depth:   sub.Depth + 1,
				Payload: other.Result,
			})
			g.Links = append(g.Links, GraphLink{Source: subID, Target: childID})
		}
	}
	return g
}

func rootLabel(report string) string {
	if title := ReportTitle(report); title != "" {
		return title
	}
	return "Report"
}
