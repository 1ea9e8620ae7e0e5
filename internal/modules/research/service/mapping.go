package service

import (
	"solve/internal/modules/research/domain"
	"solve/internal/modules/research/dto"
)

func toTreeOutput(sessionID string, tree domain.ResearchTree) dto.TreeOutput {
	out := dto.TreeOutput{
		SessionID:    sessionID,
		FullReport:   tree.FullReport,
		Terminal:     domain.IsTerminal(tree),
		Outstanding:  tree.Outstanding(),
		SubQuestions: make([]dto.SubQuestionOutput, 0, len(tree.SubQuestions)),
	}
	for i, sub := range tree.SubQuestions {
		subID := domain.SubQuestionID(i)
		item := dto.SubQuestionOutput{
			ID:        subID,
			Question:  sub.Question,
			Result:    sub.Result,
			Depth:     sub.Depth,
			Summary:   sub.Summary,
			Complete:  sub.Complete != nil && *sub.Complete,
			Authority: sub.Authority,
			Relevance: sub.Relevance,
		}
		for j, other := range sub.OtherQuestions {
			item.FollowUps = append(item.FollowUps, dto.FollowUpOutput{
				ID:       domain.FollowUpID(subID, j),
				Question: other.Question,
				Result:   other.Result,
			})
		}
		out.SubQuestions = append(out.SubQuestions, item)
	}
	return out
}

func toGraphOutput(g domain.Graph) dto.GraphOutput {
	out := dto.GraphOutput{
		Nodes: make([]dto.GraphNodeOutput, 0, len(g.Nodes)),
		Links: make([]dto.GraphLinkOutput, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, dto.GraphNodeOutput{
			ID:      n.ID,
			Label:   n.Label,
			Kind:    string(n.Kind),
			Depth:   n.Depth,
			Payload: n.Payload,
		})
	}
	for _, l := range g.Links {
		out.Links = append(out.Links, dto.GraphLinkOutput{Source: l.Source, Target: l.Target})
	}
	return out
}

func toSummaryOutputs(cache domain.SummaryCache) []dto.SummaryOutput {
	all := cache.All()
	out := make([]dto.SummaryOutput, 0, len(all))
	for _, n := range all {
		out = append(out, dto.SummaryOutput{
			ID:        n.ID,
			Content:   n.Content,
			Children:  n.Children,
			UpdatedAt: n.UpdatedAt,
			Revisions: len(n.History),
		})
	}
	return out
}
