package research

import (
	"context"
	"log/slog"
	"strings"

	"github.com/w-h-a/research/completion"
	getsafe "github.com/w-h-a/research/util/get_safe"
)

const (
	graphBudget    = 4000
	abstractBudget = 3000
	ieeeBudget     = 5000
)

func (s *Service) ExtractKnowledgeGraph(ctx context.Context, text string) (KnowledgeGraph, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return KnowledgeGraph{}, completion.NewError(completion.InsufficientInput, "Content required for graph extraction")
	}

	raw, err := s.client.Complete(ctx, graphPrompt(truncate(text, graphBudget)))
	if err != nil {
		return KnowledgeGraph{}, err
	}

	graph := KnowledgeGraph{
		Nodes: []Node{},
		Edges: []Edge{},
	}

	obj, err := parseObject(raw)
	if err != nil {
		slog.WarnContext(ctx, "knowledge graph was not valid json", "error", err)
		return graph, nil
	}

	for _, n := range getsafe.Maps(obj, "nodes") {
		node := Node{
			Id:    field(n, "id"),
			Label: field(n, "label"),
			Type:  field(n, "type"),
		}
		if len(node.Id) == 0 {
			continue
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	for _, e := range getsafe.Maps(obj, "edges") {
		edge := Edge{
			From:  field(e, "from"),
			To:    field(e, "to"),
			Label: field(e, "label"),
		}
		if len(edge.From) == 0 || len(edge.To) == 0 {
			continue
		}
		graph.Edges = append(graph.Edges, edge)
	}

	return graph, nil
}

func (s *Service) MatchJournals(ctx context.Context, abstract string) ([]Journal, error) {
	if len(strings.TrimSpace(abstract)) == 0 {
		return nil, completion.NewError(completion.InsufficientInput, "Abstract required")
	}

	raw, err := s.client.Complete(ctx, journalPrompt(truncate(abstract, abstractBudget)))
	if err != nil {
		return nil, err
	}

	journals := []Journal{}

	items, err := parseArray(raw)
	if err != nil {
		slog.WarnContext(ctx, "journal matches were not valid json", "error", err)
		return journals, nil
	}

	for _, item := range items {
		journals = append(journals, Journal{
			Name:       field(item, "name"),
			Impact:     getsafe.NumberOr(item, "impact", 0),
			ReviewTime: field(item, "review_time"),
			Prob:       field(item, "prob"),
		})
	}

	return journals, nil
}

func (s *Service) CheckIEEE(ctx context.Context, text string) (IEEEReport, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return IEEEReport{}, completion.NewError(completion.InsufficientInput, "Content required")
	}

	raw, err := s.client.Complete(ctx, ieeePrompt(truncate(text, ieeeBudget)))
	if err != nil {
		return IEEEReport{}, err
	}

	report := IEEEReport{
		Feedback:        "Unrecognized format",
		RequiredChanges: []string{},
		Strengths:       []string{},
	}

	obj, err := parseObject(raw)
	if err != nil {
		slog.WarnContext(ctx, "ieee report was not valid json", "error", err)
		return report, nil
	}

	if eligible, ok := getsafe.Bool(obj, "is_eligible"); ok {
		report.IsEligible = eligible
	}
	report.Score = integer(obj, "score", 0)
	report.Feedback = getsafe.StringOr(obj, "feedback", report.Feedback)
	report.RequiredChanges = getsafe.Strings(obj, "required_changes")
	report.Strengths = getsafe.Strings(obj, "strengths")

	return report, nil
}
