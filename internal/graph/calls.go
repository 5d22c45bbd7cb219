package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// CallNode is a method node reached by a call graph query.
type CallNode struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QualifiedName string `json:"qualifiedName"`
	Kind          string `json:"kind"`
	Project       string `json:"project,omitempty"`
}

// CallEdge is one CALLS relationship on a returned path.
type CallEdge struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Receiver string `json:"receiver,omitempty"`
}

// CallGraph contains the result of a call graph query.
type CallGraph struct {
	RootID string     `json:"rootId"`
	Nodes  []CallNode `json:"nodes"`
	Edges  []CallEdge `json:"edges"`
}

// Calls walks CALLS relationships from or to a method node. direction is
// "callers", "callees" or anything else for both.
func (c *Client) Calls(ctx context.Context, nodeID uuid.UUID, direction string, maxDepth int) (*CallGraph, error) {
	query := callQuery(direction, maxDepth)

	session := c.Session(ctx)
	defer session.Close(ctx)

	result, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]any{"nodeId": nodeID.String()})
		if err != nil {
			return nil, err
		}

		graph := &CallGraph{RootID: nodeID.String()}
		seen := make(map[string]bool)
		seenEdge := make(map[[2]string]bool)
		for records.Next(ctx) {
			pathVal, ok := records.Record().Get("path")
			if !ok {
				continue
			}
			path, ok := pathVal.(dbtype.Path)
			if !ok {
				continue
			}

			elemToID := make(map[string]string, len(path.Nodes))
			for _, node := range path.Nodes {
				id, _ := node.Props["id"].(string)
				elemToID[node.ElementId] = id
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				name, _ := node.Props["name"].(string)
				qname, _ := node.Props["qualifiedName"].(string)
				kind, _ := node.Props["kind"].(string)
				project, _ := node.Props["project"].(string)
				graph.Nodes = append(graph.Nodes, CallNode{ID: id, Name: name, QualifiedName: qname, Kind: kind, Project: project})
			}

			for _, rel := range path.Relationships {
				src, tgt := elemToID[rel.StartElementId], elemToID[rel.EndElementId]
				key := [2]string{src, tgt}
				if src == "" || tgt == "" || seenEdge[key] {
					continue
				}
				seenEdge[key] = true
				receiver, _ := rel.Props["receiver"].(string)
				graph.Edges = append(graph.Edges, CallEdge{SourceID: src, TargetID: tgt, Receiver: receiver})
			}
		}
		if err := records.Err(); err != nil {
			return nil, err
		}
		return graph, nil
	})
	if err != nil {
		return nil, fmt.Errorf("call graph query: %w", err)
	}
	return result.(*CallGraph), nil
}

func callQuery(direction string, maxDepth int) string {
	if maxDepth <= 0 || maxDepth > 10 {
		maxDepth = 3
	}
	switch direction {
	case "callers":
		return fmt.Sprintf(CallersOf, maxDepth)
	case "callees":
		return fmt.Sprintf(CalleesOf, maxDepth)
	}
	return fmt.Sprintf(CallsBoth, maxDepth, maxDepth)
}
