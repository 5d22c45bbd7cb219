package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dxworks/honeydew/internal/export"
)

const batchSize = 500

// SyncDocument replaces the repository's subgraph with doc: existing nodes of
// the repository are removed, then nodes and edges are upserted in batches.
func (c *Client) SyncDocument(ctx context.Context, doc *export.Document) error {
	if err := c.ClearRepository(ctx, doc.ID); err != nil {
		return fmt.Errorf("clear repository: %w", err)
	}
	if err := c.SyncNodes(ctx, doc.ID, doc.Nodes); err != nil {
		return err
	}
	return c.SyncEdges(ctx, doc.ID, doc.Edges)
}

// SyncNodes upserts nodes into Neo4j.
func (c *Client) SyncNodes(ctx context.Context, repositoryID uuid.UUID, nodes []*export.Node) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(nodes); i += batchSize {
		end := min(i+batchSize, len(nodes))
		params := nodeParams(repositoryID, nodes[i:end])

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertNodes, map[string]any{"nodes": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync nodes batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// SyncEdges upserts edges into Neo4j. Both endpoints must already exist.
func (c *Client) SyncEdges(ctx context.Context, repositoryID uuid.UUID, edges []*export.Edge) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(edges); i += batchSize {
		end := min(i+batchSize, len(edges))
		params := edgeParams(repositoryID, edges[i:end])

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertEdges, map[string]any{"edges": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync edges batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// ClearRepository removes all graph data for a repository.
func (c *Client) ClearRepository(ctx context.Context, repositoryID uuid.UUID) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, DeleteRepositoryNodes, map[string]any{
			"repositoryId": repositoryID.String(),
		})
		return struct{}{}, err
	})
	return err
}

func nodeParams(repositoryID uuid.UUID, nodes []*export.Node) []map[string]any {
	params := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		params[i] = map[string]any{
			"id":            n.ID.String(),
			"kind":          n.Kind,
			"name":          n.Name,
			"qualifiedName": n.QualifiedName,
			"project":       n.Project,
			"filePath":      n.FilePath,
			"external":      n.External,
			"repositoryId":  repositoryID.String(),
			"properties":    scalarProperties(n.Properties),
		}
	}
	return params
}

func edgeParams(repositoryID uuid.UUID, edges []*export.Edge) []map[string]any {
	params := make([]map[string]any, len(edges))
	for i, e := range edges {
		params[i] = map[string]any{
			"sourceId":     e.SourceID.String(),
			"targetId":     e.TargetID.String(),
			"edgeType":     e.Type,
			"repositoryId": repositoryID.String(),
			"properties":   scalarProperties(e.Properties),
		}
	}
	return params
}

// scalarProperties keeps the values Neo4j can store as properties: scalars
// and homogeneous string lists. Nested maps such as metrics are flattened
// with a "metric_" prefix.
func scalarProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case string, bool, int, int64, float64:
			out[k] = val
		case []string:
			if len(val) > 0 {
				out[k] = val
			}
		case map[string]any:
			for mk, mv := range scalarProperties(val) {
				out["metric_"+mk] = mv
			}
		}
	}
	return out
}
