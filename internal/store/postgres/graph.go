package postgres

// graph.go stores export documents. Nodes and edges are bulk loaded with
// COPY; a run's rows are written once and never updated.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dxworks/honeydew/internal/export"
)

var (
	nodeColumns = []string{"run_id", "id", "kind", "name", "qualified_name", "project", "file_path", "external", "properties"}
	edgeColumns = []string{"run_id", "source_id", "target_id", "edge_type", "properties"}
)

// GraphNode is the DB model for the graph_nodes table.
type GraphNode struct {
	RunID         uuid.UUID       `json:"run_id"`
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualified_name"`
	Project       string          `json:"project"`
	FilePath      string          `json:"file_path"`
	External      bool            `json:"external"`
	Properties    json.RawMessage `json:"properties,omitempty"`
}

// InsertDocument copies every node and edge of doc under runID.
func (q *Queries) InsertDocument(ctx context.Context, runID uuid.UUID, doc *export.Document) (nodes, edges int64, err error) {
	nodeRows, err := NodeRows(runID, doc.Nodes)
	if err != nil {
		return 0, 0, err
	}
	nodes, err = q.db.CopyFrom(ctx, pgx.Identifier{"graph_nodes"}, nodeColumns, pgx.CopyFromRows(nodeRows))
	if err != nil {
		return 0, 0, fmt.Errorf("copy nodes: %w", err)
	}

	edgeRows, err := EdgeRows(runID, doc.Edges)
	if err != nil {
		return nodes, 0, err
	}
	edges, err = q.db.CopyFrom(ctx, pgx.Identifier{"graph_edges"}, edgeColumns, pgx.CopyFromRows(edgeRows))
	if err != nil {
		return nodes, 0, fmt.Errorf("copy edges: %w", err)
	}
	return nodes, edges, nil
}

// NodeRows converts nodes to COPY rows in nodeColumns order.
func NodeRows(runID uuid.UUID, nodes []*export.Node) ([][]any, error) {
	rows := make([][]any, 0, len(nodes))
	for _, n := range nodes {
		props, err := jsonOrNil(n.Properties)
		if err != nil {
			return nil, fmt.Errorf("marshal properties of %s: %w", n.QualifiedName, err)
		}
		rows = append(rows, []any{runID, n.ID, n.Kind, n.Name, n.QualifiedName, n.Project, n.FilePath, n.External, props})
	}
	return rows, nil
}

// EdgeRows converts edges to COPY rows in edgeColumns order.
func EdgeRows(runID uuid.UUID, edges []*export.Edge) ([][]any, error) {
	rows := make([][]any, 0, len(edges))
	for _, e := range edges {
		props, err := jsonOrNil(e.Properties)
		if err != nil {
			return nil, fmt.Errorf("marshal edge properties: %w", err)
		}
		rows = append(rows, []any{runID, e.SourceID, e.TargetID, e.Type, props})
	}
	return rows, nil
}

func jsonOrNil(props map[string]any) ([]byte, error) {
	if len(props) == 0 {
		return nil, nil
	}
	return json.Marshal(props)
}

// SearchNodes finds nodes of a run whose qualified name contains term,
// optionally filtered by kind.
func (q *Queries) SearchNodes(ctx context.Context, runID uuid.UUID, term, kind string, limit int32) ([]GraphNode, error) {
	rows, err := q.db.Query(ctx,
		`SELECT run_id, id, kind, name, qualified_name, project, file_path, external, properties
		 FROM graph_nodes
		 WHERE run_id = $1
		   AND qualified_name ILIKE '%' || $2::text || '%'
		   AND ($3::text = '' OR kind = $3)
		 ORDER BY qualified_name
		 LIMIT $4`,
		runID, term, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GraphNode
	for rows.Next() {
		var i GraphNode
		if err := rows.Scan(&i.RunID, &i.ID, &i.Kind, &i.Name, &i.QualifiedName,
			&i.Project, &i.FilePath, &i.External, &i.Properties); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
