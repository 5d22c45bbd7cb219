package graph

// Cypher query constants for Neo4j operations.
const (
	// CreateConstraintNodeID ensures Node(id) is unique and indexed.
	CreateConstraintNodeID = `CREATE CONSTRAINT node_id IF NOT EXISTS FOR (n:Node) REQUIRE n.id IS UNIQUE`
	// CreateIndexRepository speeds up per-repository deletes.
	CreateIndexRepository = `CREATE INDEX node_repository IF NOT EXISTS FOR (n:Node) ON (n.repositoryId)`

	// UpsertNodes merges graph nodes by ID and sets their scalar properties.
	UpsertNodes = `
UNWIND $nodes AS node
MERGE (n:Node {id: node.id})
SET n.kind = node.kind,
    n.name = node.name,
    n.qualifiedName = node.qualifiedName,
    n.project = node.project,
    n.filePath = node.filePath,
    n.external = node.external,
    n.repositoryId = node.repositoryId,
    n += node.properties
`

	// UpsertEdges merges one LINKS relationship per (source, target, type).
	UpsertEdges = `
UNWIND $edges AS edge
MATCH (src:Node {id: edge.sourceId})
MATCH (tgt:Node {id: edge.targetId})
MERGE (src)-[r:LINKS {edgeType: edge.edgeType}]->(tgt)
SET r.repositoryId = edge.repositoryId,
    r += edge.properties
`

	// DeleteRepositoryNodes removes all nodes and relationships of a repository.
	DeleteRepositoryNodes = `
MATCH (n:Node {repositoryId: $repositoryId})
DETACH DELETE n
`

	// CallersOf finds the methods that reach a method through CALLS edges.
	CallersOf = `
MATCH path = (caller:Node)-[:LINKS*1..%d {edgeType: 'CALLS'}]->(target:Node {id: $nodeId})
RETURN path
`

	// CalleesOf finds the methods a method reaches through CALLS edges.
	CalleesOf = `
MATCH path = (source:Node {id: $nodeId})-[:LINKS*1..%d {edgeType: 'CALLS'}]->(callee:Node)
RETURN path
`

	// CallsBoth finds both callers and callees.
	CallsBoth = `
MATCH path = (caller:Node)-[:LINKS*1..%d {edgeType: 'CALLS'}]->(target:Node {id: $nodeId})
RETURN path
UNION
MATCH path = (source:Node {id: $nodeId})-[:LINKS*1..%d {edgeType: 'CALLS'}]->(callee:Node)
RETURN path
`
)
