// Package neo4j fetches model lineage subgraphs from the Neo4j database
// populated by the HuggingFace scraper, and maps the records into the
// lineage wire shapes.
package neo4j

import (
	"context"
	"fmt"

	"datadetox/internal/util"
	"datadetox/pkg/lineage"
	"datadetox/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// relationshipFilter restricts subgraph expansion to lineage and
// provenance relationship types.
const relationshipFilter = "BASED_ON|FINE_TUNED|FINETUNED|ADAPTERS|MERGES|QUANTIZATIONS|TRAINED_ON"

// maxRecords caps the nodes and relationships returned per lineage query.
const maxRecords = 10

const lineageQuery = `
	MATCH (root:Model {model_id: $model_id})
	CALL apoc.path.subgraphAll(root, {
	  relationshipFilter: $relationship_filter
	})
	YIELD nodes, relationships
	RETURN nodes, relationships
`

// Client reads lineage subgraphs from Neo4j.
type Client struct {
	driver     neo4j.DriverWithContext
	maxRetries int
}

// NewClientParams configures a Client.
type NewClientParams struct {
	URI        string
	User       string
	Password   string
	MaxRetries int
}

// NewClient connects to Neo4j and verifies connectivity.
func NewClient(ctx context.Context, params NewClientParams) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(params.URI, neo4j.BasicAuth(params.User, params.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach neo4j at %s: %w", params.URI, err)
	}

	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	logger.Info("Connected to Neo4j", "uri", params.URI)
	return &Client{driver: driver, maxRetries: maxRetries}, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// FetchLineage returns the lineage subgraph rooted at the given model id.
// A model with no lineage yields an empty graph, not an error.
func (c *Client) FetchLineage(ctx context.Context, modelID string) (lineage.GraphData, error) {
	result, err := util.RetryWithContext(ctx, c.maxRetries, func(ctx context.Context) (*neo4j.EagerResult, error) {
		return neo4j.ExecuteQuery(ctx, c.driver, lineageQuery,
			map[string]any{
				"model_id":            modelID,
				"relationship_filter": relationshipFilter,
			},
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithReadersRouting(),
		)
	})
	if err != nil {
		return lineage.GraphData{}, fmt.Errorf("lineage query failed for %q: %w", modelID, err)
	}

	data := lineage.GraphData{QueriedModelID: modelID}
	if len(result.Records) == 0 {
		return data, nil
	}

	record := result.Records[0]
	data.Nodes.Nodes = entitiesFromRecord(record)
	data.Relationships.Relationships = relationshipsFromRecord(record)

	logger.Debug("Fetched lineage subgraph",
		"model_id", modelID,
		"nodes", len(data.Nodes.Nodes),
		"relationships", len(data.Relationships.Relationships),
	)
	return data, nil
}

func entitiesFromRecord(record *neo4j.Record) []lineage.Entity {
	raw, ok := record.Get("nodes")
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var entities []lineage.Entity
	for _, item := range items {
		node, ok := item.(neo4j.Node)
		if !ok {
			continue
		}
		entity, err := EntityFromProps(node.Props)
		if err != nil {
			logger.Warn("Skipping unparsable lineage node", "err", err)
			continue
		}
		if len(entities) < maxRecords {
			entities = append(entities, entity)
		}
	}
	return entities
}

func relationshipsFromRecord(record *neo4j.Record) []lineage.Relationship {
	rawNodes, _ := record.Get("nodes")
	byElementID := make(map[string]lineage.Entity)
	if items, ok := rawNodes.([]any); ok {
		for _, item := range items {
			node, ok := item.(neo4j.Node)
			if !ok {
				continue
			}
			entity, err := EntityFromProps(node.Props)
			if err != nil {
				continue
			}
			byElementID[node.ElementId] = entity
		}
	}

	raw, ok := record.Get("relationships")
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var relationships []lineage.Relationship
	for _, item := range items {
		rel, ok := item.(neo4j.Relationship)
		if !ok {
			continue
		}
		source, okSource := byElementID[rel.StartElementId]
		target, okTarget := byElementID[rel.EndElementId]
		if !okSource || !okTarget {
			continue
		}
		relationships = append(relationships, lineage.Relationship{
			Source:       source,
			Relationship: rel.Type,
			Target:       target,
		})
		if len(relationships) >= maxRecords {
			break
		}
	}
	return relationships
}
