package neo4j

import (
	"fmt"

	"datadetox/pkg/lineage"
)

// EntityFromProps maps a raw node property map onto a lineage entity. A
// node carrying neither model_id nor dataset_id cannot be classified and
// is an error; the caller skips such records instead of failing the query.
func EntityFromProps(props map[string]any) (lineage.Entity, error) {
	entity := lineage.Entity{
		ModelID:     stringProp(props, "model_id"),
		DatasetID:   stringProp(props, "dataset_id"),
		Downloads:   intProp(props, "downloads"),
		Likes:       intProp(props, "likes"),
		PipelineTag: stringProp(props, "pipeline_tag"),
		CreatedAt:   stringProp(props, "created_at"),
		LibraryName: stringProp(props, "library_name"),
		URL:         stringProp(props, "url"),
		Tags:        stringSliceProp(props, "tags"),
	}

	if entity.ModelID == "" && entity.DatasetID == "" {
		return lineage.Entity{}, fmt.Errorf("cannot determine entity type from properties: %v", props)
	}
	return entity, nil
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]any, key string) *int64 {
	switch v := props[key].(type) {
	case int64:
		return &v
	case float64:
		n := int64(v)
		return &n
	}
	return nil
}

func stringSliceProp(props map[string]any, key string) []string {
	items, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
