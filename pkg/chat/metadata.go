package chat

import (
	"encoding/json"
	"strings"

	"datadetox/pkg/lineage"

	"github.com/kaptinlin/jsonrepair"
)

// Metadata is the JSON block embedded at the end of the agent backend's
// response stream.
type Metadata struct {
	Result      string               `json:"result,omitempty"`
	Neo4jData   *lineage.GraphData   `json:"neo4j_data,omitempty"`
	DatasetRisk *lineage.RiskContext `json:"dataset_risk,omitempty"`
}

// UnmarshalMetadata parses a raw metadata buffer into out with fallback
// strategies: standard JSON first, then a repair pass. The repair pass
// matters because a stream that ends before the end delimiter leaves a
// truncated buffer, which is exactly the malformed-JSON class the repairer
// can often close off.
func UnmarshalMetadata(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), out)
}

// ParseMetadata attempts a best-effort parse of the parser's accumulated
// metadata buffer. An empty buffer or an unparseable one yields (nil,
// false) rather than an error: metadata loss degrades the response, it
// does not fail it.
func ParseMetadata(raw string) (*Metadata, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var meta Metadata
	if err := UnmarshalMetadata(raw, &meta); err != nil {
		return nil, false
	}
	return &meta, true
}
