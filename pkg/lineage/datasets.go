package lineage

import "strings"

// Annotation source tags.
const (
	SourceGraph    = "graph"
	SourceDocument = "document"
)

// Risk levels attached to dataset annotations.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

// Annotation is one dataset association attached to a model node, tagged
// with its provenance source. Graph annotations come from curated lineage
// relationships; document annotations come from paper extraction. The two
// are deliberately kept separate even when they name the same dataset, so
// the user can see why a dataset is associated.
type Annotation struct {
	ID             string   `json:"id"`
	URL            string   `json:"url,omitempty"`
	Downloads      *int64   `json:"downloads,omitempty"`
	Likes          *int64   `json:"likes,omitempty"`
	Relationship   string   `json:"relationship,omitempty"`
	Source         string   `json:"source"`
	PaperURL       string   `json:"paper_url,omitempty"`
	Description    string   `json:"description,omitempty"`
	RiskLevel      string   `json:"risk_level"`
	RiskIndicators []string `json:"risk_indicators,omitempty"`
}

// DatasetRisk is the per-dataset risk assessment inside a RiskContext.
type DatasetRisk struct {
	Name       string   `json:"name"`
	RiskLevel  string   `json:"risk_level,omitempty"`
	Indicators []string `json:"indicators,omitempty"`
	URLPresent bool     `json:"url_present,omitempty"`
}

// ModelRisk groups the risk assessments for one model's training datasets.
type ModelRisk struct {
	ModelID  string        `json:"model_id"`
	ArxivURL string        `json:"arxiv_url,omitempty"`
	Datasets []DatasetRisk `json:"datasets"`
}

// RiskContext is the dataset risk payload delivered alongside the lineage
// graph.
type RiskContext struct {
	Models       []ModelRisk      `json:"models,omitempty"`
	GlobalCounts map[string]int64 `json:"global_counts,omitempty"`
}

type riskLookup map[string]map[string]DatasetRisk

// buildRiskLookup indexes a RiskContext by lower-cased model identity and
// dataset name. Upstream casing is inconsistent between the graph and the
// extraction pipeline, so matching is case-insensitive on both keys.
func buildRiskLookup(riskContext *RiskContext) riskLookup {
	lookup := make(riskLookup)
	if riskContext == nil {
		return lookup
	}
	for _, model := range riskContext.Models {
		key := strings.ToLower(model.ModelID)
		if lookup[key] == nil {
			lookup[key] = make(map[string]DatasetRisk)
		}
		for _, ds := range model.Datasets {
			lookup[key][strings.ToLower(ds.Name)] = ds
		}
	}
	return lookup
}

func (l riskLookup) resolve(entityID, datasetName string) (string, []string) {
	byName, ok := l[strings.ToLower(entityID)]
	if !ok {
		return RiskUnknown, nil
	}
	ds, ok := byName[strings.ToLower(datasetName)]
	if !ok {
		return RiskUnknown, nil
	}
	level := ds.RiskLevel
	if level == "" {
		level = RiskUnknown
	}
	return level, ds.Indicators
}

// MergeDatasets merges the two dataset-provenance sources into one ordered
// annotation list per model identity: first the model-to-dataset graph
// relationships, then the document-derived training_datasets blocks.
// Entities with no annotations are absent from the map; callers treat
// absent and empty as equivalent.
func MergeDatasets(nodes []Entity, relationships []Relationship, riskContext *RiskContext) map[string][]Annotation {
	lookup := buildRiskLookup(riskContext)
	merged := make(map[string][]Annotation)

	for _, rel := range relationships {
		if !rel.Source.IsModel() {
			continue
		}
		if rel.Target.DatasetID == "" || rel.Target.ModelID != "" {
			continue
		}
		modelID := rel.Source.Identity()
		datasetID := rel.Target.DatasetID
		level, indicators := lookup.resolve(modelID, datasetID)
		merged[modelID] = append(merged[modelID], Annotation{
			ID:             datasetID,
			URL:            rel.Target.URL,
			Downloads:      rel.Target.Downloads,
			Likes:          rel.Target.Likes,
			Relationship:   rel.Relationship,
			Source:         SourceGraph,
			RiskLevel:      level,
			RiskIndicators: indicators,
		})
	}

	for _, node := range nodes {
		block := node.TrainingDatasets
		if block == nil {
			continue
		}
		modelID := node.Identity()
		for _, ds := range block.Datasets {
			level, indicators := lookup.resolve(modelID, ds.Name)
			merged[modelID] = append(merged[modelID], Annotation{
				ID:             ds.Name,
				URL:            ds.URL,
				Source:         SourceDocument,
				PaperURL:       block.ArxivURL,
				Description:    ds.Description,
				RiskLevel:      level,
				RiskIndicators: indicators,
			})
		}
	}

	return merged
}
