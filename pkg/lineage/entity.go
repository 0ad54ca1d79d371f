package lineage

// Kind classifies an entity as a model or a dataset.
type Kind string

const (
	KindModel   Kind = "model"
	KindDataset Kind = "dataset"
)

// UnknownIdentity is the displayed identity for entities that carry
// neither a model_id nor a dataset_id. Upstream occasionally produces
// such records and they must still render.
const UnknownIdentity = "unknown"

// TrainingDataset is a single dataset mention extracted from a paper.
type TrainingDataset struct {
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// TrainingDatasets is the document-derived provenance block attached to a
// model: the paper it was extracted from plus the datasets named there.
type TrainingDatasets struct {
	ArxivURL string            `json:"arxiv_url"`
	Datasets []TrainingDataset `json:"datasets"`
}

// Entity is a model or dataset node as it arrives on the wire. Models carry
// model_id, datasets carry dataset_id; everything else is optional. Field
// names mirror the upstream HuggingFace lineage payload.
type Entity struct {
	ModelID          string            `json:"model_id,omitempty"`
	DatasetID        string            `json:"dataset_id,omitempty"`
	Downloads        *int64            `json:"downloads,omitempty"`
	Likes            *int64            `json:"likes,omitempty"`
	PipelineTag      string            `json:"pipeline_tag,omitempty"`
	CreatedAt        string            `json:"created_at,omitempty"`
	LibraryName      string            `json:"library_name,omitempty"`
	URL              string            `json:"url,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	TrainingDatasets *TrainingDatasets `json:"training_datasets,omitempty"`
}

// Kind discriminates the entity once, so downstream stages never re-check
// raw id fields. An entity carrying both ids (or neither) counts as a model
// when model_id is present, else as a dataset.
func (e Entity) Kind() Kind {
	if e.ModelID != "" {
		return KindModel
	}
	return KindDataset
}

// IsModel reports whether the entity is a model.
func (e Entity) IsModel() bool {
	return e.Kind() == KindModel
}

// Identity returns the entity's display identity: model_id for models,
// dataset_id for datasets, and the literal "unknown" when both are empty.
func (e Entity) Identity() string {
	if e.ModelID != "" {
		return e.ModelID
	}
	if e.DatasetID != "" {
		return e.DatasetID
	}
	return UnknownIdentity
}

// Relationship is a directed, labeled connection between two entities.
// Source and target are full embedded snapshots, not references:
// "source --label--> target" means source is <label> of target, so the
// target is the semantically upstream parent.
type Relationship struct {
	Source       Entity `json:"source"`
	Relationship string `json:"relationship"`
	Target       Entity `json:"target"`
}

// NodeList wraps the node collection in the upstream payload shape.
type NodeList struct {
	Nodes []Entity `json:"nodes"`
}

// RelationshipList wraps the relationship collection in the upstream
// payload shape.
type RelationshipList struct {
	Relationships []Relationship `json:"relationships"`
}

// GraphData is the complete lineage payload as produced by the agent
// backend's Neo4j search: a flat node list, a flat relationship list, and
// optionally the identifier the user asked about (used for highlighting
// only, never for structural decisions).
type GraphData struct {
	Nodes          NodeList         `json:"nodes"`
	Relationships  RelationshipList `json:"relationships"`
	QueriedModelID string           `json:"queried_model_id,omitempty"`
}
