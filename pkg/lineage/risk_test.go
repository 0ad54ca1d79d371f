package lineage

import (
	"reflect"
	"testing"
)

func TestAssessDatasetRisk(t *testing.T) {
	tests := []struct {
		name           string
		dataset        TrainingDataset
		wantLevel      string
		wantIndicators []string
	}{
		{
			name:           "clean dataset with url",
			dataset:        TrainingDataset{Name: "squad", URL: "https://example.org/squad"},
			wantLevel:      RiskLow,
			wantIndicators: []string{IndicatorNoSpecificFlags},
		},
		{
			name:           "missing url only",
			dataset:        TrainingDataset{Name: "squad"},
			wantLevel:      RiskMedium,
			wantIndicators: []string{IndicatorNoVerifiedURL},
		},
		{
			name:           "synthetic without url",
			dataset:        TrainingDataset{Name: "synthetic-instruct"},
			wantLevel:      RiskHigh,
			wantIndicators: []string{IndicatorSynthetic, IndicatorNoVerifiedURL},
		},
		{
			name:           "synthetic in description",
			dataset:        TrainingDataset{Name: "alpaca", URL: "https://example.org", Description: "model-generated instruction pairs"},
			wantLevel:      RiskMedium,
			wantIndicators: []string{IndicatorSynthetic},
		},
		{
			name:           "english centric name",
			dataset:        TrainingDataset{Name: "english-news", URL: "https://example.org"},
			wantLevel:      RiskMedium,
			wantIndicators: []string{IndicatorEnglishCentric},
		},
		{
			name:           "short token needs word boundary",
			dataset:        TrainingDataset{Name: "tensor", URL: "https://example.org"},
			wantLevel:      RiskLow,
			wantIndicators: []string{IndicatorNoSpecificFlags},
		},
		{
			name:           "short token at boundary matches",
			dataset:        TrainingDataset{Name: "wiki-en", URL: "https://example.org"},
			wantLevel:      RiskMedium,
			wantIndicators: []string{IndicatorEnglishCentric},
		},
		{
			name:           "known large crawl without url",
			dataset:        TrainingDataset{Name: "pile"},
			wantLevel:      RiskMedium,
			wantIndicators: []string{IndicatorNoVerifiedURL, IndicatorKnownLargeCrawl},
		},
		{
			name:           "stacked indicators reach high",
			dataset:        TrainingDataset{Name: "redpajama", Description: "english web text"},
			wantLevel:      RiskHigh,
			wantIndicators: []string{IndicatorEnglishCentric, IndicatorNoVerifiedURL, IndicatorKnownLargeCrawl},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessDatasetRisk(tt.dataset)
			if got.RiskLevel != tt.wantLevel {
				t.Fatalf("unexpected level: got %q want %q", got.RiskLevel, tt.wantLevel)
			}
			if !reflect.DeepEqual(got.Indicators, tt.wantIndicators) {
				t.Fatalf("unexpected indicators: got %v want %v", got.Indicators, tt.wantIndicators)
			}
		})
	}
}

func TestAssessDatasetRisk_EmptyNameDisplaysUnknown(t *testing.T) {
	got := AssessDatasetRisk(TrainingDataset{})

	if got.Name != UnknownIdentity {
		t.Fatalf("unexpected display name: %q", got.Name)
	}
	if got.URLPresent {
		t.Fatalf("url should be absent")
	}
}

func TestBuildRiskContext(t *testing.T) {
	input := map[string]TrainingDatasets{
		"org/b": {
			ArxivURL: "https://arxiv.org/abs/1",
			Datasets: []TrainingDataset{
				{Name: "squad", URL: "https://example.org/squad"},
				{Name: "synthetic-chat"},
			},
		},
		"org/a": {
			Datasets: []TrainingDataset{{Name: "pile"}},
		},
		"org/empty": {},
	}

	got := BuildRiskContext(input)

	// Deterministic order by model id; empty blocks produce no entry.
	if len(got.Models) != 2 || got.Models[0].ModelID != "org/a" || got.Models[1].ModelID != "org/b" {
		t.Fatalf("unexpected models: %+v", got.Models)
	}
	if got.Models[1].ArxivURL != "https://arxiv.org/abs/1" {
		t.Fatalf("unexpected arxiv url: %q", got.Models[1].ArxivURL)
	}

	wantCounts := map[string]int64{
		RiskHigh:         1,
		RiskMedium:       1,
		RiskLow:          1,
		"unknown_models": 1,
	}
	if !reflect.DeepEqual(got.GlobalCounts, wantCounts) {
		t.Fatalf("unexpected counts: got %v want %v", got.GlobalCounts, wantCounts)
	}
}
