package lineage

import (
	"regexp"
	"sort"
	"strings"
)

// Indicator names emitted by AssessDatasetRisk.
const (
	IndicatorSynthetic       = "synthetic_source"
	IndicatorEnglishCentric  = "english_centric"
	IndicatorNoVerifiedURL   = "no_verified_source"
	IndicatorKnownLargeCrawl = "known_large_crawl"
	IndicatorNoSpecificFlags = "no_specific_flags"
)

var syntheticKeywords = []string{
	"synthetic",
	"generated",
	"model-generated",
}

var englishKeywords = []string{
	"english",
	"en",
	"uk",
	"us",
	"american",
}

var knownLargeCrawls = map[string]bool{
	"pile":      true,
	"redpajama": true,
}

var englishKeywordPatterns = compileKeywordPatterns(englishKeywords)

func compileKeywordPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return patterns
}

func flagSynthetic(text string) bool {
	for _, kw := range syntheticKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// flagEnglishBias requires word boundaries around the keywords to keep
// short tokens like "en" and "us" from matching inside other words.
func flagEnglishBias(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range englishKeywordPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// AssessDatasetRisk scores one training-dataset mention and returns its
// risk assessment. Synthetic or model-generated sources weigh heaviest;
// English-centric naming, missing source URLs, and membership in known
// large web crawls each add one point. Score 3 or more is high, 1 or more
// is medium, otherwise low.
func AssessDatasetRisk(ds TrainingDataset) DatasetRisk {
	name := strings.ToLower(ds.Name)
	desc := strings.ToLower(ds.Description)

	var indicators []string
	score := 0

	if flagSynthetic(name + " " + desc) {
		indicators = append(indicators, IndicatorSynthetic)
		score += 2
	}

	if flagEnglishBias(name) || flagEnglishBias(desc) {
		indicators = append(indicators, IndicatorEnglishCentric)
		score++
	}

	if ds.URL == "" {
		indicators = append(indicators, IndicatorNoVerifiedURL)
		score++
	}

	if knownLargeCrawls[name] {
		indicators = append(indicators, IndicatorKnownLargeCrawl)
		score++
	}

	if len(indicators) == 0 {
		indicators = append(indicators, IndicatorNoSpecificFlags)
	}

	level := RiskLow
	switch {
	case score >= 3:
		level = RiskHigh
	case score >= 1:
		level = RiskMedium
	}

	displayName := ds.Name
	if displayName == "" {
		displayName = UnknownIdentity
	}

	return DatasetRisk{
		Name:       displayName,
		RiskLevel:  level,
		Indicators: indicators,
		URLPresent: ds.URL != "",
	}
}

// BuildRiskContext summarizes dataset risk per model from the
// document-extraction output (model id to training_datasets block), for
// delivery alongside the lineage graph. Models whose block lists no
// datasets are counted but produce no entry.
func BuildRiskContext(trainingDatasets map[string]TrainingDatasets) RiskContext {
	context := RiskContext{
		GlobalCounts: map[string]int64{
			RiskHigh:         0,
			RiskMedium:       0,
			RiskLow:          0,
			"unknown_models": 0,
		},
	}

	modelIDs := make([]string, 0, len(trainingDatasets))
	for modelID := range trainingDatasets {
		modelIDs = append(modelIDs, modelID)
	}
	sort.Strings(modelIDs)

	for _, modelID := range modelIDs {
		info := trainingDatasets[modelID]
		if len(info.Datasets) == 0 {
			context.GlobalCounts["unknown_models"]++
			continue
		}

		entry := ModelRisk{
			ModelID:  modelID,
			ArxivURL: info.ArxivURL,
		}
		for _, ds := range info.Datasets {
			assessment := AssessDatasetRisk(ds)
			entry.Datasets = append(entry.Datasets, assessment)
			context.GlobalCounts[assessment.RiskLevel]++
		}
		context.Models = append(context.Models, entry)
	}

	return context
}
