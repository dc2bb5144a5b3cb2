package explain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// FeatureImportance ranks one feature by its correlation with predictions
type FeatureImportance struct {
	FeatureName     string  `json:"feature_name"`
	ImportanceScore float64 `json:"importance_score"`
	Rank            int     `json:"rank"`
}

// ExplanationResult breaks one prediction down into feature contributions
type ExplanationResult struct {
	PredictionIndex      int                `json:"prediction_index"`
	PredictedValue       float64            `json:"predicted_value"`
	FeatureContributions map[string]float64 `json:"feature_contributions"`
	TopFeatures          []FeatureImportance `json:"top_features"`
}

// Analyzer ranks features by the absolute Pearson correlation of their values
// with the predictions
type Analyzer struct{}

// NewAnalyzer creates an explainability analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// pearson returns the Pearson correlation of two equal-length series and
// whether it is defined (zero variance on either side makes it undefined)
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n == 0 {
		return 0, false
	}

	meanX, meanY := 0.0, 0.0
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	cov, varX, varY := 0.0, 0.0, 0.0
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// CalculateFeatureImportance scores every feature whose series length matches
// the predictions by |correlation| and returns them ranked descending with
// dense 1-based ranks. Length-mismatched features are skipped, not errored.
func (a *Analyzer) CalculateFeatureImportance(featureValues map[string][]float64, predictions []float64) []FeatureImportance {
	names := make([]string, 0, len(featureValues))
	for name := range featureValues {
		names = append(names, name)
	}
	sort.Strings(names)

	importances := make([]FeatureImportance, 0, len(names))
	for _, name := range names {
		values := featureValues[name]
		if len(values) != len(predictions) {
			continue
		}

		score := 0.0
		if r, ok := pearson(values, predictions); ok {
			score = math.Abs(r)
		}
		importances = append(importances, FeatureImportance{FeatureName: name, ImportanceScore: score})
	}

	// stable sort keeps the sorted-name encounter order for ties
	sort.SliceStable(importances, func(i, j int) bool {
		return importances[i].ImportanceScore > importances[j].ImportanceScore
	})

	for i := range importances {
		importances[i].Rank = i + 1
	}
	return importances
}

// ExplainPrediction weights each feature's raw value by its importance score.
// This is a multiplicative weighting, not a normalized attribution. TopFeatures
// is a prefix of the precomputed ranking.
func (a *Analyzer) ExplainPrediction(
	predictionIndex int,
	predictionValue float64,
	featureValues map[string]float64,
	importances []FeatureImportance,
	topK int,
) ExplanationResult {
	contributions := make(map[string]float64)
	for _, imp := range importances {
		if value, ok := featureValues[imp.FeatureName]; ok {
			contributions[imp.FeatureName] = imp.ImportanceScore * value
		}
	}

	top := importances
	if topK < len(top) {
		top = top[:topK]
	}

	return ExplanationResult{
		PredictionIndex:      predictionIndex,
		PredictedValue:       predictionValue,
		FeatureContributions: contributions,
		TopFeatures:          top,
	}
}

// GenerateExplanationReport renders an explanation as human-readable text
func (a *Analyzer) GenerateExplanationReport(explanation ExplanationResult, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Explanation for Prediction #%d\n", explanation.PredictionIndex)
	fmt.Fprintf(&b, "Predicted Value: %.4f\n", explanation.PredictedValue)
	b.WriteString("\nTop Contributing Features:\n")

	for _, feat := range explanation.TopFeatures {
		contrib := explanation.FeatureContributions[feat.FeatureName]
		fmt.Fprintf(&b, "  %d. %s: importance=%.4f, contribution=%.4f\n",
			feat.Rank, feat.FeatureName, feat.ImportanceScore, contrib)
	}

	if verbose && len(explanation.FeatureContributions) > len(explanation.TopFeatures) {
		fmt.Fprintf(&b, "\n... and %d more features\n",
			len(explanation.FeatureContributions)-len(explanation.TopFeatures))
	}

	return strings.TrimRight(b.String(), "\n")
}
