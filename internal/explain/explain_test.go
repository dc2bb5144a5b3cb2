package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFeatureImportance(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("perfect correlation outranks noise", func(t *testing.T) {
		predictions := []float64{1.0, 2.0, 3.0, 4.0}
		features := map[string][]float64{
			"signal":   {2.0, 4.0, 6.0, 8.0},
			"inverse":  {4.0, 3.0, 2.0, 1.0},
			"constant": {5.0, 5.0, 5.0, 5.0},
		}

		importances := analyzer.CalculateFeatureImportance(features, predictions)
		require.Len(t, importances, 3)

		// signal and inverse both have |r| = 1, ties keep name order
		assert.Equal(t, "inverse", importances[0].FeatureName)
		assert.InDelta(t, 1.0, importances[0].ImportanceScore, 1e-9)
		assert.Equal(t, "signal", importances[1].FeatureName)
		assert.InDelta(t, 1.0, importances[1].ImportanceScore, 1e-9)
		assert.Equal(t, "constant", importances[2].FeatureName)
		assert.Equal(t, 0.0, importances[2].ImportanceScore)

		for i, imp := range importances {
			assert.Equal(t, i+1, imp.Rank)
		}
	})

	t.Run("length-mismatched features are skipped", func(t *testing.T) {
		predictions := []float64{1.0, 2.0, 3.0}
		features := map[string][]float64{
			"good": {1.0, 2.0, 3.0},
			"bad":  {1.0, 2.0},
		}

		importances := analyzer.CalculateFeatureImportance(features, predictions)
		require.Len(t, importances, 1)
		assert.Equal(t, "good", importances[0].FeatureName)
	})

	t.Run("zero-variance predictions score zero", func(t *testing.T) {
		predictions := []float64{0.5, 0.5, 0.5}
		features := map[string][]float64{"f": {1.0, 2.0, 3.0}}

		importances := analyzer.CalculateFeatureImportance(features, predictions)
		require.Len(t, importances, 1)
		assert.Equal(t, 0.0, importances[0].ImportanceScore)
	})

	t.Run("empty inputs yield empty ranking", func(t *testing.T) {
		importances := analyzer.CalculateFeatureImportance(map[string][]float64{}, nil)
		assert.Empty(t, importances)
	})
}

func TestExplainPrediction(t *testing.T) {
	analyzer := NewAnalyzer()

	importances := []FeatureImportance{
		{FeatureName: "a", ImportanceScore: 0.9, Rank: 1},
		{FeatureName: "b", ImportanceScore: 0.5, Rank: 2},
		{FeatureName: "c", ImportanceScore: 0.1, Rank: 3},
	}
	featureValues := map[string]float64{"a": 2.0, "b": 10.0}

	result := analyzer.ExplainPrediction(3, 0.75, featureValues, importances, 2)

	assert.Equal(t, 3, result.PredictionIndex)
	assert.Equal(t, 0.75, result.PredictedValue)
	assert.InDelta(t, 1.8, result.FeatureContributions["a"], 1e-12)
	assert.InDelta(t, 5.0, result.FeatureContributions["b"], 1e-12)
	// c has no value for this prediction, no contribution
	assert.NotContains(t, result.FeatureContributions, "c")

	require.Len(t, result.TopFeatures, 2)
	assert.Equal(t, "a", result.TopFeatures[0].FeatureName)
	assert.Equal(t, "b", result.TopFeatures[1].FeatureName)
}

func TestGenerateExplanationReport(t *testing.T) {
	analyzer := NewAnalyzer()

	explanation := ExplanationResult{
		PredictionIndex: 7,
		PredictedValue:  0.8123,
		FeatureContributions: map[string]float64{
			"a": 1.5,
			"b": 0.25,
			"c": 0.01,
		},
		TopFeatures: []FeatureImportance{
			{FeatureName: "a", ImportanceScore: 0.9, Rank: 1},
			{FeatureName: "b", ImportanceScore: 0.5, Rank: 2},
		},
	}

	report := analyzer.GenerateExplanationReport(explanation, false)
	assert.Contains(t, report, "Explanation for Prediction #7")
	assert.Contains(t, report, "Predicted Value: 0.8123")
	assert.Contains(t, report, "1. a: importance=0.9000, contribution=1.5000")
	assert.NotContains(t, report, "more features")

	verbose := analyzer.GenerateExplanationReport(explanation, true)
	assert.Contains(t, verbose, "... and 1 more features")
}

func TestSHAPValues(t *testing.T) {
	t.Run("attribution is proportional to deviation", func(t *testing.T) {
		shap := NewSHAPAnalyzer()
		shap.SetBaseline(map[string][]float64{
			"a": {1.0, 1.0, 1.0},
			"b": {2.0, 2.0, 2.0},
		})

		values := shap.CalculateSHAPValues(map[string]float64{"a": 2.0, "b": 5.0}, 0.9, 0.5)

		// deviations a=1, b=3; total diff 0.4 split 1:3
		assert.InDelta(t, 0.1, values["a"], 1e-12)
		assert.InDelta(t, 0.3, values["b"], 1e-12)

		sum := values["a"] + values["b"]
		assert.InDelta(t, 0.4, sum, 1e-12)
	})

	t.Run("all features at baseline attribute zero", func(t *testing.T) {
		shap := NewSHAPAnalyzer()
		shap.SetBaseline(map[string][]float64{"a": {1.0}, "b": {2.0}})

		values := shap.CalculateSHAPValues(map[string]float64{"a": 1.0, "b": 2.0}, 0.9, 0.5)
		assert.Equal(t, 0.0, values["a"])
		assert.Equal(t, 0.0, values["b"])
	})

	t.Run("baseline defaults to zero for unseen features", func(t *testing.T) {
		shap := NewSHAPAnalyzer()
		assert.Equal(t, 0.0, shap.Baseline("never_set"))

		values := shap.CalculateSHAPValues(map[string]float64{"x": 4.0}, 1.0, 0.0)
		assert.InDelta(t, 1.0, values["x"], 1e-12)
	})
}
