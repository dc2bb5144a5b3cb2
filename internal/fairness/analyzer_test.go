package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemographicParity(t *testing.T) {
	analyzer := NewAnalyzer(0.8)

	t.Run("identical rates are perfectly fair", func(t *testing.T) {
		predictions := []float64{0.9, 0.1, 0.9, 0.1}
		groups := []string{"a", "a", "b", "b"}

		report, err := analyzer.DemographicParity(predictions, groups, DefaultClassificationThreshold)
		require.NoError(t, err)

		assert.Equal(t, MetricDemographicParity, report.MetricType)
		assert.Equal(t, 1.0, report.Score)
		assert.True(t, report.IsFair)
		assert.Equal(t, 0.5, report.GroupMetrics["a"])
		assert.Equal(t, 0.5, report.GroupMetrics["b"])
	})

	t.Run("unequal rates yield min over max", func(t *testing.T) {
		predictions := []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.1, 0.1, 0.9}
		groups := []string{"a", "a", "a", "a", "b", "b", "b", "b"}

		report, err := analyzer.DemographicParity(predictions, groups, DefaultClassificationThreshold)
		require.NoError(t, err)

		// group a selects 100%, group b 50%
		assert.InDelta(t, 0.5, report.Score, 1e-12)
		assert.False(t, report.IsFair)
	})

	t.Run("single group is trivially fair", func(t *testing.T) {
		report, err := analyzer.DemographicParity([]float64{0.9, 0.1}, []string{"a", "a"}, DefaultClassificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, 1.0, report.Score)
		assert.True(t, report.IsFair)
	})

	t.Run("all-zero rates fall back to fair", func(t *testing.T) {
		report, err := analyzer.DemographicParity([]float64{0.1, 0.1}, []string{"a", "b"}, DefaultClassificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, 1.0, report.Score)
	})

	t.Run("length mismatch errors", func(t *testing.T) {
		_, err := analyzer.DemographicParity([]float64{0.9}, []string{"a", "b"}, DefaultClassificationThreshold)
		assert.Error(t, err)
	})
}

func TestEqualOpportunity(t *testing.T) {
	analyzer := NewAnalyzer(0.8)

	t.Run("equal true positive rates are fair", func(t *testing.T) {
		predictions := []float64{0.9, 0.1, 0.9, 0.1}
		groups := []string{"a", "a", "b", "b"}
		labels := []int{1, 0, 1, 0}

		report, err := analyzer.EqualOpportunity(predictions, groups, labels, DefaultClassificationThreshold)
		require.NoError(t, err)

		assert.Equal(t, MetricEqualOpportunity, report.MetricType)
		assert.Equal(t, 1.0, report.Score)
		assert.True(t, report.IsFair)
	})

	t.Run("group with no actual positives gets zero TPR", func(t *testing.T) {
		predictions := []float64{0.9, 0.9}
		groups := []string{"a", "b"}
		labels := []int{1, 0}

		report, err := analyzer.EqualOpportunity(predictions, groups, labels, DefaultClassificationThreshold)
		require.NoError(t, err)

		assert.Equal(t, 1.0, report.GroupMetrics["a"])
		assert.Equal(t, 0.0, report.GroupMetrics["b"])
		assert.Equal(t, 0.0, report.Score)
		assert.False(t, report.IsFair)
	})

	t.Run("label length mismatch errors", func(t *testing.T) {
		_, err := analyzer.EqualOpportunity([]float64{0.9, 0.1}, []string{"a", "b"}, []int{1}, DefaultClassificationThreshold)
		assert.Error(t, err)
	})
}

func TestDisparateImpact(t *testing.T) {
	analyzer := NewAnalyzer(0.8)

	t.Run("identical selection rates score one", func(t *testing.T) {
		predictions := []float64{0.9, 0.1, 0.9, 0.1}
		groups := []string{"priv", "priv", "other", "other"}

		report, err := analyzer.DisparateImpact(predictions, groups, "priv", DefaultClassificationThreshold)
		require.NoError(t, err)

		assert.Equal(t, MetricDisparateImpact, report.MetricType)
		assert.Equal(t, 1.0, report.Score)
		assert.True(t, report.IsFair)
	})

	t.Run("score is the minimum ratio across groups", func(t *testing.T) {
		predictions := []float64{0.9, 0.9, 0.9, 0.1, 0.9, 0.9, 0.1, 0.1}
		groups := []string{"priv", "priv", "b", "b", "c", "c", "c", "c"}

		report, err := analyzer.DisparateImpact(predictions, groups, "priv", DefaultClassificationThreshold)
		require.NoError(t, err)

		// priv 1.0, b 0.5, c 0.5 -> min ratio 0.5
		assert.InDelta(t, 0.5, report.Score, 1e-12)
		assert.False(t, report.IsFair)
	})

	t.Run("no other groups falls back to one", func(t *testing.T) {
		report, err := analyzer.DisparateImpact([]float64{0.9, 0.9}, []string{"priv", "priv"}, "priv", DefaultClassificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, 1.0, report.Score)
	})

	t.Run("zero privileged rate falls back to one", func(t *testing.T) {
		report, err := analyzer.DisparateImpact([]float64{0.1, 0.9}, []string{"priv", "other"}, "priv", DefaultClassificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, 1.0, report.Score)
	})
}

func TestComprehensiveCheck(t *testing.T) {
	analyzer := NewAnalyzer(0.8)

	predictions := []float64{0.9, 0.1, 0.9, 0.1}
	groups := []string{"a", "a", "b", "b"}
	labels := []int{1, 0, 1, 0}

	t.Run("parity only", func(t *testing.T) {
		reports, err := analyzer.ComprehensiveCheck(predictions, groups, nil, "")
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, MetricDemographicParity, reports[0].MetricType)
	})

	t.Run("labels add equal opportunity", func(t *testing.T) {
		reports, err := analyzer.ComprehensiveCheck(predictions, groups, labels, "")
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, MetricEqualOpportunity, reports[1].MetricType)
	})

	t.Run("privileged group adds disparate impact", func(t *testing.T) {
		reports, err := analyzer.ComprehensiveCheck(predictions, groups, labels, "a")
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.Equal(t, MetricDemographicParity, reports[0].MetricType)
		assert.Equal(t, MetricEqualOpportunity, reports[1].MetricType)
		assert.Equal(t, MetricDisparateImpact, reports[2].MetricType)
	})

	t.Run("length mismatch propagates", func(t *testing.T) {
		_, err := analyzer.ComprehensiveCheck([]float64{0.9}, groups, nil, "")
		assert.Error(t, err)
	})
}
