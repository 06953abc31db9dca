package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var abcd = []string{"A", "B", "C", "D"}

func TestReport(t *testing.T) {
	res, err := Report([]float32{0.1, 0.7, 0.05, 0.15}, abcd)
	require.NoError(t, err)

	assert.Equal(t, "B", res.TopLabel)
	assert.Equal(t, 1, res.TopIndex)
	assert.Equal(t, float32(0.7), res.Confidence)
	assert.Equal(t, "A: 10.0%\nB: 70.0%\nC: 5.0%\nD: 15.0%\n", res.Text)
	assert.Equal(t, []LabelScore{
		{"A", 0.1}, {"B", 0.7}, {"C", 0.05}, {"D", 0.15},
	}, res.Scores)
}

func TestReport_AllNegativePicksFirst(t *testing.T) {
	res, err := Report([]float32{-0.1, -0.2, -0.05, -0.3}, abcd)
	require.NoError(t, err)
	assert.Equal(t, "A", res.TopLabel)
	assert.Equal(t, 0, res.TopIndex)
}

func TestReporter_NegativeInfinityFloor(t *testing.T) {
	r := Reporter{ZeroFloor: false}

	res, err := r.Report([]float32{-0.1, -0.2, -0.05, -0.3}, abcd)
	require.NoError(t, err)
	assert.Equal(t, "C", res.TopLabel)

	res, err = r.Report([]float32{0.1, 0.7, 0.05, 0.15}, abcd)
	require.NoError(t, err)
	assert.Equal(t, "B", res.TopLabel)
}

func TestReport_TiesKeepFirst(t *testing.T) {
	res, err := Report([]float32{0.25, 0.25, 0.25, 0.25}, abcd)
	require.NoError(t, err)
	assert.Equal(t, "A", res.TopLabel)

	res, err = Report([]float32{0.1, 0.4, 0.4, 0.1}, abcd)
	require.NoError(t, err)
	assert.Equal(t, "B", res.TopLabel)
}

func TestReport_LineOrderFollowsLabels(t *testing.T) {
	res, err := Report([]float32{0, 0.9, 0.05, 0.05}, []string{"z", "y", "x", "w"})
	require.NoError(t, err)
	assert.Equal(t, "z: 0.0%\ny: 90.0%\nx: 5.0%\nw: 5.0%\n", res.Text)
}

func TestReport_Idempotent(t *testing.T) {
	scores := []float32{0.3, 0.2, 0.4, 0.1}
	a, err := Report(scores, abcd)
	require.NoError(t, err)
	b, err := Report(scores, abcd)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReport_InvalidArgument(t *testing.T) {
	_, err := Report([]float32{0.5, 0.5}, abcd)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Report(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
