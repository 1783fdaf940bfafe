package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesim/linesim/sim/stats"
)

func TestReadSamples_Separators(t *testing.T) {
	src := "# lead times\n15, 17\n19 21\t23;25\n\n27\n"
	got, err := readSamples(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 17, 19, 21, 23, 25, 27}, got)
}

func TestReadSamples_BadNumber(t *testing.T) {
	_, err := readSamples(strings.NewReader("1\n2\nthree\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestAnalyzeSamples(t *testing.T) {
	// GIVEN the reference run's lead times 15, 17, ..., 33
	samples := make([]float64, 10)
	for k := range samples {
		samples[k] = float64(2*k + 15)
	}

	// WHEN analyzed
	var out bytes.Buffer
	require.NoError(t, analyzeSamples(samples, 0.95, &out))

	// THEN the summary matches the sample
	var s stats.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	assert.Equal(t, 24.0, s.Mean)
	assert.Equal(t, 24.0, s.Median)
	assert.Equal(t, 15.0, s.Min)
	assert.Equal(t, 33.0, s.Max)
	assert.Equal(t, 10, s.Count)
	assert.Less(t, s.ConfidenceInterval[0], 24.0)
	assert.Greater(t, s.ConfidenceInterval[1], 24.0)
}

func TestAnalyzeSamples_Empty(t *testing.T) {
	err := analyzeSamples(nil, 0.95, &bytes.Buffer{})
	assert.ErrorIs(t, err, stats.ErrEmptySample)
}
