package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScenario_OK(t *testing.T) {
	for _, name := range []string{"reference.yaml", "reference.json", "reference.hcl", "stochastic.yaml"} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, validateScenario(fixture(name), nil, &out))
			assert.Contains(t, out.String(), ": ok (")
		})
	}
}

func TestValidateScenario_ListsEveryProblem(t *testing.T) {
	// GIVEN a scenario with two defects
	src := mustRead(t, fixture("reference.yaml"))
	src = strings.ReplaceAll(src, "velocity: 2", "velocity: 0")
	src = strings.ReplaceAll(src, "interval: 3", "interval: -3")
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	// WHEN validated
	var out bytes.Buffer
	err := validateScenario(path, nil, &out)

	// THEN both are printed and the command fails
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 configuration problem(s)")
	assert.Contains(t, out.String(), "MainConveyor.velocity")
	assert.Contains(t, out.String(), "source.interval")
}

func TestValidateScenario_RequiresPath(t *testing.T) {
	assert.Error(t, validateScenario("", nil, &bytes.Buffer{}))
}
