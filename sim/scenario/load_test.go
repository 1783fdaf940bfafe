package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesim/linesim/sim/internal/testutil"
)

func TestLoad_AllFormatsAgree(t *testing.T) {
	want := referenceConfig()
	for _, name := range []string{"reference.yaml", "reference.json", "reference.hcl"} {
		t.Run(name, func(t *testing.T) {
			// GIVEN the reference scenario in one format
			cfg, err := Load(testutil.Fixture(t, name), nil)

			// THEN it decodes to the same configuration
			require.NoError(t, err)
			assert.Equal(t, want.Source, cfg.Source)
			assert.Equal(t, want.ProcessFlow, cfg.ProcessFlow)
			assert.Equal(t, want.Entities, cfg.Entities)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	// GIVEN a typo in a parameter name
	src := `
entities:
  M: {type: RESOURCE, params: {capacty: 2}}
process_flow: []
source: {number_of_loads: 1, interval: 1, simulation_runtime: 1}
`
	// WHEN decoded strictly
	_, err := Decode(strings.NewReader(src))

	// THEN the typo is reported
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacty")
}

func TestDecode_EmptyDocument(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDecode_OmittedParamsTakeDefaults(t *testing.T) {
	src := `{"entities": {"M": {"type": "RESOURCE"}, "C": {"type": "CONVEYOR"}, "Q": {"type": "QUEUE"}}, ` +
		`"process_flow": [], "source": {"number_of_loads": 0, "interval": 0, "simulation_runtime": 0}}`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Nil(t, cfg.Entities["M"].Params.Capacity)
	assert.Nil(t, cfg.Entities["C"].Params.Velocity)
	assert.NoError(t, cfg.Validate())
}

func TestDecodeHCL_VarOverride(t *testing.T) {
	// GIVEN the HCL reference with machine_time overridden
	src, err := os.ReadFile(testutil.Fixture(t, "reference.hcl"))
	require.NoError(t, err)

	// WHEN decoded with var.machine_time = 7.5
	cfg, err := DecodeHCL(src, "reference.hcl", map[string]string{"machine_time": "7.5"})

	// THEN the override replaces the declared default
	require.NoError(t, err)
	require.NotNil(t, cfg.Entities["MachineA"].Params.ProcessingTime)
	assert.Equal(t, 7.5, *cfg.Entities["MachineA"].Params.ProcessingTime)
}

func TestDecodeHCL_UndeclaredVar(t *testing.T) {
	src, err := os.ReadFile(testutil.Fixture(t, "reference.hcl"))
	require.NoError(t, err)
	_, err = DecodeHCL(src, "reference.hcl", map[string]string{"speed": "3"})
	assert.Error(t, err)
}

func TestDecodeHCL_DistributionsAndSchedule(t *testing.T) {
	src := []byte(`
entity "Press" {
  type = "RESOURCE"
  processing_time_distribution {
    type   = "triangular"
    params = { min = 1, mode = 2, max = 4 }
  }
}

flow {
  type        = "RESOURCE"
  entity_name = "Press"
}

source {
  number_of_loads    = 5
  simulation_runtime = 600
  schedule           = "*/30 * * * *"
  seed               = 9
}
`)
	cfg, err := DecodeHCL(src, "press.hcl", nil)
	require.NoError(t, err)

	dist := cfg.Entities["Press"].Params.ProcessingTimeDistribution
	require.NotNil(t, dist)
	assert.Equal(t, "triangular", dist.Type)
	assert.Equal(t, map[string]float64{"min": 1, "mode": 2, "max": 4}, dist.Params)
	assert.Equal(t, "*/30 * * * *", cfg.Source.Schedule)
	require.NotNil(t, cfg.Source.Seed)
	assert.Equal(t, int64(9), *cfg.Source.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestDecodeHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `entity "A" {`},
		{"missing source", `entity "A" { type = "QUEUE" }`},
		{"duplicate entity", `
entity "A" { type = "QUEUE" }
entity "A" { type = "QUEUE" }
source {
  number_of_loads    = 1
  simulation_runtime = 1
}`},
		{"unknown attribute", `
entity "A" {
  type  = "QUEUE"
  speed = 3
}
source {
  number_of_loads    = 1
  simulation_runtime = 1
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHCL([]byte(tt.src), "bad.hcl", nil)
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.toml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "line-a.json"), []byte("{}"), 0o644))

	path, err := Find(dir, "line-a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "line-a.json"), path)

	_, err = Find(dir, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Find(dir, "../etc")
	assert.Error(t, err)
}
