package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReportConfig_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		verify  func(t *testing.T, config *ReportConfig)
	}{
		{
			name: "valid minimal config",
			yaml: `
version: "1.0.0"
metadata:
  name: "term"
units:
  - id: average
    type: class_average
`,
			verify: func(t *testing.T, config *ReportConfig) {
				assert.Equal(t, "1.0.0", config.Version)
				assert.Equal(t, "term", config.Metadata.Name)
				require.Len(t, config.Units, 1)
				assert.Equal(t, "average", config.Units[0].ID)
				assert.Zero(t, config.Units[0].Parameters.Kind)
				assert.Zero(t, config.Concurrency)
			},
		},
		{
			name: "parameters are kept as a mapping node",
			yaml: `
version: "1.0.0"
metadata: {name: term}
concurrency: 4
units:
  - id: podium
    type: top_scorers
    parameters:
      course: math
      limit: 5
`,
			verify: func(t *testing.T, config *ReportConfig) {
				assert.Equal(t, 4, config.Concurrency)
				params := config.Units[0].Parameters
				assert.Equal(t, yaml.MappingNode, params.Kind)

				decoded, err := decodeParameters(params)
				require.NoError(t, err)
				assert.Equal(t, "math", decoded["course"])
				assert.Equal(t, 5, decoded["limit"])
			},
		},
		{
			name:    "units must be a list",
			yaml:    "version: 1.0.0\nmetadata: {name: x}\nunits: average\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "version: 1.0.0\n  metadata: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var config ReportConfig
			err := yaml.Unmarshal([]byte(tt.yaml), &config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.verify(t, &config)
		})
	}
}

func TestReportConfig_Validation(t *testing.T) {
	loader := newTestLoader(t)

	valid := func() *ReportConfig {
		return &ReportConfig{
			Version:  "1.0.0",
			Metadata: Metadata{Name: "term"},
			Units:    []UnitConfig{{ID: "average", Type: "class_average"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *ReportConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*ReportConfig) {}},
		{name: "missing version", mutate: func(c *ReportConfig) { c.Version = "" }, wantErr: "Version"},
		{name: "missing name", mutate: func(c *ReportConfig) { c.Metadata.Name = "" }, wantErr: "Name"},
		{name: "empty tag", mutate: func(c *ReportConfig) { c.Metadata.Tags = []string{""} }, wantErr: "Tags"},
		{name: "concurrency too high", mutate: func(c *ReportConfig) { c.Concurrency = 65 }, wantErr: "Concurrency"},
		{name: "negative concurrency", mutate: func(c *ReportConfig) { c.Concurrency = -1 }, wantErr: "Concurrency"},
		{name: "missing unit type", mutate: func(c *ReportConfig) { c.Units[0].Type = "" }, wantErr: "Type"},
		{
			name: "too many units",
			mutate: func(c *ReportConfig) {
				c.Units = make([]UnitConfig, 101)
				for i := range c.Units {
					c.Units[i] = UnitConfig{ID: "u", Type: "at_risk"}
				}
			},
			wantErr: "Units",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := loader.validateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
