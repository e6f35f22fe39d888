package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgql/config"
)

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.True(t, cfg.AutoCamelCase)
	assert.True(t, cfg.PartialNullable)
	assert.False(t, cfg.StrictHints)
	assert.NotNil(t, cfg.Scalars)
	assert.Empty(t, cfg.Scalars, "column types keep their builtin scalars")
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *config.Config
		wantErr string
	}{
		{
			name:  "empty",
			input: "",
			want:  config.Default(),
		},
		{
			name:  "partial_keys_keep_defaults",
			input: "strict_hints: true\n",
			want: &config.Config{
				AutoCamelCase:   true,
				StrictHints:     true,
				PartialNullable: true,
				Scalars:         map[string]string{},
			},
		},
		{
			name:  "full",
			input: "auto_camel_case: false\npartial_nullable: false\nscalars:\n  json: Map\n  decimal: String\n",
			want: &config.Config{
				Scalars: map[string]string{"json": "Map", "decimal": "String"},
			},
		},
		{
			name:    "unknown_column_type",
			input:   "scalars:\n  geometry: Geo\n",
			wantErr: "unknown column type",
		},
		{
			name:    "empty_scalar",
			input:   "scalars:\n  json: \"\"\n",
			wantErr: "empty scalar",
		},
		{
			name:    "malformed",
			input:   "auto_camel_case: [",
			wantErr: "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "modelgql.yml")
	cfg := config.Default()
	cfg.StrictHints = true
	cfg.Scalars["uuid"] = "ID"
	require.NoError(t, config.Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strict_hints: true")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMergerOptions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Scalars["json"] = "Map"
	cfg.Scalars["decimal"] = "String"
	opts, err := cfg.MergerOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	cfg.Scalars["nope"] = "X"
	_, err = cfg.MergerOptions()
	assert.Error(t, err)
}
