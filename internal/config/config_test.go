package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/onnx-setdims/onnx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, onnx.DefaultSuffix, cfg.Suffix)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.InputShapes)
	assert.Nil(t, cfg.NamedShapesMap())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "setdims.yaml", `
input_shapes:
  - [1, 224, 224, 3]
  - [1, 10]
named_shapes:
  - name: Input_IDs
    dims: [1, 128]
suffix: _fixed
`)
	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 224, 224, 3}, {1, 10}}, cfg.InputShapes)
	assert.Equal(t, map[string][]int{"Input_IDs": {1, 128}}, cfg.NamedShapesMap())
	assert.Equal(t, "_fixed", cfg.Suffix)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv(EnvPrefix+"_SUFFIX", "_env")
	t.Setenv("ORT_SO_PATH", "/opt/onnxruntime/lib/libonnxruntime.so")
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "_env", cfg.Suffix)
	assert.Equal(t, "/opt/onnxruntime/lib/libonnxruntime.so", cfg.OrtLibrary)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		expected string
	}{
		{
			name:     "negative dimension",
			contents: "input_shapes:\n  - [1, -1]\n",
			expected: "input_shapes[0]",
		},
		{
			name:     "empty shape",
			contents: "input_shapes:\n  - []\n",
			expected: "empty shape",
		},
		{
			name:     "missing name",
			contents: "named_shapes:\n  - dims: [1]\n",
			expected: "missing name",
		},
		{
			name:     "duplicate name",
			contents: "named_shapes:\n  - name: x\n    dims: [1]\n  - name: x\n    dims: [2]\n",
			expected: "more than once",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, "config.yaml", tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
