package onnx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFilePath(t *testing.T) {
	tests := []struct {
		path, suffix, expected string
	}{
		{"foo.onnx", DefaultSuffix, "foo_static.onnx"},
		{filepath.Join("a", "b", "c.model"), DefaultSuffix, filepath.Join("a", "b", "c_static.model")},
		{"archive.tar.onnx", DefaultSuffix, "archive.tar_static.onnx"},
		{"model", DefaultSuffix, "model_static"},
		{filepath.Join("dir.v1", "model"), DefaultSuffix, filepath.Join("dir.v1", "model_static")},
		{".model", DefaultSuffix, ".model_static"},
		{"model.onnx", "-fixed", "model-fixed.onnx"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, StaticFilePath(tt.path, tt.suffix))
		})
	}
}

func TestParseDimensions(t *testing.T) {
	dims, err := ParseDimensions("1", "224", "224", "3")
	require.NoError(t, err)
	require.Equal(t, []int{1, 224, 224, 3}, dims)

	dims, err = ParseDimensions("1 224\t224 3")
	require.NoError(t, err)
	require.Equal(t, []int{1, 224, 224, 3}, dims)

	dims, err = ParseDimensions("1,128", " 7 ")
	require.NoError(t, err)
	require.Equal(t, []int{1, 128, 7}, dims)

	_, err = ParseDimensions("1", "x")
	require.ErrorContains(t, err, `"x"`)

	_, err = ParseDimensions("1.5")
	require.Error(t, err)

	_, err = ParseDimensions("-3")
	require.ErrorContains(t, err, "negative")

	_, err = ParseDimensions(" ", ",")
	require.ErrorContains(t, err, "empty shape")
}
