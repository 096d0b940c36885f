package ortcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func TestInput(t *testing.T) {
	in := Input{Name: "x", Dimensions: []int64{1, -1, 3}}
	require.False(t, in.IsStatic())
	require.Equal(t, `"x": [1 -1 3]`, in.String())
	in.Dimensions[1] = 224
	require.True(t, in.IsStatic())
}

func TestInputShapesWithoutLibrary(t *testing.T) {
	_, err := InputShapes("", "model.onnx")
	require.ErrorContains(t, err, LibraryPathEnv)
}

// TestInputShapes only runs if ONNX Runtime is available and ORT_TEST_MODEL points to a model with static inputs.
func TestInputShapes(t *testing.T) {
	libPath := LibraryPath()
	modelPath := os.Getenv("ORT_TEST_MODEL")
	if libPath == "" || modelPath == "" {
		t.Skipf("set %s and ORT_TEST_MODEL to run this test", LibraryPathEnv)
	}
	inputs := must.M1(InputShapes(libPath, must.M1(filepath.Abs(modelPath))))
	require.NotEmpty(t, inputs)
	for _, in := range inputs {
		require.Truef(t, in.IsStatic(), "input %s", in)
	}
}
