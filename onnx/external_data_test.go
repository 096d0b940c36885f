package onnx

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

// externalInitializer builds a TensorProto of 4 float32 values, stored in the external file location.
func externalInitializer(name, location string, offset int) *protos.Message {
	t := protos.NewMessage()
	t.AppendInt64(protos.TensorDims, 4)
	t.SetInt64(protos.TensorDataType, int64(protos.TensorProto_FLOAT))
	t.SetString(protos.TensorName, name)
	for _, kv := range [][2]string{{"location", location}, {"offset", strconv.Itoa(offset)}, {"length", "16"}} {
		entry := protos.NewMessage()
		entry.SetString(protos.EntryKey, kv[0])
		entry.SetString(protos.EntryValue, kv[1])
		t.AppendMessage(protos.TensorExternalData, entry)
	}
	t.SetInt64(protos.TensorDataLocation, dataLocationExternal)
	return t
}

func TestExternalData(t *testing.T) {
	m := must.M1(Parse(testGraph{
		inputs: []*protos.Message{tensorValueInfo("x", protos.TensorProto_FLOAT, "batch", 4)},
		initializers: []*protos.Message{
			initializer("bias", 4),
			externalInitializer("w1", "weights.bin", 0),
			externalInitializer("w2", "weights.bin", 16),
			externalInitializer("w3", "more_weights.bin", 0),
		},
	}.encode()))
	require.Equal(t, []string{"weights.bin", "more_weights.bin"}, must.M1(m.ExternalDataFiles()))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weights.bin"), make([]byte, 32), 0o644))
	require.Equal(t, []string{"more_weights.bin"}, must.M1(m.MissingExternalData(dir)))

	t.Run("Truncated", func(t *testing.T) {
		// w2 needs bytes [16, 32) of weights.bin.
		truncatedDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(truncatedDir, "weights.bin"), make([]byte, 20), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(truncatedDir, "more_weights.bin"), make([]byte, 16), 0o644))
		require.Equal(t, []string{"weights.bin"}, must.M1(m.MissingExternalData(truncatedDir)))
	})

	t.Run("InvalidOffset", func(t *testing.T) {
		tensor := externalInitializer("w", "weights.bin", 0)
		entry := protos.NewMessage()
		entry.SetString(protos.EntryKey, "offset")
		entry.SetString(protos.EntryValue, "-8")
		tensor.AppendMessage(protos.TensorExternalData, entry)
		bad := must.M1(Parse(testGraph{initializers: []*protos.Message{tensor}}.encode()))
		_, err := bad.MissingExternalData(dir)
		require.ErrorContains(t, err, "invalid external data offset")
	})

	t.Run("NoExternalData", func(t *testing.T) {
		m := must.M1(Parse(testGraph{initializers: []*protos.Message{initializer("bias", 4)}}.encode()))
		require.Empty(t, must.M1(m.ExternalDataFiles()))
		require.Empty(t, must.M1(m.MissingExternalData(dir)))
	})
}
