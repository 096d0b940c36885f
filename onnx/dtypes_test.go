package onnx

import (
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func TestDTypeForONNX(t *testing.T) {
	require.Equal(t, dtypes.Float32, must.M1(dtypeForONNX(protos.TensorProto_FLOAT)))
	require.Equal(t, dtypes.Int64, must.M1(dtypeForONNX(protos.TensorProto_INT64)))
	require.Equal(t, dtypes.BFloat16, must.M1(dtypeForONNX(protos.TensorProto_BFLOAT16)))

	dtype, err := dtypeForONNX(protos.TensorProto_STRING)
	require.Error(t, err)
	require.Equal(t, dtypes.InvalidDType, dtype)

	// String inputs are listed with an unknown dtype, but their dimensions can still be set.
	m := must.M1(Parse(testGraph{
		inputs: []*protos.Message{tensorValueInfo("text", protos.TensorProto_STRING, "batch")},
	}.encode()))
	require.Equal(t, "(?)[batch]", m.ExternalInputs()[0].Shape.String())
	must.M1(m.SetInputDimensions([][]int{{2}}))
	require.Equal(t, "(?)[2]", m.ExternalInputs()[0].Shape.String())
}
