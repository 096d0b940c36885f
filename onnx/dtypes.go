package onnx

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/pkg/errors"
)

// onnxToDType maps the ONNX tensor element types with a GoMLX equivalent.
var onnxToDType = map[protos.TensorProto_DataType]dtypes.DType{
	protos.TensorProto_FLOAT:      dtypes.Float32,
	protos.TensorProto_FLOAT16:    dtypes.Float16,
	protos.TensorProto_BFLOAT16:   dtypes.BFloat16,
	protos.TensorProto_DOUBLE:     dtypes.Float64,
	protos.TensorProto_INT8:       dtypes.Int8,
	protos.TensorProto_INT16:      dtypes.Int16,
	protos.TensorProto_INT32:      dtypes.Int32,
	protos.TensorProto_INT64:      dtypes.Int64,
	protos.TensorProto_UINT8:      dtypes.Uint8,
	protos.TensorProto_UINT16:     dtypes.Uint16,
	protos.TensorProto_UINT32:     dtypes.Uint32,
	protos.TensorProto_UINT64:     dtypes.Uint64,
	protos.TensorProto_BOOL:       dtypes.Bool,
	protos.TensorProto_COMPLEX64:  dtypes.Complex64,
	protos.TensorProto_COMPLEX128: dtypes.Complex128,
}

// dtypeForONNX converts an ONNX element type to a GoMLX dtype. Types without an equivalent (strings,
// float8 variants, 4-bit integers) return dtypes.InvalidDType and an error: their inputs can still be
// reshaped, they are only printed with an unknown dtype.
func dtypeForONNX(onnxDType protos.TensorProto_DataType) (dtypes.DType, error) {
	if dtype, found := onnxToDType[onnxDType]; found {
		return dtype, nil
	}
	return dtypes.InvalidDType, errors.Errorf("ONNX data type %s has no GoMLX equivalent", onnxDType)
}
