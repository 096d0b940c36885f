package protos

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the ONNX messages (onnx/onnx.proto) used by this project.

// ModelProto
const (
	ModelIRVersion       protowire.Number = 1
	ModelProducerName    protowire.Number = 2
	ModelProducerVersion protowire.Number = 3
	ModelVersion         protowire.Number = 5
	ModelDocString       protowire.Number = 6
	ModelGraph           protowire.Number = 7
	ModelOpsetImport     protowire.Number = 8
	ModelMetadataProps   protowire.Number = 14
	ModelFunctions       protowire.Number = 25
)

// GraphProto
const (
	GraphNode              protowire.Number = 1
	GraphName              protowire.Number = 2
	GraphInitializer       protowire.Number = 5
	GraphInput             protowire.Number = 11
	GraphOutput            protowire.Number = 12
	GraphSparseInitializer protowire.Number = 15
)

// NodeProto
const (
	NodeInput  protowire.Number = 1
	NodeOutput protowire.Number = 2
	NodeOpType protowire.Number = 4
)

// ValueInfoProto
const (
	ValueInfoName protowire.Number = 1
	ValueInfoType protowire.Number = 2
)

// TypeProto: only the tensor variants of the "value" oneof are named.
const (
	TypeTensorType       protowire.Number = 1
	TypeSparseTensorType protowire.Number = 8
)

// TypeProto.Tensor and TypeProto.SparseTensor share the same layout.
const (
	TensorTypeElemType protowire.Number = 1
	TensorTypeShape    protowire.Number = 2
)

// TensorShapeProto
const (
	ShapeDim protowire.Number = 1
)

// TensorShapeProto.Dimension: DimValue and DimParam form the "value" oneof.
const (
	DimValue      protowire.Number = 1
	DimParam      protowire.Number = 2
	DimDenotation protowire.Number = 3
)

// TensorProto
const (
	TensorDims         protowire.Number = 1
	TensorDataType     protowire.Number = 2
	TensorName         protowire.Number = 8
	TensorRawData      protowire.Number = 9
	TensorExternalData protowire.Number = 13
	TensorDataLocation protowire.Number = 14
)

// SparseTensorProto
const (
	SparseTensorValues protowire.Number = 1
)

// OperatorSetIdProto
const (
	OpSetDomain  protowire.Number = 1
	OpSetVersion protowire.Number = 2
)

// StringStringEntryProto
const (
	EntryKey   protowire.Number = 1
	EntryValue protowire.Number = 2
)

// TensorProto_DataType is the ONNX TensorProto.DataType enum, used as TypeProto.Tensor.elem_type.
type TensorProto_DataType int32

const (
	TensorProto_UNDEFINED      TensorProto_DataType = 0
	TensorProto_FLOAT          TensorProto_DataType = 1
	TensorProto_UINT8          TensorProto_DataType = 2
	TensorProto_INT8           TensorProto_DataType = 3
	TensorProto_UINT16         TensorProto_DataType = 4
	TensorProto_INT16          TensorProto_DataType = 5
	TensorProto_INT32          TensorProto_DataType = 6
	TensorProto_INT64          TensorProto_DataType = 7
	TensorProto_STRING         TensorProto_DataType = 8
	TensorProto_BOOL           TensorProto_DataType = 9
	TensorProto_FLOAT16        TensorProto_DataType = 10
	TensorProto_DOUBLE         TensorProto_DataType = 11
	TensorProto_UINT32         TensorProto_DataType = 12
	TensorProto_UINT64         TensorProto_DataType = 13
	TensorProto_COMPLEX64      TensorProto_DataType = 14
	TensorProto_COMPLEX128     TensorProto_DataType = 15
	TensorProto_BFLOAT16       TensorProto_DataType = 16
	TensorProto_FLOAT8E4M3FN   TensorProto_DataType = 17
	TensorProto_FLOAT8E4M3FNUZ TensorProto_DataType = 18
	TensorProto_FLOAT8E5M2     TensorProto_DataType = 19
	TensorProto_FLOAT8E5M2FNUZ TensorProto_DataType = 20
	TensorProto_UINT4          TensorProto_DataType = 21
	TensorProto_INT4           TensorProto_DataType = 22
	TensorProto_FLOAT4E2M1     TensorProto_DataType = 23
)

var dataTypeNames = map[TensorProto_DataType]string{
	TensorProto_UNDEFINED:      "UNDEFINED",
	TensorProto_FLOAT:          "FLOAT",
	TensorProto_UINT8:          "UINT8",
	TensorProto_INT8:           "INT8",
	TensorProto_UINT16:         "UINT16",
	TensorProto_INT16:          "INT16",
	TensorProto_INT32:          "INT32",
	TensorProto_INT64:          "INT64",
	TensorProto_STRING:         "STRING",
	TensorProto_BOOL:           "BOOL",
	TensorProto_FLOAT16:        "FLOAT16",
	TensorProto_DOUBLE:         "DOUBLE",
	TensorProto_UINT32:         "UINT32",
	TensorProto_UINT64:         "UINT64",
	TensorProto_COMPLEX64:      "COMPLEX64",
	TensorProto_COMPLEX128:     "COMPLEX128",
	TensorProto_BFLOAT16:       "BFLOAT16",
	TensorProto_FLOAT8E4M3FN:   "FLOAT8E4M3FN",
	TensorProto_FLOAT8E4M3FNUZ: "FLOAT8E4M3FNUZ",
	TensorProto_FLOAT8E5M2:     "FLOAT8E5M2",
	TensorProto_FLOAT8E5M2FNUZ: "FLOAT8E5M2FNUZ",
	TensorProto_UINT4:          "UINT4",
	TensorProto_INT4:           "INT4",
	TensorProto_FLOAT4E2M1:     "FLOAT4E2M1",
}

// String implements fmt.Stringer.
func (dt TensorProto_DataType) String() string {
	if name, found := dataTypeNames[dt]; found {
		return name
	}
	return fmt.Sprintf("TensorProto_DataType(%d)", int32(dt))
}
