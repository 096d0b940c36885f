package onnx

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/support/sets"
	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// InputInfo describes one of the graph inputs.
type InputInfo struct {
	Name  string
	Shape DynamicShape

	// IsInitializer is set for inputs that are backed by a constant (an initializer) in the graph,
	// as older ONNX exporters list weights as inputs as well.
	IsInitializer bool
}

// Inputs returns all graph inputs, in graph order, including the ones backed by initializers.
func (m *Model) Inputs() []InputInfo {
	initializers := m.initializerSet()
	valueInfos := mustMessages(m.graph, protos.GraphInput)
	inputs := make([]InputInfo, 0, len(valueInfos))
	for _, vi := range valueInfos {
		name := vi.String(protos.ValueInfoName)
		inputs = append(inputs, InputInfo{
			Name:          name,
			Shape:         valueInfoShape(vi),
			IsInitializer: initializers.Has(name),
		})
	}
	return inputs
}

// ExternalInputs returns the graph inputs that are not initializers, that is, the ones that have to be
// fed at execution time. The order of the graph is preserved.
func (m *Model) ExternalInputs() []InputInfo {
	var external []InputInfo
	for _, input := range m.Inputs() {
		if !input.IsInitializer {
			external = append(external, input)
		}
	}
	return external
}

// Outputs returns the graph outputs.
func (m *Model) Outputs() []InputInfo {
	valueInfos := mustMessages(m.graph, protos.GraphOutput)
	outputs := make([]InputInfo, 0, len(valueInfos))
	for _, vi := range valueInfos {
		outputs = append(outputs, InputInfo{
			Name:  vi.String(protos.ValueInfoName),
			Shape: valueInfoShape(vi),
		})
	}
	return outputs
}

// InitializerNames returns the names of the constant tensors of the graph: dense initializers first,
// followed by the sparse ones.
func (m *Model) InitializerNames() []string {
	var names []string
	for _, tensor := range mustMessages(m.graph, protos.GraphInitializer) {
		names = append(names, tensor.String(protos.TensorName))
	}
	for _, sparse := range mustMessages(m.graph, protos.GraphSparseInitializer) {
		values := mustMessage(sparse, protos.SparseTensorValues)
		if values != nil {
			names = append(names, values.String(protos.TensorName))
		}
	}
	return names
}

func (m *Model) initializerSet() sets.Set[string] {
	return sets.MakeWith(m.InitializerNames()...)
}

// externalValueInfos returns the ValueInfoProto messages of the external inputs, in graph order.
func (m *Model) externalValueInfos() []*protos.Message {
	initializers := m.initializerSet()
	var external []*protos.Message
	for _, vi := range mustMessages(m.graph, protos.GraphInput) {
		if !initializers.Has(vi.String(protos.ValueInfoName)) {
			external = append(external, vi)
		}
	}
	return external
}

// mustMessages returns the sub-messages in field num, and panics if they can't be decoded.
func mustMessages(msg *protos.Message, num protowire.Number) []*protos.Message {
	msgs, err := msg.Messages(num)
	if err != nil {
		panic(errors.WithMessagef(err, "while decoding field #%d", num))
	}
	return msgs
}

// mustMessage returns the sub-message in field num (or nil if absent), and panics if it can't be decoded.
func mustMessage(msg *protos.Message, num protowire.Number) *protos.Message {
	sub, err := msg.Message(num)
	if err != nil {
		panic(errors.WithMessagef(err, "while decoding field #%d", num))
	}
	return sub
}

// tensorType returns the TypeProto.Tensor (or TypeProto.SparseTensor, which has the same layout) of a
// ValueInfoProto, or nil if it doesn't describe a tensor.
func tensorType(vi *protos.Message) *protos.Message {
	typ := mustMessage(vi, protos.ValueInfoType)
	if typ == nil {
		return nil
	}
	if tt := mustMessage(typ, protos.TypeTensorType); tt != nil {
		return tt
	}
	return mustMessage(typ, protos.TypeSparseTensorType)
}

// shapeDims returns the TensorShapeProto.Dimension messages of a ValueInfoProto. known is false if
// the value is not a tensor or if it doesn't declare a shape.
func shapeDims(vi *protos.Message) (dims []*protos.Message, known bool) {
	tt := tensorType(vi)
	if tt == nil {
		return nil, false
	}
	shape := mustMessage(tt, protos.TensorTypeShape)
	if shape == nil {
		return nil, false
	}
	return mustMessages(shape, protos.ShapeDim), true
}

// valueInfoShape converts the type of a ValueInfoProto to a DynamicShape.
func valueInfoShape(vi *protos.Message) DynamicShape {
	var shape DynamicShape
	if tt := tensorType(vi); tt != nil {
		elemType, _ := tt.Int64(protos.TensorTypeElemType)
		shape.DType, _ = dtypeForONNX(protos.TensorProto_DataType(elemType))
	} else {
		shape.DType = dtypes.InvalidDType
	}
	dims, known := shapeDims(vi)
	if !known {
		shape.UnknownRank = true
		return shape
	}
	shape.Dimensions = make([]int, len(dims))
	shape.Names = make([]string, len(dims))
	for axis, dim := range dims {
		if value, found := dim.Int64(protos.DimValue); found {
			shape.Dimensions[axis] = int(value)
			continue
		}
		shape.Dimensions[axis] = -1
		shape.Names[axis] = UnnamedDimension
		if param := dim.String(protos.DimParam); param != "" {
			shape.Names[axis] = param
		}
	}
	return shape
}

// checkGraph panics if any of the messages read by this package can't be decoded.
func (m *Model) checkGraph() {
	for _, vi := range mustMessages(m.graph, protos.GraphInput) {
		_ = valueInfoShape(vi)
	}
	for _, vi := range mustMessages(m.graph, protos.GraphOutput) {
		_ = valueInfoShape(vi)
	}
	_ = m.InitializerNames()
	_ = mustMessages(m.graph, protos.GraphNode)
	_ = mustMessages(m.proto, protos.ModelOpsetImport)
	_ = mustMessages(m.proto, protos.ModelMetadataProps)
	_ = mustMessages(m.proto, protos.ModelFunctions)
}
