package onnx

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/gomlx/gomlx/pkg/support/sets"
	"github.com/gomlx/onnx-setdims/internal/protos"
)

// String implements fmt.Stringer, and pretty prints model information, including its inputs and outputs.
func (m *Model) String() string {
	var buf bytes.Buffer
	// w writes to the buffer.
	w := func(format string, args ...any) {
		if len(args) == 0 {
			buf.WriteString(format)
		} else {
			buf.WriteString(fmt.Sprintf(format, args...))
		}
	}
	w("ONNX Model:\n")
	if docString := m.proto.String(protos.ModelDocString); docString != "" {
		w("%s\n", docString)
	}
	if version, _ := m.proto.Int64(protos.ModelVersion); version != 0 {
		w("\tVersion:\t%d\n", version)
	}
	if producer := m.proto.String(protos.ModelProducerName); producer != "" {
		w("\tProducer:\t%s / %s\n", producer, m.proto.String(protos.ModelProducerVersion))
	}
	irVersion, _ := m.proto.Int64(protos.ModelIRVersion)
	w("\tIR Version:\t%d\n", irVersion)
	w("\tOperator Sets:\t[")
	for ii, opSetId := range mustMessages(m.proto, protos.ModelOpsetImport) {
		if ii > 0 {
			w(", ")
		}
		version, _ := opSetId.Int64(protos.OpSetVersion)
		if domain := opSetId.String(protos.OpSetDomain); domain != "" {
			w("v%d (%s)", version, domain)
		} else {
			w("v%d", version)
		}
	}
	w("]\n")

	nodes := mustMessages(m.graph, protos.GraphNode)
	w("\t# nodes:\t%d\n", len(nodes))
	opTypesSet := sets.Make[string]()
	for _, n := range nodes {
		opTypesSet.Insert(n.String(protos.NodeOpType))
	}
	w("\tOp types:\t%#v\n", slices.Sorted(maps.Keys(opTypesSet)))

	if numInitializers := len(m.InitializerNames()); numInitializers > 0 {
		w("\t# initializers:\t%d\n", numInitializers)
	}
	if numFunctions := len(mustMessages(m.proto, protos.ModelFunctions)); numFunctions > 0 {
		w("\t# functions:\t%d\n", numFunctions)
	}

	w("\tInputs:\n")
	for ii, input := range m.Inputs() {
		if input.IsInitializer {
			w("\t\t#%d %q: %s [initializer]\n", ii, input.Name, input.Shape)
		} else {
			w("\t\t#%d %q: %s\n", ii, input.Name, input.Shape)
		}
	}
	w("\tOutputs:\n")
	for ii, output := range m.Outputs() {
		w("\t\t#%d %q: %s\n", ii, output.Name, output.Shape)
	}

	if props := mustMessages(m.proto, protos.ModelMetadataProps); len(props) > 0 {
		w("\tMetadata: [")
		for ii, prop := range props {
			if ii > 0 {
				w(", ")
			}
			w("%s=%s", prop.String(protos.EntryKey), prop.String(protos.EntryValue))
		}
		w("]\n")
	}
	return buf.String()
}
