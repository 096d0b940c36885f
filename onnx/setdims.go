package onnx

import (
	"fmt"
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/pkg/support/sets"
	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	// ErrMissingShape is returned when fewer shapes than external inputs are given.
	ErrMissingShape = errors.New("missing input shape")

	// ErrRankMismatch is returned when a shape has more dimensions than the input it's assigned to.
	ErrRankMismatch = errors.New("more dimensions than the input rank")

	// ErrUnknownRank is returned when an input to be changed doesn't declare a tensor shape.
	ErrUnknownRank = errors.New("input has no tensor shape")

	// ErrUnknownInput is returned when a shape is assigned by name to an input that doesn't exist or is
	// an initializer.
	ErrUnknownInput = errors.New("unknown external input")
)

// DimChange reports one dimension overwritten by Model.SetInputDimensions.
type DimChange struct {
	Input string
	Axis  int

	// OldValue is the previous dimension, -1 if it was dynamic, in which case OldName holds its
	// symbolic name (or UnnamedDimension).
	OldValue int
	OldName  string

	NewValue int
}

// Original returns a description of the previous dimension value.
func (c DimChange) Original() string {
	if c.OldValue >= 0 {
		return strconv.Itoa(c.OldValue)
	}
	return fmt.Sprintf("%q", c.OldName)
}

// String implements fmt.Stringer.
func (c DimChange) String() string {
	return fmt.Sprintf("Setting dim #%d to %d (original value %s)", c.Axis, c.NewValue, c.Original())
}

// SetInputDimensions overwrites the dimensions of the external inputs (see Model.ExternalInputs) with static values.
//
// shapes[i] holds the new dimensions of the i-th external input: for each axis j < len(shapes[i]), the axis is
// set to shapes[i][j], regardless of whether it was static or dynamic before. Axes beyond len(shapes[i]) are left
// untouched. Inputs backed by initializers are never changed.
//
// It fails with ErrMissingShape if there are fewer shapes than external inputs, and with ErrRankMismatch if a
// shape has more dimensions than its input. Extra shapes are ignored.
// All shapes are validated before any change is made, so on error the model is left unchanged.
func (m *Model) SetInputDimensions(shapes [][]int) (changes []DimChange, err error) {
	err = exceptions.TryCatch[error](func() {
		valueInfos := m.externalValueInfos()
		if len(shapes) < len(valueInfos) {
			panic(errors.Wrapf(ErrMissingShape, "model has %d external inputs, but only %d shapes were given",
				len(valueInfos), len(shapes)))
		}
		if len(shapes) > len(valueInfos) {
			klog.Warningf("%d shapes given, but the model has only %d external inputs: extra shapes ignored",
				len(shapes), len(valueInfos))
		}
		assignments := make([]assignment, len(valueInfos))
		for ii, vi := range valueInfos {
			assignments[ii] = makeAssignment(vi, shapes[ii])
		}
		changes = applyAssignments(assignments)
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// SetInputDimensionsByName is like SetInputDimensions, but the shapes are given per external input name.
// Inputs not present in shapes are left untouched, and it fails with ErrUnknownInput if a name is not an
// external input of the model.
//
// Changes are reported in graph order.
func (m *Model) SetInputDimensionsByName(shapes map[string][]int) (changes []DimChange, err error) {
	err = exceptions.TryCatch[error](func() {
		valueInfos := m.externalValueInfos()
		byName := sets.Make[string](len(valueInfos))
		for _, vi := range valueInfos {
			byName.Insert(vi.String(protos.ValueInfoName))
		}
		for name := range shapes {
			if !byName.Has(name) {
				panic(errors.Wrapf(ErrUnknownInput, "%q", name))
			}
		}
		var assignments []assignment
		for _, vi := range valueInfos {
			if dims, found := shapes[vi.String(protos.ValueInfoName)]; found {
				assignments = append(assignments, makeAssignment(vi, dims))
			}
		}
		changes = applyAssignments(assignments)
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// assignment of new dimensions to one input, already validated.
type assignment struct {
	name    string
	current DynamicShape
	dims    []*protos.Message
	values  []int
}

// makeAssignment validates the new dimensions for the input and panics if they can't be applied.
func makeAssignment(vi *protos.Message, values []int) assignment {
	name := vi.String(protos.ValueInfoName)
	dims, known := shapeDims(vi)
	if !known {
		panic(errors.Wrapf(ErrUnknownRank, "input %q", name))
	}
	if len(values) > len(dims) {
		panic(errors.Wrapf(ErrRankMismatch, "input %q has rank %d, but %d dimensions were given %v",
			name, len(dims), len(values), values))
	}
	for axis, value := range values {
		if value < 0 {
			exceptions.Panicf("input %q: invalid negative dimension %d for axis #%d", name, value, axis)
		}
	}
	return assignment{name: name, current: valueInfoShape(vi), dims: dims, values: values}
}

func applyAssignments(assignments []assignment) (changes []DimChange) {
	for _, a := range assignments {
		for axis, value := range a.values {
			change := DimChange{
				Input:    a.name,
				Axis:     axis,
				OldValue: a.current.Dimensions[axis],
				OldName:  a.current.Names[axis],
				NewValue: value,
			}
			klog.V(1).Infof("input %q: %s", a.name, change)
			dim := a.dims[axis]
			dim.Clear(protos.DimParam)
			dim.SetInt64(protos.DimValue, int64(value))
			changes = append(changes, change)
		}
	}
	return changes
}
