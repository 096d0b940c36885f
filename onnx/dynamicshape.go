package onnx

import (
	"strconv"
	"strings"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/pkg/errors"
)

// UnnamedDimension is the name used for dynamic dimensions that have no symbolic name (dim_param) in the model.
const UnnamedDimension = "?"

// DynamicShape represents the declared shape of an ONNX input, where some dimensions may be dynamic.
type DynamicShape struct {
	DType dtypes.DType

	// Dimensions holds one value per axis, with -1 for the dynamic ones.
	Dimensions []int

	// Names holds the symbolic name (dim_param) of each dynamic axis, or UnnamedDimension.
	// It is "" for static axes.
	Names []string

	// UnknownRank is set for inputs that don't declare a shape at all.
	UnknownRank bool
}

// Rank returns the number of axes, or -1 if the rank is unknown.
func (s DynamicShape) Rank() int {
	if s.UnknownRank {
		return -1
	}
	return len(s.Dimensions)
}

// IsStatic returns whether the rank and all dimensions are known.
func (s DynamicShape) IsStatic() bool {
	if s.UnknownRank {
		return false
	}
	for _, dim := range s.Dimensions {
		if dim < 0 {
			return false
		}
	}
	return true
}

// ToShape converts a static shape to a GoMLX shape. It fails if the shape is not static or
// the ONNX data type has no GoMLX equivalent.
func (s DynamicShape) ToShape() (shapes.Shape, error) {
	if !s.IsStatic() {
		return shapes.Shape{}, errors.Errorf("shape %s is not static", s)
	}
	if s.DType == dtypes.InvalidDType {
		return shapes.Shape{}, errors.Errorf("shape %s has no supported dtype", s)
	}
	return shapes.Make(s.DType, s.Dimensions...), nil
}

// String implements fmt.Stringer. Dynamic axes are printed with their symbolic names.
func (s DynamicShape) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	if s.DType == dtypes.InvalidDType {
		sb.WriteString("?")
	} else {
		sb.WriteString(s.DType.String())
	}
	sb.WriteString(")")
	if s.UnknownRank {
		sb.WriteString("[unknown rank]")
		return sb.String()
	}
	sb.WriteString("[")
	for axis, dim := range s.Dimensions {
		if axis > 0 {
			sb.WriteString(" ")
		}
		if dim >= 0 {
			sb.WriteString(strconv.Itoa(dim))
			continue
		}
		name := UnnamedDimension
		if axis < len(s.Names) && s.Names[axis] != "" {
			name = s.Names[axis]
		}
		sb.WriteString(name)
	}
	sb.WriteString("]")
	return sb.String()
}
