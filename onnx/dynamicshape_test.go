package onnx

import (
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func TestDynamicShape(t *testing.T) {
	s := DynamicShape{DType: dtypes.Float32, Dimensions: []int{-1, 224, -1}, Names: []string{"batch", "", ""}}
	require.Equal(t, "(Float32)[batch 224 ?]", s.String())
	require.Equal(t, 3, s.Rank())
	require.False(t, s.IsStatic())
	_, err := s.ToShape()
	require.Error(t, err)

	s = DynamicShape{DType: dtypes.Int32, Dimensions: []int{1, 128}}
	require.True(t, s.IsStatic())
	shape := must.M1(s.ToShape())
	require.Equal(t, dtypes.Int32, shape.DType)
	require.Equal(t, []int{1, 128}, shape.Dimensions)

	s = DynamicShape{DType: dtypes.InvalidDType, UnknownRank: true}
	require.Equal(t, -1, s.Rank())
	require.False(t, s.IsStatic())
	require.Equal(t, "(?)[unknown rank]", s.String())
}
