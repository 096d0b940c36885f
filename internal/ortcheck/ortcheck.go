// Package ortcheck loads a model with ONNX Runtime to check the input shapes it reports.
//
// It requires the ONNX Runtime shared library, whose path is usually given by the ORT_SO_PATH environment variable.
package ortcheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// LibraryPathEnv is the environment variable with the path to the ONNX Runtime shared library.
const LibraryPathEnv = "ORT_SO_PATH"

// Input is a model input as reported by ONNX Runtime. Dynamic dimensions are reported as -1.
type Input struct {
	Name       string
	Dimensions []int64
}

// IsStatic returns whether all dimensions are known.
func (in Input) IsStatic() bool {
	for _, dim := range in.Dimensions {
		if dim < 0 {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (in Input) String() string {
	parts := make([]string, len(in.Dimensions))
	for ii, dim := range in.Dimensions {
		parts[ii] = fmt.Sprint(dim)
	}
	return fmt.Sprintf("%q: [%s]", in.Name, strings.Join(parts, " "))
}

// LibraryPath returns the configured path to the ONNX Runtime library, or "" if not set.
func LibraryPath() string {
	return os.Getenv(LibraryPathEnv)
}

// InputShapes loads the model in modelPath with ONNX Runtime (loaded from libPath) and returns its inputs.
func InputShapes(libPath, modelPath string) ([]Input, error) {
	if libPath == "" {
		return nil, errors.Errorf("path to the ONNX Runtime shared library not given, please set %s", LibraryPathEnv)
	}
	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, errors.Wrapf(err, "failed to initialize ONNX Runtime from %s", libPath)
	}
	defer func() { _ = ort.DestroyEnvironment() }()

	infos, _, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "ONNX Runtime failed to load %s", modelPath)
	}
	inputs := make([]Input, 0, len(infos))
	for _, info := range infos {
		inputs = append(inputs, Input{Name: info.Name, Dimensions: []int64(info.Dimensions)})
	}
	return inputs, nil
}
