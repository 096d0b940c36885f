package onnx

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// DefaultSuffix is appended to the model file name (before the extension) by StaticFilePath.
const DefaultSuffix = "_static"

// StaticFilePath returns the path where a model read from filePath is saved after its inputs are made static:
// suffix is inserted before the file extension, e.g. "a/b/model.onnx" becomes "a/b/model_static.onnx".
//
// Leading dots of the file name are not taken as an extension: ".model" becomes ".model_static".
func StaticFilePath(filePath, suffix string) string {
	ext := filepath.Ext(filePath)
	if !strings.Contains(strings.TrimLeft(filepath.Base(filePath), "."), ".") {
		ext = ""
	}
	return filePath[:len(filePath)-len(ext)] + suffix + ext
}

// ParseDimensions parses the dimensions of one input shape. Each token can hold one or more
// non-negative integers separated by spaces or commas, so ParseDimensions("1", "224,224", "3") and
// ParseDimensions("1 224 224 3") both return []int{1, 224, 224, 3}.
func ParseDimensions(tokens ...string) ([]int, error) {
	var dims []int
	for _, token := range tokens {
		fields := strings.FieldsFunc(token, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
		for _, field := range fields {
			dim, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid dimension %q", field)
			}
			if dim < 0 {
				return nil, errors.Errorf("invalid negative dimension %d", dim)
			}
			dims = append(dims, dim)
		}
	}
	if len(dims) == 0 {
		return nil, errors.New("empty shape: at least one dimension is required")
	}
	return dims, nil
}
