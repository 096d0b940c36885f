// Package onnx provides functionality to inspect ONNX models and fix the dimensions of their inputs.
//
//   - Parse: converts a serialized ONNX ModelProto to a Model.
//   - ReadFile: reads a file and calls Parse. It returns a Model.
//   - Model: object holding an ONNX model. It lists the graph inputs (Model.Inputs, Model.ExternalInputs)
//     and can overwrite their dimensions with static values (Model.SetInputDimensions) before being
//     saved back with Model.WriteFile.
//
// Editing is lossless: any part of the model not explicitly modified is written back byte-for-byte,
// including weights and fields this package doesn't know about.
package onnx

import (
	"os"
	"path/filepath"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Model represents a parsed ONNX file.
type Model struct {
	proto *protos.Message
	graph *protos.Message
}

// Parse parses an ONNX model.
func Parse(contents []byte) (*Model, error) {
	m := &Model{}
	var err error
	m.proto, err = protos.Unmarshal(contents)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ONNX model proto")
	}
	m.graph, err = m.proto.Message(protos.ModelGraph)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ONNX model graph")
	}
	if m.graph == nil {
		return nil, errors.New("ONNX model has no graph")
	}
	// Validate the parts of the graph we are going to work with, so later accessors can't fail.
	if err = exceptions.TryCatch[error](m.checkGraph); err != nil {
		return nil, errors.WithMessage(err, "failed to parse ONNX graph")
	}
	return m, nil
}

// ReadFile parses an ONNX model file.
func ReadFile(filePath string) (*Model, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ONNX model file in %s", filePath)
	}
	klog.V(1).Infof("read %d bytes from %s", len(contents), filePath)
	return Parse(contents)
}

// Marshal returns the serialized ModelProto, including any changes made to the model.
func (m *Model) Marshal() []byte {
	return m.proto.Marshal()
}

// WriteFile saves the model to filePath, overwriting any existing file.
//
// The model is first written to a temporary file in the same directory and then renamed, so
// filePath is either left untouched or contains the complete model.
func (m *Model) WriteFile(filePath string) (err error) {
	contents := m.Marshal()
	dir, base := filepath.Split(filePath)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for %s", filePath)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(contents); err != nil {
		return errors.Wrapf(err, "failed to write ONNX model to %s", tmp.Name())
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrapf(err, "failed to set permissions of %s", tmp.Name())
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "failed to sync %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), filePath); err != nil {
		return errors.Wrapf(err, "failed to save ONNX model to %s", filePath)
	}
	klog.V(1).Infof("wrote %d bytes to %s", len(contents), filePath)
	return nil
}
