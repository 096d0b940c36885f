package onnx

import (
	"path/filepath"
	"slices"
	"strconv"

	"github.com/gomlx/onnx-setdims/internal/protos"
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
	"k8s.io/klog/v2"
)

// dataLocationExternal is the TensorProto.DataLocation value of tensors stored in a separate file.
const dataLocationExternal = 1

// externalDataInfo is where the data of one initializer is stored, from its external_data entries.
type externalDataInfo struct {
	tensor   string
	location string
	offset   int64

	// length is 0 if not given, in which case the data extends to the end of the file.
	length int64
}

// externalData returns the external data references of all initializers stored outside the model file.
func (m *Model) externalData() ([]externalDataInfo, error) {
	tensors, err := m.graph.Messages(protos.GraphInitializer)
	if err != nil {
		return nil, errors.WithMessage(err, "while decoding initializers")
	}
	var infos []externalDataInfo
	for _, tensor := range tensors {
		if location, _ := tensor.Int64(protos.TensorDataLocation); location != dataLocationExternal {
			continue
		}
		info := externalDataInfo{tensor: tensor.String(protos.TensorName)}
		entries, err := tensor.Messages(protos.TensorExternalData)
		if err != nil {
			return nil, errors.WithMessagef(err, "while decoding external data of tensor %q", info.tensor)
		}
		for _, entry := range entries {
			key, value := entry.String(protos.EntryKey), entry.String(protos.EntryValue)
			switch key {
			case "location":
				info.location = value
			case "offset", "length":
				n, err := strconv.ParseInt(value, 10, 64)
				if err != nil || n < 0 {
					return nil, errors.Errorf("tensor %q has an invalid external data %s %q", info.tensor, key, value)
				}
				if key == "offset" {
					info.offset = n
				} else {
					info.length = n
				}
			}
		}
		if info.location == "" {
			return nil, errors.Errorf("tensor %q is stored externally but has no location", info.tensor)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ExternalDataFiles returns the files (relative to the model directory) holding the data of initializers
// stored outside the model file. Models larger than 2GB are saved this way.
//
// The external files are not read nor modified, so a model saved to a different directory
// will only load if the files are available there too, see MissingExternalData.
func (m *Model) ExternalDataFiles() ([]string, error) {
	infos, err := m.externalData()
	if err != nil {
		return nil, err
	}
	var locations []string
	for _, info := range infos {
		if !slices.Contains(locations, info.location) {
			locations = append(locations, info.location)
		}
	}
	return locations, nil
}

// MissingExternalData returns the external data files (see ExternalDataFiles) that can't serve the model
// if it's saved in baseDir: files that don't exist there, or that are too short to hold the
// offset+length ranges of their tensors.
func (m *Model) MissingExternalData(baseDir string) ([]string, error) {
	infos, err := m.externalData()
	if err != nil {
		return nil, err
	}
	sizes := make(map[string]int64)
	var missing []string
	for _, info := range infos {
		if slices.Contains(missing, info.location) {
			continue
		}
		size, found := sizes[info.location]
		if !found {
			size = mappedSize(filepath.Join(baseDir, info.location))
			sizes[info.location] = size
		}
		if size < 0 || info.offset+info.length > size {
			klog.V(1).Infof("external data of tensor %q not available in %s (offset=%d, length=%d, file size=%d)",
				info.tensor, info.location, info.offset, info.length, size)
			missing = append(missing, info.location)
		}
	}
	return missing, nil
}

// mappedSize memory-maps the file and returns its size, or -1 if it can't be mapped.
func mappedSize(path string) int64 {
	reader, err := mmap.Open(path)
	if err != nil {
		return -1
	}
	defer func() { _ = reader.Close() }()
	return int64(reader.Len())
}
