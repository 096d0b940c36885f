// Package config holds the settings of onnx-setdims that can come from a config file or the environment.
package config

import (
	"strings"

	"github.com/gomlx/onnx-setdims/onnx"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read, e.g. ONNX_SETDIMS_SUFFIX.
const EnvPrefix = "ONNX_SETDIMS"

// Config represents the onnx-setdims configuration.
type Config struct {
	// InputShapes holds one shape per external input, in graph order.
	InputShapes [][]int `mapstructure:"input_shapes"`

	// NamedShapes assigns shapes to external inputs by name.
	NamedShapes []NamedShape `mapstructure:"named_shapes"`

	// Output overrides the path of the generated model.
	Output string `mapstructure:"output"`

	// Suffix inserted before the extension of the model file name, to derive the output path.
	Suffix string `mapstructure:"suffix"`

	// OrtLibrary is the path to the ONNX Runtime shared library, used to verify the generated model.
	OrtLibrary string `mapstructure:"ort_library"`
}

// NamedShape is the shape of one input given by name.
//
// Names are kept in a list rather than a map because viper lowercases map keys, and ONNX input names are
// case-sensitive.
type NamedShape struct {
	Name       string `mapstructure:"name"`
	Dimensions []int  `mapstructure:"dims"`
}

// New returns a viper instance with the defaults and environment bindings of onnx-setdims.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("suffix", onnx.DefaultSuffix)
	v.SetDefault("output", "")
	v.SetDefault("ort_library", "")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// ORT_SO_PATH is the conventional variable for the ONNX Runtime library.
	_ = v.BindEnv("ort_library", EnvPrefix+"_ORT_LIBRARY", "ORT_SO_PATH")
	return v
}

// Load reads the config file (if not empty) into v and returns the resulting configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the shapes of the configuration.
func (c *Config) Validate() error {
	for ii, shape := range c.InputShapes {
		if err := validateDims(shape); err != nil {
			return errors.WithMessagef(err, "input_shapes[%d]", ii)
		}
	}
	seen := make(map[string]bool, len(c.NamedShapes))
	for ii, named := range c.NamedShapes {
		if named.Name == "" {
			return errors.Errorf("named_shapes[%d]: missing name", ii)
		}
		if seen[named.Name] {
			return errors.Errorf("named_shapes[%d]: input %q given more than once", ii, named.Name)
		}
		seen[named.Name] = true
		if err := validateDims(named.Dimensions); err != nil {
			return errors.WithMessagef(err, "named_shapes[%d] (%q)", ii, named.Name)
		}
	}
	return nil
}

// NamedShapesMap returns the named shapes indexed by input name.
func (c *Config) NamedShapesMap() map[string][]int {
	if len(c.NamedShapes) == 0 {
		return nil
	}
	shapes := make(map[string][]int, len(c.NamedShapes))
	for _, named := range c.NamedShapes {
		shapes[named.Name] = named.Dimensions
	}
	return shapes
}

func validateDims(dims []int) error {
	if len(dims) == 0 {
		return errors.New("empty shape")
	}
	for _, dim := range dims {
		if dim < 0 {
			return errors.Errorf("invalid negative dimension %d", dim)
		}
	}
	return nil
}
