// onnx-setdims sets the input dimensions of an ONNX model to static values.
//
// Frameworks like TensorFlow or PyTorch often export models with dynamic input dimensions (batch size, sequence
// length, image size), which some inference runtimes and compilers don't support. For a model with an image
// input of shape [?, 224, 224, 3]:
//
//	onnx-setdims model.onnx -i 1 224 224 3
//
// writes model_static.onnx, with the input shape [1, 224, 224, 3].
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gomlx/onnx-setdims/internal/config"
	"github.com/gomlx/onnx-setdims/internal/ortcheck"
	"github.com/gomlx/onnx-setdims/onnx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

type options struct {
	inputShapes []string
	configFile  string
	dryRun      bool
	verify      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	v := config.New()
	rootCmd := &cobra.Command{
		Use:   "onnx-setdims <onnx_filename> [-i <dims>...]...",
		Short: "Set the input dimensions of an ONNX model to static values",
		Long: `onnx-setdims replaces the dimensions of the inputs of an ONNX model with fixed values,
and saves the result to a new file, by default <name>_static<ext>.

Each -i flag gives the shape of one external input (inputs that are not initializers),
in the order they appear in the model. For three inputs of shape [1, 128]:

  onnx-setdims model.onnx -i 1 128 -i 1 128 -i 1 128

Only the first N dimensions of an input are changed, N being the number of values given.
Use 'onnx-setdims inspect <onnx_filename>' to list the inputs of a model.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetDims(cmd.OutOrStdout(), v, opts, args[0])
		},
	}

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&opts.inputShapes, "input_shapes", "i", nil,
		"Input shapes i.e. for three inputs of [1,128] do '-i 1 128 -i 1 128 -i 1 128'")
	flags.StringP("output", "o", "", "path of the generated model (default is <name><suffix><ext>)")
	flags.String("suffix", onnx.DefaultSuffix, "suffix inserted before the extension to name the generated model")
	flags.StringVar(&opts.configFile, "config", "", "config file (YAML, TOML or JSON) with input_shapes and/or named_shapes")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "report the changes without saving the model")
	flags.BoolVar(&opts.verify, "verify", false, "load the generated model with ONNX Runtime and report its input shapes")
	flags.String("ort-library", "", "path to the ONNX Runtime shared library used by --verify (default $ORT_SO_PATH)")
	_ = v.BindPFlag("output", flags.Lookup("output"))
	_ = v.BindPFlag("suffix", flags.Lookup("suffix"))
	_ = v.BindPFlag("ort_library", flags.Lookup("ort-library"))

	// klog verbosity (-v), e.g. -v 1 to log every change.
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlag(klogFlags.Lookup("v"))

	rootCmd.AddCommand(newInspectCmd())
	return rootCmd
}

func runSetDims(out io.Writer, v *viper.Viper, opts *options, modelPath string) error {
	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return err
	}
	shapes, err := parseInputShapes(opts.inputShapes)
	if err != nil {
		return err
	}
	if len(shapes) == 0 {
		shapes = cfg.InputShapes
	}
	namedShapes := cfg.NamedShapesMap()

	model, err := onnx.ReadFile(modelPath)
	if err != nil {
		return err
	}
	var changes []onnx.DimChange
	if len(shapes) > 0 || len(namedShapes) == 0 {
		positional, err := model.SetInputDimensions(shapes)
		if err != nil {
			return errors.WithMessagef(err, "failed to set input dimensions of %s", modelPath)
		}
		changes = append(changes, positional...)
	}
	if len(namedShapes) > 0 {
		named, err := model.SetInputDimensionsByName(namedShapes)
		if err != nil {
			return errors.WithMessagef(err, "failed to set input dimensions of %s", modelPath)
		}
		changes = append(changes, named...)
	}
	for _, change := range changes {
		_, _ = fmt.Fprintln(out, change)
	}

	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = onnx.StaticFilePath(modelPath, cfg.Suffix)
	}
	if opts.dryRun {
		_, _ = fmt.Fprintf(out, "Dry run, not saving static input onnx to: %s\n", outputPath)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Saving static input onnx to: %s\n", outputPath)
	if err = model.WriteFile(outputPath); err != nil {
		return err
	}
	missing, err := model.MissingExternalData(filepath.Dir(outputPath))
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		klog.Warningf("%s references external data files missing (or incomplete) in its directory, copy them from %s: %q",
			outputPath, filepath.Dir(modelPath), missing)
	}

	if opts.verify {
		return verify(out, cfg.OrtLibrary, outputPath)
	}
	return nil
}

// parseInputShapes parses the values of the -i flags.
func parseInputShapes(values []string) ([][]int, error) {
	shapes := make([][]int, 0, len(values))
	for ii, value := range values {
		dims, err := onnx.ParseDimensions(value)
		if err != nil {
			return nil, errors.WithMessagef(err, "invalid input shape #%d (%q)", ii, value)
		}
		shapes = append(shapes, dims)
	}
	return shapes, nil
}

// verify loads the model with ONNX Runtime and reports the input shapes it sees.
func verify(out io.Writer, libPath, modelPath string) error {
	inputs, err := ortcheck.InputShapes(libPath, modelPath)
	if err != nil {
		return err
	}
	var dynamic []string
	for _, input := range inputs {
		_, _ = fmt.Fprintf(out, "ONNX Runtime input %s\n", input)
		if !input.IsStatic() {
			dynamic = append(dynamic, input.Name)
		}
	}
	if len(dynamic) > 0 {
		klog.Warningf("inputs %q of %s are still dynamic", dynamic, modelPath)
	}
	return nil
}

func main() {
	defer klog.Flush()
	rootCmd := newRootCmd()
	rootCmd.SetArgs(regroupShapeArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		klog.V(1).Infof("%+v", err)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}
