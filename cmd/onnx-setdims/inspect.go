package main

import (
	"fmt"
	"strings"

	"github.com/gomlx/onnx-setdims/onnx"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <onnx_filename>",
		Short: "Print a summary of the model and the shapes of its inputs",
		Long: `Prints a summary of the ONNX model, including all its inputs and outputs.

Inputs backed by initializers (constants) are marked as such: they are not counted
as external inputs and don't take a -i flag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := onnx.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprint(out, model)
			external := model.ExternalInputs()
			_, _ = fmt.Fprintf(out, "\t# external inputs:\t%d\n", len(external))
			for _, input := range external {
				kind := "dynamic"
				if input.Shape.IsStatic() {
					kind = "static"
				}
				_, _ = fmt.Fprintf(out, "\t\t%q: %s %s\n", input.Name, kind, input.Shape)
			}
			if flags := exampleFlags(external); flags != "" {
				_, _ = fmt.Fprintf(out, "\tExample:\t%s\n", flags)
			}
			return nil
		},
	}
}

// exampleFlags returns the -i flags that would set all inputs to their current dimensions, with 1 in place of
// the dynamic ones. It returns "" if an input has unknown rank or is a scalar, since those can't be given
// with -i.
func exampleFlags(inputs []onnx.InputInfo) string {
	var parts []string
	for _, input := range inputs {
		if input.Shape.Rank() <= 0 {
			return ""
		}
		part := []string{"-i"}
		for _, dim := range input.Shape.Dimensions {
			if dim < 0 {
				dim = 1
			}
			part = append(part, fmt.Sprint(dim))
		}
		parts = append(parts, strings.Join(part, " "))
	}
	return strings.Join(parts, " ")
}
