package main

import (
	"regexp"
	"strings"
)

// dimensionsArg matches command line arguments made only of dimensions: digits separated by spaces or commas.
var dimensionsArg = regexp.MustCompile(`^\d[\d,\s]*$`)

// regroupShapeArgs joins the values following each -i/--input_shapes flag into a single flag value, so
// "-i 1 224 224 3" is read as one shape, as opposed to one dimension followed by positional arguments.
// Values already given in one argument ("-i '1 224 224 3'", "-i 1,224,224,3" or "-i=...") are kept as is.
func regroupShapeArgs(args []string) []string {
	regrouped := make([]string, 0, len(args))
	for ii := 0; ii < len(args); ii++ {
		arg := args[ii]
		if arg == "--" {
			return append(regrouped, args[ii:]...)
		}
		if arg != "-i" && arg != "--input_shapes" {
			regrouped = append(regrouped, arg)
			continue
		}
		var dims []string
		for ii+1 < len(args) && dimensionsArg.MatchString(args[ii+1]) {
			ii++
			dims = append(dims, args[ii])
		}
		if len(dims) == 0 {
			// Leave it to the flags parser to report the missing or invalid value.
			regrouped = append(regrouped, arg)
			continue
		}
		regrouped = append(regrouped, "--input_shapes="+strings.Join(dims, " "))
	}
	return regrouped
}
