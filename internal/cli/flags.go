package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/model"
)

// rotationFlags holds the input rotation of convert and reverse. Exactly
// one representation must be given.
type rotationFlags struct {
	matrix      string
	axis        []float64
	angle       float64
	quaternion  []float64
	euler       []float64
	eulerOrder  string
	tiltTorsion []float64
}

// bind registers the rotation input flags on cmd.
func (f *rotationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.matrix, "matrix", "", `Rotation matrix, rows separated by ";" (e.g. "1,0,0;0,1,0;0,0,1")`)
	cmd.Flags().Float64SliceVar(&f.axis, "axis", nil, "Rotation axis x,y,z (with --angle)")
	cmd.Flags().Float64Var(&f.angle, "angle", 0, "Rotation angle in radians (with --axis)")
	cmd.Flags().Float64SliceVar(&f.quaternion, "quaternion", nil, "Quaternion w,x,y,z")
	cmd.Flags().Float64SliceVar(&f.euler, "euler", nil, "Euler angles alpha,beta,gamma")
	cmd.Flags().StringVar(&f.eulerOrder, "euler-order", "", "Convention of --euler (default: --order)")
	cmd.Flags().Float64SliceVar(&f.tiltTorsion, "tilt-torsion", nil, "Tilt-torsion angles phi,theta,sigma")
}

// rotation collects the flags that were set into a payload. Unset flags
// stay nil so that the payload's own checks see what the user gave.
func (f *rotationFlags) rotation(cmd *cobra.Command) (convert.Rotation, error) {
	var r convert.Rotation
	flags := cmd.Flags()

	if flags.Changed("matrix") {
		rows, err := parseMatrix(f.matrix)
		if err != nil {
			return r, model.WrapCLIError(model.ExitInvalidInput, "invalid --matrix", err)
		}
		r.Matrix = rows
	}
	if flags.Changed("axis") {
		r.Axis = f.axis
	}
	if flags.Changed("angle") {
		angle := f.angle
		r.Angle = &angle
	}
	if flags.Changed("quaternion") {
		r.Quaternion = f.quaternion
	}
	if flags.Changed("euler") {
		r.Euler = f.euler
		r.Order = f.eulerOrder
	}
	if flags.Changed("tilt-torsion") {
		r.TiltTorsion = f.tiltTorsion
	}

	if _, err := r.Kind(); err != nil {
		return r, model.WrapCLIError(model.ExitInvalidInput,
			"give exactly one of --matrix, --axis/--angle, --quaternion, --euler, --tilt-torsion", err)
	}
	return r, nil
}

// parseMatrix reads "a,b,c;d,e,f;g,h,i" into rows. The shape is checked
// later with the rest of the payload.
func parseMatrix(s string) ([][]float64, error) {
	var rows [][]float64
	for i, rawRow := range strings.Split(s, ";") {
		var row []float64
		for _, field := range strings.Split(rawRow, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseOutput resolves the --to flag. Empty selects fallback.
func parseOutput(raw string, fallback model.Representation) (model.Representation, error) {
	if raw == "" {
		return fallback, nil
	}
	to, err := model.ParseRepresentation(raw)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInvalidInput, "invalid --to", err)
	}
	return to, nil
}
