package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nmr-relax/rotkit/internal/convert"
)

// printRotation writes one rotation, rounded to the configured precision,
// as text or as {"rotation": ...} JSON.
func printRotation(w io.Writer, r convert.Rotation) error {
	r = r.Round(cfg.Precision)
	if IsJSONOutput() {
		return writeJSON(w, map[string]any{"rotation": r})
	}
	_, err := fmt.Fprint(w, FormatRotation(r, cfg.Precision))
	return err
}

// printRotations writes a list of rotations. Text output separates them
// with blank lines.
func printRotations(w io.Writer, rs []convert.Rotation) error {
	rounded := make([]convert.Rotation, len(rs))
	for i, r := range rs {
		rounded[i] = r.Round(cfg.Precision)
	}
	if IsJSONOutput() {
		return writeJSON(w, map[string]any{"rotations": rounded})
	}

	texts := make([]string, len(rounded))
	for i, r := range rounded {
		texts[i] = FormatRotation(r, cfg.Precision)
	}
	_, err := fmt.Fprint(w, strings.Join(texts, "\n"))
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// FormatRotation renders r as human-readable text with a fixed number of
// decimal places. Every line ends in a newline.
//
// Example:
//
//	quaternion: 0.707107 0.000000 0.000000 0.707107
//	euler (zyz): 0.100000 0.200000 0.300000
func FormatRotation(r convert.Rotation, precision int) string {
	var b strings.Builder

	if r.Matrix != nil {
		for _, row := range r.Matrix {
			fmt.Fprintf(&b, "%s\n", joinFloats(row, precision, true))
		}
	}
	if r.Axis != nil {
		fmt.Fprintf(&b, "axis: %s\n", joinFloats(r.Axis, precision, false))
	}
	if r.Angle != nil {
		fmt.Fprintf(&b, "angle: %s\n", formatFloat(*r.Angle, precision))
	}
	if r.Quaternion != nil {
		fmt.Fprintf(&b, "quaternion: %s\n", joinFloats(r.Quaternion, precision, false))
	}
	if r.Euler != nil {
		if r.Order != "" {
			fmt.Fprintf(&b, "euler (%s): %s\n", r.Order, joinFloats(r.Euler, precision, false))
		} else {
			fmt.Fprintf(&b, "euler: %s\n", joinFloats(r.Euler, precision, false))
		}
	}
	if r.TiltTorsion != nil {
		fmt.Fprintf(&b, "tilt-torsion: %s\n", joinFloats(r.TiltTorsion, precision, false))
	}

	return b.String()
}

// joinFloats formats vs separated by spaces. Aligned output pads each
// value so that matrix columns line up for values in (-10, 10).
func joinFloats(vs []float64, precision int, aligned bool) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		s := formatFloat(v, precision)
		if aligned {
			s = fmt.Sprintf("%*s", precision+3, s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}
