package script

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nmr-relax/rotkit/internal/convert"
)

// Rounded returns a copy of the report with every rotation rounded to
// digits decimal places.
func (r *Report) Rounded(digits int) *Report {
	out := *r
	out.Steps = make([]StepResult, len(r.Steps))
	for i, step := range r.Steps {
		if step.Rotations != nil {
			rots := make([]convert.Rotation, len(step.Rotations))
			for k, rot := range step.Rotations {
				rots[k] = rot.Round(digits)
			}
			step.Rotations = rots
		}
		out.Steps[i] = step
	}
	return &out
}

// Encode writes the report to w as indented JSON or as YAML.
func (r *Report) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}
}
