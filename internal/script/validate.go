package script

import (
	"fmt"
	"strings"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/model"
)

// MaxRandomCount bounds the number of rotations one random step may draw.
const MaxRandomCount = 100000

// ValidationError represents one problem found in a script.
type ValidationError struct {
	// Field is the path of the offending field, e.g. "steps[2].euler".
	Field string

	// Message describes what is wrong with it.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("script validation error: %s: %s", e.Field, e.Message)
}

// ValidateScript checks a parsed script before anything is queued. It
// returns the list of problems (empty list = valid script).
//
// Only shapes and names are checked here. Whether a matrix is really a
// rotation or a vector has a direction is decided when the step runs.
func ValidateScript(s *Script) []ValidationError {
	var errs []ValidationError

	if s.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if s.DefaultOrder != "" {
		if _, err := model.ParseEulerOrder(s.DefaultOrder); err != nil {
			errs = append(errs, ValidationError{Field: "defaultOrder", Message: err.Error()})
		}
	}
	if len(s.Steps) == 0 {
		errs = append(errs, ValidationError{Field: "steps", Message: "at least one step is required"})
	}

	for i, step := range s.Steps {
		errs = append(errs, validateStep(fmt.Sprintf("steps[%d]", i), step)...)
	}
	return errs
}

func validateStep(field string, step Step) []ValidationError {
	var errs []ValidationError
	add := func(sub, msg string) {
		errs = append(errs, ValidationError{Field: field + sub, Message: msg})
	}

	if !step.Op.IsValid() {
		add(".op", fmt.Sprintf("invalid op %q (valid: convert, reverse, compose, align, random)", step.Op))
		return errs
	}

	if step.To != "" {
		if _, err := model.ParseRepresentation(step.To); err != nil {
			add(".to", err.Error())
		}
	}

	switch step.Op {
	case OpConvert, OpReverse:
		for _, e := range validateRotation("", step.Rotation) {
			add(e.Field, e.Message)
		}

	case OpCompose:
		if len(step.Rotations) < 2 {
			add(".rotations", "compose needs at least two rotations")
		}
		for j, r := range step.Rotations {
			for _, e := range validateRotation(fmt.Sprintf(".rotations[%d]", j), r) {
				add(e.Field, e.Message)
			}
		}

	case OpAlign:
		if len(step.Vectors) != 2 {
			add(".vectors", fmt.Sprintf("align needs exactly two vectors, got %d", len(step.Vectors)))
			break
		}
		for j, v := range step.Vectors {
			if len(v) != 3 {
				add(fmt.Sprintf(".vectors[%d]", j), fmt.Sprintf("expected 3 elements, got %d", len(v)))
			}
		}

	case OpRandom:
		mode, err := convert.ParseRandomMode(step.Mode)
		if err != nil {
			add(".mode", err.Error())
		}
		if mode == convert.RandomAxis && step.Angle == nil {
			add(".angle", "axis mode requires an angle")
		}
		if step.Count < 0 || step.Count > MaxRandomCount {
			add(".count", fmt.Sprintf("count must be between 0 and %d", MaxRandomCount))
		}
	}

	return errs
}

func validateRotation(field string, r convert.Rotation) []ValidationError {
	var errs []ValidationError

	kind, err := r.Kind()
	if err != nil {
		return append(errs, ValidationError{Field: field, Message: err.Error()})
	}

	shape := func(name string, got, want int) {
		if got != want {
			errs = append(errs, ValidationError{
				Field:   field + "." + name,
				Message: fmt.Sprintf("expected %d elements, got %d", want, got),
			})
		}
	}

	switch kind {
	case model.ReprMatrix:
		shape("matrix", len(r.Matrix), 3)
		for i, row := range r.Matrix {
			shape(fmt.Sprintf("matrix[%d]", i), len(row), 3)
		}
	case model.ReprAxisAngle:
		if r.Angle == nil {
			errs = append(errs, ValidationError{Field: field + ".angle", Message: "angle is required with axis"})
		}
		shape("axis", len(r.Axis), 3)
	case model.ReprQuaternion:
		shape("quaternion", len(r.Quaternion), 4)
	case model.ReprEuler:
		shape("euler", len(r.Euler), 3)
	case model.ReprTiltTorsion:
		shape("tiltTorsion", len(r.TiltTorsion), 3)
	}

	if r.Order != "" {
		if _, err := model.ParseEulerOrder(r.Order); err != nil {
			errs = append(errs, ValidationError{Field: field + ".order", Message: err.Error()})
		}
	}
	return errs
}

// ValidationErrors is returned by Runner.Run for a script that fails
// ValidateScript.
type ValidationErrors []ValidationError

// Error joins the individual messages.
func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i := range errs {
		msgs[i] = errs[i].Field + ": " + errs[i].Message
	}
	return fmt.Sprintf("invalid script: %s", strings.Join(msgs, "; "))
}
