package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/model"
)

// Op names a script operation.
type Op string

const (
	// OpConvert renders the step's rotation in the representation To.
	OpConvert Op = "convert"

	// OpReverse returns the inverse of the step's rotation in its own
	// representation.
	OpReverse Op = "reverse"

	// OpCompose chains Rotations, the first element applied first.
	OpCompose Op = "compose"

	// OpAlign returns the rotation taking Vectors[0] onto Vectors[1].
	OpAlign Op = "align"

	// OpRandom draws Count random rotations.
	OpRandom Op = "random"
)

// Ops lists every supported operation.
var Ops = []Op{OpConvert, OpReverse, OpCompose, OpAlign, OpRandom}

// IsValid checks whether the Op is a known operation.
func (o Op) IsValid() bool {
	for _, op := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Format identifies the encoding of a script or report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is read as JSONC.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Script is a named batch of rotation operations.
type Script struct {
	// Name identifies the script in logs and reports.
	Name string `json:"name" yaml:"name"`

	// DefaultOrder is the Euler convention used where a step gives none.
	// Empty means the runner's default.
	DefaultOrder string `json:"defaultOrder,omitempty" yaml:"defaultOrder,omitempty"`

	// Steps run in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one operation. The embedded Rotation is the input of convert
// and reverse; it also carries the angle of an axis-mode random step.
type Step struct {
	// Name is an optional label shown in the report.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Op is the operation to perform.
	Op Op `json:"op" yaml:"op"`

	// To is the output representation. Defaults to matrix, except for
	// reverse, which answers in the input representation.
	To string `json:"to,omitempty" yaml:"to,omitempty"`

	convert.Rotation `yaml:",inline"`

	// Rotations are the inputs of compose.
	Rotations []convert.Rotation `json:"rotations,omitempty" yaml:"rotations,omitempty"`

	// Vectors holds the two directions of align: from, then to.
	Vectors [][]float64 `json:"vectors,omitempty" yaml:"vectors,omitempty"`

	// Mode is the random generator: "hypersphere" (default) or "axis".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Count is the number of random rotations to draw. Defaults to 1.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`

	// Seed makes a random step reproducible.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Label returns the step name, or "<index>:<op>" when it has none.
func (s Step) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%d:%s", index, s.Op)
}

// LoadScript reads a script file, choosing JSONC or YAML by extension.
//
// Returns a CLIError with ExitScriptNotFound if the file does not exist.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitScriptNotFound,
				fmt.Sprintf("script not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse script at %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script. JSON input may contain comments and trailing
// commas.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}
