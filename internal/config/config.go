package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/creasty/defaults"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// FileNames lists the file names Find looks for, in priority order.
var FileNames = []string{"mpbas.yaml", "mpbas.yml", "mpbas.jsonc", "mpbas.json"}

// File is the model description read from disk. Fields left out of the
// document are filled from the default tags once parsing completes.
type File struct {
	// Name is the model name; the package file is written as <name>.<extension>.
	Name string `json:"name" yaml:"name" default:"modpathtest"`

	// Workspace is the output directory. Relative paths are resolved
	// against the directory holding the description file.
	Workspace string `json:"workspace" yaml:"workspace" default:"."`

	// Version is the MODPATH version key.
	Version string `json:"version" yaml:"version" default:"modpath7"`

	// FlowVersion is the MODFLOW variant the flow model was run with.
	FlowVersion string `json:"flow_version" yaml:"flow_version" default:"mf2005"`

	// Shape is the flow-model grid shape: [nlay, nrow, ncol], [nlay, ncpl]
	// or [nodes].
	Shape []int `json:"shape" yaml:"shape"`

	// Laytyp is a scalar or per-layer list of layer types.
	Laytyp Numbers `json:"laytyp" yaml:"laytyp"`

	// Ibound is a scalar, per-layer list or full volume of IBOUND values.
	Ibound Numbers `json:"ibound" yaml:"ibound"`

	// HNoFlo is the head assigned to inactive cells.
	HNoFlo *float64 `json:"hnoflo" yaml:"hnoflo" default:"1e30"`

	// HDry is the head assigned to dry cells.
	HDry *float64 `json:"hdry" yaml:"hdry" default:"-1e30"`

	// MPBAS holds the basic package inputs.
	MPBAS Basic `json:"mpbas" yaml:"mpbas"`

	// path is the file the description was loaded from, if any.
	path string
}

// Basic holds the inputs of the MODPATH basic package.
type Basic struct {
	// Porosity is a scalar, per-layer list or full volume of porosity values.
	Porosity Numbers `json:"porosity" yaml:"porosity"`

	// DefaultIface maps budget labels to IFACE values, in document order.
	DefaultIface IfaceMap `json:"defaultiface" yaml:"defaultiface"`

	// Extension is the package file extension.
	Extension string `json:"extension" yaml:"extension" default:"mpbas"`
}

// Path returns the file the description was loaded from, or "" when it was
// parsed from memory.
func (f *File) Path() string {
	return f.path
}

// Load reads and parses a model description. The format is chosen from the
// file extension: .yaml and .yml are YAML, .json and .jsonc are JSONC.
//
// Returns a CLIError with ExitConfigNotFound if the file does not exist and
// ExitInvalidConfig if it cannot be parsed.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigNotFound,
				fmt.Sprintf("model description not found: %s", path),
				err,
			)
		}
		return nil, errors.Wrapf(err, "failed to read model description %s", path)
	}

	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInvalidConfig,
			fmt.Sprintf("failed to parse model description %s", path),
			err,
		)
	}

	f.path = path
	if !filepath.IsAbs(f.Workspace) {
		f.Workspace = filepath.Join(filepath.Dir(path), f.Workspace)
	}
	return f, nil
}

// Parse decodes a model description held in memory. ext selects the format
// the same way Load does; an empty ext is treated as YAML.
func Parse(data []byte, ext string) (*File, error) {
	var f File

	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		// Strip comments and trailing commas, then decode with encoding/json
		// so the custom unmarshalers can walk the token stream.
		if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
			return nil, errors.Wrap(err, "invalid JSON")
		}
	case "", ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "invalid YAML")
		}
	default:
		return nil, errors.Errorf("unsupported model description format %q (expected .yaml, .yml, .json or .jsonc)", ext)
	}

	if err := defaults.Set(&f); err != nil {
		return nil, errors.Wrap(err, "could not set default values")
	}
	return &f, nil
}

// Find looks for a model description in dir, trying FileNames in order.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitConfigNotFound,
		fmt.Sprintf("no model description found in %s (searched %s)", dir, strings.Join(FileNames, ", ")),
	)
}
