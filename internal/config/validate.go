// validate.go checks a parsed model description before anything is built
// from it, so that every problem in the document is reported at once
// rather than one per run.
package config

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/mpbas/internal/array"
	"github.com/mmr-tortoise/mpbas/internal/model"
	"github.com/mmr-tortoise/mpbas/internal/modpath"
)

// ValidationErrors collects every problem found in a model description.
type ValidationErrors []model.ValidationError

// Error joins the individual messages, one per line.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for i := range e {
		msgs = append(msgs, e[i].Error())
	}
	return strings.Join(msgs, "\n")
}

// Validate checks the description for problems that would stop the package
// from being built. It returns an empty list when the description is valid.
//
// Checks performed:
//   - name and extension are set and contain no path separators
//   - version and flow_version are supported
//   - shape has 1 to 3 positive dimensions
//   - laytyp, ibound and porosity parse and broadcast to the grid
//   - defaultiface is a mapping with unique labels and values 0-6
func (f *File) Validate() []model.ValidationError {
	var errs []model.ValidationError
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, model.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Step 1: File naming.
	if f.Name == "" {
		add("name", "name must not be empty")
	} else if strings.ContainsAny(f.Name, `/\`) {
		add("name", "name %q must not contain path separators", f.Name)
	}
	if f.MPBAS.Extension == "" {
		add("mpbas.extension", "extension must not be empty")
	} else if strings.ContainsAny(f.MPBAS.Extension, `/\.`) {
		add("mpbas.extension", "extension %q must not contain dots or path separators", f.MPBAS.Extension)
	}

	// Step 2: Versions.
	if _, ok := modpath.VersionTypes[f.Version]; !ok {
		add("version", "unsupported MODPATH version %q", f.Version)
	}
	if _, err := model.ParseFlowVersion(f.FlowVersion); err != nil {
		add("flow_version", "%s", err.Error())
	}

	// Step 3: Grid shape. Array checks need a valid shape, so they are
	// skipped when the shape itself is wrong.
	shape := model.Shape(f.Shape)
	if err := shape.Validate(); err != nil {
		add("shape", "%s", err.Error())
	} else {
		shape3d := shape.To3D()
		checkNumbers := func(field string, n Numbers, oneD bool) {
			if n.err != nil {
				add(field, "%s", n.err.Error())
				return
			}
			if !n.IsSet() {
				return
			}
			v := array.FromSlice(n.Values, shape3d.Layers)
			var err error
			if oneD {
				_, err = v.Broadcast1D(shape3d.Layers)
			} else {
				_, err = v.Broadcast3D(shape3d)
			}
			if err != nil {
				add(field, "%s", err.Error())
			}
		}
		checkNumbers("laytyp", f.Laytyp, true)
		checkNumbers("ibound", f.Ibound, false)
		checkNumbers("mpbas.porosity", f.MPBAS.Porosity, false)
	}

	// Step 4: Default faces.
	if err := f.MPBAS.DefaultIface.err; err != nil {
		add("mpbas.defaultiface", "%s", err.Error())
	} else {
		errs = append(errs, validateLabels(f.MPBAS.DefaultIface.Entries)...)
	}

	return errs
}

// validateLabels checks label uniqueness and the value range. Label text
// itself is not restricted; see mpbas.Package.Check.
func validateLabels(entries model.DefaultIface) []model.ValidationError {
	var errs []model.ValidationError
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		field := "mpbas.defaultiface." + e.Label
		if seen[e.Label] {
			errs = append(errs, model.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("package label %q is listed more than once", e.Label),
			})
		}
		seen[e.Label] = true

		if !e.Face.IsValid() {
			errs = append(errs, model.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("defaultiface for package %s must be between %d and %d (%d specified)", e.Label, model.MinFace, model.MaxFace, int(e.Face)),
			})
		}
	}
	return errs
}
