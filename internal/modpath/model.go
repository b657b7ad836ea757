// Package modpath provides the MODPATH 7 host model that input packages
// attach to.
//
// The Model carries what every package needs from its parent: the grid
// shape of the flow model, the flow-model version, the head values that
// flag inactive and dry cells, the default layer types and IBOUND array,
// unit-number allocation, output file paths and the package registry.
// It deliberately stops there: simulation, name and particle files are
// not produced by this repository.
package modpath

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/creasty/defaults"

	"github.com/mmr-tortoise/mpbas/internal/array"
	"github.com/mmr-tortoise/mpbas/internal/model"
)

// VersionTypes maps MODPATH version keys to their display names, which are
// used in package headings.
var VersionTypes = map[string]string{
	"modpath7": "MODPATH 7",
}

// firstUnit is the first unit number handed out by NextUnit. Lower numbers
// are left to the simulation and name files.
const firstUnit = 11

// Package is an input package owned by a Model.
type Package interface {
	// Name is the package type name, e.g. "MPBAS".
	Name() string

	// Extension is the file extension of the package file.
	Extension() string

	// UnitNumber is the unit the package file is opened on.
	UnitNumber() int

	// WriteFile writes the package file to the model workspace.
	WriteFile(check bool) error
}

// ModelOptions configures a new Model. Zero-valued string fields and nil
// pointers are filled from the default tags.
type ModelOptions struct {
	// Name is the model name; package files are named <Name>.<ext>.
	Name string `default:"modpathtest"`

	// Workspace is the directory package files are written to.
	Workspace string `default:"."`

	// Version selects the MODPATH version (a key of VersionTypes).
	Version string `default:"modpath7"`

	// FlowVersion is the MODFLOW variant of the flow model.
	FlowVersion model.FlowVersion `default:"mf2005"`

	// Shape is the flow-model grid shape (1, 2 or 3 dimensions).
	Shape model.Shape

	// Laytyp holds the layer types; defaults to 0 (confined) everywhere.
	Laytyp array.Value

	// Ibound holds the boundary indicator; defaults to 1 (active) everywhere.
	Ibound array.Value

	// HNoFlo is the head assigned to inactive cells.
	HNoFlo *float64 `default:"1e30"`

	// HDry is the head assigned to dry cells.
	HDry *float64 `default:"-1e30"`
}

// Model is the MODPATH 7 host model.
//
// The package registry is not synchronized; a Model is meant to be built
// and written from a single goroutine.
type Model struct {
	name        string
	workspace   string
	version     string
	flowVersion model.FlowVersion
	shape       model.Shape
	laytyp      array.Value
	ibound      array.Value
	hnoflo      float64
	hdry        float64

	nextUnit int
	packages []Package
}

// NewModel validates opts, applies defaults and returns a Model with an
// empty package registry.
func NewModel(opts ModelOptions) (*Model, error) {
	if err := defaults.Set(&opts); err != nil {
		return nil, errors.Wrap(err, "modpath: could not set default values for model options")
	}
	if _, ok := VersionTypes[opts.Version]; !ok {
		return nil, &model.ValidationError{Field: "version", Message: "unsupported MODPATH version " + opts.Version}
	}
	if !opts.FlowVersion.IsValid() {
		return nil, &model.ValidationError{Field: "flow_version", Message: "unsupported flow model version " + opts.FlowVersion.String()}
	}
	if err := opts.Shape.Validate(); err != nil {
		return nil, &model.ValidationError{Field: "shape", Message: err.Error()}
	}
	if opts.Laytyp.IsZero() {
		opts.Laytyp = array.Scalar(0)
	}
	if opts.Ibound.IsZero() {
		opts.Ibound = array.Scalar(1)
	}

	return &Model{
		name:        opts.Name,
		workspace:   opts.Workspace,
		version:     opts.Version,
		flowVersion: opts.FlowVersion,
		shape:       append(model.Shape(nil), opts.Shape...),
		laytyp:      opts.Laytyp,
		ibound:      opts.Ibound,
		hnoflo:      *opts.HNoFlo,
		hdry:        *opts.HDry,
		nextUnit:    firstUnit,
	}, nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Workspace returns the output directory.
func (m *Model) Workspace() string { return m.workspace }

// Version returns the MODPATH version key.
func (m *Model) Version() string { return m.version }

// VersionName returns the display name of the MODPATH version.
func (m *Model) VersionName() string { return VersionTypes[m.version] }

// FlowVersion returns the MODFLOW variant of the flow model.
func (m *Model) FlowVersion() model.FlowVersion { return m.flowVersion }

// Shape returns a copy of the flow-model grid shape.
func (m *Model) Shape() model.Shape { return append(model.Shape(nil), m.shape...) }

// Laytyp returns the layer-type source.
func (m *Model) Laytyp() array.Value { return m.laytyp }

// Ibound returns the boundary-indicator source.
func (m *Model) Ibound() array.Value { return m.ibound }

// HNoFlo returns the head value of inactive cells.
func (m *Model) HNoFlo() float64 { return m.hnoflo }

// HDry returns the head value of dry cells.
func (m *Model) HDry() float64 { return m.hdry }

// NextUnit allocates the next free unit number.
func (m *Model) NextUnit() int {
	u := m.nextUnit
	m.nextUnit++
	return u
}

// FilePath returns the path of the package file with the given extension.
func (m *Model) FilePath(ext string) string {
	return filepath.Join(m.workspace, m.name+"."+ext)
}

// AddPackage registers p. A package with the same name replaces the
// existing registration in place.
func (m *Model) AddPackage(p Package) {
	for i, existing := range m.packages {
		if existing.Name() == p.Name() {
			log.WithField("package", p.Name()).Warn("replacing existing package")
			m.packages[i] = p
			return
		}
	}
	log.WithFields(log.Fields{"package": p.Name(), "unit": p.UnitNumber()}).Debug("adding package to model")
	m.packages = append(m.packages, p)
}

// GetPackage returns the registered package with the given name.
func (m *Model) GetPackage(name string) (Package, bool) {
	for _, p := range m.packages {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Packages returns the registered packages in registration order.
func (m *Model) Packages() []Package {
	return append([]Package(nil), m.packages...)
}

// WriteInput creates the workspace and writes every registered package.
func (m *Model) WriteInput(check bool) error {
	if err := os.MkdirAll(m.workspace, 0o755); err != nil {
		return errors.Wrapf(err, "modpath: failed to create workspace %s", m.workspace)
	}
	for _, p := range m.packages {
		log.WithFields(log.Fields{"package": p.Name(), "path": m.FilePath(p.Extension())}).Info("writing package file")
		if err := p.WriteFile(check); err != nil {
			return errors.WithMessagef(err, "modpath: failed to write %s package", p.Name())
		}
	}
	return nil
}
