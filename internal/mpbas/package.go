package mpbas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/creasty/defaults"

	"github.com/mmr-tortoise/mpbas/internal/array"
	"github.com/mmr-tortoise/mpbas/internal/model"
	"github.com/mmr-tortoise/mpbas/internal/modpath"
)

// PackageName is the package type name used for registration and headings.
const PackageName = "MPBAS"

// DefaultPorosity is applied when Options.Porosity is not set.
const DefaultPorosity = 0.30

// Options configures a basic package.
type Options struct {
	// Porosity is a scalar, per-layer or per-cell porosity.
	// Defaults to DefaultPorosity everywhere.
	Porosity array.Value

	// DefaultIface maps stress-package budget labels to the face their
	// flows are assigned to. Nil means no default faces are written.
	DefaultIface model.DefaultIface

	// Extension is the package file extension.
	Extension string `default:"mpbas"`
}

// Package is the MODPATH 7 basic package.
type Package struct {
	parent    *modpath.Model
	unit      int
	extension string
	heading   string

	laytyp   *array.Array1D
	ibound   *array.Array3D // nil for MODFLOW 6 flow models
	porosity *array.Array3D

	defaultIface model.DefaultIface
}

// New builds the basic package for m and registers it with the model.
//
// The default-iface mapping is validated before anything else; an
// out-of-range value or a repeated label fails with a
// *model.ValidationError naming the package label. Label text is not
// restricted: wide or empty labels are written as given and reported by
// Check instead.
//
// On any error the package is not registered and no unit number is
// consumed.
func New(m *modpath.Model, opts Options) (*Package, error) {
	// Step 1: Fill option defaults (extension) and check the mapping.
	if err := defaults.Set(&opts); err != nil {
		return nil, errors.Wrap(err, "mpbas: could not set default values for options")
	}
	if err := opts.DefaultIface.Validate(); err != nil {
		return nil, err
	}
	if opts.Porosity.IsZero() {
		opts.Porosity = array.Scalar(DefaultPorosity)
	}

	// Step 2: Allocate the unit number and build the heading. The mapping
	// is copied so later changes by the caller do not leak into the file.
	shape := m.Shape().To3D()
	p := &Package{
		parent:       m,
		unit:         m.NextUnit(),
		extension:    opts.Extension,
		defaultIface: append(model.DefaultIface(nil), opts.DefaultIface...),
	}
	p.heading = fmt.Sprintf("# %s package for %s, generated by mpbas.", PackageName, m.VersionName())

	// Step 3: Broadcast the arrays over the 3-D grid. LAYTYP is always
	// built so Check and show can report it; IBOUND only exists for flow
	// models that read it.
	var err error
	if p.laytyp, err = array.New1D("LAYTYP", array.Int, shape.Layers, m.Laytyp()); err != nil {
		return nil, &model.ValidationError{Field: "laytyp", Message: err.Error()}
	}
	if !m.FlowVersion().IsMF6() {
		if p.ibound, err = array.New3D("IBOUND", array.Int, shape, m.Ibound()); err != nil {
			return nil, &model.ValidationError{Field: "ibound", Message: err.Error()}
		}
	}
	if p.porosity, err = array.New3D("POROSITY", array.Float, shape, opts.Porosity); err != nil {
		return nil, &model.ValidationError{Field: "porosity", Message: err.Error()}
	}

	// Step 4: Register with the host model only once everything succeeded.
	m.AddPackage(p)
	return p, nil
}

// Name returns the package type name.
func (p *Package) Name() string { return PackageName }

// Extension returns the file extension.
func (p *Package) Extension() string { return p.extension }

// UnitNumber returns the unit number allocated at construction.
func (p *Package) UnitNumber() int { return p.unit }

// Heading returns the heading text. Render writes it behind a further
// comment marker, so the first line of the file reads "# # MPBAS ...".
func (p *Package) Heading() string { return p.heading }

// FilePath returns the destination of WriteFile.
func (p *Package) FilePath() string { return p.parent.FilePath(p.extension) }

// DefaultIfaceCount returns the number of default-iface assignments.
func (p *Package) DefaultIfaceCount() int { return len(p.defaultIface) }

// DefaultIface returns a copy of the default-iface assignments in order.
func (p *Package) DefaultIface() model.DefaultIface {
	return append(model.DefaultIface(nil), p.defaultIface...)
}

// Laytyp returns the layer-type array.
func (p *Package) Laytyp() *array.Array1D { return p.laytyp }

// Ibound returns the IBOUND array, or nil for MODFLOW 6 flow models.
func (p *Package) Ibound() *array.Array3D { return p.ibound }

// Porosity returns the porosity array.
func (p *Package) Porosity() *array.Array3D { return p.porosity }

// WriteFile writes the package file, replacing any existing file. When
// check is true the advisory checks run first and their findings are
// logged as warnings; they never fail the write.
//
// The file is closed on every return path. A close error is reported only
// when nothing failed earlier.
func (p *Package) WriteFile(check bool) (err error) {
	// Step 1: Advisory checks, logged only.
	if check {
		for _, finding := range p.Check() {
			log.WithFields(log.Fields{"package": PackageName, "field": finding.Field}).Warn(finding.Message)
		}
	}

	// Step 2: Create or truncate the destination.
	path := p.FilePath()
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "mpbas: failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "mpbas: failed to close %s", path)
		}
	}()

	// Step 3: Render through a buffer and flush it before the deferred
	// close runs.
	w := bufio.NewWriter(f)
	if err := p.Render(w); err != nil {
		return errors.WithMessagef(err, "mpbas: failed to write %s", path)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "mpbas: failed to write %s", path)
	}
	log.WithFields(log.Fields{"path": path, "defaultiface": p.DefaultIfaceCount()}).Debug("wrote basic package file")
	return nil
}

// Render writes the package file contents to w.
func (p *Package) Render(w io.Writer) error {
	ew := &errWriter{w: w}
	mf6 := p.parent.FlowVersion().IsMF6()

	// Heading, then the head values MODPATH reads for inactive and dry
	// cells. MODFLOW 6 supplies those itself.
	ew.printf("# %s\n", p.heading)
	if !mf6 {
		ew.printf("%s %s\n", formatG(p.parent.HNoFlo()), formatG(p.parent.HDry()))
	}

	// The count always equals the number of label/value pairs that follow.
	ew.printf("%-20d%s\n", len(p.defaultIface), "# DEFAULTIFACECOUNT")
	for _, a := range p.defaultIface {
		ew.printf("%-20s%s\n", a.Label, "# PACKAGE LABEL")
		ew.printf("%-20d%s\n", int(a.Face), "# DEFAULT IFACE VALUE")
	}

	if !mf6 {
		ew.printf("%s", p.laytyp.String())
		ew.printf("%s", p.ibound.FileEntry())
	}
	ew.printf("%s", p.porosity.FileEntry())
	return ew.err
}

// formatG formats v the way a %g conversion with six significant digits
// does, without trailing zeros: 1e+30, -999.99, 0.3.
func formatG(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// errWriter keeps the first write error so Render can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
