package config

import (
	"github.com/mmr-tortoise/mpbas/internal/array"
	"github.com/mmr-tortoise/mpbas/internal/model"
	"github.com/mmr-tortoise/mpbas/internal/modpath"
	"github.com/mmr-tortoise/mpbas/internal/mpbas"
)

// Build validates the description and constructs the host model with its
// basic package registered. When validation fails the returned error is a
// ValidationErrors holding every problem found.
func (f *File) Build() (*modpath.Model, *mpbas.Package, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, nil, ValidationErrors(errs)
	}

	// Validate has already accepted the flow version.
	flow, _ := model.ParseFlowVersion(f.FlowVersion)
	shape := model.Shape(f.Shape)
	nlay := shape.To3D().Layers

	opts := modpath.ModelOptions{
		Name:        f.Name,
		Workspace:   f.Workspace,
		Version:     f.Version,
		FlowVersion: flow,
		Shape:       shape,
		HNoFlo:      f.HNoFlo,
		HDry:        f.HDry,
	}
	if f.Laytyp.IsSet() {
		opts.Laytyp = array.FromSlice(f.Laytyp.Values, nlay)
	}
	if f.Ibound.IsSet() {
		opts.Ibound = array.FromSlice(f.Ibound.Values, nlay)
	}

	m, err := modpath.NewModel(opts)
	if err != nil {
		return nil, nil, err
	}

	pkgOpts := mpbas.Options{
		DefaultIface: f.MPBAS.DefaultIface.Entries,
		Extension:    f.MPBAS.Extension,
	}
	if f.MPBAS.Porosity.IsSet() {
		pkgOpts.Porosity = array.FromSlice(f.MPBAS.Porosity.Values, nlay)
	}

	p, err := mpbas.New(m, pkgOpts)
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}
