package mpbas

import (
	"github.com/mmr-tortoise/mpbas/internal/model"
)

// Summary is a serializable description of a configured package, used by
// the CLI's show command.
type Summary struct {
	Package           string                  `json:"package" yaml:"package"`
	Heading           string                  `json:"heading" yaml:"heading"`
	Path              string                  `json:"path" yaml:"path"`
	Unit              int                     `json:"unit" yaml:"unit"`
	FlowVersion       model.FlowVersion       `json:"flowVersion" yaml:"flow_version"`
	Shape             model.Shape3D           `json:"shape" yaml:"shape"`
	HNoFlo            *float64                `json:"hnoflo,omitempty" yaml:"hnoflo,omitempty"`
	HDry              *float64                `json:"hdry,omitempty" yaml:"hdry,omitempty"`
	DefaultIfaceCount int                     `json:"defaultIfaceCount" yaml:"defaultiface_count"`
	DefaultIface      []model.IfaceAssignment `json:"defaultIface" yaml:"defaultiface"`
	Laytyp            []int                   `json:"laytyp,omitempty" yaml:"laytyp,omitempty"`
	ActiveCells       *int                    `json:"activeCells,omitempty" yaml:"active_cells,omitempty"`
	Porosity          [2]float64              `json:"porosityRange" yaml:"porosity_range,flow"`
	Findings          []model.ValidationError `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Summarize describes the package. Fields MODPATH does not read for
// MODFLOW 6 flow models are left empty in that case.
func (p *Package) Summarize() Summary {
	s := Summary{
		Package:           PackageName,
		Heading:           p.heading,
		Path:              p.FilePath(),
		Unit:              p.unit,
		FlowVersion:       p.parent.FlowVersion(),
		Shape:             p.porosity.Shape,
		DefaultIfaceCount: p.DefaultIfaceCount(),
		DefaultIface:      make([]model.IfaceAssignment, 0, len(p.defaultIface)),
		Findings:          p.Check(),
	}
	s.DefaultIface = append(s.DefaultIface, p.defaultIface...)

	if !p.parent.FlowVersion().IsMF6() {
		hnoflo, hdry := p.parent.HNoFlo(), p.parent.HDry()
		s.HNoFlo, s.HDry = &hnoflo, &hdry
		for _, v := range p.laytyp.Values() {
			s.Laytyp = append(s.Laytyp, int(v))
		}
		active := p.ibound.Count(func(v float64) bool { return v != 0 })
		s.ActiveCells = &active
	}

	lo, hi := p.porosity.Range()
	s.Porosity = [2]float64{lo, hi}
	return s
}
