package mpbas

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// Check runs advisory data checks. The findings describe inputs MODPATH
// will accept but that usually indicate a mistake in the model setup.
func (p *Package) Check() []model.ValidationError {
	var findings []model.ValidationError

	if n := p.porosity.Count(func(v float64) bool { return v <= 0 || v > 1 }); n > 0 {
		lo, hi := p.porosity.Range()
		findings = append(findings, model.ValidationError{
			Field:   "porosity",
			Message: fmt.Sprintf("%d cell(s) have porosity outside (0, 1] (range %g to %g)", n, lo, hi),
		})
	}

	if p.ibound != nil && p.ibound.Count(func(v float64) bool { return v != 0 }) == 0 {
		findings = append(findings, model.ValidationError{
			Field:   "ibound",
			Message: "no active cells: every IBOUND value is 0",
		})
	}

	for i, v := range p.laytyp.Values() {
		if v < 0 {
			findings = append(findings, model.ValidationError{
				Field:   fmt.Sprintf("laytyp[%d]", i),
				Message: fmt.Sprintf("layer %d has negative layer type %g", i+1, v),
			})
		}
	}

	// Labels wider than the column run into the trailing comment, and an
	// empty label cannot match any budget text.
	for _, a := range p.defaultIface {
		switch {
		case strings.TrimSpace(a.Label) == "":
			findings = append(findings, model.ValidationError{
				Field:   "defaultiface",
				Message: fmt.Sprintf("empty package label assigned to face %d", int(a.Face)),
			})
		case len(a.Label) > model.MaxLabelWidth:
			findings = append(findings, model.ValidationError{
				Field:   "defaultiface." + a.Label,
				Message: fmt.Sprintf("package label is %d characters, wider than the %d-character column", len(a.Label), model.MaxLabelWidth),
			})
		}
	}

	return findings
}
