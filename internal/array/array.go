package array

import (
	"fmt"
	"math"
	"strings"

	"emperror.dev/errors"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// Array1D is a named one-dimensional array, such as the per-layer LAYTYP.
type Array1D struct {
	Name   string
	Format Format
	values []float64
}

// New1D broadcasts src to n entries.
func New1D(name string, kind Kind, n int, src Value) (*Array1D, error) {
	values, err := src.Broadcast1D(n)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", name)
	}
	if kind == Int {
		roundAll(values)
	}
	return &Array1D{Name: name, Format: DefaultFormat(kind), values: values}, nil
}

// Values returns a copy of the entries.
func (a *Array1D) Values() []float64 {
	return append([]float64(nil), a.values...)
}

// String renders the entries as bare fixed-width value lines with no
// control record.
func (a *Array1D) String() string {
	var b strings.Builder
	a.Format.writeRows(&b, a.values, len(a.values))
	return b.String()
}

// Array3D is a named (nlay, nrow, ncol) array such as IBOUND or POROSITY.
type Array3D struct {
	Name   string
	Format Format
	Shape  model.Shape3D

	// Iprn is the print flag written on INTERNAL control records.
	Iprn int

	values []float64
}

// New3D broadcasts src over shape.
func New3D(name string, kind Kind, shape model.Shape3D, src Value) (*Array3D, error) {
	values, err := src.Broadcast3D(shape)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", name)
	}
	if kind == Int {
		roundAll(values)
	}
	return &Array3D{
		Name:   name,
		Format: DefaultFormat(kind),
		Shape:  shape,
		Iprn:   -1,
		values: values,
	}, nil
}

// Layer returns a copy of layer k in row-major order.
func (a *Array3D) Layer(k int) []float64 {
	n := a.Shape.LayerSize()
	return append([]float64(nil), a.values[k*n:(k+1)*n]...)
}

// Range returns the minimum and maximum cell values.
func (a *Array3D) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range a.values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Count returns how many cells satisfy pred.
func (a *Array3D) Count(pred func(float64) bool) int {
	n := 0
	for _, v := range a.values {
		if pred(v) {
			n++
		}
	}
	return n
}

// constantLayer reports whether every value in layer k is identical.
func (a *Array3D) constantLayer(k int) (float64, bool) {
	layer := a.Layer(k)
	for _, v := range layer[1:] {
		if v != layer[0] {
			return 0, false
		}
	}
	return layer[0], true
}

// FileEntry renders every layer as a CONSTANT or INTERNAL block.
func (a *Array3D) FileEntry() string {
	var b strings.Builder
	for k := 0; k < a.Shape.Layers; k++ {
		label := fmt.Sprintf("%s LAYER %d", a.Name, k+1)
		if v, ok := a.constantLayer(k); ok {
			fmt.Fprintf(&b, "CONSTANT %s  #%s\n", a.Format.Constant(v), label)
			continue
		}
		fmt.Fprintf(&b, "INTERNAL 1 %s %d  #%s\n", a.Format.Fortran(), a.Iprn, label)
		a.Format.writeRows(&b, a.Layer(k), a.Shape.Cols)
	}
	return b.String()
}

func roundAll(values []float64) {
	for i, v := range values {
		values[i] = math.Round(v)
	}
}
