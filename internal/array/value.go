package array

import (
	"emperror.dev/errors"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// Value is a broadcastable array source. Exactly one of the three forms is
// set: a scalar applied to every cell, one value per layer, or one value
// per cell in layer-row-column order.
//
// The zero Value is empty; callers should check IsZero and substitute a
// default before broadcasting.
type Value struct {
	scalar   *float64
	perLayer []float64
	cells    []float64
}

// Scalar returns a Value that fills every cell with v.
func Scalar(v float64) Value {
	return Value{scalar: &v}
}

// PerLayer returns a Value with one entry per model layer.
func PerLayer(vs []float64) Value {
	return Value{perLayer: append([]float64(nil), vs...)}
}

// Cells returns a Value with one entry per cell (layer-row-column order).
func Cells(vs []float64) Value {
	return Value{cells: append([]float64(nil), vs...)}
}

// FromSlice picks the form of a slice input from its length: a single value
// is a scalar, nlay values are per-layer, anything else is treated as a
// full volume and checked when broadcast.
func FromSlice(vs []float64, nlay int) Value {
	switch {
	case len(vs) == 1:
		return Scalar(vs[0])
	case len(vs) == nlay && nlay > 1:
		return PerLayer(vs)
	default:
		return Cells(vs)
	}
}

// IsZero reports whether no value has been set.
func (v Value) IsZero() bool {
	return v.scalar == nil && v.perLayer == nil && v.cells == nil
}

// Broadcast1D expands the value to n entries. Per-layer and per-cell
// values must already hold exactly n entries.
func (v Value) Broadcast1D(n int) ([]float64, error) {
	out := make([]float64, n)
	switch {
	case v.scalar != nil:
		for i := range out {
			out[i] = *v.scalar
		}
	case v.perLayer != nil:
		if len(v.perLayer) != n {
			return nil, errors.Errorf("array: expected %d values, got %d", n, len(v.perLayer))
		}
		copy(out, v.perLayer)
	case v.cells != nil:
		if len(v.cells) != n {
			return nil, errors.Errorf("array: expected %d values, got %d", n, len(v.cells))
		}
		copy(out, v.cells)
	default:
		return nil, errors.New("array: no value set")
	}
	return out, nil
}

// Broadcast3D expands the value over every cell of shape.
func (v Value) Broadcast3D(shape model.Shape3D) ([]float64, error) {
	out := make([]float64, shape.Size())
	switch {
	case v.scalar != nil:
		for i := range out {
			out[i] = *v.scalar
		}
	case v.perLayer != nil:
		if len(v.perLayer) != shape.Layers {
			return nil, errors.Errorf("array: expected %d per-layer values for shape %s, got %d",
				shape.Layers, shape, len(v.perLayer))
		}
		n := shape.LayerSize()
		for k, lv := range v.perLayer {
			for i := 0; i < n; i++ {
				out[k*n+i] = lv
			}
		}
	case v.cells != nil:
		if len(v.cells) != shape.Size() {
			return nil, errors.Errorf("array: expected %d cell values for shape %s, got %d",
				shape.Size(), shape, len(v.cells))
		}
		copy(out, v.cells)
	default:
		return nil, errors.New("array: no value set")
	}
	return out, nil
}
