package array

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// TestValue_Broadcast3D verifies that scalar, per-layer and per-cell inputs
// expand to the same layer-row-column layout.
func TestValue_Broadcast3D(t *testing.T) {
	shape := model.Shape3D{Layers: 2, Rows: 1, Cols: 3}

	tests := []struct {
		name     string
		src      Value
		expected []float64
	}{
		{"scalar", Scalar(0.3), []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3}},
		{"per layer", PerLayer([]float64{1, 2}), []float64{1, 1, 1, 2, 2, 2}},
		{"cells", Cells([]float64{1, 2, 3, 4, 5, 6}), []float64{1, 2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.src.Broadcast3D(shape)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestValue_Broadcast3D_SizeMismatch checks that wrong-length inputs are
// rejected rather than silently truncated or padded.
func TestValue_Broadcast3D_SizeMismatch(t *testing.T) {
	shape := model.Shape3D{Layers: 2, Rows: 2, Cols: 2}

	_, err := PerLayer([]float64{1, 2, 3}).Broadcast3D(shape)
	assert.Error(t, err)

	_, err = Cells([]float64{1, 2, 3}).Broadcast3D(shape)
	assert.Error(t, err)

	_, err = Value{}.Broadcast3D(shape)
	assert.Error(t, err)
}

func TestValue_Broadcast1D(t *testing.T) {
	got, err := Scalar(1).Broadcast1D(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, got)

	got, err = PerLayer([]float64{1, 0}).Broadcast1D(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, got)

	_, err = PerLayer([]float64{1, 0}).Broadcast1D(3)
	assert.Error(t, err)
}

func TestFromSlice(t *testing.T) {
	assert.Equal(t, Scalar(0.3), FromSlice([]float64{0.3}, 3))
	assert.Equal(t, Value{perLayer: []float64{1, 2, 3}}, FromSlice([]float64{1, 2, 3}, 3))
	assert.Equal(t, Value{cells: []float64{1, 2, 3, 4}}, FromSlice([]float64{1, 2, 3, 4}, 2))
	assert.True(t, Value{}.IsZero())
}

func TestFormat_Fortran(t *testing.T) {
	assert.Equal(t, "(10I5)", DefaultFormat(Int).Fortran())
	assert.Equal(t, "(10E15.6)", DefaultFormat(Float).Fortran())
}

func TestFormat_Cell(t *testing.T) {
	assert.Equal(t, "    1", DefaultFormat(Int).Cell(1))
	assert.Equal(t, "   -1", DefaultFormat(Int).Cell(-1))
	assert.Equal(t, "   3.000000E-01", DefaultFormat(Float).Cell(0.3))
	assert.Equal(t, "0.3", DefaultFormat(Float).Constant(0.3))
	assert.Equal(t, "1", DefaultFormat(Int).Constant(1))
}

// TestArray1D_String verifies that layer types are written as bare value
// lines, wrapping after PerLine entries.
func TestArray1D_String(t *testing.T) {
	a, err := New1D("LAYTYP", Int, 3, PerLayer([]float64{1, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, "    1    0    0\n", a.String())
	assert.Len(t, a.Values(), 3)

	wide, err := New1D("LAYTYP", Int, 12, Scalar(1))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(wide.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 50)
	assert.Len(t, lines[1], 10)
}

// TestArray3D_FileEntry checks constant-layer collapsing and INTERNAL
// block layout for a varying layer.
func TestArray3D_FileEntry(t *testing.T) {
	shape := model.Shape3D{Layers: 2, Rows: 2, Cols: 3}
	a, err := New3D("IBOUND", Int, shape, Cells([]float64{
		1, 1, 1,
		1, 1, 1,
		1, 1, 0,
		0, 1, 1,
	}))
	require.NoError(t, err)

	expected := "CONSTANT 1  #IBOUND LAYER 1\n" +
		"INTERNAL 1 (10I5) -1  #IBOUND LAYER 2\n" +
		"    1    1    0\n" +
		"    0    1    1\n"
	assert.Equal(t, expected, a.FileEntry())
}

func TestArray3D_FloatConstant(t *testing.T) {
	a, err := New3D("POROSITY", Float, model.Shape3D{Layers: 1, Rows: 2, Cols: 2}, Scalar(0.25))
	require.NoError(t, err)
	assert.Equal(t, "CONSTANT 0.25  #POROSITY LAYER 1\n", a.FileEntry())
}

func TestArray3D_Accessors(t *testing.T) {
	shape := model.Shape3D{Layers: 2, Rows: 1, Cols: 2}
	a, err := New3D("POROSITY", Float, shape, Cells([]float64{0.1, 0.2, 0.3, 0.4}))
	require.NoError(t, err)

	assert.Equal(t, []float64{0.3, 0.4}, a.Layer(1))
	lo, hi := a.Range()
	assert.Equal(t, 0.1, lo)
	assert.Equal(t, 0.4, hi)
	assert.Equal(t, 2, a.Count(func(v float64) bool { return v > 0.25 }))
}

// TestNew3D_RoundsIntegers makes sure integer arrays never carry
// fractional values into the file.
func TestNew3D_RoundsIntegers(t *testing.T) {
	a, err := New3D("IBOUND", Int, model.Shape3D{Layers: 1, Rows: 1, Cols: 2}, Cells([]float64{0.9, -1.2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1}, a.Layer(0))
}
