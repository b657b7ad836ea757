package mpbas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mpbas/internal/array"
	"github.com/mmr-tortoise/mpbas/internal/model"
	"github.com/mmr-tortoise/mpbas/internal/modpath"
)

func TestCheck_Clean(t *testing.T) {
	m := newTestModel(t, model.FlowMF2005)
	p, err := New(m, Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Check())
}

// TestCheck_Findings exercises each advisory rule.
func TestCheck_Findings(t *testing.T) {
	m, err := modpath.NewModel(modpath.ModelOptions{
		Workspace: t.TempDir(),
		Shape:     model.Shape{2, 1, 2},
		Laytyp:    array.PerLayer([]float64{-1, 1}),
		Ibound:    array.Scalar(0),
	})
	require.NoError(t, err)

	p, err := New(m, Options{Porosity: array.Cells([]float64{0.3, 0, 1.5, 0.2})})
	require.NoError(t, err)

	findings := p.Check()
	fields := make([]string, 0, len(findings))
	for _, f := range findings {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"porosity", "ibound", "laytyp[0]"}, fields)
	assert.Contains(t, findings[0].Message, "2 cell(s)")

	// Findings are advisory: writing with check enabled still succeeds.
	require.NoError(t, p.WriteFile(true))
	assert.FileExists(t, p.FilePath())
}

// TestCheck_MF6SkipsIbound verifies that no IBOUND finding is produced when
// the flow model does not use one.
func TestCheck_MF6SkipsIbound(t *testing.T) {
	m, err := modpath.NewModel(modpath.ModelOptions{
		Workspace:   t.TempDir(),
		FlowVersion: model.FlowMF6,
		Shape:       model.Shape{1, 1, 1},
		Ibound:      array.Scalar(0),
	})
	require.NoError(t, err)

	p, err := New(m, Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Check())
}

func TestSummarize(t *testing.T) {
	m := newTestModel(t, model.FlowMF2005)
	p, err := New(m, Options{
		Porosity:     array.PerLayer([]float64{0.25, 0.35}),
		DefaultIface: model.DefaultIface{{Label: "WEL", Face: 6}},
	})
	require.NoError(t, err)

	s := p.Summarize()
	assert.Equal(t, PackageName, s.Package)
	assert.Equal(t, model.Shape3D{Layers: 2, Rows: 1, Cols: 3}, s.Shape)
	assert.Equal(t, 1, s.DefaultIfaceCount)
	assert.Equal(t, []model.IfaceAssignment{{Label: "WEL", Face: 6}}, s.DefaultIface)
	assert.Equal(t, []int{1, 0}, s.Laytyp)
	require.NotNil(t, s.ActiveCells)
	assert.Equal(t, 6, *s.ActiveCells)
	require.NotNil(t, s.HNoFlo)
	assert.Equal(t, 1e30, *s.HNoFlo)
	assert.Equal(t, [2]float64{0.25, 0.35}, s.Porosity)
}

func TestSummarize_MF6(t *testing.T) {
	m := newTestModel(t, model.FlowMF6)
	p, err := New(m, Options{})
	require.NoError(t, err)

	s := p.Summarize()
	assert.Nil(t, s.HNoFlo)
	assert.Nil(t, s.ActiveCells)
	assert.Nil(t, s.Laytyp)
	assert.Empty(t, s.DefaultIface)
}
