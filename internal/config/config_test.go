package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

const sampleYAML = `
name: ex01
flow_version: mfnwt
shape: [3, 2, 2]
laytyp: [1, 0, 0]
hdry: -999.0
mpbas:
  porosity: [0.1, 0.2, 0.3]
  defaultiface:
    RECHARGE: 6
    ET: top
    WELLS: 0
`

const sampleJSONC = `{
	// grid of two layers
	"name": "ex02",
	"flow_version": "mf6",
	"shape": [2, 4],
	"mpbas": {
		"porosity": 0.25,
		/* insertion order matters */
		"defaultiface": {"RIVER LEAKAGE": 2, "DRAINS": "bottom", "ET": 6,},
	},
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_YAML(t *testing.T) {
	f, err := Parse([]byte(sampleYAML), ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "ex01", f.Name)
	assert.Equal(t, "mfnwt", f.FlowVersion)
	assert.Equal(t, []int{3, 2, 2}, f.Shape)
	assert.Equal(t, []float64{1, 0, 0}, f.Laytyp.Values)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, f.MPBAS.Porosity.Values)
	assert.Equal(t, model.DefaultIface{
		{Label: "RECHARGE", Face: model.FaceTop},
		{Label: "ET", Face: model.FaceTop},
		{Label: "WELLS", Face: model.FaceNone},
	}, f.MPBAS.DefaultIface.Entries)

	// Defaults fill what the document leaves out, explicit values stay.
	assert.Equal(t, "modpath7", f.Version)
	assert.Equal(t, "mpbas", f.MPBAS.Extension)
	require.NotNil(t, f.HNoFlo)
	assert.Equal(t, 1e30, *f.HNoFlo)
	require.NotNil(t, f.HDry)
	assert.Equal(t, -999.0, *f.HDry)

	assert.Empty(t, f.Validate())
}

func TestParse_JSONC(t *testing.T) {
	f, err := Parse([]byte(sampleJSONC), ".jsonc")
	require.NoError(t, err)

	assert.Equal(t, "ex02", f.Name)
	assert.Equal(t, []float64{0.25}, f.MPBAS.Porosity.Values)
	assert.Equal(t, model.DefaultIface{
		{Label: "RIVER LEAKAGE", Face: model.FaceEast},
		{Label: "DRAINS", Face: model.FaceBottom},
		{Label: "ET", Face: model.FaceTop},
	}, f.MPBAS.DefaultIface.Entries)
	assert.Empty(t, f.Validate())
}

// TestParse_ExplicitZeroHead checks that a head value of zero is not
// replaced by its default.
func TestParse_ExplicitZeroHead(t *testing.T) {
	f, err := Parse([]byte("shape: [1]\nhnoflo: 0\n"), ".yml")
	require.NoError(t, err)
	require.NotNil(t, f.HNoFlo)
	assert.Equal(t, 0.0, *f.HNoFlo)
}

func TestParse_NestedVolume(t *testing.T) {
	doc := "shape: [2, 2, 2]\nibound:\n  - [[1, 1], [0, 1]]\n  - [[1, -1], [1, 1]]\n"
	f, err := Parse([]byte(doc), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 1, 1, -1, 1, 1}, f.Ibound.Values)
	assert.Empty(t, f.Validate())
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("name = 'x'"), ".toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model description format")
}

// TestValidate_DefaultIface covers the ways a defaultiface entry can be
// rejected, in both formats.
func TestValidate_DefaultIface(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		ext     string
		field   string
		message string
	}{
		{
			name:    "yaml list",
			doc:     "shape: [1]\nmpbas:\n  defaultiface: [6, 5]\n",
			ext:     ".yaml",
			field:   "mpbas.defaultiface",
			message: "must be a mapping",
		},
		{
			name:    "json scalar",
			doc:     `{"shape": [1], "mpbas": {"defaultiface": 6}}`,
			ext:     ".json",
			field:   "mpbas.defaultiface",
			message: "must be a mapping",
		},
		{
			name:    "out of range",
			doc:     "shape: [1]\nmpbas:\n  defaultiface:\n    WEL: 6\n    RIV: 7\n",
			ext:     ".yaml",
			field:   "mpbas.defaultiface.RIV",
			message: "defaultiface for package RIV must be between 0 and 6 (7 specified)",
		},
		{
			name:    "negative json",
			doc:     `{"shape": [1], "mpbas": {"defaultiface": {"WEL": -1}}}`,
			ext:     ".json",
			field:   "mpbas.defaultiface.WEL",
			message: "(-1 specified)",
		},
		{
			name:    "unknown face name",
			doc:     "shape: [1]\nmpbas:\n  defaultiface:\n    WEL: sideways\n",
			ext:     ".yaml",
			field:   "mpbas.defaultiface",
			message: "defaultiface for package WEL",
		},
		{
			name:    "duplicate label",
			doc:     `{"shape": [1], "mpbas": {"defaultiface": {"WEL": 6, "WEL": 5}}}`,
			ext:     ".json",
			field:   "mpbas.defaultiface.WEL",
			message: "listed more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc), tt.ext)
			require.NoError(t, err)

			errs := f.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Contains(t, errs[0].Message, tt.message)
		})
	}
}

// TestValidate_AnyLabelText checks that wide and empty labels are accepted
// as long as every value is a valid face.
func TestValidate_AnyLabelText(t *testing.T) {
	doc := "shape: [1]\nmpbas:\n  defaultiface:\n    RIVER LEAKAGE TOO LONG: 3\n    \"\": 6\n"
	f, err := Parse([]byte(doc), ".yaml")
	require.NoError(t, err)

	assert.Empty(t, f.Validate())
	assert.Equal(t, model.DefaultIface{
		{Label: "RIVER LEAKAGE TOO LONG", Face: model.FaceSouth},
		{Label: "", Face: model.FaceTop},
	}, f.MPBAS.DefaultIface.Entries)
}

func TestValidate_CollectsAll(t *testing.T) {
	doc := `
name: a/b
version: modpath6
flow_version: mf96
shape: [2, 3]
laytyp: [1, 0, 0]
mpbas:
  porosity: [0.1, 0.2, 0.3, 0.4]
  extension: mp.bas
`
	f, err := Parse([]byte(doc), ".yaml")
	require.NoError(t, err)

	fields := make([]string, 0)
	for _, e := range f.Validate() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"name", "mpbas.extension", "version", "flow_version", "laytyp", "mpbas.porosity"}, fields)
}

func TestValidate_BadShapeSkipsArrays(t *testing.T) {
	f, err := Parse([]byte("shape: [0, 3]\nlaytyp: [1, 2, 3, 4]\n"), ".yaml")
	require.NoError(t, err)

	errs := f.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "shape", errs[0].Field)
}

func TestValidate_NonNumeric(t *testing.T) {
	f, err := Parse([]byte("shape: [1]\nibound: [1, x]\n"), ".yaml")
	require.NoError(t, err)

	errs := f.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "ibound", errs[0].Field)
	assert.Contains(t, errs[0].Message, "not a number")
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "mpbas.yaml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigNotFound, cliErr.Code)
}

func TestLoad_InvalidSyntax(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mpbas.json", `{"shape": [1`)
	_, err := Load(path)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitInvalidConfig, cliErr.Code)
}

func TestLoad_ResolvesWorkspace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mpbas.yaml", "shape: [1]\nworkspace: out\n")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())
	assert.Equal(t, filepath.Join(dir, "out"), f.Workspace)

	abs := filepath.Join(t.TempDir(), "abs")
	path = writeFile(t, dir, "abs.yaml", "shape: [1]\nworkspace: "+abs+"\n")
	f, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, f.Workspace)
}

// TestBuild_WritesPackage runs a description through to the package file.
func TestBuild_WritesPackage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mpbas.yaml", sampleYAML)

	f, err := Load(path)
	require.NoError(t, err)

	m, p, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, "ex01", m.Name())
	assert.Equal(t, model.FlowMFNWT, m.FlowVersion())
	assert.Equal(t, 3, p.DefaultIfaceCount())
	assert.Equal(t, []float64{1, 0, 0}, p.Laytyp().Values())

	require.NoError(t, m.WriteInput(false))
	data, err := os.ReadFile(filepath.Join(dir, "ex01.mpbas"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1e+30 -999\n")
	assert.Contains(t, string(data), "CONSTANT 0.2  #POROSITY LAYER 2")
}

func TestBuild_ReturnsAllErrors(t *testing.T) {
	f, err := Parse([]byte("flow_version: nope\n"), ".yaml")
	require.NoError(t, err)

	_, _, err = f.Build()
	require.Error(t, err)

	var vErrs ValidationErrors
	require.True(t, errors.As(err, &vErrs))
	assert.Len(t, vErrs, 2)
	assert.Contains(t, err.Error(), "flow_version")
	assert.Contains(t, err.Error(), "shape")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigNotFound, cliErr.Code)

	writeFile(t, dir, "mpbas.json", "{}")
	writeFile(t, dir, "mpbas.yml", "")

	path, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mpbas.yml"), path)
}

func TestSettings(t *testing.T) {
	s, err := parseSettings(env.Options{Environment: map[string]string{
		"MPBAS_CONFIG": "models/ex01.yaml",
		"MPBAS_DEBUG":  "true",
		"MPBAS_IMAGE":  "example/modpath:7.2",
	}})
	require.NoError(t, err)
	assert.Equal(t, Settings{
		Config:     "models/ex01.yaml",
		Debug:      true,
		Image:      "example/modpath:7.2",
		Executable: "mp7",
	}, s)

	_, err = parseSettings(env.Options{Environment: map[string]string{"MPBAS_DEBUG": "maybe"}})
	require.Error(t, err)
}
