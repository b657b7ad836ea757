// Package model defines the domain types for the mpbas CLI.
//
// All entities in this package are transient: they are built from a model
// description file at startup and never persisted on their own. The only
// artifact written to disk is the MODPATH 7 basic package file itself.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the grid shape reported by the flow model.
//
// Structured grids (DIS) report three dimensions (nlay, nrow, ncol),
// vertex grids (DISV) report two (nlay, ncpl) and unstructured grids
// (DISU) report a single node count.
type Shape []int

// Validate checks that the shape has between one and three dimensions
// and that every extent is positive.
func (s Shape) Validate() error {
	if len(s) == 0 || len(s) > 3 {
		return fmt.Errorf("grid shape must have 1, 2 or 3 dimensions (got %d)", len(s))
	}
	for i, n := range s {
		if n < 1 {
			return fmt.Errorf("grid shape dimension %d must be positive (got %d)", i, n)
		}
	}
	return nil
}

// To3D pads the shape to (nlay, nrow, ncol).
//
// The padding rules are:
//
//	(nlay, nrow, ncol) → unchanged
//	(nlay, ncpl)       → (nlay, 1, ncpl)
//	(nodes)            → (1, 1, nodes)
//
// To3D assumes the shape has already been validated.
func (s Shape) To3D() Shape3D {
	switch len(s) {
	case 3:
		return Shape3D{Layers: s[0], Rows: s[1], Cols: s[2]}
	case 2:
		return Shape3D{Layers: s[0], Rows: 1, Cols: s[1]}
	default:
		return Shape3D{Layers: 1, Rows: 1, Cols: s[0]}
	}
}

// String returns the shape as a parenthesized tuple, e.g. "(3, 10, 20)".
func (s Shape) String() string {
	parts := make([]string, 0, len(s))
	for _, n := range s {
		parts = append(parts, strconv.Itoa(n))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Shape3D is a grid shape padded to exactly three dimensions.
type Shape3D struct {
	Layers int `json:"nlay" yaml:"nlay"`
	Rows   int `json:"nrow" yaml:"nrow"`
	Cols   int `json:"ncol" yaml:"ncol"`
}

// LayerSize returns the number of cells in a single layer.
func (s Shape3D) LayerSize() int {
	return s.Rows * s.Cols
}

// Size returns the total number of cells in the grid.
func (s Shape3D) Size() int {
	return s.Layers * s.Rows * s.Cols
}

// String returns the shape as "(nlay, nrow, ncol)".
func (s Shape3D) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Layers, s.Rows, s.Cols)
}

// FlowVersion identifies the MODFLOW variant that produced the flow
// solution MODPATH tracks particles through.
type FlowVersion string

const (
	// FlowMF2005 is MODFLOW-2005.
	FlowMF2005 FlowVersion = "mf2005"

	// FlowMFNWT is MODFLOW-NWT.
	FlowMFNWT FlowVersion = "mfnwt"

	// FlowMFUSG is MODFLOW-USG.
	FlowMFUSG FlowVersion = "mfusg"

	// FlowMF6 is MODFLOW 6. Its basic package omits the head parameters,
	// the layer types and the IBOUND array because MODPATH reads them from
	// the MODFLOW 6 grid and budget files instead.
	FlowMF6 FlowVersion = "mf6"
)

// String returns the string representation of FlowVersion.
func (v FlowVersion) String() string {
	return string(v)
}

// IsValid checks whether the FlowVersion is one of the supported versions.
func (v FlowVersion) IsValid() bool {
	switch v {
	case FlowMF2005, FlowMFNWT, FlowMFUSG, FlowMF6:
		return true
	default:
		return false
	}
}

// IsMF6 reports whether the flow model is MODFLOW 6.
func (v FlowVersion) IsMF6() bool {
	return v == FlowMF6
}

// ParseFlowVersion converts a string to a FlowVersion.
// Returns an error if the string does not match any supported version.
func ParseFlowVersion(s string) (FlowVersion, error) {
	v := FlowVersion(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("invalid flow model version: %q (valid: mf2005, mfnwt, mfusg, mf6)", s)
	}
	return v, nil
}

// Face is a MODPATH IFACE value: the cell face that flow from a stress
// package is assigned to.
type Face int

const (
	// FaceNone treats the flow as distributed inside the cell.
	FaceNone Face = 0
	// FaceWest is the column-wise face at the lower column index.
	FaceWest Face = 1
	// FaceEast is the column-wise face at the higher column index.
	FaceEast Face = 2
	// FaceSouth is the row-wise face at the higher row index.
	FaceSouth Face = 3
	// FaceNorth is the row-wise face at the lower row index.
	FaceNorth Face = 4
	// FaceBottom is the bottom face of the cell.
	FaceBottom Face = 5
	// FaceTop is the top face of the cell.
	FaceTop Face = 6
)

// MinFace and MaxFace bound the valid IFACE range.
const (
	MinFace = FaceNone
	MaxFace = FaceTop
)

var faceNames = map[string]Face{
	"none":   FaceNone,
	"west":   FaceWest,
	"east":   FaceEast,
	"south":  FaceSouth,
	"north":  FaceNorth,
	"bottom": FaceBottom,
	"top":    FaceTop,
}

// IsValid reports whether the face lies in [0, 6].
func (f Face) IsValid() bool {
	return f >= MinFace && f <= MaxFace
}

// String returns the face name for valid faces and the bare number otherwise.
func (f Face) String() string {
	for name, v := range faceNames {
		if v == f {
			return name
		}
	}
	return strconv.Itoa(int(f))
}

// ParseFace converts an integer string or a face name ("top", "bottom",
// "west", ...) to a Face. The range is not checked here so that callers
// can report the offending label alongside the value.
func ParseFace(s string) (Face, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Face(n), nil
	}
	if f, ok := faceNames[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("invalid iface %q: must be an integer between 0 and 6 or a face name", s)
}

// MaxLabelWidth is the width of the label column in the basic package file.
// Longer labels are written in full and run into the trailing comment.
const MaxLabelWidth = 20

// IfaceAssignment maps the budget text label of a stress package (for
// example "WELLS" or "RECHARGE") to the face its flows are assigned to.
type IfaceAssignment struct {
	Label string `json:"label" yaml:"label"`
	Face  Face   `json:"iface" yaml:"iface"`
}

// DefaultIface is the ordered mapping of package labels to IFACE values.
// Order is significant: entries are written to the package file in the
// order they were declared.
type DefaultIface []IfaceAssignment

// Validate checks every assignment. The first problem found is returned as
// a *ValidationError naming the offending label.
//
// Only the face range and label uniqueness are enforced. Any label text is
// accepted, including empty and over-wide labels; Package.Check reports
// those as advisory findings.
func (d DefaultIface) Validate() error {
	seen := make(map[string]struct{}, len(d))
	for _, a := range d {
		if !a.Face.IsValid() {
			return &ValidationError{
				Field:   "defaultiface." + a.Label,
				Message: fmt.Sprintf("defaultiface for package %s must be between %d and %d (%d specified)", a.Label, MinFace, MaxFace, a.Face),
			}
		}
		if _, dup := seen[a.Label]; dup {
			return &ValidationError{
				Field:   "defaultiface." + a.Label,
				Message: fmt.Sprintf("package label %s is listed more than once", a.Label),
			}
		}
		seen[a.Label] = struct{}{}
	}
	return nil
}
