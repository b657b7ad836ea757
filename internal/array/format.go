package array

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the element type of an array as it appears on disk.
type Kind int

const (
	// Int arrays hold integer flags (IBOUND, LAYTYP).
	Int Kind = iota
	// Float arrays hold real values (POROSITY).
	Float
)

// Format describes how values are laid out in an INTERNAL block. It maps
// one-to-one onto a Fortran edit descriptor such as (10I5) or (10E15.6).
type Format struct {
	Kind     Kind
	PerLine  int
	Width    int
	Decimals int
}

// DefaultFormat returns the format used for arrays of the given kind.
func DefaultFormat(kind Kind) Format {
	if kind == Int {
		return Format{Kind: Int, PerLine: 10, Width: 5}
	}
	return Format{Kind: Float, PerLine: 10, Width: 15, Decimals: 6}
}

// Fortran returns the edit descriptor, e.g. "(10I5)" or "(10E15.6)".
func (f Format) Fortran() string {
	if f.Kind == Int {
		return fmt.Sprintf("(%dI%d)", f.PerLine, f.Width)
	}
	return fmt.Sprintf("(%dE%d.%d)", f.PerLine, f.Width, f.Decimals)
}

// Cell formats a single value right-justified to Width characters.
func (f Format) Cell(v float64) string {
	if f.Kind == Int {
		return fmt.Sprintf("%*d", f.Width, int64(math.Round(v)))
	}
	return fmt.Sprintf("%*.*E", f.Width, f.Decimals, v)
}

// Constant formats a value for a CONSTANT control record.
func (f Format) Constant(v float64) string {
	if f.Kind == Int {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strings.ToUpper(strconv.FormatFloat(v, 'G', -1, 32))
}

// writeRows renders values as rows of rowLen entries, wrapping every
// PerLine values and starting a new line at the end of every row.
func (f Format) writeRows(b *strings.Builder, values []float64, rowLen int) {
	perLine := f.PerLine
	if perLine < 1 {
		perLine = 1
	}
	for start := 0; start < len(values); start += rowLen {
		end := start + rowLen
		if end > len(values) {
			end = len(values)
		}
		for i, v := range values[start:end] {
			b.WriteString(f.Cell(v))
			if (i+1)%perLine == 0 || start+i+1 == end {
				b.WriteByte('\n')
			}
		}
	}
}
