// Package array broadcasts scalar, per-layer and full-volume inputs over a
// grid shape and renders them as MODPATH array blocks.
//
// A 3-D array is written one layer at a time. Uniform layers collapse to a
// single CONSTANT control record; other layers are written INTERNAL, with a
// Fortran format descriptor followed by fixed-width value rows:
//
//	CONSTANT 0.3  #POROSITY LAYER 1
//	INTERNAL 1 (10I5) -1  #IBOUND LAYER 2
//	    1    1    0
//
// 1-D arrays (layer types) are written as bare value lines with no control
// record, matching how MODPATH reads LAYTYP.
package array
