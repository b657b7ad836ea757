// Package mpbas implements the MODPATH 7 basic package (MPBAS) writer.
//
// A Package is constructed against a modpath.Model, from which it takes the
// grid shape, the flow-model version, the head values for inactive and dry
// cells, the layer types and the IBOUND array. Construction broadcasts all
// arrays over the 3-D grid shape, validates the default-iface mapping and
// registers the package with the model. WriteFile then emits the fixed
// layout MODPATH expects:
//
//	# # MPBAS package for MODPATH 7, generated by mpbas.
//	1e+30 -1e+30                      (omitted for MODFLOW 6)
//	1                   # DEFAULTIFACECOUNT
//	WEL                 # PACKAGE LABEL
//	6                   # DEFAULT IFACE VALUE
//	<LAYTYP values>                   (omitted for MODFLOW 6)
//	<IBOUND block>                    (omitted for MODFLOW 6)
//	<POROSITY block>
package mpbas
