// Package config handles loading, validation and building of mpbas model
// description files.
//
// A model description is a YAML (.yaml, .yml) or JSONC (.json, .jsonc)
// document naming the grid shape, flow-model version, head values, layer
// types, IBOUND and the basic package inputs:
//
//	name: ex01
//	flow_version: mf2005
//	shape: [3, 21, 20]
//	laytyp: [1, 0, 0]
//	mpbas:
//	  porosity: 0.1
//	  defaultiface:
//	    RECHARGE: 6
//	    ET: top
//
// JSONC (JSON with Comments) is supported via github.com/tidwall/jsonc.
// The defaultiface mapping keeps document order in both formats because
// that order is reproduced in the package file.
//
// Environment settings for the CLI (MPBAS_*) are parsed with
// github.com/caarlos0/env.
package config
