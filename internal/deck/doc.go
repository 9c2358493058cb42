// Package deck reads the text inputs of a case: the PVT table CSV, the grid
// keyword file and GRDECL-style property files.
//
// Readers return values in the units written in the file. Conversion to SI
// is the caller's job and happens once, in the config package.
package deck
