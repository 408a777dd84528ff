// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the money helpers used to
// move prices between major units (API) and minor units (storage).
package lib
