// Package cycles reads the free-running hardware cycle counter.
//
// The counter is read with a single instruction and no serialization, so a
// read costs a few dozen cycles at most. Only amd64 (TSC) and arm64 (virtual
// counter) are supported; any other GOARCH fails to build because Read has
// no body there.
package cycles

// Read returns the current value of the hardware cycle counter.
// Successive reads on one CPU are non-decreasing modulo counter wraparound.
//
//go:noescape
func Read() int64
