// Package trip turns a trip request (destination, month, optional duration)
// into the vault location where its notes live. Derivation is pure: it never
// touches the filesystem, so callers can reject bad input before any side
// effect happens.
package trip
