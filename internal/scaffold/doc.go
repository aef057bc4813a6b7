// Package scaffold creates the folder and starter documents of a trip. Every
// step is guarded by an existence check so repeated runs never overwrite
// anything, and every step produces a Report whether it created the entry,
// found it already there, or failed. Document bodies come from template
// documents in the vault when present, otherwise from embedded defaults.
package scaffold
