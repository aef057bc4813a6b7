// Package cli defines the Cobra command tree for the tripkit CLI. Each file
// registers one top-level command with the root command. Commands only parse
// flags, load settings, and format output; the work happens in the internal
// packages they call.
package cli
