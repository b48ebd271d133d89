// Package config loads and compiles randrd configuration data.
//
// The on-disk format is TOML: a [monitors] table naming each physical display
// by its EDID product/serial identity, and a [layouts] table of named layouts,
// each keyed by the exact monitor set that must be attached for it to apply.
// Parsing compiles the file into an immutable lookup table keyed by the
// canonical (sorted) monitor set, with each layout's framebuffer size
// precomputed, so the daemon's hot path is a single map lookup.
//
// A layout may only configure monitors present in its own monitors list;
// violations fail at load time, never inside a reconciliation pass.
package config
