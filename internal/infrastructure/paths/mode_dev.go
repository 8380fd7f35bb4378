//go:build dev

package paths

// DefaultMode is the strategy compiled into builds made with -tags dev.
const DefaultMode = ModeDevelopment
