//go:build !dev

package paths

// DefaultMode is the strategy compiled into release builds.
const DefaultMode = ModeUser
