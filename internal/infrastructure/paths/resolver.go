// Package paths computes where each named store lives on disk.
//
// One Resolver is shared by every store of a process, so config.json and
// pdf-history.json always land in the same directory under the same strategy.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/pkg/filesystem"
)

// Mode selects the location strategy.
type Mode string

const (
	// ModeDevelopment anchors stores at the project root, DevAnchorDepth
	// directories above the running binary.
	ModeDevelopment Mode = "dev"
	// ModePortable keeps stores next to the running executable.
	ModePortable Mode = "portable"
	// ModeUser uses the per-user application configuration directory.
	ModeUser Mode = "user"
)

const (
	// AppDirName is the directory created under os.UserConfigDir().
	AppDirName = "readerstate"
	// DevAnchorDepth is how many parents of the executable's directory to
	// walk up in development mode (<project>/bin/readerstate -> <project>).
	DevAnchorDepth = 1

	EnvHome = "READERSTATE_HOME"
	EnvMode = "READERSTATE_MODE"
)

// Host exposes the environment queries the resolver depends on.
type Host struct {
	Executable    func() (string, error)
	UserConfigDir func() (string, error)
	Getenv        func(string) string
	MkdirAll      func(string, os.FileMode) error
}

// OSHost returns a Host backed by the os package.
func OSHost() Host {
	return Host{
		Executable:    os.Executable,
		UserConfigDir: os.UserConfigDir,
		Getenv:        os.Getenv,
		MkdirAll:      os.MkdirAll,
	}
}

// Location is a resolved store file and its parent directory.
type Location struct {
	Path string
	Dir  string
}

// Resolver maps store names to locations.
type Resolver struct {
	mode    Mode
	modeSet bool
	dir     string
	host    Host
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMode forces the location strategy, taking precedence over READERSTATE_MODE.
func WithMode(mode Mode) Option {
	return func(r *Resolver) {
		r.mode = mode
		r.modeSet = true
	}
}

// WithDir pins every store into dir, taking precedence over READERSTATE_HOME.
func WithDir(dir string) Option {
	return func(r *Resolver) {
		if dir != "" {
			r.dir = filesystem.ExpandPath(dir)
		}
	}
}

// WithHost replaces the environment queries (tests).
func WithHost(host Host) Option {
	return func(r *Resolver) {
		r.host = host
	}
}

// NewResolver builds a resolver. Explicit options win over environment
// variables, which win over the compiled-in DefaultMode.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{mode: DefaultMode, host: OSHost()}
	for _, opt := range opts {
		opt(r)
	}

	if !r.modeSet {
		if raw := r.host.Getenv(EnvMode); raw != "" {
			if mode, err := ParseMode(raw); err == nil {
				r.mode = mode
			}
		}
	}
	if r.dir == "" {
		if custom := r.host.Getenv(EnvHome); custom != "" {
			r.dir = filesystem.ExpandPath(custom)
		}
	}
	return r
}

// ParseMode converts a user supplied string into a Mode.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDevelopment, "debug", "development":
		return ModeDevelopment, nil
	case ModePortable, "release":
		return ModePortable, nil
	case ModeUser:
		return ModeUser, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want dev|portable|user)", raw)
	}
}

// Mode returns the active strategy.
func (r *Resolver) Mode() Mode {
	return r.mode
}

// Dir returns the directory holding all stores, creating it when the
// strategy owns it (user mode or an explicit override).
func (r *Resolver) Dir() (string, error) {
	if r.dir != "" {
		if err := r.host.MkdirAll(r.dir, domain.DirectoryPermissions); err != nil {
			return "", fmt.Errorf("create %s: %w", r.dir, err)
		}
		return r.dir, nil
	}

	switch r.mode {
	case ModeDevelopment:
		exeDir, err := r.executableDir()
		if err != nil {
			return "", err
		}
		return walkUp(exeDir, DevAnchorDepth)
	case ModePortable:
		return r.executableDir()
	case ModeUser:
		base, err := r.host.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("user config dir: %w", err)
		}
		if base == "" {
			return "", errors.New("user config dir is empty")
		}
		dir := filepath.Join(base, AppDirName)
		if err := r.host.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
		return dir, nil
	default:
		return "", fmt.Errorf("unknown mode %q", r.mode)
	}
}

// Resolve returns the location of the named store ("<dir>/<store>.json").
func (r *Resolver) Resolve(store string) (Location, error) {
	dir, err := r.Dir()
	if err != nil {
		return Location{}, &domain.PathResolutionError{Store: store, Mode: string(r.mode), Err: err}
	}
	return Location{Path: filepath.Join(dir, store+".json"), Dir: dir}, nil
}

// Locator binds Resolve to one store name.
func (r *Resolver) Locator(store string) func() (Location, error) {
	return func() (Location, error) {
		return r.Resolve(store)
	}
}

func (r *Resolver) executableDir() (string, error) {
	exe, err := r.host.Executable()
	if err != nil {
		return "", fmt.Errorf("executable path: %w", err)
	}
	if exe == "" {
		return "", errors.New("executable path is empty")
	}
	return filepath.Dir(exe), nil
}

func walkUp(dir string, depth int) (string, error) {
	current := filepath.Clean(dir)
	for i := 0; i < depth; i++ {
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%s has fewer than %d parent directories", dir, depth)
		}
		current = parent
	}
	return current, nil
}
