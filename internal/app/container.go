package app

import (
	"io"
	"os"

	"github.com/doeshing/readerstate/internal/application/doctor"
	"github.com/doeshing/readerstate/internal/application/state"
	"github.com/doeshing/readerstate/internal/infrastructure/config"
	"github.com/doeshing/readerstate/internal/infrastructure/history"
	"github.com/doeshing/readerstate/internal/infrastructure/paths"
	"github.com/doeshing/readerstate/internal/infrastructure/pdfmeta"
	"github.com/doeshing/readerstate/internal/pkg/clock"
	"github.com/doeshing/readerstate/internal/pkg/logger"
	"github.com/doeshing/readerstate/internal/ports"
)

// Options tune how the container is wired.
type Options struct {
	Verbose bool
	// DataDir pins every store into one directory.
	DataDir string
	// Mode overrides the location strategy (dev|portable|user).
	Mode string
	// DisableOpenLog skips the SQLite open log.
	DisableOpenLog bool
	Clock          clock.Clock
	// LogOutput receives log lines; stderr by default.
	LogOutput io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Resolver      *paths.Resolver
	ConfigStore   *config.FileStore
	HistoryStore  *history.FileStore
	OpenLog       ports.OpenLog
	OpenLogErr    error
	StateService  *state.Service
	DoctorService *doctor.Service
	Logger        ports.Logger
}

// New returns an empty container. Wire must run before any service is used.
func New() *Container {
	return &Container{}
}

// BuildContainer constructs the dependency graph.
func BuildContainer(opts Options) (*Container, error) {
	c := New()
	if err := c.Wire(opts); err != nil {
		return nil, err
	}
	return c, nil
}

// Wire builds every adapter and service from opts.
func (c *Container) Wire(opts Options) error {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log := logger.NewWriter(out, opts.Verbose)

	resolverOpts := []paths.Option{paths.WithDir(opts.DataDir)}
	if opts.Mode != "" {
		mode, err := paths.ParseMode(opts.Mode)
		if err != nil {
			return err
		}
		resolverOpts = append(resolverOpts, paths.WithMode(mode))
	}
	resolver := paths.NewResolver(resolverOpts...)

	configStore := config.NewFileStore(resolver, log)
	historyStore := history.NewFileStore(resolver, log)

	var openLog ports.OpenLog
	var openLogErr error
	if !opts.DisableOpenLog {
		openLog, openLogErr = openSQLiteLog(resolver)
		if openLogErr != nil {
			log.Warn("open log unavailable, continuing without statistics", map[string]interface{}{"error": openLogErr.Error()})
		} else {
			historyStore.WithRecorder(openLog)
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	c.Resolver = resolver
	c.ConfigStore = configStore
	c.HistoryStore = historyStore
	c.OpenLog = openLog
	c.OpenLogErr = openLogErr
	c.Logger = log
	c.StateService = &state.Service{
		Config:  configStore,
		History: historyStore,
		OpenLog: openLog,
		Pages:   pdfmeta.NewReader(),
		Clock:   clk,
		Logger:  log,
	}
	c.DoctorService = &doctor.Service{
		Mode:       string(resolver.Mode()),
		DataDir:    resolver.Dir,
		Config:     configStore.Peek,
		Stores:     []ports.StoreInspector{configStore, historyStore},
		OpenLog:    openLog,
		OpenLogErr: openLogErr,
	}

	log.Debug("container wired", map[string]interface{}{"mode": string(resolver.Mode())})
	return nil
}

// Close releases the open log.
func (c *Container) Close() error {
	if c.OpenLog == nil {
		return nil
	}
	return c.OpenLog.Close()
}

// openSQLiteLog returns a nil interface, not a typed nil, on failure.
func openSQLiteLog(resolver *paths.Resolver) (ports.OpenLog, error) {
	path, err := history.OpenLogPath(resolver)
	if err != nil {
		return nil, err
	}
	l, err := history.NewSQLiteOpenLog(path)
	if err != nil {
		return nil, err
	}
	return l, nil
}
